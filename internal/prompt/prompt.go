// Package prompt asks the operator for record values the input file left
// out, so an interactive fill can still pass validation.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formfill/pkg/record"
	"github.com/goliatone/go-formfill/pkg/transform"
)

// ErrAborted signals the user aborted input (e.g., Ctrl+C).
var ErrAborted = errors.New("prompt: aborted")

var labels = map[string]string{
	record.FieldFirstName:   "Veteran first name",
	record.FieldLastName:    "Veteran last name",
	record.FieldDateOfBirth: "Date of birth (MM/DD/YYYY)",
}

var electionLabels = map[string]string{
	record.ElectionCompensation:        "Compensation",
	record.ElectionPension:             "Pension",
	record.ElectionSurvivorsPensionDIC: "Survivors pension and/or DIC",
}

// Option configures a Prompter.
type Option func(*Prompter)

// WithDriver overrides the terminal driver.
func WithDriver(driver Driver) Option {
	return func(p *Prompter) {
		if driver != nil {
			p.driver = driver
		}
	}
}

// Prompter fills record gaps interactively.
type Prompter struct {
	driver Driver
}

// New constructs a Prompter backed by survey unless WithDriver is given.
func New(options ...Option) *Prompter {
	p := &Prompter{driver: SurveyDriver()}
	for _, opt := range options {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// CompleteRecord asks for every missing required field and stores the
// answers in rec. It returns the fields that were filled.
func (p *Prompter) CompleteRecord(ctx context.Context, rec *record.Record) ([]string, error) {
	if rec == nil {
		return nil, errors.New("prompt: record is nil")
	}
	missing := rec.Missing()
	if len(missing) == 1 && missing[0] == "veteran_info" {
		missing = record.RequiredFields
	}

	var filled []string
	for _, field := range missing {
		cfg := InputConfig{
			Message:   labels[field] + ":",
			Help:      "Required on the form; the value is not saved back to the input file.",
			Validator: requireText,
		}
		if field == record.FieldDateOfBirth {
			cfg.Validator = requireDate
		}
		answer, err := p.driver.Input(ctx, cfg)
		if err != nil {
			return filled, fmt.Errorf("prompt: %s: %w", field, err)
		}
		if err := rec.SetField(field, strings.TrimSpace(answer)); err != nil {
			return filled, err
		}
		filled = append(filled, field)
	}
	return filled, nil
}

// AskElections offers every election when the record selects none. Answers
// are stored as FlagTrue or FlagFalse. It returns the elections selected.
func (p *Prompter) AskElections(ctx context.Context, rec *record.Record) ([]string, error) {
	if rec == nil {
		return nil, errors.New("prompt: record is nil")
	}
	for _, key := range record.ElectionKeys {
		if flag, _ := rec.BenefitElection.Get(key); flag.Selected() {
			return nil, nil
		}
	}

	var selected []string
	for _, key := range record.ElectionKeys {
		yes, err := p.driver.Confirm(ctx, ConfirmConfig{
			Message: fmt.Sprintf("Intend to file for %s?", electionLabels[key]),
		})
		if err != nil {
			return selected, fmt.Errorf("prompt: election %s: %w", key, err)
		}
		if err := rec.BenefitElection.Set(key, record.FlagOf(yes)); err != nil {
			return selected, err
		}
		if yes {
			selected = append(selected, key)
		}
	}
	return selected, nil
}

func requireText(value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New("a value is required")
	}
	return nil
}

func requireDate(value string) error {
	if err := requireText(value); err != nil {
		return err
	}
	if _, w := transform.SplitDate(value); w != nil {
		return errors.New(w.Message)
	}
	return nil
}
