// Package report renders the console output of the discover, fill and
// inspect commands from pongo2 templates bundled with the binary.
package report

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
)

//go:embed templates/*.tpl
var embeddedTemplates embed.FS

// Template names.
const (
	TemplateDiscover = "discover"
	TemplateFill     = "fill"
	TemplateInspect  = "inspect"
)

const templateExt = ".tpl"

// Option configures an Engine.
type Option func(*config)

type config struct {
	templates fs.FS
}

// WithFS loads templates from files instead of the bundled set. Missing
// templates are not looked up in the bundled set.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.templates = files
		}
	}
}

// Engine renders report templates.
type Engine struct {
	mu        sync.Mutex
	set       *pongo2.TemplateSet
	templates map[string]*pongo2.Template
}

// New constructs an Engine.
func New(options ...Option) (*Engine, error) {
	cfg := &config{}
	for _, opt := range options {
		if opt != nil {
			opt(cfg)
		}
	}
	if cfg.templates == nil {
		sub, err := fs.Sub(embeddedTemplates, "templates")
		if err != nil {
			return nil, fmt.Errorf("report: templates: %w", err)
		}
		cfg.templates = sub
	}

	set := pongo2.NewSet("formfill-report", pongo2.NewFSLoader(cfg.templates))
	set.Options.TrimBlocks = true
	set.Options.LStripBlocks = true
	return &Engine{set: set, templates: make(map[string]*pongo2.Template)}, nil
}

// Render executes the named template with data bound to "d" and writes the
// result to out.
func (e *Engine) Render(out io.Writer, name string, data any) error {
	if e == nil || e.set == nil {
		return errors.New("report: engine is nil")
	}
	tpl, err := e.template(name)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := tpl.ExecuteWriter(pongo2.Context{"d": data}, &buf); err != nil {
		return fmt.Errorf("report: execute %q: %w", name, err)
	}
	text := strings.TrimLeft(buf.String(), "\n")
	if _, err := io.WriteString(out, text); err != nil {
		return fmt.Errorf("report: write %q: %w", name, err)
	}
	return nil
}

// RenderString is Render into a string.
func (e *Engine) RenderString(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := e.Render(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (e *Engine) template(name string) (*pongo2.Template, error) {
	path := name
	if !strings.HasSuffix(path, templateExt) {
		path += templateExt
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if tpl, ok := e.templates[path]; ok {
		return tpl, nil
	}
	tpl, err := e.set.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("report: load template %q: %w", path, err)
	}
	e.templates[path] = tpl
	return tpl, nil
}
