package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/goliatone/go-formfill/internal/metrics"
	"github.com/goliatone/go-formfill/pkg/fieldtree"
	"github.com/goliatone/go-formfill/pkg/layout"
	"github.com/goliatone/go-formfill/pkg/mapper"
	"github.com/goliatone/go-formfill/pkg/pathindex"
	"github.com/goliatone/go-formfill/pkg/record"
	"github.com/goliatone/go-formfill/pkg/writer"
)

// ErrValidation wraps record validation failures returned by Fill.
var ErrValidation = errors.New("orchestrator: record failed validation")

// Prompter completes a record interactively before mapping.
type Prompter interface {
	CompleteRecord(ctx context.Context, rec *record.Record) ([]string, error)
	AskElections(ctx context.Context, rec *record.Record) ([]string, error)
}

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLogger routes pipeline warnings to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithProfiles replaces the bundled layout profiles.
func WithProfiles(store *layout.Store) Option {
	return func(o *Orchestrator) {
		o.profiles = store
	}
}

// WithProfileFS loads layout profiles from fsys instead of the bundled set.
func WithProfileFS(fsys fs.FS) Option {
	return func(o *Orchestrator) {
		store, err := layout.LoadFS(fsys)
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: load profiles: %w", err)
			return
		}
		o.profiles = store
	}
}

// WithDumpFS configures the filesystem used for fieldtree.SourceFromFS.
func WithDumpFS(fsys fs.FS) Option {
	return func(o *Orchestrator) {
		o.loader = fieldtree.NewLoader(fsys)
	}
}

// WithClock injects the clock used for default dates and run timing.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

// WithMetrics records every Fill run on recorder.
func WithMetrics(recorder *metrics.Recorder) Option {
	return func(o *Orchestrator) {
		o.metrics = recorder
	}
}

// WithStrict makes the writer reject values that break a field's maximum
// length or its option list.
func WithStrict() Option {
	return func(o *Orchestrator) {
		o.strict = true
	}
}

// WithPrompter enables interactive completion for requests that ask for it.
func WithPrompter(p Prompter) Option {
	return func(o *Orchestrator) {
		o.prompter = p
	}
}

// WithSanitizer cleans free text before mapping; changes surface as
// warnings. Text is written verbatim by default.
func WithSanitizer(s mapper.Sanitizer) Option {
	return func(o *Orchestrator) {
		o.sanitizer = s
	}
}

// WithMaxDepth treats field dump nodes nested deeper than depth as corrupt.
func WithMaxDepth(depth int) Option {
	return func(o *Orchestrator) {
		o.maxDepth = depth
	}
}

// Orchestrator coordinates the full pipeline from a blank field dump and an
// input record to a filled field dump.
type Orchestrator struct {
	logger        *slog.Logger
	profiles      *layout.Store
	loader        *fieldtree.Loader
	now           func() time.Time
	metrics       *metrics.Recorder
	strict        bool
	prompter      Prompter
	sanitizer     mapper.Sanitizer
	maxDepth      int
	initialiseErr error
}

// New constructs an Orchestrator. Missing dependencies fall back to the
// bundled layout profiles, a discarding logger and the wall clock.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{now: time.Now}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

func (o *Orchestrator) applyDefaults() {
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.loader == nil {
		o.loader = fieldtree.NewLoader(nil)
	}
	if o.profiles == nil && o.initialiseErr == nil {
		store, err := layout.LoadFS(layout.EmbeddedFS())
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: load bundled profiles: %w", err)
			return
		}
		o.profiles = store
	}
}

// Document is a loaded field dump with its tree and path index.
type Document struct {
	Source      string
	Tree        *fieldtree.Tree
	Index       *pathindex.Index
	Diagnostics fieldtree.Diagnostics
}

// Discover loads the dump at src and builds its field tree and path index.
// Corrupt subtrees and duplicate paths are logged and kept on the Document.
func (o *Orchestrator) Discover(ctx context.Context, src fieldtree.Source) (Document, error) {
	if ctx == nil {
		return Document{}, errors.New("orchestrator: context is required")
	}
	if err := o.initialiseErr; err != nil {
		return Document{}, err
	}
	if src == nil {
		return Document{}, errors.New("orchestrator: field dump source is required")
	}
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}

	roots, err := o.loader.Load(ctx, src)
	if err != nil {
		return Document{}, fmt.Errorf("orchestrator: load field dump: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}

	var buildOpts []fieldtree.BuildOption
	if o.maxDepth > 0 {
		buildOpts = append(buildOpts, fieldtree.WithMaxDepth(o.maxDepth))
	}
	tree, diags := fieldtree.Build(roots, buildOpts...)
	idx := pathindex.Build(tree)

	for _, w := range diags.Warnings {
		o.logger.Warn("dropped corrupt field node",
			"source", src.Location(),
			"code", w.Code,
			"name", w.RawName,
			"depth", w.Depth,
			"dropped", w.Dropped,
			"reason", w.Message,
		)
	}
	for _, c := range idx.Conflicts() {
		o.logger.Warn("duplicate field path, later node kept",
			"source", src.Location(),
			"path", c.Path,
		)
	}
	o.logger.Debug("field tree built", "source", src.Location(), "nodes", tree.Len(), "paths", idx.Len())

	return Document{
		Source:      src.Location(),
		Tree:        tree,
		Index:       idx,
		Diagnostics: diags,
	}, nil
}

// Profile returns the layout registered under id, or the bundled default
// when id is empty.
func (o *Orchestrator) Profile(id string) (layout.Profile, error) {
	if err := o.initialiseErr; err != nil {
		return layout.Profile{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		id = layout.DefaultProfileID
	}
	profile, ok := o.profiles.Profile(id)
	if !ok {
		return layout.Profile{}, fmt.Errorf("orchestrator: layout profile %q not found (available: %s)", id, strings.Join(o.profiles.IDs(), ", "))
	}
	return profile, nil
}

// ProfileIDs lists the registered layout profiles.
func (o *Orchestrator) ProfileIDs() []string {
	return o.profiles.IDs()
}

func (o *Orchestrator) mapper(profile layout.Profile) *mapper.Mapper {
	return mapper.New(
		mapper.WithLayout(profile),
		mapper.WithClock(o.now),
		mapper.WithSanitizer(o.sanitizer),
	)
}

func (o *Orchestrator) writer() *writer.Writer {
	if o.strict {
		return writer.New(writer.WithStrict())
	}
	return writer.New()
}
