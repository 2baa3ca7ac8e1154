package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-formfill/internal/metrics"
	"github.com/goliatone/go-formfill/internal/prompt"
	"github.com/goliatone/go-formfill/pkg/fieldtree"
	"github.com/goliatone/go-formfill/pkg/mapper"
	"github.com/goliatone/go-formfill/pkg/orchestrator"
	"github.com/goliatone/go-formfill/pkg/record"
	"github.com/goliatone/go-formfill/pkg/report"
)

const usage = `Usage: %s <command> [flags]

Commands:
  discover  list every field of a field dump
  fill      fill a blank field dump from an input record
  inspect   show the values held by a filled field dump

Run "%s <command> -h" for the flags of a command.
`

func main() {
	log.SetFlags(0)
	prog := filepath.Base(os.Args[0])
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, usage, prog, prog)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "discover":
		err = runDiscover(ctx, args)
	case "fill":
		err = runFill(ctx, args)
	case "inspect":
		err = runInspect(ctx, args)
	case "-h", "-help", "--help", "help":
		fmt.Fprintf(os.Stdout, usage, prog, prog)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		fmt.Fprintf(os.Stderr, usage, prog, prog)
		os.Exit(2)
	}
	if err != nil {
		var verr *record.ValidationError
		if errors.As(err, &verr) {
			log.Fatalf("Input record is incomplete, missing: %s", strings.Join(verr.Missing, ", "))
		}
		if errors.Is(err, prompt.ErrAborted) {
			log.Fatalf("Aborted")
		}
		log.Fatalf("%s: %v", os.Args[1], err)
	}
}

type commonFlags struct {
	dump      string
	profile   string
	profiles  string
	templates string
	verbose   bool
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.dump, "dump", "", "field dump path (JSON or YAML)")
	fs.StringVar(&c.profile, "profile", "", "layout profile id (default va-21-0966)")
	fs.StringVar(&c.profiles, "profiles", "", "directory of layout profiles replacing the bundled set")
	fs.StringVar(&c.templates, "templates", "", "directory of report templates replacing the bundled set")
	fs.BoolVar(&c.verbose, "v", false, "log pipeline details to stderr")
}

func (c *commonFlags) options() []orchestrator.Option {
	level := slog.LevelWarn
	if c.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	opts := []orchestrator.Option{orchestrator.WithLogger(logger)}
	if c.profiles != "" {
		opts = append(opts, orchestrator.WithProfileFS(os.DirFS(c.profiles)))
	}
	return opts
}

func (c *commonFlags) engine() (*report.Engine, error) {
	if c.templates != "" {
		return report.New(report.WithFS(os.DirFS(c.templates)))
	}
	return report.New()
}

func (c *commonFlags) source() (fieldtree.Source, error) {
	if strings.TrimSpace(c.dump) == "" {
		return nil, errors.New("-dump is required")
	}
	return fieldtree.SourceFromFile(c.dump), nil
}

func runDiscover(ctx context.Context, args []string) error {
	var common commonFlags
	fs := flag.NewFlagSet("discover", flag.ExitOnError)
	common.register(fs)
	out := fs.String("out", "", "write the discovered fields as JSON to this file")
	maxDepth := fs.Int("max-depth", 0, "treat nodes nested deeper than this as corrupt (0 disables)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	src, err := common.source()
	if err != nil {
		return err
	}
	engine, err := common.engine()
	if err != nil {
		return err
	}
	gen := orchestrator.New(append(common.options(), orchestrator.WithMaxDepth(*maxDepth))...)

	doc, err := gen.Discover(ctx, src)
	if err != nil {
		return err
	}
	if err := engine.Render(os.Stdout, report.TemplateDiscover, report.NewDiscovery(doc.Source, doc.Tree, doc.Index, doc.Diagnostics)); err != nil {
		return err
	}
	if *out != "" {
		if err := writeJSON(*out, report.Fields(doc.Tree, doc.Index)); err != nil {
			return err
		}
		fmt.Printf("\nField mapping written to %s\n", *out)
	}
	return nil
}

func runFill(ctx context.Context, args []string) error {
	var common commonFlags
	fs := flag.NewFlagSet("fill", flag.ExitOnError)
	common.register(fs)
	input := fs.String("input", "", "input record path (JSON or YAML)")
	outDir := fs.String("out", "output", "directory for the filled field dump")
	format := fs.String("format", "json", "filled dump format: json or yaml")
	interactive := fs.Bool("interactive", false, "prompt for missing required fields and benefit elections")
	strict := fs.Bool("strict", false, "reject values longer than a field allows or outside its options")
	sanitize := fs.Bool("sanitize", false, "strip markup from free text, reporting every changed value")
	valuesOut := fs.String("values", "", "write the computed path to value map as JSON to this file")
	reportOut := fs.String("report", "", "write the per-field write report as JSON to this file")
	metricsOut := fs.String("metrics", "", "write run metrics in Prometheus textfile format to this file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	src, err := common.source()
	if err != nil {
		return err
	}
	if strings.TrimSpace(*input) == "" {
		return errors.New("-input is required")
	}
	dumpFormat, err := parseFormat(*format)
	if err != nil {
		return err
	}
	engine, err := common.engine()
	if err != nil {
		return err
	}

	opts := common.options()
	var recorder *metrics.Recorder
	if *metricsOut != "" {
		recorder = metrics.NewRecorder()
		opts = append(opts, orchestrator.WithMetrics(recorder))
	}
	if *strict {
		opts = append(opts, orchestrator.WithStrict())
	}
	if *sanitize {
		opts = append(opts, orchestrator.WithSanitizer(mapper.StrictSanitizer()))
	}
	if *interactive {
		opts = append(opts, orchestrator.WithPrompter(prompt.New()))
	}
	gen := orchestrator.New(opts...)

	res, fillErr := gen.Fill(ctx, orchestrator.Request{
		Dump:        src,
		RecordPath:  *input,
		Profile:     common.profile,
		Interactive: *interactive,
	})
	if recorder != nil {
		if err := recorder.WriteTextfile(*metricsOut); err != nil {
			return err
		}
	}
	if fillErr != nil {
		return fillErr
	}

	data, err := res.MarshalDump(dumpFormat)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	output := filepath.Join(*outDir, res.DumpFilename(dumpFormat))
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write filled dump: %w", err)
	}

	if *valuesOut != "" {
		if err := writeJSON(*valuesOut, res.Values); err != nil {
			return err
		}
	}
	if *reportOut != "" {
		if err := writeJSON(*reportOut, res.Report); err != nil {
			return err
		}
	}
	return engine.Render(os.Stdout, report.TemplateFill, res.Summary(output))
}

func runInspect(ctx context.Context, args []string) error {
	var common commonFlags
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	common.register(fs)
	valuesOut := fs.String("values", "", "write the non-empty field values as JSON to this file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	src, err := common.source()
	if err != nil {
		return err
	}
	engine, err := common.engine()
	if err != nil {
		return err
	}
	gen := orchestrator.New(common.options()...)

	inspection, err := gen.Inspect(ctx, src, common.profile)
	if err != nil {
		return err
	}
	if *valuesOut != "" {
		if err := writeJSON(*valuesOut, inspection.Values); err != nil {
			return err
		}
	}
	return engine.Render(os.Stdout, report.TemplateInspect, inspection.Summary())
}

func parseFormat(raw string) (fieldtree.Format, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "json", "":
		return fieldtree.FormatJSON, nil
	case "yaml", "yml":
		return fieldtree.FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported format %q", raw)
	}
}

func writeJSON(path string, value any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := encodeJSON(f, value); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func encodeJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}
