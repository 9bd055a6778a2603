package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joseph-ayodele/docextract/constants"
	"github.com/joseph-ayodele/docextract/internal/common"
	"github.com/joseph-ayodele/docextract/internal/export"
	"github.com/joseph-ayodele/docextract/internal/extract"
	"github.com/joseph-ayodele/docextract/internal/llm/compat"
	"github.com/joseph-ayodele/docextract/internal/ocr"
	"github.com/joseph-ayodele/docextract/internal/pipeline"
)

// extractors are the three provider adapters the processor chooses among.
type extractors struct {
	ocr      extract.Extractor
	primary  extract.Extractor
	fallback extract.Extractor
}

type extractorFactory func(cfg *common.Config, logger *slog.Logger) extractors

func defaultExtractors(cfg *common.Config, logger *slog.Logger) extractors {
	return extractors{
		ocr:      ocr.NewMistralOCR(ocr.ConfigFrom(cfg), logger),
		primary:  compat.NewClient(compat.MistralChat(cfg), logger),
		fallback: compat.NewClient(compat.OpenAIFallback(cfg), logger),
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr, defaultExtractors)
	stop()
	os.Exit(code)
}

type options struct {
	schema        string
	systemPrompt  string
	useOCR        bool
	noFallback    bool
	includeImages bool
	output        string
	configPath    string
	pdfPath       string
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("docextract", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.schema, "schema", constants.DefaultSchema, "JSON object of field name -> description")
	fs.StringVar(&o.systemPrompt, "system-prompt", constants.DefaultSystemPrompt, "system prompt for chat extraction")
	fs.BoolVar(&o.useOCR, "ocr-api", false, "try the dedicated OCR service first")
	fs.BoolVar(&o.noFallback, "no-fallback", false, "never escalate to the fallback provider")
	fs.BoolVar(&o.includeImages, "include-images", false, "ask the OCR service for embedded images")
	fs.StringVar(&o.output, "output", "", "write the result to this file (.json or .xlsx) instead of stdout")
	fs.StringVar(&o.configPath, "config", "", "optional YAML config file")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: docextract [flags] <pdf_path>")
		fmt.Fprintln(fs.Output(), "flags must come before <pdf_path>")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return o, errors.New("exactly one pdf_path is required")
	}
	o.pdfPath = fs.Arg(0)
	return o, nil
}

// run returns the process exit status: 0 whenever a result was emitted (even a
// failed one), 1 for configuration errors, 2 for bad usage.
func run(ctx context.Context, args []string, stdout, stderr io.Writer, newExtractors extractorFactory) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := common.LoadConfig(opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	cfg.Log.Output = stderr
	logger := common.NewLogger(cfg.Log)
	slog.SetDefault(logger)

	ctx, _ = common.NewRequestContext(ctx)
	log := common.LoggerFrom(ctx, logger)

	schema, err := extract.ParseFieldSchema(opts.schema)
	if err != nil {
		log.Error("cli.schema.invalid", "error", err)
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	log.Info("cli.start",
		"pdf", opts.pdfPath,
		"ocr_api", opts.useOCR,
		"fallback", !opts.noFallback,
		"schema_fields", schema.Len(),
	)

	writer := export.NewWriter(stdout, log)
	doc, err := ocr.LoadDocument(opts.pdfPath, log)
	if err != nil {
		log.Error("cli.document.unreadable", "error", err)
		return emit(writer, extract.Fail(fmt.Sprintf("Could not read PDF: %v", err), ""), opts.output, stderr)
	}

	req := extract.Request{
		Document:     doc,
		Schema:       schema,
		SystemPrompt: opts.systemPrompt,
		Strategy: extract.Strategy{
			UseOCR:        opts.useOCR,
			Fallback:      !opts.noFallback,
			IncludeImages: opts.includeImages,
		},
	}

	ex := newExtractors(cfg, logger)
	processor := pipeline.NewProcessor(logger, ex.ocr, ex.primary, ex.fallback)
	res := processor.SmartExtract(ctx, req)

	log.Info("cli.done", "failed", res.Failed(), "method", res.Method())
	return emit(writer, res, opts.output, stderr)
}

func emit(w *export.Writer, res extract.Result, path string, stderr io.Writer) int {
	if err := w.WriteResult(res, path); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
