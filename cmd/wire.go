package cmd

import (
	"fmt"
	"log/slog"

	"github.com/gaurav-prasanna/shameladocx/core"
	"github.com/gaurav-prasanna/shameladocx/core/assemble"
	"github.com/gaurav-prasanna/shameladocx/core/fetch"
	"github.com/gaurav-prasanna/shameladocx/core/output"
	"github.com/gaurav-prasanna/shameladocx/core/pipeline"
	"github.com/gaurav-prasanna/shameladocx/core/render"
	"github.com/gaurav-prasanna/shameladocx/internal/config"
)

// buildPipeline wires the pipeline stages from configuration.
func buildPipeline(cfg *config.Config, logger *slog.Logger) (*pipeline.Pipeline, error) {
	renderer, err := selectRenderer(cfg)
	if err != nil {
		return nil, err
	}

	writer, err := output.New(cfg.Output.Dir)
	if err != nil {
		return nil, fmt.Errorf("initializing output writer: %w", err)
	}

	fetcher := fetch.New(fetch.Options{
		UserAgent:    cfg.Fetch.UserAgent,
		Headers:      cfg.Fetch.Headers,
		Timeout:      cfg.Fetch.Timeout.Duration,
		MaxBodyBytes: cfg.Fetch.MaxBodyBytes,
	})

	return pipeline.New(fetcher, renderer, writer, pipeline.Options{
		Host:   cfg.Source.Host,
		Layout: cfg.Layout,
		Style: assemble.Style{
			Font:      cfg.Document.Font,
			TitleSize: cfg.Document.TitleSize,
			BodySize:  cfg.Document.BodySize,
			Separator: cfg.Document.Separator,
		},
		Logger: logger,
	})
}

// selectRenderer creates the Renderer for the configured output format.
func selectRenderer(cfg *config.Config) (core.Renderer, error) {
	switch cfg.Output.Format {
	case config.FormatDOCX:
		return render.NewDOCXRenderer(), nil
	case config.FormatPDF:
		return render.NewPDFRenderer(cfg.PDF.FontPath), nil
	case config.FormatEPUB:
		r := render.NewEPUBRenderer()
		r.Author = cfg.Document.Author
		if cfg.Document.Language != "" {
			r.Language = cfg.Document.Language
		}
		return r, nil
	case config.FormatMarkdown:
		return render.NewMarkdownRenderer(), nil
	case config.FormatJSON:
		return render.NewJSONRenderer(), nil
	default:
		return nil, fmt.Errorf("unsupported output format %q", cfg.Output.Format)
	}
}
