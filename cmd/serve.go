package cmd

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/shameladocx/internal/config"
	"github.com/gaurav-prasanna/shameladocx/web"
)

var (
	flagAddr      string
	flagServeDir  string
	flagServeFont string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web front end",
	Long: `Start the web front end. GET / shows a form; submitting a book URL runs the
conversion and returns a download link. Finished files are kept in the
output directory until they expire.

Environment variables:
  SHAMELADOCX_ADDR        Listen address (default: :8080)
  SHAMELADOCX_FORMAT      Output format: docx, pdf, epub, markdown, json
  SHAMELADOCX_OUTPUT_DIR  Directory for finished files
  SHAMELADOCX_LOG_LEVEL   Log level: DEBUG, INFO, WARN, ERROR
  SHAMELADOCX_LOG_FORMAT  Log format: text, json`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address (default: :8080)")
	serveCmd.Flags().StringVar(&flagServeDir, "output_dir", "", "Directory for finished files (default: a temp directory)")
	serveCmd.Flags().StringVar(&flagServeFont, "pdf_font", "", "UTF-8 TrueType font file for PDF output")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(func(c *config.Config) {
		if flagAddr != "" {
			c.Server.Addr = flagAddr
		}
		if flagServeDir != "" {
			c.Output.Dir = flagServeDir
		}
		if flagServeFont != "" {
			c.PDF.FontPath = flagServeFont
		}
	})
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	if cfg.Output.Dir == "" {
		dir, err := os.MkdirTemp("", "shameladocx-")
		if err != nil {
			return err
		}
		defer os.RemoveAll(dir)
		cfg.Output.Dir = dir
	}

	p, err := buildPipeline(cfg, logger)
	if err != nil {
		return err
	}

	store := web.NewStore(cfg.Server.DownloadTTL.Duration, cfg.Server.MaxDownloads, logger)
	defer store.Close()

	server := web.NewServer(p, store, web.Options{
		Addr:              cfg.Server.Addr,
		DownloadName:      cfg.Output.Name,
		RunTimeout:        cfg.Server.RunTimeout.Duration,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout.Duration,
		Logger:            logger,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-cmd.Context().Done():
		logger.Info("stop requested")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}
