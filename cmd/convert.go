// Package cmd — convert command.
// This is the main command that runs the pipeline once:
// normalize → resolve last page → fetch → extract → assemble → render → write.
//
// It handles flag validation, renderer selection, and the URL prompt.
package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/shameladocx/internal/config"
)

// Flag variables.
var (
	flagDOCX      bool
	flagPDF       bool
	flagEPUB      bool
	flagMarkdown  bool
	flagJSON      bool
	flagPDFFont   string
	flagOutputDir string
	flagOutput    string
	flagTimeout   time.Duration
)

var convertCmd = &cobra.Command{
	Use:   "convert [url]",
	Short: "Download a book into a single document",
	Long: `Convert resolves the book's last chapter, fetches the title and index from the
book's landing page, then every chapter from the given one to the last, and
writes a single document.

Without a URL argument the command prompts for one.

Examples:
  shameladocx convert https://shamela.ws/book/6388
  shameladocx convert https://shamela.ws/book/6388/12 --output_dir ./books
  shameladocx convert https://shamela.ws/book/6388 --epub --output bukhari
  shameladocx convert https://shamela.ws/book/6388 --pdf --pdf_font ./Amiri-Regular.ttf`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	// Output format flags (mutually exclusive).
	convertCmd.Flags().BoolVar(&flagDOCX, "docx", false, "Output DOCX (default)")
	convertCmd.Flags().BoolVar(&flagPDF, "pdf", false, "Output PDF (requires --pdf_font)")
	convertCmd.Flags().BoolVar(&flagEPUB, "epub", false, "Output EPUB")
	convertCmd.Flags().BoolVar(&flagMarkdown, "markdown", false, "Output Markdown")
	convertCmd.Flags().BoolVar(&flagJSON, "json", false, "Output structured JSON")

	convertCmd.Flags().StringVar(&flagPDFFont, "pdf_font", "", "UTF-8 TrueType font file for PDF output")
	convertCmd.Flags().StringVar(&flagOutputDir, "output_dir", "", "Output directory (default: current directory)")
	convertCmd.Flags().StringVar(&flagOutput, "output", "", "Output file name without extension (default: combined-output)")
	convertCmd.Flags().DurationVar(&flagTimeout, "timeout", 0, "Per-request timeout (default: 30s)")
}

func runConvert(cmd *cobra.Command, args []string) error {
	// --- Validate flags ---
	format, err := formatFromFlags()
	if err != nil {
		return err
	}

	cfg, err := loadConfig(func(c *config.Config) {
		if format != "" {
			c.Output.Format = format
		}
		if flagPDFFont != "" {
			c.PDF.FontPath = flagPDFFont
		}
		if flagOutputDir != "" {
			c.Output.Dir = flagOutputDir
		}
		if flagOutput != "" {
			c.Output.Name = flagOutput
		}
		if flagTimeout > 0 {
			c.Fetch.Timeout = config.DurationFrom(flagTimeout)
		}
	})
	if err != nil {
		return err
	}

	var startURL string
	if len(args) == 1 {
		startURL = args[0]
	} else {
		startURL, err = promptURL(cmd.InOrStdin(), cmd.OutOrStdout())
		if err != nil {
			return err
		}
	}

	p, err := buildPipeline(cfg, newLogger(cfg))
	if err != nil {
		return err
	}

	res, err := p.Run(cmd.Context(), startURL, cfg.Output.Name)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, s := range res.Skipped {
		fmt.Fprintf(out, "  ✗ Chapter %d skipped: %s\n", s.Number, s.Reason)
	}
	fmt.Fprintf(out, "Chapter %d to %d saved to '%s'\n", res.Ref.ChapterStart, res.Ref.ChapterEnd, res.Path)
	return nil
}

// promptURL asks for the start URL on in.
func promptURL(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, "Enter the first URL: ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("reading URL: %w", err)
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", fmt.Errorf("no URL given")
	}
	return line, nil
}

// formatFromFlags checks that at most one output format is chosen and
// returns it ("" when none is set, leaving the configured format).
func formatFromFlags() (string, error) {
	chosen := []struct {
		set    bool
		format string
	}{
		{flagDOCX, config.FormatDOCX},
		{flagPDF, config.FormatPDF},
		{flagEPUB, config.FormatEPUB},
		{flagMarkdown, config.FormatMarkdown},
		{flagJSON, config.FormatJSON},
	}

	format := ""
	count := 0
	for _, c := range chosen {
		if c.set {
			format = c.format
			count++
		}
	}
	if count > 1 {
		return "", fmt.Errorf("only one output format allowed per run (got %d)", count)
	}
	return format, nil
}
