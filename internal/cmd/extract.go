package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Wangkaiwei233/word-fetcher/pkg/document"
	"github.com/Wangkaiwei233/word-fetcher/pkg/nounindex"
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Build a noun index for a single document",
	Long: `Process one PDF or office document without creating a job: convert if
needed, extract text, and print the noun index.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().Bool("json", false, "Output the full index as JSON")
	extractCmd.Flags().Int("top", 50, "Show top N nouns in table output (0 = all)")
}

func runExtract(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	top, _ := cmd.Flags().GetInt("top")

	application, err := cliApp()
	if err != nil {
		return err
	}

	inputPath := args[0]
	if _, err := os.Stat(inputPath); err != nil {
		return fmt.Errorf("input not found: %s", inputPath)
	}
	if !document.IsSupported(inputPath) {
		return fmt.Errorf("unsupported file type: %s", inputPath)
	}

	pdfPath := inputPath
	if document.IsConvertible(inputPath) {
		scratch, err := os.MkdirTemp("", "word-fetcher-convert-*")
		if err != nil {
			return err
		}
		defer func() { _ = os.RemoveAll(scratch) }()

		pdfPath, err = application.converter.Convert(cmd.Context(), inputPath, scratch)
		if err != nil {
			return err
		}
	}

	lines, err := document.ExtractLines(pdfPath)
	if err != nil {
		return err
	}

	ix, err := nounindex.Build(lines, application.extractor)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(ix)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer func() { _ = w.Flush() }()

	_, _ = fmt.Fprintln(w, "NOUN\tCOUNT")
	for i, n := range ix.Nouns {
		if top > 0 && i >= top {
			break
		}
		_, _ = fmt.Fprintf(w, "%s\t%d\n", n.Noun, n.Count)
	}
	return nil
}
