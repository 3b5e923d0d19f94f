package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Wangkaiwei233/word-fetcher/pkg/lexicon"
)

var dictCmd = &cobra.Command{
	Use:   "dict",
	Short: "Manage the custom dictionary",
}

var dictListCmd = &cobra.Command{
	Use:   "list",
	Short: "List dictionary words",
	RunE:  runDictList,
}

var dictAddCmd = &cobra.Command{
	Use:   "add <word>",
	Short: "Add a word to the dictionary",
	Args:  cobra.ExactArgs(1),
	RunE:  runDictAdd,
}

var dictRemoveCmd = &cobra.Command{
	Use:   "remove <word>",
	Short: "Remove a word from the dictionary",
	Args:  cobra.ExactArgs(1),
	RunE:  runDictRemove,
}

var dictImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the dictionary from a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runDictImport,
}

func init() {
	rootCmd.AddCommand(dictCmd)
	dictCmd.AddCommand(dictListCmd)
	dictCmd.AddCommand(dictAddCmd)
	dictCmd.AddCommand(dictRemoveCmd)
	dictCmd.AddCommand(dictImportCmd)

	dictListCmd.Flags().Bool("json", false, "Output as JSON")
}

func dictStore() (*lexicon.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return lexicon.NewStore(cfg.DictsDir()), nil
}

func runDictList(cmd *cobra.Command, _ []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	lex, err := dictStore()
	if err != nil {
		return err
	}
	snap, err := lex.Current()
	if err != nil {
		return err
	}
	words := snap.Words()

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(words)
	}
	if len(words) == 0 {
		_, _ = fmt.Fprintln(os.Stdout, "Dictionary is empty")
		return nil
	}
	for _, w := range words {
		_, _ = fmt.Fprintln(os.Stdout, w)
	}
	return nil
}

func runDictAdd(_ *cobra.Command, args []string) error {
	lex, err := dictStore()
	if err != nil {
		return err
	}
	added, err := lex.Add(args[0])
	if err != nil {
		return err
	}
	if !added {
		_, _ = fmt.Fprintf(os.Stdout, "%s already in dictionary\n", args[0])
		return nil
	}
	_, _ = fmt.Fprintf(os.Stdout, "Added %s\n", args[0])
	return nil
}

func runDictRemove(_ *cobra.Command, args []string) error {
	lex, err := dictStore()
	if err != nil {
		return err
	}
	if err := lex.Remove(args[0]); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(os.Stdout, "Removed %s\n", args[0])
	return nil
}

func runDictImport(_ *cobra.Command, args []string) error {
	lex, err := dictStore()
	if err != nil {
		return err
	}
	content, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	if err := lex.Replace(content); err != nil {
		return err
	}
	snap, err := lex.Current()
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(os.Stdout, "Imported %d words\n", len(snap.Words()))
	return nil
}
