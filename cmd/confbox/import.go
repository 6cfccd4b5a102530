package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KilimcininKorOglu/confbox"
)

var (
	flagImpFormat string
	flagClear     bool
	flagSkipErrs  bool
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import entries from a snapshot file",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func init() {
	importCmd.Flags().StringVarP(&flagImpFormat, "format", "f", "json", "input format: json or binary")
	importCmd.Flags().BoolVar(&flagClear, "clear", false, "clear the store before importing")
	importCmd.Flags().BoolVar(&flagSkipErrs, "skip-errors", false, "skip bad entries instead of aborting")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadToolConfig()
	if err != nil {
		return err
	}
	m, err := openManager(cfg)
	if err != nil {
		return err
	}
	defer m.Deinit()

	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	format, err := parseFormat(flagImpFormat)
	if err != nil {
		return err
	}
	ns, err := resolveNamespace(m)
	if err != nil {
		return err
	}

	imported, skipped, err := m.Import(data, confbox.ImportOptions{
		Format:     format,
		Clear:      flagClear,
		SkipErrors: flagSkipErrs,
		Namespace:  ns,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d entries, skipped %d\n", imported, skipped)
	return m.Commit()
}
