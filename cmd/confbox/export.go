package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KilimcininKorOglu/confbox"
)

var (
	flagFormat  string
	flagPretty  bool
	flagOut     string
	flagExpDecr bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export entries to a file or stdout",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&flagFormat, "format", "f", "json", "output format: json or binary")
	exportCmd.Flags().BoolVar(&flagPretty, "pretty", false, "indent JSON output")
	exportCmd.Flags().BoolVar(&flagExpDecr, "decrypt", false, "export encrypted values as plaintext")
	exportCmd.Flags().StringVarP(&flagOut, "out", "o", "", "write to file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}

func parseFormat(s string) (confbox.Format, error) {
	switch s {
	case "json":
		return confbox.FormatJSON, nil
	case "binary", "bin":
		return confbox.FormatBinary, nil
	}
	return 0, fmt.Errorf("unknown format %q", s)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadToolConfig()
	if err != nil {
		return err
	}
	m, err := openManager(cfg)
	if err != nil {
		return err
	}
	defer m.Deinit()

	format, err := parseFormat(flagFormat)
	if err != nil {
		return err
	}
	opts := confbox.ExportOptions{
		Format:    format,
		Pretty:    flagPretty,
		Decrypt:   flagExpDecr,
		Namespace: confbox.AllNamespaces,
	}
	if flagNS != "" {
		ns, err := m.NamespaceID(flagNS)
		if err != nil {
			return err
		}
		opts.Namespace = int(ns)
	}

	size, err := m.ExportSize(opts)
	if err != nil {
		return err
	}
	buf := make([]byte, size)
	n, err := m.Export(buf, opts)
	if err != nil {
		return err
	}

	if flagOut == "" {
		_, err = cmd.OutOrStdout().Write(buf[:n])
		return err
	}
	return os.WriteFile(flagOut, buf[:n], 0600)
}
