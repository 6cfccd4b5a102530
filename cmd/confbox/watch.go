package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/KilimcininKorOglu/confbox"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Reload and print the store whenever the snapshot file changes",
	Args:  cobra.NoArgs,
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadToolConfig()
	if err != nil {
		return err
	}
	m, err := openManager(cfg)
	if err != nil {
		return err
	}
	defer m.Deinit()

	out := cmd.OutOrStdout()
	changed := make(chan struct{}, 1)
	err = m.WatchBackend(func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	if err != nil {
		return err
	}

	printSnapshot(m, out)
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	for {
		select {
		case <-changed:
			if err := m.Load(); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "reload: %v\n", err)
				continue
			}
			fmt.Fprintf(out, "--- %s reloaded at %s ---\n", cfg.Store, time.Now().Format(time.RFC3339))
			printSnapshot(m, out)
		case <-sig:
			return nil
		}
	}
}

func printSnapshot(m *confbox.Manager, out io.Writer) {
	size, err := m.ExportSize(confbox.ExportOptions{
		Format:    confbox.FormatJSON,
		Pretty:    true,
		Namespace: confbox.AllNamespaces,
	})
	if err != nil {
		fmt.Fprintf(out, "export: %v\n", err)
		return
	}
	buf := make([]byte, size)
	n, err := m.Export(buf, confbox.ExportOptions{
		Format:    confbox.FormatJSON,
		Pretty:    true,
		Namespace: confbox.AllNamespaces,
	})
	if err != nil {
		fmt.Fprintf(out, "export: %v\n", err)
		return
	}
	out.Write(buf[:n])
	fmt.Fprintln(out)
}
