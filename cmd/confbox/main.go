// Package main provides the confbox command-line tool for inspecting
// and editing persisted configuration stores.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
