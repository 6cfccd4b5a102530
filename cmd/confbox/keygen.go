package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KilimcininKorOglu/confbox"
)

var (
	flagKeyOut string
	flagKeyAlg string
)

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate a random encryption key",
	Args:  cobra.NoArgs,
	RunE:  runKeygen,
}

func init() {
	keygenCmd.Flags().StringVarP(&flagKeyOut, "out", "o", "", "write hex key to file (mode 0600)")
	keygenCmd.Flags().StringVarP(&flagKeyAlg, "algorithm", "a", "aes-128", "key algorithm: aes-128 or aes-256")
	rootCmd.AddCommand(keygenCmd)
}

func runKeygen(cmd *cobra.Command, args []string) error {
	var alg confbox.Algorithm
	switch flagKeyAlg {
	case "aes-128":
		alg = confbox.AES128
	case "aes-256":
		alg = confbox.AES256
	default:
		return fmt.Errorf("unknown algorithm %q", flagKeyAlg)
	}

	key := make([]byte, alg.KeySize())
	if _, err := rand.Read(key); err != nil {
		return err
	}
	encoded := hex.EncodeToString(key)

	if flagKeyOut == "" {
		fmt.Fprintln(cmd.OutOrStdout(), encoded)
		return nil
	}
	if err := writeKeyFile(flagKeyOut, encoded); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s key to %s\n", flagKeyAlg, flagKeyOut)
	return nil
}

func writeKeyFile(path, encoded string) error {
	return os.WriteFile(path, []byte(encoded+"\n"), 0600)
}
