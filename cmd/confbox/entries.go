package main

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/KilimcininKorOglu/confbox"
)

var (
	flagType     string
	flagEncrypt  bool
	flagReadOnly bool
	flagDecrypt  bool
)

var setCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Create or overwrite an entry",
	Args:  cobra.ExactArgs(2),
	RunE:  runSet,
}

var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print an entry's value",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

var delCmd = &cobra.Command{
	Use:   "del <key>",
	Short: "Delete an entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runDel,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List entries with type, size, and flags",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var namespacesCmd = &cobra.Command{
	Use:   "namespaces",
	Short: "List registered namespaces",
	Args:  cobra.NoArgs,
	RunE:  runNamespaces,
}

func init() {
	setCmd.Flags().StringVarP(&flagType, "type", "t", "string", "value type: i32, u32, i64, float, bool, string, blob")
	setCmd.Flags().BoolVar(&flagEncrypt, "encrypt", false, "encrypt the value (string and blob only)")
	setCmd.Flags().BoolVar(&flagReadOnly, "readonly", false, "mark the entry read-only")
	getCmd.Flags().BoolVar(&flagDecrypt, "decrypt", false, "decrypt an encrypted entry")
	rootCmd.AddCommand(setCmd, getCmd, delCmd, listCmd, namespacesCmd)
}

func runSet(cmd *cobra.Command, args []string) error {
	cfg, err := loadToolConfig()
	if err != nil {
		return err
	}
	m, err := openManager(cfg)
	if err != nil {
		return err
	}
	defer m.Deinit()

	ns, err := resolveNamespace(m)
	if err != nil {
		return err
	}
	key, value := args[0], args[1]
	flags := confbox.FlagPersistent
	if flagReadOnly {
		flags |= confbox.FlagReadOnly
	}

	if err := setValue(m, ns, key, value, flags); err != nil {
		return err
	}
	return m.Commit()
}

// setValue parses the value per --type and writes it.
func setValue(m *confbox.Manager, ns uint8, key, value string, flags confbox.Flags) error {
	typ := parseTypeFlag()
	if typ == confbox.TypeInvalid {
		return fmt.Errorf("unknown type %q", flagType)
	}
	if flagEncrypt {
		switch typ {
		case confbox.TypeString:
			return m.SetStringEncrypted(ns, key, value, flags)
		case confbox.TypeBlob:
			raw, err := hex.DecodeString(value)
			if err != nil {
				return fmt.Errorf("blob value must be hex: %w", err)
			}
			return m.SetBlobEncrypted(ns, key, raw, flags)
		}
		return fmt.Errorf("--encrypt supports string and blob values only")
	}

	switch typ {
	case confbox.TypeInt32:
		v, err := strconv.ParseInt(value, 10, 32)
		if err != nil {
			return err
		}
		return m.SetInt32(ns, key, int32(v), flags)
	case confbox.TypeUint32:
		v, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return err
		}
		return m.SetUint32(ns, key, uint32(v), flags)
	case confbox.TypeInt64:
		v, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return err
		}
		return m.SetInt64(ns, key, v, flags)
	case confbox.TypeFloat:
		v, err := strconv.ParseFloat(value, 32)
		if err != nil {
			return err
		}
		return m.SetFloat(ns, key, float32(v), flags)
	case confbox.TypeBool:
		v, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		return m.SetBool(ns, key, v, flags)
	case confbox.TypeBlob:
		raw, err := hex.DecodeString(value)
		if err != nil {
			return fmt.Errorf("blob value must be hex: %w", err)
		}
		return m.SetBlob(ns, key, raw, flags)
	default:
		return m.SetString(ns, key, value, flags)
	}
}

func parseTypeFlag() confbox.ValueType {
	switch flagType {
	case "i32":
		return confbox.TypeInt32
	case "u32":
		return confbox.TypeUint32
	case "i64":
		return confbox.TypeInt64
	case "float":
		return confbox.TypeFloat
	case "bool":
		return confbox.TypeBool
	case "string":
		return confbox.TypeString
	case "blob":
		return confbox.TypeBlob
	default:
		return confbox.TypeInvalid
	}
}

func runGet(cmd *cobra.Command, args []string) error {
	cfg, err := loadToolConfig()
	if err != nil {
		return err
	}
	m, err := openManager(cfg)
	if err != nil {
		return err
	}
	defer m.Deinit()

	ns, err := resolveNamespace(m)
	if err != nil {
		return err
	}
	key := args[0]
	info, err := m.Entry(ns, key)
	if err != nil {
		return err
	}

	out, err := renderValue(m, ns, key, info)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

// renderValue formats an entry for human output.
func renderValue(m *confbox.Manager, ns uint8, key string, info confbox.EntryInfo) (string, error) {
	if info.Flags.Has(confbox.FlagEncrypted) {
		if !flagDecrypt {
			return "", fmt.Errorf("entry is encrypted; use --decrypt")
		}
		switch info.Type {
		case confbox.TypeString:
			return m.GetStringDecrypted(ns, key)
		case confbox.TypeBlob:
			buf := make([]byte, info.Size)
			n, err := m.GetBlobDecrypted(ns, key, buf)
			if err != nil {
				return "", err
			}
			return hex.EncodeToString(buf[:n]), nil
		}
		return "", fmt.Errorf("cannot decrypt %s entry", info.Type)
	}

	switch info.Type {
	case confbox.TypeInt32:
		v, err := m.GetInt32(ns, key)
		return strconv.FormatInt(int64(v), 10), err
	case confbox.TypeUint32:
		v, err := m.GetUint32(ns, key)
		return strconv.FormatUint(uint64(v), 10), err
	case confbox.TypeInt64:
		v, err := m.GetInt64(ns, key)
		return strconv.FormatInt(v, 10), err
	case confbox.TypeFloat:
		v, err := m.GetFloat(ns, key)
		return strconv.FormatFloat(float64(v), 'g', -1, 32), err
	case confbox.TypeBool:
		v, err := m.GetBool(ns, key)
		return strconv.FormatBool(v), err
	case confbox.TypeString:
		return m.GetString(ns, key)
	default:
		buf := make([]byte, info.Size)
		n, err := m.GetBlob(ns, key, buf)
		if err != nil {
			return "", err
		}
		return hex.EncodeToString(buf[:n]), nil
	}
}

func runDel(cmd *cobra.Command, args []string) error {
	cfg, err := loadToolConfig()
	if err != nil {
		return err
	}
	m, err := openManager(cfg)
	if err != nil {
		return err
	}
	defer m.Deinit()

	ns, err := resolveNamespace(m)
	if err != nil {
		return err
	}
	if err := m.Delete(ns, args[0]); err != nil {
		return err
	}
	return m.Commit()
}

func runList(cmd *cobra.Command, args []string) error {
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
	visit := func(info confbox.EntryInfo) bool {
		fmt.Fprintf(out, "%-3d %-32s %-7s %5dB %s\n",
			info.Namespace, info.Key, info.Type, info.Size, flagString(info.Flags))
		return true
	}
	if flagNS == "" {
		return m.Iterate(visit)
	}
	ns, err := m.NamespaceID(flagNS)
	if err != nil {
		return err
	}
	return m.IterateNamespace(ns, visit)
}

func flagString(f confbox.Flags) string {
	out := []byte("---")
	if f.Has(confbox.FlagEncrypted) {
		out[0] = 'e'
	}
	if f.Has(confbox.FlagReadOnly) {
		out[1] = 'r'
	}
	if f.Has(confbox.FlagPersistent) {
		out[2] = 'p'
	}
	return string(out)
}

func runNamespaces(cmd *cobra.Command, args []string) error {
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
	return m.Namespaces(func(id uint8, name string) bool {
		fmt.Fprintf(out, "%-3d %s\n", id, name)
		return true
	})
}
