package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/eblot/doxyclang/internal/config"
)

var (
	configPath string
	debugFlag  bool
)

var rootCmd = &cobra.Command{
	Use:   "doxyclang",
	Short: "Doxygen comment generator for C sources",
	Long: `doxyclang generates Doxygen documentation blocks for C function
prototypes. It runs clang-check over the translation unit, parses the AST
dump, harvests parameter descriptions from existing comment blocks and
synthesizes a new block for the prototype under the cursor.`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: user config dir)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "log parser and clang-check diagnostics to stderr")
}

// loadConfig resolves the effective configuration: file (explicit path or
// the per-user default), then flag overrides.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg := config.Default()
	if path != "" {
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return nil, err
		}
	}
	if debugFlag {
		cfg.Debug = true
	}
	return cfg, nil
}
