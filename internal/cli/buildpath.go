package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eblot/doxyclang/internal/doxygen"
)

var buildPathCmd = &cobra.Command{
	Use:   "build-path <file>",
	Short: "Resolve the compile_commands.json directory for a source file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		dir, err := doxygen.NewEngine(cfg).ResolveBuildDir(args[0])
		if err != nil {
			return err
		}
		fmt.Println(dir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(buildPathCmd)
}
