package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/eblot/doxyclang/internal/doxygen"
	"github.com/eblot/doxyclang/pkg/types"
)

var (
	generateLine         int
	generateJSON         bool
	generateStdin        bool
	generateBuildDir     string
	generateClangCheck   string
	generateNoDirections bool
)

var generateCmd = &cobra.Command{
	Use:   "generate <file>",
	Short: "Generate a documentation block for the prototype at a line",
	Args:  cobra.ExactArgs(1),
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().IntVarP(&generateLine, "line", "l", 1, "1-based cursor line")
	generateCmd.Flags().BoolVar(&generateJSON, "json", false, "emit the result as JSON")
	generateCmd.Flags().BoolVar(&generateStdin, "stdin", false, "read unsaved buffer content from stdin")
	generateCmd.Flags().StringVar(&generateBuildDir, "build-dir", "", "directory holding compile_commands.json")
	generateCmd.Flags().StringVar(&generateClangCheck, "clang-check", "", "clang-check executable to run")
	generateCmd.Flags().BoolVar(&generateNoDirections, "no-directions", false, "omit @param[in]/@param[out] direction tags")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if generateBuildDir != "" {
		cfg.BuildPath = generateBuildDir
	}
	if generateClangCheck != "" {
		cfg.ClangCheck = generateClangCheck
	}

	file := args[0]
	var src string
	if generateStdin {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return err
		}
		src = string(data)
	} else {
		data, err := os.ReadFile(file)
		if err != nil {
			return err
		}
		src = string(data)
	}

	style := doxygen.DefaultStyle()
	if generateNoDirections {
		style.Directions = false
	}

	engine := doxygen.NewEngine(cfg)
	res, err := engine.GenerateAt(context.Background(), file, src, generateLine, style)
	var noProto *types.NoPrototypeAtCursorError
	if errors.As(err, &noProto) {
		fmt.Fprintln(os.Stderr, noProto.Error())
		os.Exit(2)
	}
	if err != nil {
		return err
	}

	if generateJSON {
		return json.NewEncoder(os.Stdout).Encode(res)
	}
	fmt.Print(res.Block.Text)
	return nil
}
