package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/eblot/doxyclang/internal/astdump"
)

var dumpJSON bool

var dumpCmd = &cobra.Command{
	Use:   "dump [ast-dump-file]",
	Short: "Parse a clang-check AST dump and print the prototypes found",
	Long: `Parses an AST dump produced by clang-check --ast-dump, from a file or
from stdin, and prints the function prototypes it contains. Meant for
debugging the dump grammar against a new clang release.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var data []byte
		var err error
		if len(args) == 1 {
			data, err = os.ReadFile(args[0])
		} else {
			data, err = io.ReadAll(os.Stdin)
		}
		if err != nil {
			return err
		}

		parser := &astdump.Parser{Debug: debugFlag}
		protos, err := parser.Parse(data)
		if err != nil {
			return err
		}

		if dumpJSON {
			return json.NewEncoder(os.Stdout).Encode(protos)
		}
		for _, p := range protos {
			fmt.Printf("%d\t%s %s(", p.Line, p.ReturnType, p.Name)
			for i, prm := range p.Params {
				if i > 0 {
					fmt.Print(", ")
				}
				fmt.Print(prm.Type)
				if prm.Name != "" {
					fmt.Printf(" %s", prm.Name)
				}
			}
			fmt.Println(")")
		}
		return nil
	},
}

func init() {
	dumpCmd.Flags().BoolVar(&dumpJSON, "json", false, "emit prototypes as JSON")
	rootCmd.AddCommand(dumpCmd)
}
