package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/eblot/doxyclang/internal/doxygen"
)

var (
	paramsName string
	paramsJSON bool
)

var paramsCmd = &cobra.Command{
	Use:   "params <file>",
	Short: "List parameter descriptions harvested from existing comment blocks",
	Args:  cobra.ExactArgs(1),
	RunE:  runParams,
}

func init() {
	paramsCmd.Flags().StringVar(&paramsName, "name", "", "restrict to one parameter name")
	paramsCmd.Flags().BoolVar(&paramsJSON, "json", false, "emit the index as JSON")
	rootCmd.AddCommand(paramsCmd)
}

func runParams(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	idx := doxygen.NewEngine(cfg).ParamIndex(string(data))

	names := idx.Names()
	if paramsName != "" {
		names = []string{paramsName}
	}

	if paramsJSON {
		out := make(map[string][]string, len(names))
		for _, n := range names {
			out[n] = idx.Candidates(n)
		}
		return json.NewEncoder(os.Stdout).Encode(out)
	}

	for _, n := range names {
		for _, desc := range idx.Candidates(n) {
			fmt.Printf("%s\t%s\n", n, desc)
		}
	}
	return nil
}
