package cli

import (
	"github.com/spf13/cobra"

	"github.com/eblot/doxyclang/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve editor integrations over stdio JSON-RPC",
	Long: `Starts the stdio JSON-RPC server used by editor plugins. The editor
sends buffer text and a cursor position; the server answers with the
generated block, the insertion offset and completion proposals.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		s, err := server.NewServer(cfg)
		if err != nil {
			return err
		}
		s.Run()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
