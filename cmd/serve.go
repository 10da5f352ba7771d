package cmd

import (
	"log/slog"

	"github.com/helviojunior/abapscan/internal/ascii"
	"github.com/helviojunior/abapscan/pkg/api"
	"github.com/helviojunior/abapscan/pkg/log"
	"github.com/helviojunior/abapscan/pkg/rules"
	"github.com/spf13/cobra"
)

var serveAddr string
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the assessment HTTP service",
	Long: ascii.LogoHelp(ascii.Markdown(`
# serve

Run the JSON assessment service. POST a list of ABAP units to
/assess-2378796 and receive back only the units with findings; a unit
with none is omitted from the response. GET /health answers a static
liveness probe.
`)),
	Example: `
   - abapscan serve
   - abapscan serve --listen 0.0.0.0:8787
`,
	Run: func(cmd *cobra.Command, args []string) {
		logger := slog.New(log.Logger)

		server := api.NewServer(logger, rules.Note2378796())
		if err := server.ListenAndServe(serveAddr); err != nil {
			log.Error("assessment service stopped", "err", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveAddr, "listen", "l", "127.0.0.1:8787", "Address to listen on")
}
