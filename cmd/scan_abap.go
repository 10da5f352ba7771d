package cmd

import (
	"errors"
	"log/slog"
	"time"

	resolver "github.com/helviojunior/gopathresolver"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/helviojunior/abapscan/internal/ascii"
	"github.com/helviojunior/abapscan/internal/tools"
	"github.com/helviojunior/abapscan/pkg/log"
	"github.com/helviojunior/abapscan/pkg/readers"
	"github.com/helviojunior/abapscan/pkg/rules"
	"github.com/helviojunior/abapscan/pkg/scanner"
)

var abapCmdOptions = &readers.FileReaderOptions{}
var abapCmd = &cobra.Command{
	Use:   "abap",
	Short: "Scan ABAP unit batches or raw source files",
	Long: ascii.LogoHelp(ascii.Markdown(`
# scan abap

Scan ABAP units against the SAP Note 2378796 rule table. The path may
be a JSON lines file with one extracted unit per line, a raw ABAP
source file, or a folder holding either.

`)),
	Example: `
   - abapscan scan abap -p ./units.jsonl
   - abapscan scan abap -p ./src/
   - abapscan scan abap -p ./src/ --write-elastic --write-elasticsearch-uri "http://127.0.0.1:9200/abapscan"
`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if abapCmdOptions.Path == "" {
			return errors.New("a unit batch file or source path must be specified")
		}

		if !tools.FileExists(abapCmdOptions.Path) {
			return errors.New("unit batch file or source path is not readable")
		}

		abapCmdOptions.Path, err = resolver.ResolveFullPath(abapCmdOptions.Path)
		if err != nil {
			return err
		}

		// An slog-capable logger to use with runners and servers
		logger := slog.New(log.Logger)

		var control *gorm.DB
		if controlDbWriter != nil {
			control = controlDbWriter.Conn()
		}

		// Get the runner up. Basically, all of the subcommands will use this.
		scanRunner, err = scanner.NewRunner(logger, rules.Note2378796(), *opts, scanWriters, control)
		if err != nil {
			return err
		}

		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		ft, err := tools.FileType(abapCmdOptions.Path)
		if err != nil {
			log.Error("error getting path type", "err", err)
			return
		}

		log.Debug("starting scan", "path", abapCmdOptions.Path, "type", ft)

		go func() {
			defer close(scanRunner.Units)

			if err := readers.ReadSourcePath(abapCmdOptions.Path, scanRunner.Units); err != nil {
				log.Error("error reading units", "err", err)
			}
		}()

		log.Info("Starting ABAP unit scan")
		status := scanRunner.Run()
		scanRunner.Close()

		diff := time.Now().Sub(startTime)
		out := time.Time{}.Add(diff)

		st := "Execution statistics\n"
		st += "     -> Elapsed time.....: %s\n"
		st += "     -> Units scanned....: %s\n"
		st += "     -> Skipped..........: %s\n"
		st += "     -> Execution error..: %s\n"
		st += "     -> Clean units......: %s\n"
		st += "     -> Flagged units....: %s\n"
		st += "     -> Direct access....: %s\n"
		st += "     -> Join access......: %s\n"

		log.Warnf(st,
			out.Format("15:04:05"),
			tools.FormatIntComma(status.Scanned),
			tools.FormatIntComma(status.Skipped),
			tools.FormatIntComma(status.Error),
			tools.FormatIntComma(status.Clean),
			tools.FormatIntComma(status.Flagged),
			tools.FormatIntComma(status.Direct),
			tools.FormatIntComma(status.Join),
		)
	},
}

func init() {
	scanCmd.AddCommand(abapCmd)

	abapCmd.Flags().StringVarP(&abapCmdOptions.Path, "path", "p", "", "A unit batch (.jsonl) file or a path with ABAP sources.")
}
