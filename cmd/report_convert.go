package cmd

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	resolver "github.com/helviojunior/gopathresolver"
	"github.com/spf13/cobra"

	"github.com/helviojunior/abapscan/internal/ascii"
	"github.com/helviojunior/abapscan/internal/tools"
	"github.com/helviojunior/abapscan/pkg/database"
	"github.com/helviojunior/abapscan/pkg/log"
	"github.com/helviojunior/abapscan/pkg/models"
	"github.com/helviojunior/abapscan/pkg/writers"
)

var convertCmdExtensions = []string{".sqlite3", ".db", ".jsonl"}
var convertCmdFlags = struct {
	fromFile string
	toFile   string
	fromExt  string
	toExt    string
}{}

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert between the SQLite and JSON Lines report formats",
	Long: ascii.LogoHelp(ascii.Markdown(`
# report convert

Convert a results database to JSON Lines, or a JSON Lines file back to
a SQLite database. The --from-file and --to-file extensions determine
the direction.`)),
	Example: ascii.Markdown(`
   - abapscan report convert --from-file abapscan.sqlite3 --to-file abapscan.jsonl
   - abapscan report convert --from-file abapscan.jsonl --to-file db.sqlite3`),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if convertCmdFlags.fromFile == "" {
			return errors.New("from file not set")
		}
		if convertCmdFlags.toFile == "" {
			return errors.New("to file not set")
		}

		convertCmdFlags.fromFile, err = resolver.ResolveFullPath(convertCmdFlags.fromFile)
		if err != nil {
			return err
		}
		convertCmdFlags.toFile, err = resolver.ResolveFullPath(convertCmdFlags.toFile)
		if err != nil {
			return err
		}

		convertCmdFlags.fromExt = strings.ToLower(filepath.Ext(convertCmdFlags.fromFile))
		convertCmdFlags.toExt = strings.ToLower(filepath.Ext(convertCmdFlags.toFile))

		if convertCmdFlags.fromExt == "" || convertCmdFlags.toExt == "" {
			return errors.New("source and destination files must have extensions")
		}

		if !tools.SliceHasStr(convertCmdExtensions, convertCmdFlags.fromExt) {
			return errors.New("unsupported from file type")
		}
		if !tools.SliceHasStr(convertCmdExtensions, convertCmdFlags.toExt) {
			return errors.New("unsupported to file type")
		}

		if convertCmdFlags.fromExt == convertCmdFlags.toExt {
			return errors.New("source and destination file types must differ")
		}

		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		var err error
		if convertCmdFlags.fromExt == ".jsonl" {
			err = convertJsonlToDb(convertCmdFlags.fromFile, convertCmdFlags.toFile)
		} else {
			err = convertDbToJsonl(convertCmdFlags.fromFile, convertCmdFlags.toFile)
		}
		if err != nil {
			log.Error("conversion failed", "err", err)
			return
		}
		log.Info("Done!")
	},
}

func convertDbToJsonl(from, to string) error {
	conn, err := database.Connection("sqlite:///"+from, true, false)
	if err != nil {
		return err
	}

	writer, err := writers.NewJsonWriter(to)
	if err != nil {
		return err
	}

	var results []*models.ScanResult
	if err := conn.Model(&models.ScanResult{}).Preload("Findings").Find(&results).Error; err != nil {
		return err
	}

	converted := 0
	for _, result := range results {
		if !containsFilterWord(result.PgmName) && !containsFilterWord(result.IncName) {
			continue
		}
		if err := writer.Write(result); err != nil {
			return err
		}
		converted++
	}

	log.Info("Converted results", "count", converted)
	return nil
}

func convertJsonlToDb(from, to string) error {
	file, err := os.Open(from)
	if err != nil {
		return err
	}
	defer file.Close()

	writer, err := writers.NewDbWriter("sqlite:///"+to, false)
	if err != nil {
		return err
	}

	converted := 0
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 1024*1024), 32*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var result models.ScanResult
		if err := json.Unmarshal([]byte(line), &result); err != nil {
			return err
		}
		if !containsFilterWord(result.PgmName) && !containsFilterWord(result.IncName) {
			continue
		}

		result.ID = 0
		for i := range result.Findings {
			result.Findings[i].ID = 0
			result.Findings[i].ScanResultID = 0
		}

		if err := writer.Write(&result); err != nil {
			return err
		}
		converted++
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	log.Info("Converted results", "count", converted)
	return nil
}

func init() {
	reportCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVar(&convertCmdFlags.fromFile, "from-file", "", "The file to convert from")
	convertCmd.Flags().StringVar(&convertCmdFlags.toFile, "to-file", "", "The file to convert to")
}
