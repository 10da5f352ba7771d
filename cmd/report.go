package cmd

import (
	"regexp"
	"strings"

	"github.com/helviojunior/abapscan/internal/ascii"
	"github.com/helviojunior/abapscan/pkg/log"
	"github.com/spf13/cobra"
)

var rptFilter = ""
var filterList = []string{}
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Work with abapscan reports",
	Long: ascii.LogoHelp(ascii.Markdown(`
# report

Work with abapscan reports.
`)),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Annoying quirk, but because I'm overriding PersistentPreRun
		// here which overrides the parent it seems.
		// So we need to explicitly call the parent's one now.
		if err := rootCmd.PersistentPreRunE(cmd, args); err != nil {
			return err
		}

		re := regexp.MustCompile("[^a-zA-Z0-9@\\-_./]")
		for _, s1 := range strings.Split(rptFilter, ",") {
			s2 := strings.ToLower(strings.Trim(s1, " "))
			s2 = re.ReplaceAllString(s2, "")
			if s2 != "" {
				filterList = append(filterList, s2)
			}
		}

		if len(filterList) > 0 {
			log.Warn("Filter list: " + strings.Join(filterList, ", "))
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.PersistentFlags().StringVar(&rptFilter, "filter", "", "Comma-separated terms to filter results")
}

func containsFilterWord(s string) bool {
	// If filter list is empty, always return true
	if len(filterList) == 0 {
		return true
	}

	s = strings.ToLower(strings.Trim(s, " "))
	if s == "" {
		return false
	}
	for _, f := range filterList {
		if strings.Contains(s, f) {
			return true
		}
	}
	return false
}
