package cmd

import (
	"fmt"

	"github.com/KaramelBytes/dataconfig-cli/internal/daterange"
	"github.com/spf13/cobra"
)

var (
	rangeSession string
	rangeCompare bool
	rangeFrom    string
	rangeTo      string
)

var rangeCmd = &cobra.Command{
	Use:   "range",
	Short: "Set the date range or the comparison range of a session",
	Long: `Set the primary date range, or the comparison range with --compare.
Dates use YYYY-MM-DD; an omitted bound is left open and omitting both clears the range.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := daterange.Parse(rangeFrom, rangeTo)
		if err != nil {
			return err
		}
		s, err := loadSession(rangeSession)
		if err != nil {
			return err
		}
		p, err := openPanel(cmd, s)
		if err != nil {
			return err
		}
		label := "Date range"
		if rangeCompare {
			label = "Comparison range"
			p.SetCompareRange(r)
		} else {
			p.SetDateRange(r)
		}
		s.Commit(p)
		if err := s.Save(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s: %s\n", label, r)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rangeCmd)
	rangeCmd.Flags().StringVarP(&rangeSession, "session", "s", "", "session name")
	rangeCmd.Flags().BoolVar(&rangeCompare, "compare", false, "set the comparison range instead of the primary one")
	rangeCmd.Flags().StringVar(&rangeFrom, "from", "", "first day (YYYY-MM-DD)")
	rangeCmd.Flags().StringVar(&rangeTo, "to", "", "last day (YYYY-MM-DD)")
}
