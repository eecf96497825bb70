package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var selectSession string

var selectCmd = &cobra.Command{
	Use:   "select <widget> [values...]",
	Short: "Change one selector of the configuration panel",
	Long: `Change one selector of the configuration panel and save the session.

Widgets:
  date-column <column>              move the date role to column
  metric [column]                   set the metric column; no column clears it
  supporting-metrics [columns...]   set exactly these supporting metrics
  dimensions [columns...]           set exactly these dimensions
  aggregation <column> <option>     sum | count | distinct for a metric column`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSession(selectSession)
		if err != nil {
			return err
		}
		p, err := openPanel(cmd, s)
		if err != nil {
			return err
		}
		widget, values := args[0], args[1:]
		if err := p.Dispatch(widget, values...); err != nil {
			return err
		}
		s.Commit(p)
		if err := s.Save(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s: %s\n", widget, orDash(strings.Join(values, ", ")))
		return nil
	},
}

func orDash(s string) string {
	if s == "" {
		return "(cleared)"
	}
	return s
}

func init() {
	rootCmd.AddCommand(selectCmd)
	selectCmd.Flags().StringVarP(&selectSession, "session", "s", "", "session name")
}
