package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/KaramelBytes/dataconfig-cli/internal/session"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var listLong bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List configuration sessions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := sessionsDir()
		if err != nil {
			return err
		}
		names, err := session.List(root)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(names) == 0 {
			fmt.Fprintln(out, "(no sessions)")
			return nil
		}
		if !listLong {
			for _, n := range names {
				fmt.Fprintf(out, "- %s\n", n)
			}
			return nil
		}
		t := table.NewWriter()
		t.AppendHeader(table.Row{"Session", "Upload", "Rows", "Assigned", "Updated"})
		for _, n := range names {
			s, err := session.LoadSession(filepath.Join(root, n))
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: skipping %s: %v\n", n, err)
				continue
			}
			upload, rows := "-", 0
			if s.Source != nil {
				upload, rows = s.Source.Name, s.Source.TotalRows
			}
			t.AppendRow(table.Row{s.Name, upload, rows, fmt.Sprintf("%d/%d", len(s.Columns), len(s.Header)), s.UpdatedAt.Format("2006-01-02 15:04")})
		}
		t.SetStyle(table.StyleDefault)
		fmt.Fprintln(out, t.Render())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVarP(&listLong, "long", "l", false, "show upload and selection details")
}
