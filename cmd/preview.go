package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/dataconfig-cli/internal/dataset"
	"github.com/KaramelBytes/dataconfig-cli/internal/utils"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	prevOutputPath string
	prevMarkdown   bool
	prevDelimiter  string
	prevSampleRows int
	prevSheetName  string
	prevSheetIndex int
)

var previewCmd = &cobra.Command{
	Use:   "preview <file>",
	Short: "Show the header, sample rows and date-like columns of an upload",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opt, err := datasetOptions(cmd, prevDelimiter, prevSampleRows, prevSheetName, prevSheetIndex)
		if err != nil {
			return err
		}
		up, err := dataset.ReadFile(args[0], opt)
		if err != nil {
			return err
		}
		report := renderPreview(up, prevMarkdown || prevOutputPath != "")
		if prevOutputPath != "" {
			if err := utils.SafeWriteFile(prevOutputPath, []byte(report)); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote preview to %s\n", prevOutputPath)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), report)
		return nil
	},
}

func renderPreview(up *dataset.Upload, markdown bool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %d columns, %d rows\n", up.Name, len(up.Header), up.TotalRows)
	dates := detector().Detect(up.Header, up.FirstRow())
	if len(dates) == 0 {
		sb.WriteString("Date-like columns: (none; every column will be offered)\n\n")
	} else {
		fmt.Fprintf(&sb, "Date-like columns: %s\n\n", strings.Join(dates, ", "))
	}
	if len(up.Header) == 0 {
		return sb.String()
	}

	t := table.NewWriter()
	hdr := make(table.Row, len(up.Header))
	for i, h := range up.Header {
		hdr[i] = h
	}
	t.AppendHeader(hdr)
	for _, r := range up.Rows {
		row := make(table.Row, len(up.Header))
		for i, h := range up.Header {
			row[i] = r[h]
		}
		t.AppendRow(row)
	}
	if markdown {
		sb.WriteString(t.RenderMarkdown())
	} else {
		t.SetStyle(table.StyleDefault)
		sb.WriteString(t.Render())
	}
	return sb.String()
}

func init() {
	rootCmd.AddCommand(previewCmd)
	previewCmd.Flags().StringVarP(&prevOutputPath, "output", "o", "", "write the preview as Markdown to this path")
	previewCmd.Flags().BoolVar(&prevMarkdown, "markdown", false, "print Markdown instead of a terminal table")
	addUploadFlags(previewCmd, &prevDelimiter, &prevSampleRows, &prevSheetName, &prevSheetIndex)
}
