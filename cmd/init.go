package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/dataconfig-cli/internal/session"
	"github.com/KaramelBytes/dataconfig-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	initDescription string
	initDelimiter   string
	initSampleRows  int
	initSheetName   string
	initSheetIndex  int
)

var initCmd = &cobra.Command{
	Use:   "init <session> <file>",
	Short: "Start a configuration session from an uploaded file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, file := args[0], args[1]
		if err := checkSessionName(name); err != nil {
			return err
		}
		root, err := sessionsDir()
		if err != nil {
			return err
		}
		dir := filepath.Join(root, name)
		// Refuse to overwrite an existing session.
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			if _, err := os.Stat(filepath.Join(dir, session.FileName)); err == nil {
				return fmt.Errorf("session already exists at %s", dir)
			}
			entries, err := os.ReadDir(dir)
			if err != nil {
				return fmt.Errorf("inspect session directory: %w", err)
			}
			if len(entries) > 0 {
				return fmt.Errorf("directory %s already exists and is not empty; refusing to initialize session", dir)
			}
		} else if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("stat session directory: %w", err)
		}

		opt, err := datasetOptions(cmd, initDelimiter, initSampleRows, initSheetName, initSheetIndex)
		if err != nil {
			return err
		}
		s := session.NewSession(name, initDescription, dir)
		if err := s.Attach(file, opt); err != nil {
			return err
		}
		if err := utils.EnsureDir(dir); err != nil {
			return err
		}
		if err := s.Save(); err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "✓ Session initialized: %s\n", dir)
		fmt.Fprintf(out, "  %s: %d columns, %d rows\n", s.Source.Name, len(s.Header), s.Source.TotalRows)
		if len(s.Header) == 0 {
			fmt.Fprintln(cmd.ErrOrStderr(), "⚠ Warning: upload has no header; every selector will be empty")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringVarP(&initDescription, "desc", "d", "", "session description")
	addUploadFlags(initCmd, &initDelimiter, &initSampleRows, &initSheetName, &initSheetIndex)
}

func addUploadFlags(c *cobra.Command, delimiter *string, sampleRows *int, sheetName *string, sheetIndex *int) {
	c.Flags().StringVar(delimiter, "delimiter", "", "CSV delimiter: ',', ';', 'tab' (default: by extension)")
	c.Flags().IntVar(sampleRows, "sample-rows", 0, "rows kept for previews and the date heuristic (default from config)")
	c.Flags().StringVar(sheetName, "sheet-name", "", "XLSX: sheet name to read")
	c.Flags().IntVar(sheetIndex, "sheet-index", 0, "XLSX: 1-based sheet index (default 1)")
}
