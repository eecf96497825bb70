package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	attachSession    string
	attachDelimiter  string
	attachSampleRows int
	attachSheetName  string
	attachSheetIndex int
)

var attachCmd = &cobra.Command{
	Use:   "attach <file>",
	Short: "Replace a session's upload and reset its selection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := args[0]
		s, err := loadSession(attachSession)
		if err != nil {
			return err
		}
		opt, err := datasetOptions(cmd, attachDelimiter, attachSampleRows, attachSheetName, attachSheetIndex)
		if err != nil {
			return err
		}
		if err := s.Attach(file, opt); err != nil {
			return err
		}
		if err := s.Save(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Upload attached: %s (selection reset)\n", filepath.Base(file))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(attachCmd)
	attachCmd.Flags().StringVarP(&attachSession, "session", "s", "", "session name")
	addUploadFlags(attachCmd, &attachDelimiter, &attachSampleRows, &attachSheetName, &attachSheetIndex)
}
