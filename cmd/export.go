package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/dataconfig-cli/internal/utils"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	exportSession string
	exportFormat  string
	exportOutput  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the finished selection of a session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSession(exportSession)
		if err != nil {
			return err
		}
		p, err := openPanel(cmd, s)
		if err != nil {
			return err
		}
		sel := p.Selection()
		if sel.DateColumn == "" || len(sel.Metrics) == 0 {
			fmt.Fprintln(cmd.ErrOrStderr(), "⚠ Warning: selection has no date column or no metric")
		}

		format := exportFormat
		if format == "" && cfg != nil {
			format = cfg.ExportFormat
		}
		var data []byte
		switch strings.ToLower(format) {
		case "", "yaml", "yml":
			data, err = yaml.Marshal(sel)
			if err != nil {
				return fmt.Errorf("marshal yaml: %w", err)
			}
		case "json":
			data, err = utils.PrettyJSON(sel)
			if err != nil {
				return err
			}
			data = append(data, '\n')
		default:
			return fmt.Errorf("unsupported --format: %s (use yaml|json)", format)
		}

		if exportOutput == "" {
			_, err := cmd.OutOrStdout().Write(data)
			return err
		}
		if err := utils.SafeWriteFile(exportOutput, data); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Selection written: %s\n", exportOutput)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportSession, "session", "s", "", "session name")
	exportCmd.Flags().StringVar(&exportFormat, "format", "", "yaml|json (default from config)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write to file instead of stdout")
}
