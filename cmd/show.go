package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/dataconfig-cli/internal/panel"
	"github.com/spf13/cobra"
)

var (
	showSession string
	showStyle   string
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Render the configuration panel of a session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSession(showSession)
		if err != nil {
			return err
		}
		p, err := openPanel(cmd, s)
		if err != nil {
			return err
		}
		style := showStyle
		if style == "" && cfg != nil {
			style = cfg.RenderStyle
		}
		out := cmd.OutOrStdout()
		if s.Source != nil {
			fmt.Fprintf(out, "Session %s: %s (%d rows)\n", s.Name, s.Source.Name, s.Source.TotalRows)
		} else {
			fmt.Fprintf(out, "Session %s\n", s.Name)
		}
		switch strings.ToLower(style) {
		case "", "table":
			fmt.Fprintln(out, panel.RenderTable(p.View()))
		case "markdown", "md":
			fmt.Fprintln(out, panel.RenderMarkdown(p.View()))
		default:
			return fmt.Errorf("unsupported --style: %s (use table|markdown)", style)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().StringVarP(&showSession, "session", "s", "", "session name")
	showCmd.Flags().StringVar(&showStyle, "style", "", "output style: table|markdown (default from config)")
}
