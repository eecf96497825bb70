package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/dataconfig-cli/internal/columns"
	cfgpkg "github.com/KaramelBytes/dataconfig-cli/internal/config"
	"github.com/KaramelBytes/dataconfig-cli/internal/dataset"
	"github.com/KaramelBytes/dataconfig-cli/internal/panel"
	"github.com/KaramelBytes/dataconfig-cli/internal/session"
	"github.com/KaramelBytes/dataconfig-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile         string
	debug           bool
	flagSessionsDir string

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "dataconfig",
	Short: "dataconfig: configure uploaded tabular data for reporting",
	Long: `dataconfig reads a CSV, TSV or XLSX upload and walks you through the data
configuration panel: pick the date column, the metric and supporting metrics with
their aggregation, the dimensions and the date ranges, then export the selection.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.dataconfig/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log every panel change to stderr")
	rootCmd.PersistentFlags().StringVar(&flagSessionsDir, "sessions-dir", "", "sessions directory (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		cfg = nil
		return
	}
	cfg = c
	if rootCmd.PersistentFlags().Changed("sessions-dir") && flagSessionsDir != "" {
		cfg.SessionsDir = flagSessionsDir
	}
}

func sessionsDir() (string, error) {
	dir := flagSessionsDir
	if dir == "" && cfg != nil {
		dir = cfg.SessionsDir
	}
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dir = filepath.Join(home, ".dataconfig", "sessions")
	}
	dir, err := utils.ExpandHome(dir)
	if err != nil {
		return "", err
	}
	if err := utils.EnsureDir(dir); err != nil {
		return "", err
	}
	return dir, nil
}

// resolveSessionDir maps a session name to its directory. With no name, the
// session enclosing the working directory is used.
func resolveSessionDir(name string) (string, error) {
	if name == "" {
		dir, err := utils.FindRoot("", session.FileName)
		if err != nil {
			return "", errors.New("--session is required outside a session directory")
		}
		return dir, nil
	}
	if err := checkSessionName(name); err != nil {
		return "", err
	}
	root, err := sessionsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, name), nil
}

// checkSessionName keeps session names to a single directory under the sessions root.
func checkSessionName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return fmt.Errorf("invalid session name %q: must be a plain directory name", name)
	}
	return nil
}

func loadSession(name string) (*session.Session, error) {
	dir, err := resolveSessionDir(name)
	if err != nil {
		return nil, err
	}
	return session.LoadSession(dir)
}

// openPanel rebuilds the panel of s with the configured detector and, with
// --debug, a change logger.
func openPanel(cmd *cobra.Command, s *session.Session) (*panel.Panel, error) {
	opts := []panel.Option{panel.WithDetector(detector())}
	if debug {
		errOut := cmd.ErrOrStderr()
		opts = append(opts, panel.WithObserver(func(ch panel.Change) {
			fmt.Fprintf(errOut, "[debug] %s %q -> columns: %s\n", ch.Widget, ch.Values, formatEntries(ch.Columns))
		}))
	}
	return s.Panel(opts...)
}

func detector() columns.Detector {
	d := columns.DefaultDetector()
	if cfg != nil {
		if cfg.EpochThreshold > 0 {
			d.Threshold = cfg.EpochThreshold
		}
		d.Layouts = cfg.DateLayouts
	}
	return d
}

// datasetOptions applies config defaults; explicit flags win.
func datasetOptions(cmd *cobra.Command, delimiter string, sampleRows int, sheetName string, sheetIndex int) (dataset.Options, error) {
	opt := dataset.DefaultOptions()
	if cfg != nil {
		if cfg.SampleRows > 0 {
			opt.SampleRows = cfg.SampleRows
		}
		r, err := cfgpkg.ParseDelimiter(cfg.Delimiter)
		if err != nil {
			return opt, fmt.Errorf("config delimiter: %w", err)
		}
		opt.Delimiter = r
	}
	f := cmd.Flags()
	if f.Changed("delimiter") {
		r, err := cfgpkg.ParseDelimiter(delimiter)
		if err != nil {
			return opt, err
		}
		opt.Delimiter = r
	}
	if f.Changed("sample-rows") {
		if sampleRows <= 0 {
			return opt, fmt.Errorf("--sample-rows must be positive")
		}
		opt.SampleRows = sampleRows
	}
	opt.SheetName = sheetName
	if sheetIndex > 0 {
		opt.SheetIndex = sheetIndex
	}
	return opt, nil
}

func formatEntries(entries []columns.Entry) string {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, fmt.Sprintf("%s: %s", e.Column, e.Assignment()))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
