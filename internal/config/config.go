package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/KaramelBytes/dataconfig-cli/internal/columns"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	SessionsDir    string   `mapstructure:"sessions_dir" yaml:"sessions_dir"`
	SampleRows     int      `mapstructure:"sample_rows" yaml:"sample_rows"`
	Delimiter      string   `mapstructure:"delimiter" yaml:"delimiter"`
	EpochThreshold float64  `mapstructure:"epoch_threshold" yaml:"epoch_threshold"`
	DateLayouts    []string `mapstructure:"date_layouts" yaml:"date_layouts"`
	RenderStyle    string   `mapstructure:"render_style" yaml:"render_style"`
	ExportFormat   string   `mapstructure:"export_format" yaml:"export_format"`
}

// Keys lists the settable keys in display order.
var Keys = []string{"sessions_dir", "sample_rows", "delimiter", "epoch_threshold", "date_layouts", "render_style", "export_format"}

// DotEnvFile is loaded into the environment by Load when present.
var DotEnvFile = ".env"

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".dataconfig"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.dataconfig/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := configDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env (.env included) > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", DotEnvFile, err)
	}

	v := viper.New()
	v.SetEnvPrefix("DATACONFIG")
	v.AutomaticEnv()

	v.SetDefault("sessions_dir", "")
	v.SetDefault("sample_rows", 5)
	v.SetDefault("delimiter", "")
	v.SetDefault("epoch_threshold", float64(columns.EpochThreshold))
	v.SetDefault("date_layouts", []string{})
	v.SetDefault("render_style", "table")
	v.SetDefault("export_format", "yaml")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	// Resolve sessions_dir default: ~/.dataconfig/sessions
	if c.SessionsDir == "" {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
		c.SessionsDir = filepath.Join(dir, "sessions")
	}
	return &c, nil
}

// Set parses and assigns one key, validating enums and numbers.
func (c *Global) Set(key, val string) error {
	switch key {
	case "sessions_dir":
		c.SessionsDir = val
	case "sample_rows":
		i, err := strconv.Atoi(val)
		if err != nil || i <= 0 {
			return fmt.Errorf("invalid positive int for sample_rows: %v", val)
		}
		c.SampleRows = i
	case "delimiter":
		if _, err := ParseDelimiter(val); err != nil {
			return err
		}
		c.Delimiter = val
	case "epoch_threshold":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("invalid float for epoch_threshold: %w", err)
		}
		c.EpochThreshold = f
	case "date_layouts":
		c.DateLayouts = nil
		for _, l := range strings.Split(val, ",") {
			if l = strings.TrimSpace(l); l != "" {
				c.DateLayouts = append(c.DateLayouts, l)
			}
		}
	case "render_style":
		switch strings.ToLower(val) {
		case "table", "markdown":
			c.RenderStyle = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid render_style: %s (use table or markdown)", val)
		}
	case "export_format":
		switch strings.ToLower(val) {
		case "yaml", "json":
			c.ExportFormat = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid export_format: %s (use yaml or json)", val)
		}
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}

// ParseDelimiter turns a configured delimiter into a rune; "" means auto.
// "\t" and "tab" both mean a tab.
func ParseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case `\t`, "tab":
		return '\t', nil
	}
	r := []rune(s)
	if len(r) != 1 {
		return 0, fmt.Errorf("invalid delimiter %q: must be a single character", s)
	}
	return r[0], nil
}
