// Package config loads datagen settings from datagen.yaml and DATAGEN_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/mod/modfile"

	"datagen/internal/collect"
	"datagen/internal/format"
	"datagen/internal/model"
)

// FileName is the configuration file looked up in the working directory.
const FileName = "datagen.yaml"

// EnvPrefix prefixes environment overrides, e.g. DATAGEN_LOG_LEVEL.
const EnvPrefix = "DATAGEN"

// Model sources.
const (
	SourceGo   = "go"
	SourceYAML = "yaml"
)

// Config is the complete datagen configuration.
type Config struct {
	// Module is the module path of Root; detected from go.mod when empty.
	Module string `mapstructure:"module"`
	// Root is the module root directory.
	Root string `mapstructure:"root"`
	// Source selects the model provider: go or yaml.
	Source string `mapstructure:"source"`
	// Packages are go/packages patterns of model packages.
	Packages []string `mapstructure:"packages"`
	// Models are YAML model files.
	Models []string `mapstructure:"models"`
	// Suffixes are stripped from member type names to form bean names.
	Suffixes []string `mapstructure:"suffixes"`
	// ValueHolders are the generic roots whose first type argument is a
	// member's value type.
	ValueHolders []string `mapstructure:"valueHolders"`
	// Actor is recorded for every generation run.
	Actor string `mapstructure:"actor"`
	// Workers bounds parallel batches; 1 runs sequentially.
	Workers int `mapstructure:"workers"`
	// DebugDir receives source that failed to format.
	DebugDir string        `mapstructure:"debugDir"`
	Style    StyleConfig   `mapstructure:"style"`
	Journal  JournalConfig `mapstructure:"journal"`
	Log      LogConfig     `mapstructure:"log"`
	Watch    WatchConfig   `mapstructure:"watch"`
}

// StyleConfig configures formatting of generated files.
type StyleConfig struct {
	TabWidth        int  `mapstructure:"tabWidth"`
	OrganizeImports bool `mapstructure:"organizeImports"`
	// FixImports lets the post-write organizer add and remove imports.
	FixImports bool `mapstructure:"fixImports"`
}

// JournalConfig configures the generation journal. An empty path disables
// it.
type JournalConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"maxSizeMB"`
	MaxBackups int    `mapstructure:"maxBackups"`
	MaxAgeDays int    `mapstructure:"maxAgeDays"`
	Compress   bool   `mapstructure:"compress"`
}

// WatchConfig configures watch mode.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("module", "")
	v.SetDefault("root", ".")
	v.SetDefault("source", SourceGo)
	v.SetDefault("packages", []string{"./..."})
	v.SetDefault("models", []string{})
	v.SetDefault("suffixes", []string{"Column", "Field", "Box", "Table", "Button"})
	v.SetDefault("valueHolders", []string{
		model.DataModelPkg + ".AbstractColumn",
		model.DataModelPkg + ".AbstractValueField",
	})
	v.SetDefault("actor", "datagen")
	v.SetDefault("workers", 1)
	v.SetDefault("debugDir", "")
	v.SetDefault("style.tabWidth", format.DefaultTabWidth)
	v.SetDefault("style.organizeImports", true)
	v.SetDefault("style.fixImports", false)
	v.SetDefault("journal.path", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "")
	v.SetDefault("log.maxSizeMB", 10)
	v.SetDefault("log.maxBackups", 3)
	v.SetDefault("log.maxAgeDays", 28)
	v.SetDefault("log.compress", false)
	v.SetDefault("watch.debounce", 300*time.Millisecond)
}

// Load reads the configuration file at path. An empty path looks for
// datagen.yaml in the working directory and falls back to defaults when
// there is none. Environment variables override file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(strings.TrimSuffix(FileName, filepath.Ext(FileName)))
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if used := v.ConfigFileUsed(); used != "" && !filepath.IsAbs(cfg.Root) {
		cfg.Root = filepath.Join(filepath.Dir(used), cfg.Root)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks value ranges and fills the module path from go.mod.
func (c *Config) Validate() error {
	switch c.Source {
	case SourceGo, SourceYAML:
	default:
		return fmt.Errorf("config: source must be %q or %q, got %q", SourceGo, SourceYAML, c.Source)
	}

	if c.Source == SourceYAML && len(c.Models) == 0 {
		return errors.New("config: source yaml needs at least one models file")
	}

	if c.Workers < 1 {
		return fmt.Errorf("config: workers must be positive, got %d", c.Workers)
	}

	if c.Module == "" {
		module, err := DetectModule(c.Root)
		if err != nil {
			return err
		}
		c.Module = module
	}

	return nil
}

// DetectModule returns the module path declared in root/go.mod.
func DetectModule(root string) (string, error) {
	data, err := os.ReadFile(filepath.Join(root, "go.mod"))
	if err != nil {
		return "", fmt.Errorf("config: module not set and go.mod unreadable: %w", err)
	}

	module := modfile.ModulePath(data)
	if module == "" {
		return "", fmt.Errorf("config: no module directive in %s", filepath.Join(root, "go.mod"))
	}

	return module, nil
}

// CollectConfig returns the naming configuration.
func (c *Config) CollectConfig() collect.Config {
	holders := make(map[model.TypeID]bool, len(c.ValueHolders))
	for _, h := range c.ValueHolders {
		holders[model.ParseTypeID(h)] = true
	}

	return collect.Config{Suffixes: c.Suffixes, Holders: holders}
}

// FormatStyle returns the formatting style.
func (c *Config) FormatStyle() format.Style {
	return format.Style{TabWidth: c.Style.TabWidth, OrganizeImports: c.Style.OrganizeImports}
}

// ResolvePath resolves p against the module root.
func (c *Config) ResolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}

	return filepath.Join(c.Root, p)
}
