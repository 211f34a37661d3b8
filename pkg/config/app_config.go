package config

import (
	"os"
	"path/filepath"

	"github.com/OpenPeeDeeP/xdg"
	"github.com/imdario/mergo"
	yaml "github.com/jesseduffield/yaml"
)

// AppConfig contains the base configuration fields required for pgpdump.
type AppConfig struct {
	Debug      bool
	Version    string
	Commit     string
	BuildDate  string
	Name       string
	UserConfig *UserConfig
	ConfigDir  string
}

// UserConfig holds the user-configurable options, read from config.yml in the
// config directory. Flags given on the command line take precedence.
type UserConfig struct {
	// Output controls how dumps are written
	Output OutputConfig `yaml:"output,omitempty"`

	// Dump controls what a dump records
	Dump DumpConfig `yaml:"dump,omitempty"`
}

type OutputConfig struct {
	// Format is either "text" or "json"
	Format string `yaml:"format,omitempty"`
	// Pretty indents JSON output
	Pretty bool `yaml:"pretty,omitempty"`
	// Color highlights error messages on a terminal
	Color bool `yaml:"color,omitempty"`
}

type DumpConfig struct {
	Raw   bool `yaml:"raw,omitempty"`
	MPI   bool `yaml:"mpi,omitempty"`
	Grips bool `yaml:"grips,omitempty"`
	// RawLimit and JSONRawLimit bound the packet preview of the text and
	// JSON formats
	RawLimit     int `yaml:"rawLimit,omitempty"`
	JSONRawLimit int `yaml:"jsonRawLimit,omitempty"`
}

const (
	FormatText = "text"
	FormatJSON = "json"
)

// GetDefaultConfig returns the application default configuration
// NOTE: do not default a boolean to true, because false is the boolean zero
// value and would be ignored when merging the user's config
func GetDefaultConfig() UserConfig {
	return UserConfig{
		Output: OutputConfig{
			Format: FormatText,
			Pretty: false,
			Color:  false,
		},
		Dump: DumpConfig{
			RawLimit:     1024,
			JSONRawLimit: 2048,
		},
	}
}

// NewAppConfig makes a new app config
func NewAppConfig(name, version, commit, date string, debuggingFlag bool) (*AppConfig, error) {
	configDir, err := findOrCreateConfigDir(name)
	if err != nil {
		return nil, err
	}

	userConfig, err := loadUserConfigWithDefaults(configDir)
	if err != nil {
		return nil, err
	}

	appConfig := NewDefaultAppConfig(name, version, commit, date, debuggingFlag)
	appConfig.UserConfig = userConfig
	appConfig.ConfigDir = configDir

	return appConfig, nil
}

// NewDefaultAppConfig makes an app config from the defaults alone, with no
// config directory.
func NewDefaultAppConfig(name, version, commit, date string, debuggingFlag bool) *AppConfig {
	userConfig := GetDefaultConfig()
	return &AppConfig{
		Name:       name,
		Version:    version,
		Commit:     commit,
		BuildDate:  date,
		Debug:      debuggingFlag || os.Getenv("DEBUG") == "TRUE",
		UserConfig: &userConfig,
	}
}

// ConfigDirEnv overrides the config directory.
const ConfigDirEnv = "PGPDUMP_CONFIG_DIR"

func findOrCreateConfigDir(projectName string) (string, error) {
	dir := os.Getenv(ConfigDirEnv)
	if dir == "" {
		dir = xdg.New("pgpdump", projectName).ConfigHome()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

func loadUserConfigWithDefaults(configDir string) (*UserConfig, error) {
	config := GetDefaultConfig()

	return loadUserConfig(configDir, &config)
}

func loadUserConfig(configDir string, base *UserConfig) (*UserConfig, error) {
	content, err := os.ReadFile(filepath.Join(configDir, "config.yml"))
	if err != nil {
		if os.IsNotExist(err) {
			return base, nil
		}
		return nil, err
	}

	var user UserConfig
	if err := yaml.Unmarshal(content, &user); err != nil {
		return nil, err
	}
	if err := mergo.Merge(base, user, mergo.WithOverride); err != nil {
		return nil, err
	}

	return base, nil
}

// ConfigFilename returns the filename of the current config file
func (c *AppConfig) ConfigFilename() string {
	return filepath.Join(c.ConfigDir, "config.yml")
}
