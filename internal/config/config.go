package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Resolver ResolverConfig `mapstructure:"resolver"`
	Menu     MenuConfig     `mapstructure:"menu"`
	Dispatch DispatchConfig `mapstructure:"dispatch"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Path   string `mapstructure:"path"`
}

// ResolverConfig holds manifest and size-probe resolution settings.
type ResolverConfig struct {
	ManifestTimeout time.Duration `mapstructure:"manifest_timeout"`
	ProbeTimeout    time.Duration `mapstructure:"probe_timeout"`
}

// MenuConfig holds menu interception settings.
type MenuConfig struct {
	ActionLabels       []string      `mapstructure:"action_labels"`
	CopyLinkLabels     []string      `mapstructure:"copy_link_labels"`
	DownloadLabel      string        `mapstructure:"download_label"`
	CorrelationTimeout time.Duration `mapstructure:"correlation_timeout"`
}

// DispatchConfig holds external-invocation settings.
type DispatchConfig struct {
	TargetsFile     string        `mapstructure:"targets_file"`
	SubtitleStagger time.Duration `mapstructure:"subtitle_stagger"`
}

// Load reads configuration from file and environment variables.
// Priority: environment variables > config file > defaults
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.streamgrab")
	}

	v.SetEnvPrefix("STREAMGRAB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Config file not found is fine: defaults + env vars apply.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// setDefaults sets default values in viper
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.path", "")

	v.SetDefault("resolver.manifest_timeout", 10*time.Second)
	v.SetDefault("resolver.probe_timeout", 5*time.Second)

	v.SetDefault("menu.action_labels", []string{"action"})
	v.SetDefault("menu.copy_link_labels", []string{"copy link", "copy url"})
	v.SetDefault("menu.download_label", "Download")
	v.SetDefault("menu.correlation_timeout", 15*time.Second)

	v.SetDefault("dispatch.targets_file", "")
	v.SetDefault("dispatch.subtitle_stagger", 800*time.Millisecond)
}

// Address returns the server address string.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
