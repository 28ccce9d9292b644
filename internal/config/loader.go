package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// InitViper initializes Viper with the ambient settings file and
// environment variables. If configFile is empty, it searches standard
// locations for please-settings.ini. Settings are a plain INI file
// (config type "ini"), distinct from the policy DSL's own bespoke
// grammar — this is what gives viper's internal gopkg.in/ini.v1 reader a
// genuine, directly-exercised home in this repository.
func InitViper(configFile string) {
	viper.SetConfigType("ini")

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else if found := findConfigFile(); found != "" {
		viper.SetConfigFile(found)
	} else {
		viper.SetConfigName("please-settings")
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix("PLEASE_SETTINGS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	bindNestedEnvKeys()
}

// findConfigFile searches the current directory, $HOME/.please, and
// /etc/please, in that order, for please-settings.ini; the first hit wins.
func findConfigFile() string {
	home, _ := os.UserHomeDir()
	paths := []string{
		".",
		filepath.Join(home, ".please"),
		"/etc/please",
	}
	for _, dir := range paths {
		path := filepath.Join(dir, "please-settings.ini")
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func bindNestedEnvKeys() {
	_ = viper.BindEnv("policy_file")
	_ = viper.BindEnv("strict")
	_ = viper.BindEnv("action_log.dir")
	_ = viper.BindEnv("action_log.retention_days")
	_ = viper.BindEnv("action_log.max_file_size_mb")
	_ = viper.BindEnv("action_log.syslog")
	_ = viper.BindEnv("token_cache.dir")
	_ = viper.BindEnv("token_cache.fresh_seconds")
	_ = viper.BindEnv("tracing.enabled")
	_ = viper.BindEnv("dev_mode")
}

// LoadSettings reads the settings file, applies environment overrides,
// sets defaults, and validates the result.
func LoadSettings() (*Settings, error) {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read settings file: %w", err)
		}
	}

	var s Settings
	if err := viper.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	s.SetDefaults()
	s.SetDevDefaults()

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("settings validation failed: %w", err)
	}

	return &s, nil
}

// ConfigFileUsed returns the path to the settings file that was loaded,
// or empty string if none was found (defaults-only mode).
func ConfigFileUsed() string {
	return viper.ConfigFileUsed()
}
