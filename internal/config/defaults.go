package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes the environment variables read by LoadDefaults.
const EnvPrefix = "KOA2"

// Defaults are user-level fallbacks for options not given on the command
// line.
type Defaults struct {
	View string
	CSS  string
	Git  bool
}

// LoadDefaults reads defaults from an optional YAML file and from the
// KOA2_VIEW, KOA2_CSS and KOA2_GIT environment variables. The environment
// wins over the file; command-line options win over both.
func LoadDefaults(path string) (Defaults, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetDefault("view", "")
	v.SetDefault("css", "")
	v.SetDefault("git", false)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Defaults{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	return Defaults{
		View: v.GetString("view"),
		CSS:  v.GetString("css"),
		Git:  v.GetBool("git"),
	}, nil
}
