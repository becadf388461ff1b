package config

import "github.com/caarlos0/env/v10"

// parseEnv overlays configuration from environment variables. Variables that
// are not set leave the current values untouched.
func parseEnv(config *Config) {
	_ = env.Parse(config)
}
