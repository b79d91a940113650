package config

import "os"

// parseEnv overlays Config with values from the environment. Variables are
// typically provided via a .env file loaded at process start.
func parseEnv(cfg *Config) {
	if v := os.Getenv("MEDAI_ENDPOINT_ADDR"); v != "" {
		cfg.EndpointAddr = v
	}
	if v := os.Getenv("MEDAI_DATABASE_DSN"); v != "" {
		cfg.DatabaseDSN = v
	}
	if v := os.Getenv("MEDAI_SECRET_KEY"); v != "" {
		cfg.SecretKey = v
	}
}
