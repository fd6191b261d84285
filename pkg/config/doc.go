// Package config loads application configuration from environment
// variables (optionally seeded from a .env file) into tagged structs.
//
// Each component of the service describes its own configuration struct
// with `env` tags and loads it independently:
//
//	var cfg pg.Config
//	config.MustLoad(&cfg)
//
// Parsing is delegated to github.com/caarlos0/env; .env loading to
// github.com/joho/godotenv.
package config
