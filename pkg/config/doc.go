// Package config loads typed configuration from environment variables.
//
// It wraps github.com/caarlos0/env/v11 for struct-tag parsing and
// github.com/joho/godotenv for optional .env files. The agent itself is
// configured by the host through senzor.Config, but every component also
// exposes an env-tagged Config so that CLIs and server-side hosts can be
// driven from the environment:
//
//	type Config struct {
//	    WebID    string `env:"SENZOR_WEB_ID,required"`
//	    Endpoint string `env:"SENZOR_ENDPOINT"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//	    return err
//	}
//
// Load reads the default .env file (if present) once per process before
// parsing. LoadEnv loads explicit files; later files do not override values
// already set in the environment.
//
// # Errors
//
//   - ErrParsingConfig – env.Parse failed (missing required value, bad duration...).
//   - ErrNilPointer – Load was given a nil pointer.
//   - ErrLoadingEnvFile – LoadEnv could not read a file.
package config
