// Package config loads the defaults a script runs with.
//
// Values come from, in increasing precedence: built-in defaults, the first
// of ./gosh.yml, ./.gosh.yml, ./config/gosh.yml, ./config.yml and
// ~/.config/gosh/config.yml, a .env file, and the environment. Environment
// keys map onto nested config keys by splitting on underscores, so
// COMMAND_SHELL sets command.shell and GOSH_HTTP_TIMEOUT sets http.timeout.
//
//	cfg, err := config.Load()
//	cfg, err := config.Load(config.WithConfigFile("./ci.yml"))
package config
