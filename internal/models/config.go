package models

import (
	"errors"
	"flag"
	"fmt"
	"os"
)

// ConfigHandler gives modules a snapshot of the running configuration.
type ConfigHandler interface {
	Fetch() Config
}

const (
	defaultCredentialsFile string = "wifi_creds.yaml"
	defaultEnvPrefix       string = "WIFI_CRED"
	defaultListeningPort   string = "8080"
	defaultHeaderOutput    string = "-"
	defaultLogLevel        string = "info"
)

// Config holds the settings shared by every subcommand.
type Config struct {
	CredentialsFile string
	EnvPrefix       string
	Port            string
	Interface       string
	HeaderOutput    string
	LogLevel        string
	ServeSecrets    bool
	Scan            bool
}

// GetEnv returns the value of the environment variable name, or
// defaultValue when it is unset.
func GetEnv(name string, defaultValue string) string {
	value, ok := os.LookupEnv(name)
	if !ok {
		return defaultValue
	}
	return value
}

// ErrUnknownCommand is returned by NewConfig for a subcommand it does not know.
var ErrUnknownCommand = errors.New("unknown command")

// Subcommands
const (
	CommandList      = "list"
	CommandHeader    = "header"
	CommandProvision = "provision"
	CommandServe     = "serve"
)

// NewConfig parses args for the named subcommand. Environment variables
// provide the defaults, flags override them. Each subcommand only accepts
// the flags it uses.
func NewConfig(name string, args []string) (*Config, error) {
	cfg := Config{
		Port:         GetEnv("WIFI_CREDS_PORT", defaultListeningPort),
		Interface:    GetEnv("WIFI_CREDS_INTERFACE", ""),
		HeaderOutput: defaultHeaderOutput,
		Scan:         true,
	}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)

	file := GetEnv("WIFI_CREDS_FILE", defaultCredentialsFile)
	prefix := GetEnv("WIFI_CREDS_ENV_PREFIX", defaultEnvPrefix)
	level := GetEnv("WIFI_CREDS_LOG_LEVEL", defaultLogLevel)

	fs.StringVar(&cfg.CredentialsFile, "credentials", file, fmt.Sprintf("YAML credentials file, empty to skip (default: %s)", defaultCredentialsFile))
	fs.StringVar(&cfg.EnvPrefix, "env-prefix", prefix, fmt.Sprintf("Prefix of credential environment variables, empty to skip (default: %s)", defaultEnvPrefix))
	fs.StringVar(&cfg.LogLevel, "log-level", level, fmt.Sprintf("Log level (default: %s)", defaultLogLevel))

	switch name {
	case CommandList:
	case CommandHeader:
		fs.StringVar(&cfg.HeaderOutput, "o", defaultHeaderOutput, "Header output path, - for stdout")
	case CommandProvision:
		fs.StringVar(&cfg.Interface, "interface", cfg.Interface, "Wireless interface to bind provisioned profiles to (default: any)")
	case CommandServe:
		fs.StringVar(&cfg.Port, "listening-port", cfg.Port, fmt.Sprintf("Listening port of the HTTP server (default: %s)", defaultListeningPort))
		fs.StringVar(&cfg.Interface, "interface", cfg.Interface, "Wireless interface to scan with (default: first managed)")
		fs.BoolVar(&cfg.ServeSecrets, "serve-secrets", false, "Include passwords in the header served over HTTP")
		fs.BoolVar(&cfg.Scan, "scan", true, "Scan for access points through NetworkManager")
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownCommand, name)
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%s: unexpected arguments %v", name, fs.Args())
	}
	return &cfg, nil
}

// Fetch returns a copy of the configuration
func (c *Config) Fetch() Config {
	return *c
}
