package config

import (
	"marketdesk-api/pkg/confkit"
	"marketdesk-api/pkg/pricesync"
	"marketdesk-api/pkg/quote"
)

// DefaultPath is the main configuration file relative to the project root.
const DefaultPath = "etc/marketdesk.yaml"

// MustLoadDefault loads etc/marketdesk.yaml from the project root and panics on error.
func MustLoadDefault() *Config {
	return MustLoad(confkit.MustProjectPath(DefaultPath))
}

// MustLoadQuote loads etc/quote.yaml from the project root. It isolates the
// provider registry for tools that do not need the REST configuration.
func MustLoadQuote() *quote.Config {
	cfg, err := quote.LoadConfig(confkit.MustProjectPath("etc/quote.yaml"))
	if err != nil {
		panic(err)
	}
	return cfg
}

// MustLoadSync loads etc/sync.yaml from the project root and panics on error.
func MustLoadSync() *pricesync.Config {
	cfg, err := pricesync.LoadConfig(confkit.MustProjectPath("etc/sync.yaml"))
	if err != nil {
		panic(err)
	}
	return cfg
}
