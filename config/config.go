/*
Package config loads the server's runtime settings from an optional TOML
file, layered over defaults that match the dictionary package's own
built-in constants. A missing file is not an error; every field just
keeps its default.
*/
package config

import (
	"errors"
	"os"

	"github.com/BurntSushi/toml"
	pkgerrors "github.com/pkg/errors"

	"github.com/bitmaptrie/trieserve/dictionary"
)

// Config is the full set of values a deployment can override.
type Config struct {
	// Server holds the two transport listen addresses.
	Server ServerConfig `toml:"server"`
	// Log holds the configured log level. cmd/trieserve does not apply
	// it; the root log15 handler's level comes from the --verbosity flag.
	Log LogConfig `toml:"log"`
	// Search reports the dictionary-level search tuning. Only
	// RecentQueriesSize is read (by transport/http); WordWindow,
	// MinTermLength and MaxSearchResults are decoded but do not change
	// the dictionary package's compile-time constants.
	Search SearchConfig `toml:"search"`
	// Dictionaries declares the named dictionaries to create at startup,
	// each with its own attribute schema.
	Dictionaries []DictionaryConfig `toml:"dictionaries"`
}

type ServerConfig struct {
	TCPAddr  string `toml:"tcp_addr"`
	HTTPAddr string `toml:"http_addr"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

type SearchConfig struct {
	WordWindow       int `toml:"word_window"`
	MinTermLength    int `toml:"min_term_length"`
	MaxSearchResults int `toml:"max_search_results"`
	// RecentQueriesSize bounds the in-memory recent-query ring buffer
	// transport/http exposes over /recent.
	RecentQueriesSize int `toml:"recent_queries_size"`
}

type DictionaryConfig struct {
	Name       string            `toml:"name"`
	Attributes []AttributeConfig `toml:"attributes"`
}

type AttributeConfig struct {
	Name string `toml:"name"`
	Mode string `toml:"mode"`
}

// Default returns the built-in configuration: no pre-declared
// dictionaries, info-level logging, and the dictionary package's own
// search tuning constants.
func Default() Config {
	return Config{
		Server: ServerConfig{
			TCPAddr:  ":7777",
			HTTPAddr: ":8080",
		},
		Log: LogConfig{Level: "info"},
		Search: SearchConfig{
			WordWindow:        dictionary.WordWindow,
			MinTermLength:     dictionary.MinTermLength,
			MaxSearchResults:  dictionary.MaxSearchResults,
			RecentQueriesSize: 50,
		},
	}
}

// Load reads path as TOML over Default(). A path that does not exist
// returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, pkgerrors.Wrapf(err, "decode config %s", path)
	}
	return cfg, nil
}

// Schema converts a DictionaryConfig's attribute list into the
// dictionary package's AttributeDef slice.
func (d DictionaryConfig) Schema() []dictionary.AttributeDef {
	defs := make([]dictionary.AttributeDef, len(d.Attributes))
	for i, a := range d.Attributes {
		defs[i] = dictionary.AttributeDef{Name: a.Name, Mode: dictionary.ParseAttributeSearchMode(a.Mode)}
	}
	return defs
}
