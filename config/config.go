// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

// Package config loads and stores the node configuration of a libmint minter.
//
// The file format is a flat list of "key = value" lines. Blank lines and lines
// starting with '#' are ignored, unknown keys are skipped so that older
// binaries can read newer files.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	// configFileName is the file name of the configuration inside the data directory.
	configFileName = "config"

	// dbFileName is the bbolt database file holding the minter state.
	dbFileName = "mint.db"
)

// Config holds the node-level settings of a minter. Sale parameters live in
// the minter state, not here.
type Config struct {
	DataDir     string // Directory holding the state database
	MetricsAddr string // host:port for the Prometheus endpoint
	Environment string // Deployment label attached to every log line
	LogLevel    string // debug, info, warn or error
	LogFile     string // Optional log file; empty logs to stdout

	RPCURL        string // BSV node JSON-RPC endpoint; empty disables chain settlement
	RPCUser       string
	RPCPassword   string
	Confirmations uint64 // blocks a payment needs before it is settled
}

// DefaultDataDir returns ~/.libmint, or .libmint in the working directory
// when the home directory cannot be determined.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".libmint"
	}
	return filepath.Join(home, ".libmint")
}

// DefaultConfig returns a configuration with all defaults filled in.
func DefaultConfig() Config {
	return Config{
		DataDir:     DefaultDataDir(),
		MetricsAddr: ":9464",
		Environment: "",
		LogLevel:    "info",
		LogFile:     "",

		Confirmations: 1,
	}
}

// ConfigPath returns the configuration file path inside dataDir.
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, configFileName)
}

// DBPath returns the path of the state database inside the data directory.
func (c Config) DBPath() string {
	return filepath.Join(c.DataDir, dbFileName)
}

// LoadConfig reads the configuration file at path. Keys missing from the
// file keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return cfg, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, err := parseKeyValue(line)
		if err != nil {
			return cfg, fmt.Errorf("%w: line %d: %q", ErrInvalidConfigLine, lineNo, line)
		}
		switch key {
		case "datadir":
			cfg.DataDir = value
		case "metrics":
			cfg.MetricsAddr = value
		case "environment":
			cfg.Environment = value
		case "loglevel":
			cfg.LogLevel = value
		case "logfile":
			cfg.LogFile = value
		case "rpcurl":
			cfg.RPCURL = value
		case "rpcuser":
			cfg.RPCUser = value
		case "rpcpass":
			cfg.RPCPassword = value
		case "confirmations":
			n, err := strconv.ParseUint(value, 10, 64)
			if err != nil {
				return cfg, fmt.Errorf("%w: line %d: %q", ErrInvalidConfigLine, lineNo, line)
			}
			cfg.Confirmations = n
		}
	}
	if err := scanner.Err(); err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	return cfg, nil
}

// SaveConfig writes cfg to path, creating parent directories as needed.
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}

	var b strings.Builder
	b.WriteString("# libmint Configuration\n")
	fmt.Fprintf(&b, "datadir = %s\n", cfg.DataDir)
	fmt.Fprintf(&b, "metrics = %s\n", cfg.MetricsAddr)
	fmt.Fprintf(&b, "environment = %s\n", cfg.Environment)
	fmt.Fprintf(&b, "loglevel = %s\n", cfg.LogLevel)
	fmt.Fprintf(&b, "logfile = %s\n", cfg.LogFile)
	b.WriteString("\n# Chain settlement\n")
	fmt.Fprintf(&b, "rpcurl = %s\n", cfg.RPCURL)
	fmt.Fprintf(&b, "rpcuser = %s\n", cfg.RPCUser)
	fmt.Fprintf(&b, "rpcpass = %s\n", cfg.RPCPassword)
	fmt.Fprintf(&b, "confirmations = %d\n", cfg.Confirmations)

	if err := os.WriteFile(path, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// parseKeyValue splits a "key = value" line on the first '='.
func parseKeyValue(line string) (string, string, error) {
	idx := strings.IndexByte(line, '=')
	if idx <= 0 {
		return "", "", ErrInvalidConfigLine
	}
	key := strings.ToLower(strings.TrimSpace(line[:idx]))
	value := strings.TrimSpace(line[idx+1:])
	if key == "" {
		return "", "", ErrInvalidConfigLine
	}
	return key, value, nil
}
