// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// validLogLevels lists the accepted log level strings.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// ValidateConfig checks that all configuration values are within acceptable
// ranges and returns the first error encountered, or nil if valid.
// An empty MetricsAddr disables the metrics endpoint and is accepted.
func ValidateConfig(cfg Config) error {
	if cfg.DataDir == "" {
		return ErrEmptyDataDir
	}

	if cfg.MetricsAddr != "" {
		if err := validateAddr(cfg.MetricsAddr); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidMetricsAddr, err)
		}
	}

	if !validLogLevels[strings.ToLower(cfg.LogLevel)] {
		return ErrInvalidLogLevel
	}

	if cfg.RPCURL != "" {
		u, err := url.Parse(cfg.RPCURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%w: %q", ErrInvalidRPCURL, cfg.RPCURL)
		}
	}

	if cfg.Confirmations == 0 {
		return ErrInvalidConfirmations
	}

	return nil
}

// validateAddr checks that addr is a valid host:port address.
func validateAddr(addr string) error {
	_, _, err := net.SplitHostPort(addr)
	return err
}
