// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import "errors"

var (
	// ErrInvalidMetricsAddr indicates the metrics listen address is malformed.
	ErrInvalidMetricsAddr = errors.New("config: invalid metrics address")

	// ErrInvalidLogLevel indicates the log level is not recognized.
	ErrInvalidLogLevel = errors.New("config: invalid log level (must be \"debug\", \"info\", \"warn\", or \"error\")")

	// ErrEmptyDataDir indicates the data directory path is empty.
	ErrEmptyDataDir = errors.New("config: data directory must not be empty")

	// ErrConfigNotFound indicates the configuration file does not exist.
	ErrConfigNotFound = errors.New("config: configuration file not found")

	// ErrInvalidConfigLine indicates a line in the config file is malformed.
	ErrInvalidConfigLine = errors.New("config: invalid configuration line")

	// ErrInvalidRPCURL indicates the chain RPC endpoint is not an http(s) URL.
	ErrInvalidRPCURL = errors.New("config: invalid rpc url")

	// ErrInvalidConfirmations indicates the confirmation depth is zero.
	ErrInvalidConfirmations = errors.New("config: confirmations must be at least 1")
)
