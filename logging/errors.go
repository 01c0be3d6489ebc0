package logging

import "errors"

// ErrUnknownLevel indicates a log level name that is not recognized.
var ErrUnknownLevel = errors.New("logging: unknown level")
