package node

import "errors"

// ErrNilParam indicates a required parameter is nil.
var ErrNilParam = errors.New("node: required parameter is nil")
