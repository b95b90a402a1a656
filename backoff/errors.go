package backoff

import "errors"

// ErrInvalidArgument is wrapped by constructor validation errors.
var ErrInvalidArgument = errors.New("invalid argument")
