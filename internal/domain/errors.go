package domain

import "errors"

// ErrInvalidFormat is returned when a value such as a date cannot be
// decoded from its wire or column form.
var ErrInvalidFormat = errors.New("invalid format")
