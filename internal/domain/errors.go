package domain

import "errors"

// ErrOrderNotFound is returned when no placed order has the requested id.
var ErrOrderNotFound = errors.New("order not found")
