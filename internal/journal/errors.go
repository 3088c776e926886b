package journal

import "errors"

var (
	ErrDuplicateOrder    = errors.New("order already recorded")
	ErrUnsupportedDriver = errors.New("unsupported journal driver")
)
