package catalog

import "errors"

var (
	ErrProductNotFound = errors.New("product not found")
	ErrUnknownShape    = errors.New("catalog response matches no known shape")
)
