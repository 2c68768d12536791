package domain

import "errors"

var (
	ErrCatalogUnavailable    = errors.New("catalog unavailable")
	ErrClassifierUnavailable = errors.New("mood classifier unavailable")
	ErrInvalidInput          = errors.New("invalid input")
)
