package entity

import (
	"errors"
	"fmt"
)

// ErrConfiguration marks defects in static configuration such as a token catalog entry.
var ErrConfiguration = errors.New("configuration error")

var (
	// ErrDecimalsMissing is returned when a token declares no decimal precision.
	ErrDecimalsMissing = fmt.Errorf("decimals missing: %w", ErrConfiguration)
	// ErrDecimalsInvalid is returned for negative or oversized decimal precision.
	ErrDecimalsInvalid = fmt.Errorf("decimals invalid: %w", ErrConfiguration)
)
