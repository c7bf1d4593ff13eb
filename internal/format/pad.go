// Package format holds small string formatting helpers.
package format

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// DefaultWidth is the padded width used by callers that have no preference.
const DefaultWidth = 5

var (
	// ErrExceedsWidth indicates the number has more digits than the width.
	ErrExceedsWidth = errors.New("format: number exceeds width")

	// ErrNegative indicates a negative number was given.
	ErrNegative = errors.New("format: number must not be negative")

	// ErrInvalidWidth indicates a width below 1.
	ErrInvalidWidth = errors.New("format: width must be at least 1")
)

// PadLeftZero formats n in decimal, left-padded with zeros to width digits.
//
//	PadLeftZero(42, 5)     // "00042"
//	PadLeftZero(100000, 5) // ErrExceedsWidth
func PadLeftZero(n int64, width int) (string, error) {
	if width < 1 {
		return "", fmt.Errorf("%w: %d", ErrInvalidWidth, width)
	}
	if n < 0 {
		return "", fmt.Errorf("%w: %d", ErrNegative, n)
	}

	digits := strconv.FormatInt(n, 10)
	if len(digits) > width {
		return "", fmt.Errorf("%w: %d has %d digits, width is %d", ErrExceedsWidth, n, len(digits), width)
	}
	return strings.Repeat("0", width-len(digits)) + digits, nil
}
