package invoicing

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrAlreadyInvoiced is returned when closing an examination that
	// already carries an invoice.
	ErrAlreadyInvoiced = errors.New("examination is already invoiced")

	// ErrConflict is returned when the invoicing transaction kept losing
	// serialization conflicts after all retries.
	ErrConflict = errors.New("invoicing conflict, retry later")
)

// ValidationErrors maps field names to human readable messages.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, v[f]))
	}
	return strings.Join(parts, "; ")
}
