package postgres

import (
	"strings"

	"github.com/oklog/ulid/v2"
)

// ULIDGenerator builds transaction IDs of the form <PREFIX>-<ORDERREF>-<ULID>.
// The ULID suffix makes IDs collision resistant without any coordination, so
// concurrent writers never race on a counter.
type ULIDGenerator struct{}

// NewULIDGenerator creates a new ULIDGenerator.
func NewULIDGenerator() *ULIDGenerator {
	return &ULIDGenerator{}
}

// Generate generates a new transaction ID. orderRef may be empty for entries
// not tied to an order.
func (g *ULIDGenerator) Generate(prefix, orderRef string) string {
	parts := []string{prefix}
	if orderRef != "" {
		parts = append(parts, orderRef)
	}
	parts = append(parts, ulid.Make().String())

	return strings.Join(parts, "-")
}
