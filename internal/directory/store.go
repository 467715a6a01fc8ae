// Package directory loads the physical-store directory from the entity
// store and builds the lookup indices the revenue resolver matches
// order items against.
package directory

import "strings"

// Collection is the entity-store collection holding stores.
const Collection = "Store"

// Store is a physical store as managed by the store-management UI.
// Read-only to this backend.
type Store struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NormalizeName is the comparison form for store names. Active store names
// are unique under this normalization; the resolver depends on that.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
