package gf256

import "github.com/dolthub/swiss"

// InverseCache holds precomputed inverse tables keyed by polynomial.
// The constructor builds every table before returning; afterwards the cache
// is never written, so any number of goroutines may call Lookup without
// synchronization.
type InverseCache struct {
	tables *swiss.Map[Polynomial, *[FieldSize]byte]
}

// NewInverseCache builds the inverse table of every distinct polynomial in
// polys using inv (Euclid when nil).
func NewInverseCache(polys []Polynomial, inv Inverter) *InverseCache {
	if inv == nil {
		inv = Euclid{}
	}

	tables := swiss.NewMap[Polynomial, *[FieldSize]byte](uint32(len(polys))) //nolint:gosec // catalog-sized
	for _, p := range polys {
		if tables.Has(p) {
			continue
		}
		table := InverseTable(p, inv)
		tables.Put(p, &table)
	}
	return &InverseCache{tables: tables}
}

// Lookup returns the inverse table for p. The returned table must not be
// modified.
func (c *InverseCache) Lookup(p Polynomial) (*[FieldSize]byte, bool) {
	return c.tables.Get(p)
}

// Len returns the number of cached polynomials.
func (c *InverseCache) Len() int {
	return c.tables.Count()
}
