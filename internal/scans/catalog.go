// Package scans serves read-only crop scans by field and by farmer and
// formats them for display.
package scans

import (
	"sync"

	"cropcura/internal/types"
)

// Catalog is a keyed association of scans. Lookups of unknown keys return an
// empty slice.
type Catalog struct {
	mu       sync.RWMutex
	byField  map[string][]types.CropScan
	byFarmer map[string][]types.CropScan
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		byField:  make(map[string][]types.CropScan),
		byFarmer: make(map[string][]types.CropScan),
	}
}

// Add indexes a scan under its field and under farmerID (when non-empty).
func (c *Catalog) Add(farmerID string, scan types.CropScan) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byField[scan.FieldID] = append(c.byField[scan.FieldID], scan)
	if farmerID != "" {
		c.byFarmer[farmerID] = append(c.byFarmer[farmerID], scan)
	}
}

// ForField returns the scans of one field.
func (c *Catalog) ForField(fieldID string) []types.CropScan {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return copyScans(c.byField[fieldID])
}

// ForFarmer returns the scans across all of a farmer's fields.
func (c *Catalog) ForFarmer(farmerID string) []types.CropScan {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return copyScans(c.byFarmer[farmerID])
}

func copyScans(src []types.CropScan) []types.CropScan {
	out := make([]types.CropScan, 0, len(src))
	for _, s := range src {
		s.Recommendations = append([]string(nil), s.Recommendations...)
		out = append(out, s)
	}
	return out
}
