package geo

import (
	"github.com/paulmach/orb"

	"cropcura/internal/types"
)

// Bounds is a lat/lng bounding box in the south-west / north-east form map
// clients expect.
type Bounds struct {
	South float64 `json:"south"`
	West  float64 `json:"west"`
	North float64 `json:"north"`
	East  float64 `json:"east"`
}

func fromOrb(b orb.Bound) Bounds {
	return Bounds{South: b.Min[1], West: b.Min[0], North: b.Max[1], East: b.Max[0]}
}

func (b Bounds) orb() orb.Bound {
	return orb.Bound{Min: orb.Point{b.West, b.South}, Max: orb.Point{b.East, b.North}}
}

// Center returns the midpoint of the box.
func (b Bounds) Center() types.FieldCoordinate {
	c := b.orb().Center()
	return types.FieldCoordinate{Lat: c[1], Lng: c[0]}
}

// Contains reports whether c lies inside or on the edge of the box.
func (b Bounds) Contains(c types.FieldCoordinate) bool {
	return b.orb().Contains(Point(c))
}

// BoundsOf returns the box around one outline. ok is false for an empty outline.
func BoundsOf(coords []types.FieldCoordinate) (Bounds, bool) {
	return BoundsOfAll([][]types.FieldCoordinate{coords})
}

// BoundsOfAll returns the box around every vertex of every outline.
func BoundsOfAll(outlines [][]types.FieldCoordinate) (Bounds, bool) {
	var (
		bound orb.Bound
		seen  bool
	)
	for _, coords := range outlines {
		for _, c := range coords {
			p := Point(c)
			if !seen {
				bound = p.Bound()
				seen = true
				continue
			}
			bound = bound.Extend(p)
		}
	}
	if !seen {
		return Bounds{}, false
	}
	return fromOrb(bound), true
}
