// Package geo converts field outlines into orb geometries and answers the
// questions the map and the add-field flow need: is the outline usable, how
// large is it, and what box contains it.
package geo

import (
	"errors"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"cropcura/internal/types"
)

// MinVertices is the smallest vertex count that forms a polygon.
const MinVertices = 3

// MinAreaHectares is the floor applied to estimated areas so a saved field
// never reports zero.
const MinAreaHectares = 0.1

const sqMetersPerHectare = 10_000

var (
	// ErrTooFewVertices is returned for outlines with fewer than MinVertices points.
	ErrTooFewVertices = errors.New("polygon needs at least 3 vertices")
	// ErrSelfIntersecting is returned for outlines whose edges cross.
	ErrSelfIntersecting = errors.New("polygon edges cross each other")
)

// Point converts a coordinate to an orb point (X is longitude).
func Point(c types.FieldCoordinate) orb.Point {
	return orb.Point{c.Lng, c.Lat}
}

// Ring builds a closed orb ring from an outline. An outline that already
// repeats its first vertex is not closed twice.
func Ring(coords []types.FieldCoordinate) orb.Ring {
	ring := make(orb.Ring, 0, len(coords)+1)
	for _, c := range coords {
		ring = append(ring, Point(c))
	}
	if len(ring) > 0 && !ring.Closed() {
		ring = append(ring, ring[0])
	}
	return ring
}

// vertexCount returns the number of vertices, ignoring a closing duplicate.
func vertexCount(coords []types.FieldCoordinate) int {
	n := len(coords)
	if n > 1 && coords[0] == coords[n-1] {
		n--
	}
	return n
}

// Validate reports whether an outline forms a simple polygon.
// ErrTooFewVertices takes precedence over ErrSelfIntersecting.
func Validate(coords []types.FieldCoordinate) error {
	if vertexCount(coords) < MinVertices {
		return ErrTooFewVertices
	}
	if !IsSimple(Ring(coords)) {
		return ErrSelfIntersecting
	}
	return nil
}

// IsSimple reports whether no two non-adjacent edges of a closed ring touch.
// Rings are small (hand-drawn outlines) so the pairwise check is fine.
func IsSimple(ring orb.Ring) bool {
	n := len(ring) - 1 // edges in a closed ring
	if n < MinVertices {
		return false
	}
	for i := 0; i < n; i++ {
		a1, a2 := ring[i], ring[i+1]
		for j := i + 1; j < n; j++ {
			// Adjacent edges share a vertex by construction.
			if j == i+1 || (i == 0 && j == n-1) {
				continue
			}
			if segmentsIntersect(a1, a2, ring[j], ring[j+1]) {
				return false
			}
		}
	}
	return true
}

func orientation(p, q, r orb.Point) int {
	v := (q[1]-p[1])*(r[0]-q[0]) - (q[0]-p[0])*(r[1]-q[1])
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func onSegment(p, q, r orb.Point) bool {
	return q[0] <= math.Max(p[0], r[0]) && q[0] >= math.Min(p[0], r[0]) &&
		q[1] <= math.Max(p[1], r[1]) && q[1] >= math.Min(p[1], r[1])
}

func segmentsIntersect(p1, q1, p2, q2 orb.Point) bool {
	o1 := orientation(p1, q1, p2)
	o2 := orientation(p1, q1, q2)
	o3 := orientation(p2, q2, p1)
	o4 := orientation(p2, q2, q1)

	if o1 != o2 && o3 != o4 {
		return true
	}
	// Collinear overlaps.
	return (o1 == 0 && onSegment(p1, p2, q1)) ||
		(o2 == 0 && onSegment(p1, q2, q1)) ||
		(o3 == 0 && onSegment(p2, p1, q2)) ||
		(o4 == 0 && onSegment(p2, q1, q2))
}

// AreaHectares returns the spherical area of an outline in hectares, rounded
// to one decimal and floored at MinAreaHectares.
func AreaHectares(coords []types.FieldCoordinate) float64 {
	if vertexCount(coords) < MinVertices {
		return MinAreaHectares
	}
	m2 := math.Abs(geo.Area(orb.Polygon{Ring(coords)}))
	ha := math.Round(m2/sqMetersPerHectare*10) / 10
	return math.Max(ha, MinAreaHectares)
}
