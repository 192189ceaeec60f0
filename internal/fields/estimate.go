package fields

import (
	"context"
	"math/rand/v2"
	"sync"

	"cropcura/internal/geo"
	"cropcura/internal/types"
)

// HealthClassifier assigns a health status to a newly drawn field.
type HealthClassifier interface {
	Classify(ctx context.Context, coords []types.FieldCoordinate) (types.HealthStatus, error)
}

// AreaEstimator computes a field's area in hectares.
type AreaEstimator interface {
	EstimateHectares(coords []types.FieldCoordinate) float64
}

// RandomClassifier is a placeholder classifier that picks a status uniformly
// at random. It carries no agronomic meaning.
type RandomClassifier struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomClassifier creates a RandomClassifier from a seed.
func NewRandomClassifier(seed uint64) *RandomClassifier {
	return &RandomClassifier{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Classify returns a random status.
func (c *RandomClassifier) Classify(_ context.Context, _ []types.FieldCoordinate) (types.HealthStatus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return types.HealthStatuses[c.rng.IntN(len(types.HealthStatuses))], nil
}

// GeodesicArea estimates area as the spherical area of the outline.
type GeodesicArea struct{}

// EstimateHectares implements AreaEstimator.
func (GeodesicArea) EstimateHectares(coords []types.FieldCoordinate) float64 {
	return geo.AreaHectares(coords)
}
