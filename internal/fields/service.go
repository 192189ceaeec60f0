package fields

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"cropcura/internal/events"
	"cropcura/internal/geo"
	"cropcura/internal/types"
)

// User-facing messages of the add-field flow.
const (
	MsgNameRequired     = "Please enter a field name"
	MsgBoundaryRequired = "Please draw a field boundary on the map"
	MsgBoundaryCrosses  = "Field boundary must not cross itself"
)

// AddFieldInput is the add-field form.
type AddFieldInput struct {
	Name        string                  `json:"name"`
	Coordinates []types.FieldCoordinate `json:"coordinates"`
	CropType    string                  `json:"cropType,omitempty"`
}

// AddFieldResult is a saved field plus its confirmation and any warnings.
type AddFieldResult struct {
	Field    types.Field
	Message  string
	Warnings []string
}

// Summary counts fields per health status.
type Summary struct {
	Total     int `json:"total"`
	Healthy   int `json:"healthy"`
	Moderate  int `json:"moderate"`
	Unhealthy int `json:"unhealthy"`
}

// HealthSummary counts fields per health status.
func HealthSummary(fields []types.Field) Summary {
	s := Summary{Total: len(fields)}
	for _, f := range fields {
		switch f.HealthStatus {
		case types.HealthHealthy:
			s.Healthy++
		case types.HealthModerate:
			s.Moderate++
		case types.HealthUnhealthy:
			s.Unhealthy++
		}
	}
	return s
}

// Service runs the add-field flow against a Registry.
type Service struct {
	registry   *Registry
	classifier HealthClassifier
	estimator  AreaEstimator
	publisher  events.Publisher
	clock      types.Clock
	logger     *slog.Logger
}

// ServiceConfig holds the dependencies for creating a Service.
type ServiceConfig struct {
	Registry   *Registry
	Classifier HealthClassifier
	Estimator  AreaEstimator
	Publisher  events.Publisher
	Clock      types.Clock
	Logger     *slog.Logger
}

// NewService creates a Service.
// If Classifier is nil, a clock-seeded RandomClassifier is used.
// If Estimator is nil, GeodesicArea is used.
// If Clock is nil, RealClock is used.
// If Logger is nil, slog.Default() is used.
func NewService(cfg ServiceConfig) *Service {
	clock := cfg.Clock
	if clock == nil {
		clock = types.RealClock{}
	}
	classifier := cfg.Classifier
	if classifier == nil {
		classifier = NewRandomClassifier(uint64(clock.Now().UnixNano()))
	}
	estimator := cfg.Estimator
	if estimator == nil {
		estimator = GeodesicArea{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	registry := cfg.Registry
	if registry == nil {
		registry = NewRegistry()
	}
	return &Service{
		registry:   registry,
		classifier: classifier,
		estimator:  estimator,
		publisher:  cfg.Publisher,
		clock:      clock,
		logger:     logger,
	}
}

// Registry returns the underlying registry.
func (s *Service) Registry() *Registry {
	return s.registry
}

// List returns an owner's fields in insertion order.
func (s *Service) List(owner string) []types.Field {
	return s.registry.List(owner)
}

// Get returns one field or a not_found AppError.
func (s *Service) Get(owner, id string) (types.Field, error) {
	f, ok := s.registry.Get(owner, id)
	if !ok {
		return types.Field{}, types.NewAppError(types.ErrCodeNotFoundField, fmt.Sprintf("field %q not found", id), nil)
	}
	return f, nil
}

// AddField validates the form and appends a new field. On validation failure
// the registry is untouched. A boundary that crosses itself is still saved
// and reported as a warning.
func (s *Service) AddField(ctx context.Context, owner string, in AddFieldInput) (AddFieldResult, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return AddFieldResult{}, types.NewAppErrorWithDetails(types.ErrCodeValidationFieldName, MsgNameRequired, nil,
			map[string]any{"field": "name"})
	}

	var warnings []string
	switch err := geo.Validate(in.Coordinates); {
	case errors.Is(err, geo.ErrTooFewVertices):
		return AddFieldResult{}, types.NewAppErrorWithDetails(types.ErrCodeValidationFieldBoundary, MsgBoundaryRequired, err,
			map[string]any{"field": "coordinates", "min": geo.MinVertices, "got": len(in.Coordinates)})
	case errors.Is(err, geo.ErrSelfIntersecting):
		warnings = append(warnings, MsgBoundaryCrosses)
	}

	status, err := s.classifier.Classify(ctx, in.Coordinates)
	if err != nil {
		return AddFieldResult{}, types.NewAppError(types.ErrCodeInternalUnexpected, "failed to classify field health", err)
	}

	now := s.clock.Now()
	field := types.Field{
		ID:           newFieldID(),
		Name:         name,
		Coordinates:  append([]types.FieldCoordinate(nil), in.Coordinates...),
		HealthStatus: status,
		Area:         s.estimator.EstimateHectares(in.Coordinates),
		CropType:     strings.TrimSpace(in.CropType),
		LastUpdated:  now.Format(time.RFC3339),
	}
	s.registry.Add(owner, field)

	s.logger.InfoContext(ctx, "field added",
		"owner", owner,
		"field_id", field.ID,
		"vertices", len(field.Coordinates),
		"area_ha", field.Area,
		"health", string(field.HealthStatus),
	)

	actor, _ := types.GetActor(ctx)
	events.Emit(ctx, s.publisher, s.logger, events.New(events.KindFieldAdded, actor.SessionID, field.ID, now,
		map[string]any{"name": field.Name, "owner": owner, "area_ha": field.Area}))

	return AddFieldResult{
		Field:    field,
		Message:  `Field "` + field.Name + `" has been added successfully`,
		Warnings: warnings,
	}, nil
}

func newFieldID() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return "field-" + id.String()
}
