package external

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"cropcura/internal/config"
	"cropcura/internal/security"
	"cropcura/internal/types"
)

// Notification texts shown after a "use my location" request.
const (
	MsgLocationFound       = "Location found! The map will center on your position."
	MsgLocationFailed      = "Could not get your location. Please allow location access."
	MsgLocationUnsupported = "Geolocation is not supported by your browser."
)

// maxLocationRedirects bounds redirects followed from the provider.
const maxLocationRedirects = 3

// maxLocationBody caps how much of the provider response is read.
const maxLocationBody = 64 << 10

// Position is an approximate device position.
type Position struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	City    string  `json:"city,omitempty"`
	Region  string  `json:"region,omitempty"`
	Country string  `json:"country,omitempty"`
}

// Locator resolves a client IP to a Position.
type Locator interface {
	Locate(ctx context.Context, ip string) (Position, error)
}

// IPLocator queries an ipapi.co compatible endpoint: GET {base}/{ip}/json/,
// or {base}/json/ when the IP is missing or not publicly routable.
type IPLocator struct {
	base    *BaseClient
	baseURL string
}

// NewIPLocator creates an IPLocator for baseURL.
func NewIPLocator(baseURL string, client *BaseClient) *IPLocator {
	return &IPLocator{
		base:    client,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

type ipapiResponse struct {
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	City        string   `json:"city"`
	Region      string   `json:"region"`
	CountryName string   `json:"country_name"`
	Error       bool     `json:"error"`
	Reason      string   `json:"reason"`
}

// Locate implements Locator.
func (l *IPLocator) Locate(ctx context.Context, ip string) (Position, error) {
	url := l.baseURL + "/json/"
	if security.IsPublic(ip) {
		url = l.baseURL + "/" + ip + "/json/"
	}

	resp, err := l.base.Get(ctx, url)
	if err != nil {
		return Position{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Position{}, types.NewAppError(types.ErrCodeUpstreamLocation,
			fmt.Sprintf("location provider returned %d", resp.StatusCode), nil)
	}

	var body ipapiResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxLocationBody)).Decode(&body); err != nil {
		return Position{}, types.NewAppError(types.ErrCodeUpstreamLocation, "malformed location response", err)
	}
	if body.Error {
		return Position{}, types.NewAppError(types.ErrCodeUpstreamLocation, "location provider error: "+body.Reason, nil)
	}
	if body.Latitude == nil || body.Longitude == nil {
		return Position{}, types.NewAppError(types.ErrCodeUpstreamLocation, "location response has no coordinates", nil)
	}

	return Position{
		Lat:     *body.Latitude,
		Lng:     *body.Longitude,
		City:    body.City,
		Region:  body.Region,
		Country: body.CountryName,
	}, nil
}

// StubLocator returns a fixed position. Used in local mode where the client
// IP is a loopback address.
type StubLocator struct {
	Position Position
	logger   *slog.Logger
}

// NewStubLocator creates a StubLocator at lat/lng.
func NewStubLocator(lat, lng float64, logger *slog.Logger) *StubLocator {
	if logger == nil {
		logger = slog.Default()
	}
	return &StubLocator{Position: Position{Lat: lat, Lng: lng}, logger: logger}
}

// Locate implements Locator.
func (s *StubLocator) Locate(ctx context.Context, ip string) (Position, error) {
	s.logger.InfoContext(ctx, "stub: Locate called", "ip", ip)
	return s.Position, nil
}

// NewLocator picks the Locator for cfg: nil when location is disabled, a
// StubLocator centred on the map in local mode, otherwise an IPLocator.
func NewLocator(cfg *config.Config, logger *slog.Logger) Locator {
	if !cfg.Location.Enabled {
		return nil
	}
	if cfg.Environment == "local" {
		return NewStubLocator(cfg.Map.CenterLat, cfg.Map.CenterLng, logger)
	}
	client := NewBaseClient(
		security.NewGuardedClient(cfg.Location.Timeout, maxLocationRedirects),
		"location",
		DefaultRetryPolicy(),
		"CropCura/"+cfg.Build.Version,
	)
	return NewIPLocator(cfg.Location.ProviderURL, client)
}

// LocationResult is the outcome of a best-effort lookup. Position is set
// only on success.
type LocationResult struct {
	Notification types.Notification `json:"notification"`
	Position     *Position          `json:"position,omitempty"`
}

// LocationService turns lookups into user notifications. It never fails.
type LocationService struct {
	locator Locator
	logger  *slog.Logger
}

// NewLocationService creates a LocationService. A nil locator reports the
// lookup as unsupported.
func NewLocationService(locator Locator, logger *slog.Logger) *LocationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LocationService{locator: locator, logger: logger}
}

// Locate looks up ip and reports the result as a notification.
func (s *LocationService) Locate(ctx context.Context, ip string) LocationResult {
	if s.locator == nil {
		return LocationResult{Notification: types.Notification{Level: types.NotificationError, Message: MsgLocationUnsupported}}
	}

	pos, err := s.locator.Locate(ctx, ip)
	if err != nil {
		s.logger.WarnContext(ctx, "location lookup failed", "error", err)
		return LocationResult{Notification: types.Notification{Level: types.NotificationError, Message: MsgLocationFailed}}
	}
	return LocationResult{
		Notification: types.Notification{Level: types.NotificationSuccess, Message: MsgLocationFound},
		Position:     &pos,
	}
}
