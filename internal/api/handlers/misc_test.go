package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cropcura/internal/config"
	"cropcura/internal/external"
	"cropcura/internal/types"
)

func TestMapConfig(t *testing.T) {
	cfg := config.MapConfig{
		ImageryURL:         "https://tiles.example/{z}/{y}/{x}",
		ImageryAttribution: "Imagery",
		LabelsURL:          "https://{s}.labels.example/{z}/{x}/{y}.png",
		LabelsAttribution:  "Labels",
		LabelsSubdomains:   "abcd",
		MaxZoom:            19,
		CenterLat:          -1.2821,
		CenterLng:          36.8219,
		Zoom:               13,
	}
	r := chi.NewRouter()
	NewMapHandler(cfg).RegisterRoutes(r)

	rec := serve(t, r, http.MethodGet, "/map/config", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	got := decodeData[MapSettings](t, rec)
	assert.Equal(t, []string{"a", "b", "c", "d"}, got.Labels.Subdomains)
	assert.Equal(t, 19, got.Imagery.MaxZoom)
	assert.Equal(t, MapCenter{Lat: -1.2821, Lng: 36.8219}, got.Center)
	assert.Equal(t, 13, got.Zoom)
	require.Len(t, got.Legend, 3)
	assert.Equal(t, "Healthy", got.Legend[0].Label)
	assert.True(t, got.Drawing.Polygon)
	assert.False(t, got.Drawing.Rectangle)
}

type failingLocator struct{}

func (failingLocator) Locate(context.Context, string) (external.Position, error) {
	return external.Position{}, errors.New("lookup refused")
}

func TestLocation(t *testing.T) {
	tests := []struct {
		name      string
		locator   external.Locator
		wantLevel types.NotificationLevel
		wantMsg   string
		wantPos   bool
	}{
		{"found", external.NewStubLocator(-1.28, 36.82, testLogger()), types.NotificationSuccess, external.MsgLocationFound, true},
		{"failed", failingLocator{}, types.NotificationError, external.MsgLocationFailed, false},
		{"unsupported", nil, types.NotificationError, external.MsgLocationUnsupported, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := chi.NewRouter()
			NewLocationHandler(external.NewLocationService(tt.locator, testLogger())).RegisterRoutes(r)

			rec := serve(t, r, http.MethodPost, "/location", nil)
			require.Equal(t, http.StatusOK, rec.Code)

			got := decodeData[external.LocationResult](t, rec)
			assert.Equal(t, tt.wantLevel, got.Notification.Level)
			assert.Equal(t, tt.wantMsg, got.Notification.Message)
			assert.Equal(t, tt.wantPos, got.Position != nil)
		})
	}
}
