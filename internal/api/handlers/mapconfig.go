package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"cropcura/internal/config"
	"cropcura/internal/core"
	"cropcura/internal/fieldmap"
)

// TileLayer describes one raster layer of the base map.
type TileLayer struct {
	URL         string   `json:"url"`
	Attribution string   `json:"attribution"`
	Subdomains  []string `json:"subdomains,omitempty"`
	MaxZoom     int      `json:"maxZoom"`
}

// MapSettings is the body of GET /map/config.
type MapSettings struct {
	Imagery TileLayer              `json:"imagery"`
	Labels  TileLayer              `json:"labels"`
	Center  MapCenter              `json:"center"`
	Zoom    int                    `json:"zoom"`
	Legend  []fieldmap.LegendEntry `json:"legend"`
	Drawing fieldmap.ToolOptions   `json:"drawing"`
}

// MapCenter is the initial view center.
type MapCenter struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// MapHandler serves the static base-map configuration.
type MapHandler struct {
	settings MapSettings
}

// NewMapHandler builds the map settings once from cfg.
func NewMapHandler(cfg config.MapConfig) *MapHandler {
	var subdomains []string
	if cfg.LabelsSubdomains != "" {
		subdomains = strings.Split(cfg.LabelsSubdomains, "")
	}
	return &MapHandler{settings: MapSettings{
		Imagery: TileLayer{URL: cfg.ImageryURL, Attribution: cfg.ImageryAttribution, MaxZoom: cfg.MaxZoom},
		Labels:  TileLayer{URL: cfg.LabelsURL, Attribution: cfg.LabelsAttribution, Subdomains: subdomains, MaxZoom: cfg.MaxZoom},
		Center:  MapCenter{Lat: cfg.CenterLat, Lng: cfg.CenterLng},
		Zoom:    cfg.Zoom,
		Legend:  fieldmap.Legend(),
		Drawing: fieldmap.PolygonOnlyOptions(),
	}}
}

// RegisterRoutes mounts GET /map/config.
func (h *MapHandler) RegisterRoutes(r chi.Router) {
	r.Get("/map/config", h.Get)
}

// Get handles GET /map/config.
func (h *MapHandler) Get(w http.ResponseWriter, r *http.Request) {
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: h.settings})
}
