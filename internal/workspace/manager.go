package workspace

import (
	"log/slog"
	"sync"

	"cropcura/internal/events"
	"cropcura/internal/fieldmap"
	"cropcura/internal/fields"
	"cropcura/internal/scans"
	"cropcura/internal/seed"
	"cropcura/internal/state"
	"cropcura/internal/types"
)

// ManagerConfig holds the dependencies shared by every workspace.
type ManagerConfig struct {
	// Dataset is the seed every new workspace starts from. When nil, one is
	// generated from Seed.
	Dataset *seed.Dataset
	Seed    uint64

	Classifier  fields.HealthClassifier
	Estimator   fields.AreaEstimator
	ToolFactory fieldmap.ToolFactory
	Publisher   events.Publisher
	Clock       types.Clock
	Logger      *slog.Logger
}

// Manager owns one Workspace per session id.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Workspace

	dataset seed.Dataset
	catalog *scans.Catalog
	cfg     ManagerConfig
	clock   types.Clock
	logger  *slog.Logger
}

// NewManager creates a Manager. A zero Seed seeds from the clock.
func NewManager(cfg ManagerConfig) *Manager {
	clock := cfg.Clock
	if clock == nil {
		clock = types.RealClock{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var ds seed.Dataset
	if cfg.Dataset != nil {
		ds = *cfg.Dataset
	} else {
		s := cfg.Seed
		if s == 0 {
			s = uint64(clock.Now().UnixNano())
		}
		ds = seed.Generate(seed.Options{Seed: s, Clock: clock})
	}

	catalog := scans.NewCatalog()
	for _, fs := range ds.Scans {
		catalog.Add(fs.FarmerID, fs.Scan)
	}

	return &Manager{
		sessions: make(map[string]*Workspace),
		dataset:  ds,
		catalog:  catalog,
		cfg:      cfg,
		clock:    clock,
		logger:   logger,
	}
}

// Dataset returns the seed dataset.
func (m *Manager) Dataset() seed.Dataset {
	return m.dataset
}

// Open returns the session's workspace, creating it from the seed on first use.
func (m *Manager) Open(sessionID string) *Workspace {
	m.mu.Lock()
	defer m.mu.Unlock()
	if w, ok := m.sessions[sessionID]; ok {
		return w
	}
	w := m.build(sessionID)
	m.sessions[sessionID] = w
	m.logger.Debug("workspace opened", "session_id", sessionID)
	return w
}

// Close discards the session's workspace.
func (m *Manager) Close(sessionID string) {
	m.mu.Lock()
	w, ok := m.sessions[sessionID]
	delete(m.sessions, sessionID)
	m.mu.Unlock()

	if ok {
		if err := w.view.DisableDrawing(); err != nil {
			m.logger.Warn("failed to close drawing tool", "session_id", sessionID, "error", err)
		}
	}
}

// Len returns the number of open workspaces.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) build(sessionID string) *Workspace {
	ds := m.dataset

	registry := fields.NewRegistry()
	registry.Seed(fields.OwnerSelf, ds.Fields)
	for farmerID, fs := range ds.FarmerFields {
		registry.Seed(farmerID, fs)
	}

	store := state.NewStore(state.StoreConfig{
		Initial: state.State{
			Settings: types.DefaultSettings(),
			Loans:    ds.Loans,
			Alerts:   ds.Alerts,
		},
		Farmers:     ds.Farmers,
		ScoreTrends: ds.ScoreTrends,
		Logger:      m.logger,
	})

	svc := fields.NewService(fields.ServiceConfig{
		Registry:   registry,
		Classifier: m.cfg.Classifier,
		Estimator:  m.cfg.Estimator,
		Publisher:  m.cfg.Publisher,
		Clock:      m.clock,
		Logger:     m.logger,
	})

	selection := fieldmap.NewSelection()
	return &Workspace{
		SessionID: sessionID,
		store:     store,
		fields:    svc,
		selection: selection,
		view:      fieldmap.NewView(selection, m.cfg.ToolFactory, nil),
		list:      fieldmap.NewListView(selection),
		scans:     m.catalog,
		publisher: m.cfg.Publisher,
		clock:     m.clock,
		logger:    m.logger.With("session_id", sessionID),
	}
}
