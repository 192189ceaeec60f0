package state

import (
	"log/slog"
	"sync"

	"cropcura/internal/types"
)

// Store serializes reducer transitions for one session. Farmers and score
// trends are read-only and shared with every snapshot.
type Store struct {
	mu      sync.RWMutex
	current State
	initial State

	farmers []types.Farmer
	trends  []types.ScoreTrend
	logger  *slog.Logger
}

// StoreConfig holds the seed data for a Store.
type StoreConfig struct {
	Initial     State
	Farmers     []types.Farmer
	ScoreTrends []types.ScoreTrend
	Logger      *slog.Logger
}

// NewStore creates a Store. The initial state is copied so later mutation of
// cfg cannot leak into ResetDemo.
func NewStore(cfg StoreConfig) *Store {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	initial := cfg.Initial.Clone()
	return &Store{
		current: initial.Clone(),
		initial: initial,
		farmers: append([]types.Farmer(nil), cfg.Farmers...),
		trends:  append([]types.ScoreTrend(nil), cfg.ScoreTrends...),
		logger:  logger,
	}
}

// Dispatch applies a under the store lock and returns a copy of the new state.
func (s *Store) Dispatch(a Action) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := Reduce(s.current, a)
	if err != nil {
		return State{}, err
	}
	s.current = next
	s.logger.Debug("state transition", "action", actionName(a))
	return next.Clone(), nil
}

// Reset restores settings, loans and alerts to the values the store was
// created with.
func (s *Store) Reset() (State, error) {
	return s.Dispatch(ResetDemo{Initial: s.initial})
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

// Farmers returns a copy of the farmer directory.
func (s *Store) Farmers() []types.Farmer {
	return append([]types.Farmer(nil), s.farmers...)
}

// Farmer looks a farmer up by id.
func (s *Store) Farmer(id string) (types.Farmer, error) {
	for _, f := range s.farmers {
		if f.ID == id {
			return f, nil
		}
	}
	return types.Farmer{}, types.NewAppError(types.ErrCodeNotFoundFarmer, "farmer "+id+" not found", nil)
}

// Loan looks a loan application up by id in the current state.
func (s *Store) Loan(id string) (types.LoanApplication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, l := range s.current.Loans {
		if l.ID == id {
			return l, nil
		}
	}
	return types.LoanApplication{}, types.NewAppError(types.ErrCodeNotFoundLoan, "loan "+id+" not found", nil)
}

// ScoreTrends returns the static portfolio history.
func (s *Store) ScoreTrends() []types.ScoreTrend {
	return append([]types.ScoreTrend(nil), s.trends...)
}

func actionName(a Action) string {
	switch a.(type) {
	case UpdateLoanStatus:
		return "update_loan_status"
	case ResolveAlert:
		return "resolve_alert"
	case UpdateSettings:
		return "update_settings"
	case ResetDemo:
		return "reset_demo"
	default:
		return "unknown"
	}
}
