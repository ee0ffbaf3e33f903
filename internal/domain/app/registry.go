package app

import (
	"fmt"
	"regexp"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/TabletOS/backend/internal/infrastructure/monitoring"
)

// MaxIDLength bounds application IDs
const MaxIDLength = 128

var idPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Registry owns the registered applications and the single active pointer
type Registry struct {
	mu       sync.RWMutex
	apps     map[string]Application // Protected by mu
	activeID *string                // Protected by mu
	logger   *zap.Logger
	metrics  *monitoring.Metrics
}

// Stats contains registry statistics
type Stats struct {
	TotalApps   int     `json:"total_apps"`
	ActiveApps  int     `json:"active_apps"`
	ActiveAppID *string `json:"active_app_id,omitempty"`
}

var (
	defaultRegistry *Registry
	defaultOnce     sync.Once
)

// DefaultRegistry returns the process-wide registry
func DefaultRegistry() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		apps:   make(map[string]Application),
		logger: zap.NewNop(),
	}
}

// WithLogger sets the registry logger
func (r *Registry) WithLogger(logger *zap.Logger) *Registry {
	if logger != nil {
		r.logger = logger
	}
	return r
}

// WithMetrics adds metrics tracking to the registry
func (r *Registry) WithMetrics(metrics *monitoring.Metrics) *Registry {
	r.metrics = metrics
	return r
}

// ValidateID checks that id can be registered
func ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty", ErrInvalidID)
	}
	if len(id) > MaxIDLength {
		return fmt.Errorf("%w: longer than %d characters", ErrInvalidID, MaxIDLength)
	}
	if !idPattern.MatchString(id) {
		return fmt.Errorf("%w: %q (only alphanumeric, hyphens, and underscores allowed)", ErrInvalidID, id)
	}
	return nil
}

// Add registers a fully constructed application.
// The registry is unchanged when an error is returned.
func (r *Registry) Add(a Application) error {
	if a == nil {
		return fmt.Errorf("%w: nil application", ErrInvalidID)
	}
	id := a.ID()
	if err := ValidateID(id); err != nil {
		return err
	}

	r.mu.Lock()
	if _, exists := r.apps[id]; exists {
		r.mu.Unlock()
		r.logger.Warn("Rejected duplicate application", zap.String("app", id))
		return fmt.Errorf("%w: %s", ErrDuplicateID, id)
	}
	r.apps[id] = a
	total := len(r.apps)
	r.mu.Unlock()

	r.logger.Info("Application registered", zap.String("app", id), zap.Int("total", total))
	if r.metrics != nil {
		r.metrics.SetAppsRegistered(total)
	}
	return nil
}

// Activate makes id the only active application and resets its uptime.
// Activating the already active application resets its uptime again.
func (r *Registry) Activate(id string) error {
	r.mu.Lock()
	target, ok := r.apps[id]
	if !ok {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	var previous string
	if r.activeID != nil {
		previous = *r.activeID
	}
	r.activeID = &id
	target.ResetUpTime()
	r.mu.Unlock()

	r.logger.Info("Application activated", zap.String("app", id), zap.String("previous", previous))
	if r.metrics != nil {
		r.metrics.IncActivations(id)
		r.metrics.SetAppsActive(1)
	}
	return nil
}

// Deactivate clears the active application. No-op if none is active.
func (r *Registry) Deactivate() {
	r.mu.Lock()
	if r.activeID == nil {
		r.mu.Unlock()
		return
	}
	id := *r.activeID
	r.activeID = nil
	r.mu.Unlock()

	r.logger.Info("Application deactivated", zap.String("app", id))
	if r.metrics != nil {
		r.metrics.SetAppsActive(0)
	}
}

// Active returns the active application, if any
func (r *Registry) Active() (Application, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.activeID == nil {
		return nil, false
	}
	a, ok := r.apps[*r.activeID]
	return a, ok
}

// IsActive reports whether id is the active application
func (r *Registry) IsActive(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.activeID != nil && *r.activeID == id
}

// Get retrieves an application by ID
func (r *Registry) Get(id string) (Application, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.apps[id]
	return a, ok
}

// List returns all registered applications ordered by ID
func (r *Registry) List() []Application {
	r.mu.RLock()
	apps := make([]Application, 0, len(r.apps))
	for _, a := range r.apps {
		apps = append(apps, a)
	}
	r.mu.RUnlock()

	sort.Slice(apps, func(i, j int) bool {
		return apps[i].ID() < apps[j].ID()
	})
	return apps
}

// Len returns the number of registered applications
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.apps)
}

// Stats returns registry statistics
func (r *Registry) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := Stats{TotalApps: len(r.apps)}
	if r.activeID != nil {
		id := *r.activeID
		stats.ActiveApps = 1
		stats.ActiveAppID = &id
	}
	return stats
}

// Clear removes every application and the active pointer (session teardown)
func (r *Registry) Clear() {
	r.mu.Lock()
	count := len(r.apps)
	r.apps = make(map[string]Application)
	r.activeID = nil
	r.mu.Unlock()

	r.logger.Info("Registry cleared", zap.Int("removed", count))
	if r.metrics != nil {
		r.metrics.SetAppsRegistered(0)
		r.metrics.SetAppsActive(0)
	}
}
