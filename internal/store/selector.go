package store

// HealthChecker reports whether the persistent backend is currently
// reachable. The database package provides the real implementation.
type HealthChecker interface {
	Reachable() bool
}

// Selector routes every storage call to the database backend while it is
// reachable and to the in-memory fallback otherwise. The check runs on
// every Current call, so a mid-session reconnect switches traffic back to
// the database without a restart.
type Selector struct {
	database Store
	fallback Store
	health   HealthChecker
}

func NewSelector(database Store, fallback Store, health HealthChecker) *Selector {
	return &Selector{database: database, fallback: fallback, health: health}
}

func (s *Selector) Current() Store {
	if s.database != nil && s.health != nil && s.health.Reachable() {
		return s.database
	}
	return s.fallback
}
