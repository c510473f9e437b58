package service

import (
	"errors"
	"sort"
	"sync"
)

var errEmptyAlertKey = errors.New("alert_key must not be empty")

// AlertRegistry remembers acknowledged alert keys so the dashboard does not
// re-popup an alert the operator already saw.
type AlertRegistry struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func NewAlertRegistry() *AlertRegistry {
	return &AlertRegistry{keys: make(map[string]struct{})}
}

func (a *AlertRegistry) Acknowledge(key string) error {
	if key == "" {
		return errEmptyAlertKey
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.keys[key] = struct{}{}
	return nil
}

func (a *AlertRegistry) Acknowledged(key string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.keys[key]
	return ok
}

func (a *AlertRegistry) Keys() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.keys))
	for k := range a.keys {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (a *AlertRegistry) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.keys = make(map[string]struct{})
}
