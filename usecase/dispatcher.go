package usecase

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/fastygo/coachly/domain"
)

// ActionHandler runs one named action for an authenticated user.
type ActionHandler func(ctx context.Context, userID string, payload json.RawMessage) (interface{}, error)

// Dispatcher routes action names to handlers.
type Dispatcher struct {
	handlers map[string]ActionHandler
	mu       sync.RWMutex
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		handlers: make(map[string]ActionHandler),
	}
}

func (d *Dispatcher) Register(name string, handler ActionHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[name] = handler
}

// Execute runs the named action. Unknown names are an INVALID domain error.
func (d *Dispatcher) Execute(ctx context.Context, name, userID string, payload json.RawMessage) (interface{}, error) {
	d.mu.RLock()
	handler, ok := d.handlers[name]
	d.mu.RUnlock()
	if !ok {
		return nil, domain.NewError(domain.ErrCodeInvalid, "Unknown action: "+name)
	}
	return handler(ctx, userID, payload)
}

// Actions lists the registered action names.
func (d *Dispatcher) Actions() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	names := make([]string, 0, len(d.handlers))
	for name := range d.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DecodePayload unmarshals an action payload, mapping failures to ErrInvalidPayload.
func DecodePayload[T any](payload json.RawMessage) (T, error) {
	var out T
	if len(payload) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(payload, &out); err != nil {
		return out, domain.WrapError(domain.ErrCodeInvalid, domain.ErrInvalidPayload.Message, err)
	}
	return out, nil
}
