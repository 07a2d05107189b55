// internal/common/transport/dispatcher.go
package transport

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	apperrors "plan-access-bot/internal/common/errors"
	"plan-access-bot/internal/common/logger"
	"plan-access-bot/internal/common/metrics"
	"plan-access-bot/internal/common/observability"

	"github.com/google/uuid"
)

// HandlerFunc handles one event. Handlers reply to the user themselves; the returned error
// is only used for logging and metrics.
type HandlerFunc func(client Responder, event Event) error

// Route selects the events a handler receives.
type Route struct {
	Kind EventKind
	Key  string // command name or callback data prefix
}

func CommandRoute(name string) Route { return Route{Kind: KindCommand, Key: strings.ToLower(name)} }

func CallbackRoute(prefix string) Route { return Route{Kind: KindCallback, Key: prefix} }

func PhotoRoute() Route { return Route{Kind: KindPhoto} }

func (r Route) matches(event Event) bool {
	if r.Kind != event.Kind {
		return false
	}
	switch r.Kind {
	case KindCommand:
		return r.Key == event.Command
	case KindCallback:
		return strings.HasPrefix(event.Data, r.Key)
	default:
		return true
	}
}

type registration struct {
	taskType string
	route    Route
	handle   HandlerFunc
}

// Dispatcher routes events to registered handlers one at a time.
type Dispatcher struct {
	client Responder
	logger logger.Logger
	obs    *observability.Observability

	mu     sync.RWMutex
	routes []registration
}

func NewDispatcher(client Responder, obs *observability.Observability, log logger.Logger) *Dispatcher {
	return &Dispatcher{
		client: client,
		obs:    obs,
		logger: log.WithFields(map[string]interface{}{"component": "dispatcher"}),
	}
}

// Register adds a handler. The first matching registration wins.
func (d *Dispatcher) Register(taskType string, route Route, handle HandlerFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.routes = append(d.routes, registration{taskType: taskType, route: route, handle: handle})
	d.logger.Info("handler registered", map[string]interface{}{
		"taskType": taskType,
		"kind":     string(route.Kind),
		"key":      route.Key,
	})
}

func (d *Dispatcher) lookup(event Event) (registration, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, reg := range d.routes {
		if reg.route.matches(event) {
			return reg, true
		}
	}
	return registration{}, false
}

// Run dispatches events until the channel closes or ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context, events <-chan Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			d.Dispatch(event)
		}
	}
}

// Dispatch handles a single event. It never panics and always returns control to the caller.
func (d *Dispatcher) Dispatch(event Event) {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}

	reg, ok := d.lookup(event)
	if !ok {
		d.unrouted(event)
		return
	}

	metrics.EventsActive.WithLabelValues(reg.taskType).Inc()
	defer metrics.EventsActive.WithLabelValues(reg.taskType).Dec()

	start := time.Now()
	err := d.invoke(reg, event)
	elapsed := time.Since(start)

	metrics.EventDuration.WithLabelValues(reg.taskType).Observe(elapsed.Seconds())
	status := "success"
	if err != nil {
		status = "failed"
		metrics.EventsFailed.WithLabelValues(reg.taskType, string(apperrors.CodeOf(err))).Inc()
	} else {
		metrics.EventsHandled.WithLabelValues(reg.taskType).Inc()
	}
	d.obs.RecordEventProcessed(context.Background(), reg.taskType, status)
	d.obs.RecordEventDuration(context.Background(), reg.taskType, elapsed, status)
}

func (d *Dispatcher) invoke(reg registration, event Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = apperrors.NewInternalError(fmt.Errorf("panic: %v", r))
			d.logger.Error("handler panicked", map[string]interface{}{
				"taskType": reg.taskType,
				"eventId":  event.ID,
				"panic":    fmt.Sprint(r),
				"stack":    string(debug.Stack()),
			})
		}
	}()
	return reg.handle(d.client, event)
}

// unrouted acknowledges stray callbacks so the client stops showing a spinner.
func (d *Dispatcher) unrouted(event Event) {
	d.logger.Debug("no handler for event", map[string]interface{}{
		"eventId": event.ID,
		"kind":    string(event.Kind),
		"command": event.Command,
		"data":    event.Data,
	})
	if event.IsCallback() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := d.client.AnswerCallback(ctx, event.CallbackID, "", false); err != nil {
			d.logger.Warn("failed to answer callback", map[string]interface{}{"error": err})
		}
	}
}
