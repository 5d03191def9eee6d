package events

import (
	"fmt"
	"sync"

	"github.com/vanshdigitals/edutrack/internal/utils/logger"
)

var log = logger.New("EVENTS")

type EventHandler func(interface{})

// EventBus is a minimal in-process publish/subscribe bus. It decouples
// resource mutations from side effects such as realtime fan-out and
// notification delivery.
type EventBus struct {
	handlers map[string][]EventHandler
	mu       sync.RWMutex
}

var defaultBus = NewEventBus()

func NewEventBus() *EventBus {
	return &EventBus{
		handlers: make(map[string][]EventHandler),
	}
}

// On registers a handler for an event.
func (bus *EventBus) On(event string, handler EventHandler) {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	bus.handlers[event] = append(bus.handlers[event], handler)
}

// Emit triggers an event. Handlers run on their own goroutines; a panic in
// one handler never takes down the emitter.
func (bus *EventBus) Emit(event string, data interface{}) {
	bus.mu.RLock()
	handlers, exists := bus.handlers[event]
	bus.mu.RUnlock()

	if !exists {
		return
	}

	for _, handler := range handlers {
		go func(h EventHandler) {
			defer func() {
				if r := recover(); r != nil {
					_ = log.Error("panic in event handler for %s", fmt.Errorf("%v", r), event)
				}
			}()
			h(data)
		}(handler)
	}
}

// On registers a handler on the default bus.
func On(event string, handler EventHandler) {
	defaultBus.On(event, handler)
}

// Emit publishes on the default bus.
func Emit(event string, data interface{}) {
	defaultBus.Emit(event, data)
}
