package eventhandlers

import (
	"dispatch/internal/pkg/eventbus"
)

type subscriber interface {
	eventbus.Handler
	Events() []string
}

// Register subscribes every handler to the events it declares.
func Register(bus *eventbus.Bus, handlers ...subscriber) {
	for _, h := range handlers {
		for _, name := range h.Events() {
			bus.Subscribe(name, h)
		}
	}
}
