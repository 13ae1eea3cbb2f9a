package hook

import (
	"context"
	"sync"
	c "usuario/internal/core/domain/common"
	e "usuario/internal/core/domain/errors"
	"usuario/internal/core/domain/logging"
	"usuario/internal/core/domain/social"
	"usuario/internal/core/domain/user"
)

type Event string

const (
	BeforeRegister     Event = "user.before_register"
	AfterRegister      Event = "user.after_register"
	BeforeConfirmation Event = "user.before_confirmation"
	AfterConfirmation  Event = "user.after_confirmation"
	BeforeResend       Event = "user.before_resend"
	AfterResend        Event = "user.after_resend"
	BeforeConnect      Event = "social.before_connect"
	AfterConnect       Event = "social.after_connect"
)

type Payload struct {
	User    c.Optional[user.User]
	Account c.Optional[social.Account]
}

type Observer interface {
	Notify(ctx context.Context, event Event, payload Payload) error
}

type ObserverFunc func(ctx context.Context, event Event, payload Payload) error

func (f ObserverFunc) Notify(ctx context.Context, event Event, payload Payload) error {
	return f(ctx, event, payload)
}

// Registry invokes observers synchronously in registration order.
// Observer failures are logged and never propagated to the caller.
type Registry struct {
	log       logging.Logger
	observers map[Event][]Observer
	lock      sync.RWMutex
}

func NewRegistry(log logging.Logger) *Registry {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	return &Registry{
		log:       log,
		observers: make(map[Event][]Observer),
	}
}

func (r *Registry) Register(event Event, observer Observer) {
	if observer == nil {
		panic(e.NewNilArgumentError("observer"))
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	r.observers[event] = append(r.observers[event], observer)
}

func (r *Registry) Notify(ctx context.Context, event Event, payload Payload) {
	r.lock.RLock()
	observers := r.observers[event]
	r.lock.RUnlock()
	for _, observer := range observers {
		if err := observer.Notify(ctx, event, payload); err != nil {
			r.log.Warning(
				ctx,
				"Hook observer failed.",
				logging.Entry("event", event),
				logging.Entry("err", err),
			)
		}
	}
}
