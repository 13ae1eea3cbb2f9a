package hook

import (
	"context"
	"fmt"
	"sync"
)

type ObservedEvent struct {
	Event   Event
	Payload Payload
}

type FakeObserver struct {
	Observed    []ObservedEvent
	ReturnError bool
	lock        sync.Mutex
}

func NewFakeObserver() *FakeObserver {
	return &FakeObserver{}
}

func (o *FakeObserver) Notify(ctx context.Context, event Event, payload Payload) error {
	if o.ReturnError {
		return fmt.Errorf("observer failed for event %s", event)
	}
	o.lock.Lock()
	defer o.lock.Unlock()
	o.Observed = append(o.Observed, ObservedEvent{Event: event, Payload: payload})
	return nil
}

func (o *FakeObserver) ObservedCount() int {
	o.lock.Lock()
	defer o.lock.Unlock()
	return len(o.Observed)
}

func (o *FakeObserver) LastObserved() ObservedEvent {
	o.lock.Lock()
	defer o.lock.Unlock()
	l := len(o.Observed)
	if l == 0 {
		panic("no events have been observed")
	}
	return o.Observed[l-1]
}
