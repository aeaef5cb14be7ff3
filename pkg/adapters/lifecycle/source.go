// Package lifecycle adapts bot artifact events to the lifecycle event model.
package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/botstrap/pkg/core"
)

// Filter decides whether an artifact event is forwarded.
type Filter func(core.Event) bool

// Artifacts forwards only events on the given artifact base names.
func Artifacts(names ...string) Filter {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return func(e core.Event) bool {
		_, ok := set[e.Name]
		return ok
	}
}

type botSource struct {
	events <-chan core.Event
	filter Filter
	out    chan lifecycle.Event
}

// NewSource creates a lifecycle.Source that emits bot artifact events
// accepted by filter. A nil filter accepts everything. The output channel
// closes when ctx ends or the input channel closes.
func NewSource(events <-chan core.Event, filter Filter) lifecycle.Source {
	return &botSource{
		events: events,
		filter: filter,
		out:    make(chan lifecycle.Event),
	}
}

func (s *botSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *botSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-s.events:
				if !ok {
					return nil
				}
				if s.filter != nil && !s.filter(e) {
					continue
				}
				// core.Event implements lifecycle.Event through String().
				select {
				case s.out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}
