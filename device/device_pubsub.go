//
// Copyright (c) 2013 Jake Brukhman/Octopus. All rights reserved.
//
package device

import (
	"fmt"
	"log/slog"
	"sync"
)

type subscription struct {
	out  chan DataFrame
	quit chan struct{}
}

// PubSub fans device frames out to named subscribers.
type PubSub struct {
	sync.Mutex
	subs map[string]*subscription
}

func NewPubSub() *PubSub {
	return &PubSub{
		subs: make(map[string]*subscription),
	}
}

func (ps *PubSub) Subscribe(name string) (<-chan DataFrame, error) {
	ps.Lock()
	defer ps.Unlock()
	if _, ok := ps.subs[name]; ok {
		slog.Warn("device: subscription already exists", "name", name)
		return nil, fmt.Errorf("subscription '%s' already exists", name)
	}
	sub := &subscription{
		out:  make(chan DataFrame, DataFrameBufferSize),
		quit: make(chan struct{}),
	}
	ps.subs[name] = sub
	return sub.out, nil
}

// Unsubscribe stops delivery to a subscriber. Its channel is
// left open since a publisher may still hold it; it is simply
// never written to again.
func (ps *PubSub) Unsubscribe(name string) {
	ps.Lock()
	defer ps.Unlock()
	if sub, ok := ps.subs[name]; ok {
		close(sub.quit)
		delete(ps.subs, name)
	}
}

// UnsubscribeAll removes every subscriber and closes their
// channels. It must only be called once no publisher is
// running.
func (ps *PubSub) UnsubscribeAll() {
	ps.Lock()
	defer ps.Unlock()
	for name, sub := range ps.subs {
		close(sub.quit)
		close(sub.out)
		delete(ps.subs, name)
	}
}

func (ps *PubSub) publish(df DataFrame, done <-chan struct{}) {
	ps.Lock()
	subs := make([]*subscription, 0, len(ps.subs))
	for _, sub := range ps.subs {
		subs = append(subs, sub)
	}
	ps.Unlock()

	for _, sub := range subs {
		// a subscriber with room always gets the frame
		select {
		case sub.out <- df:
			continue
		default:
		}
		select {
		case sub.out <- df:
		case <-sub.quit:
		case <-done:
			return
		}
	}
}
