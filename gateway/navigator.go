package gateway

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// AuthEntryPath is where the client is sent when its session cannot be
// recovered.
const AuthEntryPath = "/auth"

// Navigator performs a hard navigation of the host application, e.g. a
// browser location change or a CLI prompting the user to log in again.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to a Navigator.
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

type logNavigator struct{}

func (logNavigator) Navigate(path string) {
	log.Warn().Str("path", path).Msg("navigation requested but no navigator is configured")
}

// expiryListeners are told when the gateway has given up on a session. A
// browser reload resets in-memory state after the hard navigation; other
// hosts subscribe here instead.
type expiryListeners struct {
	mu   sync.Mutex
	fns  map[int]func()
	next int
}

func (l *expiryListeners) add(fn func()) func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fns == nil {
		l.fns = make(map[int]func())
	}
	id := l.next
	l.next++
	l.fns[id] = fn
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.fns, id)
	}
}

func (l *expiryListeners) fire() {
	l.mu.Lock()
	fns := make([]func(), 0, len(l.fns))
	for _, fn := range l.fns {
		fns = append(fns, fn)
	}
	l.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
