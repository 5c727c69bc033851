package nav

import (
	"log"
	"sync"

	"github.com/lowaak/pulse/internal/events"
)

// Stack is the navigation back stack. The bottom entry is the root and is
// never popped by Back.
type Stack struct {
	mu         sync.RWMutex
	routes     []Route
	routeEvent *events.Feed[Route]
	logger     *log.Logger
}

func NewStack(root Route, logger *log.Logger) *Stack {
	if logger == nil {
		panic("Stack: logger cannot be nil")
	}
	s := &Stack{
		routes:     []Route{root},
		routeEvent: events.NewFeed[Route](true),
		logger:     logger,
	}
	s.routeEvent.Publish(root)
	return s
}

// ListenToRoute registers a channel to receive the current route after every change
func (s *Stack) ListenToRoute(ch chan<- Route) func() {
	return s.routeEvent.Listen(ch)
}

// Current returns the top of the stack
func (s *Stack) Current() Route {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.routes[len(s.routes)-1]
}

// Depth returns the number of routes on the stack
func (s *Stack) Depth() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.routes)
}

// Push opens route on top of the current one
func (s *Stack) Push(route Route) {
	s.mu.Lock()
	s.routes = append(s.routes, route)
	depth := len(s.routes)
	s.mu.Unlock()

	s.logger.Printf("Nav: push %s (depth %d)", route, depth)
	s.routeEvent.Publish(route)
}

// Back pops exactly one level. It reports false, and does nothing, on the root.
func (s *Stack) Back() bool {
	s.mu.Lock()
	if len(s.routes) <= 1 {
		s.mu.Unlock()
		return false
	}
	popped := s.routes[len(s.routes)-1]
	s.routes = s.routes[:len(s.routes)-1]
	current := s.routes[len(s.routes)-1]
	s.mu.Unlock()

	s.logger.Printf("Nav: back from %s to %s", popped, current)
	s.routeEvent.Publish(current)
	return true
}

// ResetTo clears the stack and makes route the new root
func (s *Stack) ResetTo(route Route) {
	s.mu.Lock()
	s.routes = []Route{route}
	s.mu.Unlock()

	s.logger.Printf("Nav: reset to %s", route)
	s.routeEvent.Publish(route)
}
