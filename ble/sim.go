package ble

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Sim is an in-memory Device for examples and tests: a characteristic store
// plus notification fan-out. It decodes no protocol.
type Sim struct {
	mu     sync.Mutex
	closed bool
	chars  map[uuid.UUID][]byte
	subs   map[uuid.UUID][]NotificationFunc

	// OnWrite, when set, is invoked after every successful write with the
	// characteristic and the written value. Lets a scenario react to the
	// test (e.g. push a notification back).
	OnWrite func(char uuid.UUID, data []byte)
}

// NewSim returns an empty simulated device.
func NewSim() *Sim {
	return &Sim{
		chars: make(map[uuid.UUID][]byte),
		subs:  make(map[uuid.UUID][]NotificationFunc),
	}
}

// SetValue seeds a characteristic value without notifying subscribers.
func (s *Sim) SetValue(char uuid.UUID, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chars[char] = append([]byte(nil), data...)
}

// Push updates a characteristic and notifies its subscribers, as a real
// peripheral would.
func (s *Sim) Push(char uuid.UUID, data []byte) {
	s.mu.Lock()
	s.chars[char] = append([]byte(nil), data...)
	fns := append([]NotificationFunc(nil), s.subs[char]...)
	s.mu.Unlock()

	for _, fn := range fns {
		fn(append([]byte(nil), data...))
	}
}

// Close marks the device disconnected; further operations fail with
// ErrNotConnected.
func (s *Sim) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.subs = make(map[uuid.UUID][]NotificationFunc)
}

func (s *Sim) Read(ctx context.Context, char uuid.UUID) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrNotConnected
	}
	v, ok := s.chars[char]
	if !ok {
		return nil, fmt.Errorf("ble: unknown characteristic %s", char)
	}
	return append([]byte(nil), v...), nil
}

func (s *Sim) Write(ctx context.Context, char uuid.UUID, data []byte, withResponse bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrNotConnected
	}
	s.chars[char] = append([]byte(nil), data...)
	onWrite := s.OnWrite
	s.mu.Unlock()

	if onWrite != nil {
		onWrite(char, append([]byte(nil), data...))
	}
	return nil
}

func (s *Sim) Subscribe(char uuid.UUID, fn NotificationFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrNotConnected
	}
	s.subs[char] = append(s.subs[char], fn)
	return nil
}

func (s *Sim) Unsubscribe(char uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, char)
	return nil
}

// SimConnector hands out a prepared Sim, ignoring the device filters in the
// config.
type SimConnector struct {
	Device *Sim
}

func (c SimConnector) Connect(ctx context.Context, cfg Config) (Device, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c.Device != nil {
		return c.Device, nil
	}
	return NewSim(), nil
}
