// Package testctx carries the per-run execution context handed to every
// test: logging, user prompts, notification waits and the result table.
package testctx

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"bletest/ble"
	"bletest/domain"
)

// ErrWaitCanceled is returned by a pending wait released through
// CleanupPendingTasks.
var ErrWaitCanceled = errors.New("testctx: wait canceled")

// Prompter asks the operator a question and returns the raw answer.
type Prompter interface {
	Prompt(question string) (string, error)
}

// StdinPrompter prompts on stdout and reads one line from stdin.
type StdinPrompter struct{}

func (StdinPrompter) Prompt(question string) (string, error) {
	fmt.Printf("%s ", color.YellowString(question))
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", err
	}
	return trimNewline(line), nil
}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}

// Context is the execution-context collaborator. One Context serves one run;
// the runner is its only writer, so results are never mutated concurrently.
type Context struct {
	dev      ble.Device
	prompter Prompter
	out      io.Writer
	logger   *slog.Logger

	mu      sync.Mutex
	order   []string
	results map[string]*domain.TestResult
	current *domain.TestResult
	started time.Time
	subs    []uuid.UUID
	waiters map[int]chan struct{}
	nextID  int
}

// Option configures a Context.
type Option func(*Context)

// WithPrompter replaces the stdin prompter.
func WithPrompter(p Prompter) Option {
	return func(c *Context) { c.prompter = p }
}

// WithOutput redirects user-facing output (headings, prints).
func WithOutput(w io.Writer) Option {
	return func(c *Context) { c.out = w }
}

// WithLogger replaces the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Context) { c.logger = l }
}

// New returns a Context bound to a device connection.
func New(dev ble.Device, opts ...Option) *Context {
	c := &Context{
		dev:      dev,
		prompter: StdinPrompter{},
		out:      os.Stdout,
		logger:   slog.Default(),
		results:  make(map[string]*domain.TestResult),
		waiters:  make(map[int]chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Device returns the shared device connection.
func (c *Context) Device() ble.Device { return c.dev }

// Log records a line against the running test and forwards it to the
// structured logger.
func (c *Context) Log(level, message string) {
	c.mu.Lock()
	if c.current != nil {
		c.current.Logs = append(c.current.Logs, domain.LogEntry{Level: level, Message: message})
	}
	c.mu.Unlock()

	switch level {
	case "DEBUG":
		c.logger.Debug(message)
	case "WARNING":
		c.logger.Warn(message)
	case "ERROR":
		c.logger.Error(message)
	default:
		c.logger.Info(message)
	}
}

// Debugf logs a DEBUG line.
func (c *Context) Debugf(format string, args ...any) { c.Log("DEBUG", fmt.Sprintf(format, args...)) }

// Infof logs an INFO line.
func (c *Context) Infof(format string, args ...any) { c.Log("INFO", fmt.Sprintf(format, args...)) }

// Warningf logs a WARNING line.
func (c *Context) Warningf(format string, args ...any) {
	c.Log("WARNING", fmt.Sprintf(format, args...))
}

// Errorf logs an ERROR line.
func (c *Context) Errorf(format string, args ...any) { c.Log("ERROR", fmt.Sprintf(format, args...)) }

// Printf shows a message to the operator and records it at USER level.
func (c *Context) Printf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(c.out, msg)
	c.Log("USER", msg)
}

// StartTest opens a result in RUNNING state and emits the test heading.
// A duplicate qualified name overwrites the previous result; that is a
// detectable anomaly, so it is logged.
func (c *Context) StartTest(name, description string) {
	c.mu.Lock()
	if prev, dup := c.results[name]; dup {
		c.logger.Warn("duplicate test name, overwriting previous result",
			"test", name, "previous_status", string(prev.Status))
	} else {
		c.order = append(c.order, name)
	}
	r := &domain.TestResult{Name: name, Description: description, Status: domain.StatusRunning}
	c.results[name] = r
	c.current = r
	c.started = time.Now()
	c.mu.Unlock()

	heading := color.New(color.Bold, color.Underline)
	fmt.Fprintf(c.out, "\n\n")
	heading.Fprintf(c.out, "Running test: %s", description)
	fmt.Fprintf(c.out, "\n\n")
}

// EndTest finalizes the running test exactly once and returns its result.
func (c *Context) EndTest(status domain.Status, message string) *domain.TestResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return nil
	}
	r := c.current
	r.Status = status
	r.Message = message
	r.Duration = time.Since(c.started)
	c.current = nil
	return r
}

// Result returns the recorded result for a qualified name, or nil.
func (c *Context) Result(name string) *domain.TestResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.results[name]
}

// Summary builds the run summary in execution order. Failed counts FAIL and
// ERROR; a still-RUNNING entry is excluded (it was superseded by a
// duplicate name).
func (c *Context) Summary() *domain.RunSummary {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := &domain.RunSummary{}
	for _, name := range c.order {
		r := c.results[name]
		if r == nil || r.Status == domain.StatusRunning {
			continue
		}
		s.Results = append(s.Results, r)
		s.Total++
		switch r.Status {
		case domain.StatusPass:
			s.Passed++
		case domain.StatusFail, domain.StatusError:
			s.Failed++
		}
	}
	return s
}

// Subscribe registers a notification callback through the context so the
// subscription is released at test end.
func (c *Context) Subscribe(char uuid.UUID, fn ble.NotificationFunc) error {
	if err := c.dev.Subscribe(char, fn); err != nil {
		return err
	}
	c.mu.Lock()
	c.subs = append(c.subs, char)
	c.mu.Unlock()
	return nil
}

// UnsubscribeAll releases every subscription registered through the context
// during the current test. Errors are logged, never propagated.
func (c *Context) UnsubscribeAll() {
	c.mu.Lock()
	subs := c.subs
	c.subs = nil
	c.mu.Unlock()

	for _, char := range subs {
		if err := c.dev.Unsubscribe(char); err != nil {
			c.logger.Warn("unsubscribe failed", "characteristic", char.String(), "err", err)
		}
	}
}

// WaitForNotification blocks until the characteristic notifies the expected
// value (any value when expected is nil), the timeout expires, or the
// context is done. Expiry yields a domain.Timeout, which the runner maps to
// ERROR, never FAIL.
func (c *Context) WaitForNotification(ctx context.Context, char uuid.UUID, expected []byte, timeout time.Duration) ([]byte, error) {
	ch := make(chan []byte, 16)
	if err := c.Subscribe(char, func(data []byte) {
		select {
		case ch <- data:
		default:
		}
	}); err != nil {
		return nil, err
	}

	canceled := c.addWaiter()
	defer c.removeWaiter(canceled)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case data := <-ch:
			if expected == nil || bytes.Equal(data, expected) {
				return data, nil
			}
			c.Debugf("notification %x did not match expected %x, still waiting", data, expected)
		case <-timer.C:
			return nil, domain.Timeoutf("timed out after %s waiting for notification on %s", timeout, char)
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-c.waiterDone(canceled):
			return nil, ErrWaitCanceled
		}
	}
}

// PromptConfirmation asks the operator a question and records the exchange
// in the test log.
func (c *Context) PromptConfirmation(question string) (string, error) {
	c.Log("USER", question)
	answer, err := c.prompter.Prompt(question)
	if err != nil {
		return "", fmt.Errorf("prompt: %w", err)
	}
	c.Log("USER", "> "+answer)
	return answer, nil
}

// CleanupPendingTasks releases any waits still pending. It always runs at
// the end of a batch, even after an unexpected failure.
func (c *Context) CleanupPendingTasks() {
	c.mu.Lock()
	waiters := c.waiters
	c.waiters = make(map[int]chan struct{})
	c.mu.Unlock()

	for _, done := range waiters {
		close(done)
	}
	if n := len(waiters); n > 0 {
		c.logger.Debug("released pending waiters", "count", n)
	}
}

func (c *Context) addWaiter() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.waiters[id] = make(chan struct{})
	return id
}

func (c *Context) waiterDone(id int) <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	done, ok := c.waiters[id]
	if !ok {
		// Already released by cleanup; report as closed.
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return done
}

func (c *Context) removeWaiter(id int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.waiters, id)
}
