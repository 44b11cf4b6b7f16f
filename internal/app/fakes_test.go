package app

import (
	"context"
	"sync"
	"time"

	"github.com/miteshsondhi/swagger-stats/internal/domain"
	"github.com/miteshsondhi/swagger-stats/internal/ports"
)

// mockLogger implements ports.Logger for testing.
type mockLogger struct {
	mu     sync.Mutex
	errors []string
	warns  []string
}

func (*mockLogger) Debug(msg string, fields ...ports.Field) {}
func (*mockLogger) Info(msg string, fields ...ports.Field)  {}

func (m *mockLogger) Warn(msg string, fields ...ports.Field) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.warns = append(m.warns, msg)
}

func (m *mockLogger) Error(msg string, fields ...ports.Field) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, msg)
}

func (m *mockLogger) Errors() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.errors...)
}

// fakeBackend records every call made by the emitter.
type fakeBackend struct {
	mu        sync.Mutex
	bulks     [][]byte
	bulkErr   error
	release   chan struct{}
	exists    bool
	existsErr error
	puts      []string
	putErr    error
	checks    int
}

func (f *fakeBackend) Bulk(ctx context.Context, body []byte) error {
	f.mu.Lock()
	release := f.release
	f.bulks = append(f.bulks, append([]byte(nil), body...))
	err := f.bulkErr
	f.mu.Unlock()

	if release != nil {
		<-release
	}
	return err
}

func (f *fakeBackend) TemplateExists(ctx context.Context, name string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checks++
	return f.exists, f.existsErr
}

func (f *fakeBackend) PutTemplate(ctx context.Context, name string, body []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.puts = append(f.puts, name)
	return f.putErr
}

func (f *fakeBackend) Bulks() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]byte(nil), f.bulks...)
}

func (f *fakeBackend) Puts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.puts...)
}

// fakeClock is a settable clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(t time.Time) *fakeClock {
	return &fakeClock{now: t}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}

// fakeSource hands out queued records, then blocks or returns its error.
type fakeSource struct {
	mu      sync.Mutex
	records []domain.Record
	endErr  error
	closed  bool
}

func (s *fakeSource) Next(ctx context.Context) (domain.Record, error) {
	s.mu.Lock()
	if len(s.records) > 0 {
		r := s.records[0]
		s.records = s.records[1:]
		s.mu.Unlock()
		return r, nil
	}
	err := s.endErr
	s.mu.Unlock()

	if err != nil {
		return nil, err
	}
	<-ctx.Done()
	return nil, ctx.Err()
}

func (s *fakeSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *fakeSource) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
