package catalog

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

//go:embed fixtures/*.json
var fixtures embed.FS

// DefaultFixture is the embedded fixture served when no other is configured.
const DefaultFixture = "api_search"

// MockClient implements Searcher from a recorded search response. It is used
// by tests and by the -use-mocks flag. It tracks how many times Search has
// been called.
type MockClient struct {
	fixture string
	path    string
	err     error
	delay   time.Duration

	mu        sync.RWMutex
	callCount atomic.Int64
	lastQuery Query

	// SearchFunc, if set, overrides the default Search behavior.
	SearchFunc func(ctx context.Context, q Query) (*SearchResult, error)
}

var _ Searcher = (*MockClient)(nil)

// MockOption configures a MockClient.
type MockOption func(*MockClient)

// WithFixture selects an embedded fixture by name (without ".json").
func WithFixture(name string) MockOption {
	return func(m *MockClient) { m.fixture = name }
}

// WithFixtureFile reads the response from a file on disk instead.
func WithFixtureFile(path string) MockOption {
	return func(m *MockClient) { m.path = path }
}

// WithError makes every Search fail with err.
func WithError(err error) MockOption {
	return func(m *MockClient) { m.err = err }
}

// WithDelay makes Search wait d before answering, honoring cancellation.
func WithDelay(d time.Duration) MockOption {
	return func(m *MockClient) { m.delay = d }
}

// WithSearchFunc sets a custom function for Search.
func WithSearchFunc(fn func(ctx context.Context, q Query) (*SearchResult, error)) MockOption {
	return func(m *MockClient) { m.SearchFunc = fn }
}

// NewMockClient creates a mock serving DefaultFixture unless configured
// otherwise.
func NewMockClient(opts ...MockOption) *MockClient {
	m := &MockClient{fixture: DefaultFixture}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetError updates the returned error (thread-safe). A nil err restores
// fixture responses.
func (m *MockClient) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Search returns the fixture contents or the configured error.
func (m *MockClient) Search(ctx context.Context, q Query) (*SearchResult, error) {
	m.callCount.Add(1)

	m.mu.Lock()
	m.lastQuery = q
	m.mu.Unlock()

	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, q)
	}

	if m.delay > 0 {
		if err := sleepContext(ctx, m.delay); err != nil {
			return nil, err
		}
	}

	m.mu.RLock()
	err := m.err
	m.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	return m.load()
}

// CallCount returns how many times Search has been called.
func (m *MockClient) CallCount() int64 {
	return m.callCount.Load()
}

// LastQuery returns the query passed to the most recent Search call.
func (m *MockClient) LastQuery() Query {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastQuery
}

func (m *MockClient) load() (*SearchResult, error) {
	var (
		data []byte
		err  error
	)
	if m.path != "" {
		data, err = os.ReadFile(m.path)
	} else {
		data, err = fixtures.ReadFile("fixtures/" + m.fixture + ".json")
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: read fixture: %w", err)
	}

	var result SearchResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("catalog: decode fixture: %w", err)
	}
	return &result, nil
}
