package graph

import (
	"context"
	"strings"
	"sync"
)

// MemoryClient is an in-memory Client used to unit test repository logic
// without a running graph database. Read results are stubbed per query:
// a stub matches when its fragment appears in the executed Cypher, so a
// single test can seed several distinct queries at once.
type MemoryClient struct {
	mu           sync.Mutex
	readStubs    []queryStub
	readCalls    []ExecutedQuery
	writeCalls   []ExecutedQuery
	err          error
	connectivity error
}

type queryStub struct {
	fragment string
	results  []Result
}

// ExecutedQuery captures a Cypher statement and its parameters.
type ExecutedQuery struct {
	Query  string
	Params map[string]any
}

// NewMemoryClient instantiates an empty in-memory client.
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{}
}

// WithError configures the client to fail every subsequent call.
func (m *MemoryClient) WithError(err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// WithConnectivityError forces VerifyConnectivity to return the supplied error.
func (m *MemoryClient) WithConnectivityError(err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connectivity = err
	return m
}

// StubRead registers a result for reads whose Cypher contains fragment.
// Repeated calls with the same fragment queue additional results; the
// last queued result is replayed once the queue drains.
func (m *MemoryClient) StubRead(fragment string, res Result) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.readStubs {
		if m.readStubs[i].fragment == fragment {
			m.readStubs[i].results = append(m.readStubs[i].results, res)
			return m
		}
	}
	m.readStubs = append(m.readStubs, queryStub{fragment: fragment, results: []Result{res}})
	return m
}

func (m *MemoryClient) ExecuteRead(_ context.Context, cypher string, params map[string]any) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return Result{}, m.err
	}

	m.readCalls = append(m.readCalls, ExecutedQuery{Query: cypher, Params: cloneParams(params)})

	for i := range m.readStubs {
		if strings.Contains(cypher, m.readStubs[i].fragment) {
			res := m.readStubs[i].results[0]
			if len(m.readStubs[i].results) > 1 {
				m.readStubs[i].results = m.readStubs[i].results[1:]
			}
			return res, nil
		}
	}
	return Result{}, nil
}

func (m *MemoryClient) ExecuteWrite(_ context.Context, cypher string, params map[string]any) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return Result{}, m.err
	}

	m.writeCalls = append(m.writeCalls, ExecutedQuery{Query: cypher, Params: cloneParams(params)})
	return Result{}, nil
}

func (m *MemoryClient) VerifyConnectivity(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connectivity
}

func (m *MemoryClient) Close(context.Context) error {
	return nil
}

// ReadCalls returns a snapshot of executed read queries.
func (m *MemoryClient) ReadCalls() []ExecutedQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ExecutedQuery(nil), m.readCalls...)
}

// WriteCalls returns a snapshot of executed write queries.
func (m *MemoryClient) WriteCalls() []ExecutedQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ExecutedQuery(nil), m.writeCalls...)
}

func cloneParams(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
