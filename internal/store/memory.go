package store

import (
	"bytes"
	"context"
	"sync"
)

// Memory is an in-memory Store. Each write bumps the artifact's
// modification marker.
type Memory struct {
	mu       sync.Mutex
	files    map[string][]byte
	markers  map[string]uint64
	writes   map[string]int
	failures map[string]error
	clock    uint64
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		files:    make(map[string][]byte),
		markers:  make(map[string]uint64),
		writes:   make(map[string]int),
		failures: make(map[string]error),
	}
}

// Read implements Store.
func (m *Memory) Read(ctx context.Context, ref ArtifactRef) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	content, ok := m.files[ref.String()]
	if !ok {
		return nil, false, nil
	}

	return bytes.Clone(content), true, nil
}

// Write implements Store.
func (m *Memory) Write(ctx context.Context, ref ArtifactRef, content []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := ref.String()
	if err := m.failures[key]; err != nil {
		return persistErr(ref, "write", err)
	}

	m.put(key, content)
	m.writes[key]++

	return nil
}

// CreateSkeleton implements Store.
func (m *Memory) CreateSkeleton(ctx context.Context, ref ArtifactRef) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := ref.String()
	if err := m.failures[key]; err != nil {
		return persistErr(ref, "create", err)
	}

	if _, ok := m.files[key]; !ok {
		m.put(key, Skeleton(ref))
	}

	return nil
}

// Put stores content without counting it as a write.
func (m *Memory) Put(ref ArtifactRef, content []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.put(ref.String(), content)
}

// FailOn makes every write and create of ref fail with err. A nil err
// clears the failure.
func (m *Memory) FailOn(ref ArtifactRef, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err == nil {
		delete(m.failures, ref.String())
		return
	}

	m.failures[ref.String()] = err
}

// Writes returns the number of writes to ref.
func (m *Memory) Writes(ref ArtifactRef) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.writes[ref.String()]
}

// TotalWrites returns the number of writes to all artifacts.
func (m *Memory) TotalWrites() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := 0
	for _, n := range m.writes {
		total += n
	}

	return total
}

// Marker returns the modification marker of ref; zero means absent.
func (m *Memory) Marker(ref ArtifactRef) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.markers[ref.String()]
}

// Len returns the number of stored artifacts.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.files)
}

func (m *Memory) put(key string, content []byte) {
	m.clock++
	m.files[key] = bytes.Clone(content)
	m.markers[key] = m.clock
}
