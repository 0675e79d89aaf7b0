// Package kv provides named-slot persistence for state snapshots. Each
// top-level store serializes its whole state to one slot and restores it
// on startup.
package kv

import (
	"context"
	"encoding/json"
	"sync"
)

// Store persists JSON-encoded state slices under named slots.
type Store interface {
	// Save serializes v and writes it to the named slot, replacing any
	// previous value.
	Save(ctx context.Context, slot string, v any) error
	// Load reads the named slot into out. It returns false when the slot
	// has never been written, in which case out is left untouched.
	Load(ctx context.Context, slot string, out any) (bool, error)
}

// Memory is an in-process Store used in tests and when persistence is
// disabled.
type Memory struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{slots: make(map[string][]byte)}
}

func (m *Memory) Save(ctx context.Context, slot string, v any) error {
	_ = ctx
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[slot] = raw
	return nil
}

func (m *Memory) Load(ctx context.Context, slot string, out any) (bool, error) {
	_ = ctx
	m.mu.RLock()
	raw, ok := m.slots[slot]
	m.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, err
	}
	return true, nil
}
