// Package theme persists the dark-mode preference.
package theme

import (
	"context"
	"log/slog"
	"sync"

	"aichat/internal/kv"
)

// StorageSlot is the persistence slot name for the theme store.
const StorageSlot = "theme-storage"

type State struct {
	DarkMode bool `json:"isDarkMode"`
}

// Store holds the theme flag. OnChange, when set, is invoked after every
// change and once on restore, standing in for the presentation layer's
// global theme context.
type Store struct {
	mu    sync.Mutex
	state State

	OnChange func(dark bool)

	kv  kv.Store
	log *slog.Logger
}

func NewStore(ctx context.Context, store kv.Store, log *slog.Logger, onChange func(bool)) *Store {
	s := &Store{kv: store, log: log, OnChange: onChange}
	var saved State
	found, err := store.Load(ctx, StorageSlot, &saved)
	if err != nil {
		log.Error("restore theme state", "err", err)
	}
	if found {
		s.state = saved
	}
	if s.OnChange != nil {
		s.OnChange(s.state.DarkMode)
	}
	return s
}

func (s *Store) Toggle() bool {
	s.mu.Lock()
	s.state.DarkMode = !s.state.DarkMode
	dark := s.state.DarkMode
	s.persistLocked()
	s.mu.Unlock()
	if s.OnChange != nil {
		s.OnChange(dark)
	}
	return dark
}

func (s *Store) Set(dark bool) {
	s.mu.Lock()
	s.state.DarkMode = dark
	s.persistLocked()
	s.mu.Unlock()
	if s.OnChange != nil {
		s.OnChange(dark)
	}
}

func (s *Store) Dark() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.DarkMode
}

func (s *Store) persistLocked() {
	if err := s.kv.Save(context.Background(), StorageSlot, s.state); err != nil {
		s.log.Error("persist theme state", "err", err)
	}
}
