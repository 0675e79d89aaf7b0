// Package auth holds the mocked phone/OTP identity flow and its state.
package auth

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"aichat/internal/kv"
)

// StorageSlot is the persistence slot name for the auth store.
const StorageSlot = "auth-storage"

// User is the identity record created on successful OTP verification.
// At most one exists at a time.
type User struct {
	ID            string `json:"id"`
	PhoneNumber   string `json:"phoneNumber"`
	CountryCode   string `json:"countryCode"`
	Authenticated bool   `json:"isAuthenticated"`
}

// State is the persisted snapshot shape of the auth store.
type State struct {
	User    *User `json:"user"`
	Loading bool  `json:"isLoading"`
	OTPSent bool  `json:"otpSent"`
}

// Store holds the authentication state and is its only writer.
type Store struct {
	mu    sync.Mutex
	state State

	kv  kv.Store
	log *slog.Logger
}

func NewStore(ctx context.Context, store kv.Store, log *slog.Logger) *Store {
	s := &Store{kv: store, log: log}
	var saved State
	found, err := store.Load(ctx, StorageSlot, &saved)
	if err != nil {
		log.Error("restore auth state", "err", err)
	}
	if found {
		s.state = saved
	}
	return s
}

func (s *Store) persistLocked() {
	snap := s.state
	if snap.User != nil {
		u := *snap.User
		snap.User = &u
	}
	if err := s.kv.Save(context.Background(), StorageSlot, snap); err != nil {
		s.log.Error("persist auth state", "err", err)
	}
}

// SetUser replaces the identity; nil clears it.
func (s *Store) SetUser(u *User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.User = u
	s.persistLocked()
}

func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = loading
	s.persistLocked()
}

func (s *Store) SetOTPSent(sent bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.OTPSent = sent
	s.persistLocked()
}

// Logout clears the user and the otp-sent marker. The loading flag is left
// alone; any pending call resets it through its own finally path.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.User = nil
	s.state.OTPSent = false
	s.persistLocked()
}

// Login installs a fresh authenticated user for the given phone number.
func (s *Store) Login(phoneNumber, countryCode string) User {
	u := User{
		ID:            uuid.NewString(),
		PhoneNumber:   phoneNumber,
		CountryCode:   countryCode,
		Authenticated: true,
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.User = &u
	s.persistLocked()
	return u
}

func (s *Store) User() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.User == nil {
		return nil
	}
	u := *s.state.User
	return &u
}

func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Loading
}

func (s *Store) OTPSent() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.OTPSent
}

func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.state
	if snap.User != nil {
		u := *snap.User
		snap.User = &u
	}
	return snap
}
