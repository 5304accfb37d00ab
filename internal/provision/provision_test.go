package provision

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failureRecord struct {
	UserID string
	Email  string
	Reason string
}

// fakeStore mimics the idempotent semantics of the Postgres store: inserts
// keyed on an existing id are silent no-ops. Guarded by a mutex so worker
// tests can poll it while the worker writes.
type fakeStore struct {
	mu          sync.Mutex
	profiles    map[string]Profile
	settings    map[string]bool
	roles       map[string]string // name -> id
	assignments map[string][]string
	failures    []failureRecord

	settingsErr error
	assignErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		profiles:    make(map[string]Profile),
		settings:    make(map[string]bool),
		roles:       map[string]string{"user": "role-1"},
		assignments: make(map[string][]string),
	}
}

func (s *fakeStore) CreateProfile(ctx context.Context, p Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.profiles[p.ID]; exists {
		return nil
	}
	s.profiles[p.ID] = p
	return nil
}

func (s *fakeStore) CreateSettings(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.settingsErr != nil {
		return s.settingsErr
	}
	s.settings[userID] = true
	return nil
}

func (s *fakeStore) FindRoleID(ctx context.Context, name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.roles[name]
	if !ok {
		return "", ErrRoleNotFound
	}
	return id, nil
}

func (s *fakeStore) AssignRole(ctx context.Context, userID, roleID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.assignErr != nil {
		return s.assignErr
	}
	for _, assigned := range s.assignments[userID] {
		if assigned == roleID {
			return nil
		}
	}
	s.assignments[userID] = append(s.assignments[userID], roleID)
	return nil
}

func (s *fakeStore) RecordFailure(ctx context.Context, userID, email, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, failureRecord{UserID: userID, Email: email, Reason: reason})
	return nil
}

func (s *fakeStore) profileCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.profiles)
}

func TestProvisionCreatesAllRows(t *testing.T) {
	store := newFakeStore()
	p := NewProvisioner(store)

	p.Provision(context.Background(), Event{
		UserID: "user-1",
		Email:  "anna@gmail.com",
		Metadata: map[string]any{
			"username": "anna_b",
			"name":     "Anna B",
		},
	})

	profile := store.profiles["user-1"]
	assert.Equal(t, "anna@gmail.com", profile.Email)
	assert.Equal(t, "anna_b", profile.Username)
	assert.Equal(t, "Anna B", profile.FullName)

	assert.True(t, store.settings["user-1"])
	assert.Equal(t, []string{"role-1"}, store.assignments["user-1"])
	assert.Empty(t, store.failures)
}

func TestProvisionDerivesFromEmailLocalPart(t *testing.T) {
	store := newFakeStore()
	p := NewProvisioner(store)

	p.Provision(context.Background(), Event{
		UserID: "user-1",
		Email:  "anna@gmail.com",
	})

	profile := store.profiles["user-1"]
	assert.Equal(t, "anna", profile.Username)
	assert.Equal(t, "anna", profile.FullName)
}

func TestProvisionFullNameFallbackChain(t *testing.T) {
	store := newFakeStore()
	p := NewProvisioner(store)

	p.Provision(context.Background(), Event{
		UserID:   "user-1",
		Email:    "anna@gmail.com",
		Metadata: map[string]any{"full_name": "Anna Banana"},
	})

	assert.Equal(t, "Anna Banana", store.profiles["user-1"].FullName)
	assert.Equal(t, "anna", store.profiles["user-1"].Username)
}

func TestProvisionIsIdempotent(t *testing.T) {
	store := newFakeStore()
	p := NewProvisioner(store)

	ev := Event{UserID: "user-1", Email: "anna@gmail.com"}

	// at-least-once delivery: same event handled twice
	p.Provision(context.Background(), ev)
	p.Provision(context.Background(), ev)

	assert.Len(t, store.profiles, 1)
	assert.Len(t, store.settings, 1)
	assert.Len(t, store.assignments["user-1"], 1)
	assert.Empty(t, store.failures)
}

func TestProvisionMissingRoleIsNotFatal(t *testing.T) {
	store := newFakeStore()
	store.roles = map[string]string{}
	p := NewProvisioner(store)

	p.Provision(context.Background(), Event{UserID: "user-1", Email: "anna@gmail.com"})

	assert.Len(t, store.profiles, 1)
	assert.True(t, store.settings["user-1"])
	assert.Empty(t, store.assignments["user-1"])
	assert.Empty(t, store.failures, "a missing default role is a no-op, not a failure")
}

func TestProvisionFailureIsRecordedNotRaised(t *testing.T) {
	store := newFakeStore()
	store.settingsErr = errors.New("connection reset")
	p := NewProvisioner(store)

	p.Provision(context.Background(), Event{UserID: "user-1", Email: "anna@gmail.com"})

	require.Len(t, store.failures, 1)
	assert.Equal(t, "user-1", store.failures[0].UserID)
	assert.Equal(t, "anna@gmail.com", store.failures[0].Email)
	assert.Contains(t, store.failures[0].Reason, "create settings")
}

func TestProvisionRejectsEventWithoutUserID(t *testing.T) {
	store := newFakeStore()
	p := NewProvisioner(store)

	p.Provision(context.Background(), Event{Email: "anna@gmail.com"})

	assert.Empty(t, store.profiles)
	require.Len(t, store.failures, 1)
	assert.Contains(t, store.failures[0].Reason, "missing user id")
}
