package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// memStore is an in-memory Store used by the engine tests.
type memStore struct {
	mu    sync.Mutex
	users map[string]*User

	failSetRefresh bool
}

func newMemStore() *memStore {
	return &memStore{users: map[string]*User{}}
}

func (s *memStore) FindByIdentifier(_ context.Context, username, email string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if (username != "" && u.Username == username) || (email != "" && u.Email == email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrUserNotFound
}

func (s *memStore) FindByID(_ context.Context, id string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *memStore) Insert(_ context.Context, u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return ErrAccountExists
		}
	}
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *memStore) SetRefreshToken(_ context.Context, userID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSetRefresh {
		return errors.New("write refused")
	}
	u, ok := s.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	u.RefreshToken = token
	return nil
}

func (s *memStore) ClearRefreshToken(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	u.RefreshToken = ""
	return nil
}

// memUploader is an in-memory Uploader. When broken, uploads yield no URL.
type memUploader struct {
	mu      sync.Mutex
	uploads int
	broken  bool
}

func (m *memUploader) Upload(_ context.Context, f *FileUpload) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.broken {
		return "", nil
	}
	m.uploads++
	return fmt.Sprintf("https://cdn.test/%s", strings.ReplaceAll(f.Name, " ", "-")), nil
}
