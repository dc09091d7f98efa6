package auth_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/movie-access/internal/events"
	"github.com/magabrotheeeer/movie-access/internal/lib/password"
	"github.com/magabrotheeeer/movie-access/internal/models"
	"github.com/magabrotheeeer/movie-access/internal/storage/repository"
)

// memStore — хранилище в памяти с семантикой repository.Storage.
type memStore struct {
	mu    sync.Mutex
	users map[string]*models.User
	roles map[models.RoleName]models.Role
}

func newMemStore() *memStore {
	s := &memStore{
		users: make(map[string]*models.User),
		roles: make(map[models.RoleName]models.Role),
	}
	for _, r := range models.AllRoles() {
		r.ID = "role-" + string(r.Name)
		r.CreatedAt = time.Now()
		s.roles[r.Name] = r
	}
	return s
}

func (s *memStore) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *memStore) FindUserByID(_ context.Context, userUID string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userUID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (s *memStore) CreateUser(_ context.Context, user models.User) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return "", repository.ErrAlreadyExists
		}
	}
	user.UUID = uuid.NewString()
	s.users[user.UUID] = &user
	return user.UUID, nil
}

func (s *memStore) UpdateRefreshTokenHash(_ context.Context, userUID string, hash *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userUID]
	if !ok {
		return repository.ErrNotFound
	}
	if hash == nil {
		u.RefreshTokenHash = nil
		return nil
	}
	h := *hash
	u.RefreshTokenHash = &h
	return nil
}

func (s *memStore) FindRoleByName(_ context.Context, name models.RoleName) (*models.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.roles[name]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &r, nil
}

func (s *memStore) setActive(userUID string, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[userUID].IsActive = active
}

func (s *memStore) refreshHash(userUID string) *string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[userUID].RefreshTokenHash
}

// StoreMock — мок CredentialStore для сценариев с ошибками хранилища.
type StoreMock struct {
	mock.Mock
}

func (m *StoreMock) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *StoreMock) FindUserByID(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *StoreMock) CreateUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *StoreMock) UpdateRefreshTokenHash(ctx context.Context, userUID string, hash *string) error {
	args := m.Called(ctx, userUID, hash)
	return args.Error(0)
}

func (m *StoreMock) FindRoleByName(ctx context.Context, name models.RoleName) (*models.Role, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Role), args.Error(1)
}

// recordingPublisher запоминает опубликованные события.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Type, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

// countingHasher считает вызовы и запоминает дайджесты, переданные в Verify.
type countingHasher struct {
	*password.Hasher

	mu       sync.Mutex
	hashes   int
	verifies int
	digests  []string
}

func (h *countingHasher) Hash(plain string) (string, error) {
	h.mu.Lock()
	h.hashes++
	h.mu.Unlock()
	return h.Hasher.Hash(plain)
}

func (h *countingHasher) Verify(plain, digest string) bool {
	h.mu.Lock()
	h.verifies++
	h.digests = append(h.digests, digest)
	h.mu.Unlock()
	return h.Hasher.Verify(plain, digest)
}
