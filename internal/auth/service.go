package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/clopse/hotelfm/internal/storage"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Service struct {
	storage  storage.Storage
	enforcer *casbin.Enforcer
}

func NewService(s storage.Storage) (*Service, error) {
	// Initialize Casbin
	m, err := model.NewModelFromString(`
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && (r.obj == p.obj || p.obj == "*") && (r.act == p.act || p.act == "*")
`)
	if err != nil {
		return nil, err
	}

	e, err := casbin.NewEnforcer(m, NewAdapter(s))
	if err != nil {
		return nil, err
	}

	// Default policies.
	// Admin can do everything.
	e.AddPolicy("admin", "*", "*")
	// Editor can read everything and write operational data.
	e.AddPolicy("editor", "bills", "read")
	e.AddPolicy("editor", "bills", "write")
	e.AddPolicy("editor", "hotels", "read")
	e.AddPolicy("editor", "equipment", "read")
	e.AddPolicy("editor", "equipment", "write")
	e.AddPolicy("editor", "compliance", "read")
	e.AddPolicy("editor", "compliance", "write")
	// Viewer can only read.
	e.AddPolicy("viewer", "bills", "read")
	e.AddPolicy("viewer", "hotels", "read")
	e.AddPolicy("viewer", "equipment", "read")
	e.AddPolicy("viewer", "compliance", "read")

	return &Service{storage: s, enforcer: e}, nil
}

func (s *Service) Authenticate(ctx context.Context, username, password string) (*storage.User, error) {
	u, err := s.storage.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, errors.New("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, errors.New("invalid credentials")
	}
	return u, nil
}

func (s *Service) Register(ctx context.Context, username, password, role string) (*storage.User, error) {
	existing, err := s.storage.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.New("user already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := storage.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := s.storage.CreateUser(ctx, u); err != nil {
		return nil, err
	}

	s.enforcer.AddGroupingPolicy(u.ID, role)

	return &u, nil
}

// UpdateUser changes a user's role, email or password. Empty fields are left
// untouched. A role change also rewrites the grouping policy.
func (s *Service) UpdateUser(ctx context.Context, id, role, email, password string) (*storage.User, error) {
	u, err := s.storage.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, errors.New("user not found")
	}

	if email != "" && email != u.Email {
		existing, err := s.storage.GetUserByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != u.ID {
			return nil, errors.New("email already in use")
		}
		u.Email = email
	}

	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = string(hash)
	}

	if role != "" && role != u.Role {
		s.enforcer.RemoveGroupingPolicy(u.ID, u.Role)
		u.Role = role
		s.enforcer.AddGroupingPolicy(u.ID, role)
	}

	u.UpdatedAt = time.Now()
	if err := s.storage.UpdateUser(ctx, *u); err != nil {
		return nil, err
	}
	return u, nil
}

// DeleteUser removes a user together with their tokens and grouping policy.
func (s *Service) DeleteUser(ctx context.Context, id string) error {
	u, err := s.storage.GetUser(ctx, id)
	if err != nil {
		return err
	}
	if u == nil {
		return errors.New("user not found")
	}

	tokens, err := s.storage.ListTokens(ctx, id)
	if err != nil {
		return err
	}
	for _, t := range tokens {
		if err := s.storage.DeleteToken(ctx, t.ID); err != nil {
			return err
		}
	}

	s.enforcer.RemoveGroupingPolicy(u.ID, u.Role)
	return s.storage.DeleteUser(ctx, id)
}

func (s *Service) CreateToken(ctx context.Context, userID, name, role string, expiresAt *time.Time) (*storage.Token, string, error) {
	rawToken := uuid.New().String() + uuid.New().String()

	hasher := sha256.New()
	hasher.Write([]byte(rawToken))
	tokenHash := hex.EncodeToString(hasher.Sum(nil))

	t := storage.Token{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      name,
		TokenHash: tokenHash,
		Role:      role,
		CreatedAt: time.Now(),
		ExpiresAt: expiresAt,
	}

	if err := s.storage.CreateToken(ctx, t); err != nil {
		return nil, "", err
	}

	return &t, rawToken, nil
}

func (s *Service) ValidateToken(ctx context.Context, rawToken string) (*storage.Token, error) {
	hasher := sha256.New()
	hasher.Write([]byte(rawToken))
	tokenHash := hex.EncodeToString(hasher.Sum(nil))

	t, err := s.storage.GetTokenByHash(ctx, tokenHash)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, errors.New("invalid token")
	}

	if t.ExpiresAt != nil && t.ExpiresAt.Before(time.Now()) {
		return nil, errors.New("token expired")
	}

	// Update last used out of band.
	go s.storage.UpdateTokenLastUsed(context.Background(), t.ID)

	return t, nil
}

func (s *Service) Enforce(sub, obj, act string) (bool, error) {
	return s.enforcer.Enforce(sub, obj, act)
}

// EnforceRole checks a role directly, used when a token carries a role but
// the user has no grouping policy.
func (s *Service) EnforceRole(role, obj, act string) (bool, error) {
	return s.enforcer.Enforce(role, obj, act)
}
