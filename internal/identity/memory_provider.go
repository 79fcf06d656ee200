package identity

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/models"
	"github.com/google/uuid"
)

// MemoryProvider keeps identities in process. Used for local development
// (IDENTITY_DRIVER=memory) and tests.
type MemoryProvider struct {
	*TokenSigner

	mu      sync.RWMutex
	users   map[string]*memoryUser
	byEmail map[string]string
}

type memoryUser struct {
	user User
	hash string
}

func NewMemoryProvider(signer *TokenSigner) *MemoryProvider {
	return &MemoryProvider{
		TokenSigner: signer,
		users:       make(map[string]*memoryUser),
		byEmail:     make(map[string]string),
	}
}

func (p *MemoryProvider) CreateUser(_ context.Context, params CreateUserParams) (*User, error) {
	email := NormalizeEmail(params.Email)
	hash, err := hashPassword(params.Password)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.byEmail[email]; ok {
		return nil, ErrEmailExists
	}

	u := &memoryUser{
		user: User{
			UID:         uuid.NewString(),
			Email:       email,
			DisplayName: params.DisplayName,
			CreatedAt:   time.Now().UTC(),
		},
		hash: hash,
	}
	p.users[u.user.UID] = u
	p.byEmail[email] = u.user.UID

	out := u.user
	return &out, nil
}

func (p *MemoryProvider) DeleteUser(_ context.Context, uid string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	u, ok := p.users[uid]
	if !ok {
		return ErrUserNotFound
	}
	delete(p.byEmail, u.user.Email)
	delete(p.users, uid)
	return nil
}

func (p *MemoryProvider) GetUser(_ context.Context, uid string) (*User, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	u, ok := p.users[uid]
	if !ok {
		return nil, ErrUserNotFound
	}
	out := u.user
	return &out, nil
}

func (p *MemoryProvider) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	p.mu.RLock()
	uid, ok := p.byEmail[NormalizeEmail(email)]
	p.mu.RUnlock()
	if !ok {
		return nil, ErrUserNotFound
	}
	return p.GetUser(ctx, uid)
}

func (p *MemoryProvider) ListUsers(_ context.Context) ([]User, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	users := make([]User, 0, len(p.users))
	for _, u := range p.users {
		users = append(users, u.user)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, nil
}

func (p *MemoryProvider) SetCustomClaims(_ context.Context, uid string, claims models.CustomClaims) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	u, ok := p.users[uid]
	if !ok {
		return ErrUserNotFound
	}
	u.user.Claims = claims
	return nil
}

func (p *MemoryProvider) SignIn(_ context.Context, email, password string) (*User, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	uid, ok := p.byEmail[NormalizeEmail(email)]
	if !ok {
		return nil, ErrInvalidCredentials
	}
	u := p.users[uid]
	if err := checkPassword(u.hash, password); err != nil {
		return nil, err
	}
	out := u.user
	return &out, nil
}

func (p *MemoryProvider) Ping(context.Context) error { return nil }

var _ Provider = (*MemoryProvider)(nil)
