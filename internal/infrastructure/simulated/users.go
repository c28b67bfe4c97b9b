package simulated

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/conectar/console-gateway/internal/core/domain"
)

const msgUserDeleted = "Usuário deletado com sucesso"

// Login signs a user in by e-mail. Fixture users carry no password and accept
// any; users created with a password are checked against their bcrypt hash.
func (b *Backend) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	if err := b.simulate(ctx, "login"); err != nil {
		return nil, err
	}

	b.mu.RLock()
	idx := b.userIndexByEmail(email)
	var u domain.User
	if idx >= 0 {
		u = b.users[idx]
	}
	b.mu.RUnlock()

	if idx < 0 || !u.IsActive {
		return nil, domain.ErrInvalidCredentials
	}
	if u.PasswordHash != "" && bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := b.issueToken(u)
	if err != nil {
		return nil, err
	}
	return &domain.AuthResult{User: u, Token: token}, nil
}

// Register creates an account and signs it in.
func (b *Backend) Register(ctx context.Context, in domain.UserInput) (*domain.AuthResult, error) {
	if err := b.simulate(ctx, "register"); err != nil {
		return nil, err
	}

	u, err := b.insertUser(ctx, "register", in)
	if err != nil {
		return nil, err
	}
	token, err := b.issueToken(*u)
	if err != nil {
		return nil, err
	}
	return &domain.AuthResult{User: *u, Token: token}, nil
}

// Me resolves the signed-in user by id.
func (b *Backend) Me(ctx context.Context, id int64) (*domain.User, error) {
	if err := b.simulate(ctx, "me"); err != nil {
		return nil, err
	}
	return b.findUser(id)
}

func (b *Backend) ListUsers(ctx context.Context) ([]domain.User, error) {
	if err := b.simulate(ctx, "listUsers"); err != nil {
		return nil, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.users), nil
}

func (b *Backend) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	if err := b.simulate(ctx, "getUser"); err != nil {
		return nil, err
	}
	return b.findUser(id)
}

func (b *Backend) CreateUser(ctx context.Context, in domain.UserInput) (*domain.User, error) {
	if err := b.simulate(ctx, "createUser"); err != nil {
		return nil, err
	}
	return b.insertUser(ctx, "createUser", in)
}

// UpdateUser merges the patch. id and createdAt are never touched.
func (b *Backend) UpdateUser(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error) {
	if err := b.simulate(ctx, "updateUser"); err != nil {
		return nil, err
	}
	if patch.Role != nil && !patch.Role.Valid() {
		return nil, fmt.Errorf("role %q: %w", *patch.Role, domain.ErrValidation)
	}

	var hash string
	if patch.Password != nil && *patch.Password != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		hash = string(h)
	}

	var updated domain.User
	err := b.queue.Do(ctx, "updateUser", func() error {
		b.mu.Lock()
		defer b.mu.Unlock()

		idx := b.userIndex(id)
		if idx < 0 {
			return fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
		}
		if patch.Email != nil {
			if other := b.userIndexByEmail(*patch.Email); other >= 0 && other != idx {
				return domain.ErrUserExists
			}
		}

		next := slices.Clone(b.users)
		patch.Apply(&next[idx], b.now())
		if hash != "" {
			next[idx].PasswordHash = hash
		}
		if err := b.store.SaveUsers(ctx, next); err != nil {
			return err
		}
		b.users = next
		updated = next[idx]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (b *Backend) DeleteUser(ctx context.Context, id int64) (*domain.DeleteResult, error) {
	if err := b.simulate(ctx, "deleteUser"); err != nil {
		return nil, err
	}

	err := b.queue.Do(ctx, "deleteUser", func() error {
		b.mu.Lock()
		defer b.mu.Unlock()

		idx := b.userIndex(id)
		if idx < 0 {
			return fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
		}
		next := slices.Delete(slices.Clone(b.users), idx, idx+1)
		if err := b.store.SaveUsers(ctx, next); err != nil {
			return err
		}
		b.users = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &domain.DeleteResult{Success: true, Message: msgUserDeleted}, nil
}

func (b *Backend) insertUser(ctx context.Context, op string, in domain.UserInput) (*domain.User, error) {
	if strings.TrimSpace(in.Email) == "" || strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("name and email are required: %w", domain.ErrValidation)
	}
	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !role.Valid() {
		return nil, fmt.Errorf("role %q: %w", role, domain.ErrValidation)
	}

	var hash string
	if in.Password != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		hash = string(h)
	}

	var created domain.User
	err := b.queue.Do(ctx, op, func() error {
		b.mu.Lock()
		defer b.mu.Unlock()

		if b.userIndexByEmail(in.Email) >= 0 {
			return domain.ErrUserExists
		}

		now := b.now()
		created = domain.User{
			ID:           b.nextUserID,
			Name:         in.Name,
			Email:        in.Email,
			Role:         role,
			IsActive:     true,
			PasswordHash: hash,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		b.nextUserID++

		next := append(slices.Clone(b.users), created)
		if err := b.store.SaveUsers(ctx, next); err != nil {
			return err
		}
		b.users = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (b *Backend) findUser(id int64) (*domain.User, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	idx := b.userIndex(id)
	if idx < 0 {
		return nil, fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	u := b.users[idx]
	return &u, nil
}

// userIndex and userIndexByEmail expect b.mu to be held.
func (b *Backend) userIndex(id int64) int {
	return slices.IndexFunc(b.users, func(u domain.User) bool { return u.ID == id })
}

func (b *Backend) userIndexByEmail(email string) int {
	email = strings.TrimSpace(email)
	return slices.IndexFunc(b.users, func(u domain.User) bool { return strings.EqualFold(u.Email, email) })
}
