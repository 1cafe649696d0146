package service

import (
	"context"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/minicanvas-api/internal/dto"
	"github.com/noah-isme/minicanvas-api/internal/models"
	appErrors "github.com/noah-isme/minicanvas-api/pkg/errors"
	"github.com/noah-isme/minicanvas-api/pkg/sequence"
)

// UserManagerConfig tunes password hashing.
type UserManagerConfig struct {
	BcryptCost int
}

// UserManager owns the user collection and issues user ids.
type UserManager struct {
	mu        sync.RWMutex
	ids       sequence.Generator
	users     []*models.User
	cost      int
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserManager constructs a UserManager. A nil generator falls back to an in-memory counter.
func NewUserManager(ids sequence.Generator, cfg UserManagerConfig, validate *validator.Validate, logger *zap.Logger) *UserManager {
	if ids == nil {
		ids = sequence.NewCounter()
	}
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserManager{
		ids:       ids,
		users:     make([]*models.User, 0),
		cost:      cfg.BcryptCost,
		validator: validate,
		logger:    logger,
	}
}

// GenerateID issues the next user id.
func (m *UserManager) GenerateID(ctx context.Context) (int, error) {
	id, err := m.ids.Next(ctx)
	if err != nil {
		return 0, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to generate user id")
	}
	return id, nil
}

// CreateUser registers a user and returns a copy of the stored record.
func (m *UserManager) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*models.User, error) {
	if err := m.validator.Struct(req); err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrValidation, "invalid user payload")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), m.cost)
	if err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to hash password")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	id, err := m.GenerateID(ctx)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           id,
		Name:         req.Name,
		PasswordHash: string(hash),
		Type:         models.UserType(req.Type),
		CreatedAt:    time.Now().UTC(),
	}
	m.users = append(m.users, user)
	m.logger.Sugar().Infow("user created", "user_id", user.ID, "type", user.Type)

	created := *user
	return &created, nil
}

// FindUsers returns the users whose id appears in ids, in creation order. Unknown ids are skipped.
func (m *UserManager) FindUsers(_ context.Context, ids []int) []models.User {
	wanted := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	found := make([]models.User, 0, len(wanted))
	for _, u := range m.users {
		if _, ok := wanted[u.ID]; ok {
			found = append(found, *u)
		}
	}
	return found
}

// FindUser returns a single user or a not-found error.
func (m *UserManager) FindUser(ctx context.Context, id int) (*models.User, error) {
	users := m.FindUsers(ctx, []int{id})
	if len(users) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
	}
	return &users[0], nil
}

// Users lists every user in creation order.
func (m *UserManager) Users(_ context.Context) []models.User {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, *u)
	}
	return users
}

// Count returns the number of users held.
func (m *UserManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users)
}
