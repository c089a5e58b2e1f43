package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"recipeapi/internal/models"
	"recipeapi/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest password accepted for any account.
const MinPasswordLength = 5

// UserFields holds the optional attributes accepted when creating a user.
type UserFields struct {
	Name string
}

// ProfileUpdate describes a partial profile change. Nil fields are left untouched.
type ProfileUpdate struct {
	Name     *string
	Password *string
}

// UserService owns account creation, password hashing and credential checks.
type UserService struct {
	userRepo   repositories.UserRepository
	events     EventPublisher
	bcryptCost int
}

// NewUserService creates a new UserService. events may be nil.
func NewUserService(userRepo repositories.UserRepository, events EventPublisher, bcryptCost int) *UserService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{
		userRepo:   userRepo,
		events:     events,
		bcryptCost: bcryptCost,
	}
}

// NormalizeEmail trims surrounding whitespace and lowercases the domain part.
// The local part is kept as typed.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at] + "@" + strings.ToLower(email[at+1:])
}

// CreateUser registers a new active, non-staff user with a hashed password.
func (s *UserService) CreateUser(ctx context.Context, email, password string, extra UserFields) (*models.User, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	if err := checkPassword(password); err != nil {
		return nil, err
	}

	if existing, err := s.userRepo.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, NewValidationError("email", "user with this email already exists")
	} else if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	hash, err := s.hashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:    email,
		Password: hash,
		Name:     strings.TrimSpace(extra.Name),
		IsActive: true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, NewValidationError("email", "user with this email already exists")
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	slog.InfoContext(ctx, "user registered", "user_id", user.ID)
	publish(ctx, s.events, EventUserRegistered, map[string]any{
		"user_id": user.ID,
		"email":   user.Email,
	})
	return user, nil
}

// CreateSuperuser creates a user and grants staff and superuser rights.
func (s *UserService) CreateSuperuser(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.CreateUser(ctx, email, password, UserFields{})
	if err != nil {
		return nil, err
	}
	user.IsStaff = true
	user.IsSuperuser = true
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to promote user %s: %w", user.ID, err)
	}
	return user, nil
}

// Authenticate returns the active user matching the credentials, or nil.
// A nil user with a nil error means the credentials were rejected; errors
// are reserved for store failures.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, nil
	}
	if !user.IsActive {
		return nil, nil
	}
	return user, nil
}

// GetUser returns the user with the given id.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// UpdateProfile applies a partial update to the user's own profile.
// A new password is re-hashed before it is stored.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, NewValidationError("name", "this field may not be blank")
		}
		user.Name = name
	}
	if update.Password != nil {
		if err := checkPassword(*update.Password); err != nil {
			return nil, err
		}
		hash, err := s.hashPassword(*update.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hash
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

func checkPassword(password string) error {
	if len(password) < MinPasswordLength {
		return NewValidationError("password", fmt.Sprintf("ensure this field has at least %d characters", MinPasswordLength))
	}
	return nil
}

func (s *UserService) hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}
