package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"kedai/internal/models"
	"kedai/internal/repositories"
	"kedai/internal/session"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// CreateUserInput is the admin payload for adding an account.
type CreateUserInput struct {
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"omitempty,max=32"`
	Password  string `json:"password" validate:"required,min=6"`
	Role      string `json:"role" validate:"omitempty,oneof=customer admin"`
}

// UpdateUserInput holds the fields an admin may change on an account. Nil fields are left alone.
type UpdateUserInput struct {
	FirstName *string `json:"firstName" validate:"omitempty,min=1,max=100"`
	LastName  *string `json:"lastName" validate:"omitempty,min=1,max=100"`
	Phone     *string `json:"phone" validate:"omitempty,max=32"`
	Role      *string `json:"role" validate:"omitempty,oneof=customer admin"`
}

// temporaryPasswordLength is the length of passwords issued by ResetPassword.
const temporaryPasswordLength = 12

// UserService backs the admin user management screens.
type UserService struct {
	userRepo repositories.UserRepository
	sessions session.Store
	validate *validator.Validate
	logger   *zap.Logger
	now      func() time.Time
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repositories.UserRepository, sessions session.Store, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		sessions: sessions,
		validate: newValidator(),
		logger:   logger,
		now:      time.Now,
	}
}

// ListUsers returns active users, newest first, without password hashes.
func (s *UserService) ListUsers() ([]models.User, error) {
	users, err := s.userRepo.List()
	if err != nil {
		return nil, s.storageFailure("list users", "", err)
	}
	for i := range users {
		users[i] = users[i].Redacted()
	}
	return users, nil
}

// CreateUser adds an account on behalf of an admin. Role defaults to customer.
func (s *UserService) CreateUser(input CreateUserInput) (*models.User, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	input.Phone = strings.TrimSpace(input.Phone)
	if err := validateStruct(s.validate, input); err != nil {
		return nil, err
	}

	_, err := s.userRepo.GetByEmail(input.Email)
	switch {
	case err == nil:
		return nil, fmt.Errorf("%w: email '%s' already registered", ErrConflict, input.Email)
	case !errors.Is(err, repositories.ErrUserNotFound):
		return nil, s.storageFailure("look up user", "", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := models.RoleCustomer
	if input.Role != "" {
		role = models.UserRole(input.Role)
	}
	user := &models.User{
		ID:        uuid.New().String(),
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Phone:     input.Phone,
		Password:  string(hashedPassword),
		Role:      role,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, s.storageFailure("create user", user.ID, err)
	}

	s.logger.Info("User created by admin", zap.String("userId", user.ID), zap.String("role", string(role)))
	redacted := user.Redacted()
	return &redacted, nil
}

// UpdateUser edits an account and refreshes its live sessions.
// An admin cannot remove their own admin role.
func (s *UserService) UpdateUser(id, actorID string, input UpdateUserInput) (*models.User, error) {
	trim := func(v *string) {
		if v != nil {
			*v = strings.TrimSpace(*v)
		}
	}
	trim(input.FirstName)
	trim(input.LastName)
	trim(input.Phone)
	trim(input.Role)
	if err := validateStruct(s.validate, input); err != nil {
		return nil, err
	}
	if id == actorID && input.Role != nil && models.UserRole(*input.Role) != models.RoleAdmin {
		return nil, fmt.Errorf("%w: cannot remove your own admin role", ErrInvalidInput)
	}

	user, err := s.activeUser(id)
	if err != nil {
		return nil, err
	}

	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.Role != nil {
		user.Role = models.UserRole(*input.Role)
	}
	user.UpdatedAt = s.now()

	if err := s.userRepo.Update(user); err != nil {
		return nil, s.storageFailure("update user", id, err)
	}

	refreshed := s.sessions.RefreshUser(*user)
	s.logger.Info("User updated by admin", zap.String("userId", id), zap.Int("sessions", refreshed))
	redacted := user.Redacted()
	return &redacted, nil
}

// ResetPassword replaces a user's password with a random temporary one and
// signs them out everywhere. The temporary password is returned once.
func (s *UserService) ResetPassword(id string) (string, error) {
	user, err := s.activeUser(id)
	if err != nil {
		return "", err
	}

	tempPassword := strings.ReplaceAll(uuid.New().String(), "-", "")[:temporaryPasswordLength]
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashedPassword)
	user.UpdatedAt = s.now()

	if err := s.userRepo.Update(user); err != nil {
		return "", s.storageFailure("reset password", id, err)
	}

	dropped := s.sessions.DeleteByUser(id)
	s.logger.Info("User password reset", zap.String("userId", id), zap.Int("sessions", dropped))
	return tempPassword, nil
}

// DeleteUser soft-deletes a user and signs them out everywhere.
// An admin cannot delete their own account.
func (s *UserService) DeleteUser(id, actorID string) error {
	if id == actorID {
		return fmt.Errorf("%w: cannot delete your own account", ErrInvalidInput)
	}
	if err := s.userRepo.SoftDelete(id); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return fmt.Errorf("%w: user %s", ErrNotFound, id)
		}
		return s.storageFailure("delete user", id, err)
	}
	dropped := s.sessions.DeleteByUser(id)
	s.logger.Info("User deleted", zap.String("userId", id), zap.Int("sessions", dropped))
	return nil
}

// activeUser loads a user that has not been deleted. Deleted users read as missing.
func (s *UserService) activeUser(id string) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, id)
		}
		return nil, s.storageFailure("look up user", id, err)
	}
	if user.IsDeleted {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, id)
	}
	return user, nil
}

func (s *UserService) storageFailure(op, userID string, err error) error {
	s.logger.Error("User storage operation failed",
		zap.String("op", op),
		zap.String("userId", userID),
		zap.Error(err))
	return fmt.Errorf("%w: could not %s", ErrStorageFailure, op)
}
