package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"kedai/internal/models"
	"kedai/internal/repositories"
	"kedai/internal/session"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// RegisterInput is the sign-up payload.
type RegisterInput struct {
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"omitempty,max=32"`
	Password  string `json:"password" validate:"required,min=6"`
}

// LoginInput is the sign-in payload.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileInput holds the profile fields a user may edit. Nil fields are left alone.
type UpdateProfileInput struct {
	FirstName      *string `json:"firstName" validate:"omitempty,min=1,max=100"`
	LastName       *string `json:"lastName" validate:"omitempty,min=1,max=100"`
	Phone          *string `json:"phone" validate:"omitempty,max=32"`
	ProfilePicture *string `json:"profilePicture" validate:"omitempty,url"`
}

// AuthResult is returned on a successful sign-up or sign-in.
type AuthResult struct {
	User      models.User `json:"user"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

// AuthService handles business logic for authentication and sessions.
type AuthService struct {
	userRepo  repositories.UserRepository
	sessions  session.Store
	jwtSecret []byte
	ttl       time.Duration // lifetime of a session and its token
	validate  *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, sessions session.Store, jwtSecret string, ttl time.Duration, logger *zap.Logger) *AuthService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AuthService{
		userRepo:  userRepo,
		sessions:  sessions,
		jwtSecret: []byte(jwtSecret),
		ttl:       ttl,
		validate:  newValidator(),
		logger:    logger,
		now:       time.Now,
	}
}

// Register creates a customer account and signs it in.
func (s *AuthService) Register(input RegisterInput) (*AuthResult, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	input.Phone = strings.TrimSpace(input.Phone)
	if err := validateStruct(s.validate, input); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.GetByEmail(input.Email)
	switch {
	case err == nil && existing.IsDeleted:
		return nil, ErrAccountDeactivated
	case err == nil:
		return nil, fmt.Errorf("%w: email '%s' already registered", ErrConflict, input.Email)
	case !errors.Is(err, repositories.ErrUserNotFound):
		return nil, s.storageFailure("look up user", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:        uuid.New().String(),
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Phone:     input.Phone,
		Password:  string(hashedPassword),
		Role:      models.RoleCustomer,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, s.storageFailure("create user", err)
	}

	s.logger.Info("User registered", zap.String("userId", user.ID))
	return s.startSession(*user)
}

// Login authenticates a user and opens a new session.
func (s *AuthService) Login(input LoginInput) (*AuthResult, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if err := validateStruct(s.validate, input); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(input.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, s.storageFailure("look up user", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if user.IsDeleted {
		return nil, ErrAccountDeactivated
	}

	s.logger.Info("User logged in", zap.String("userId", user.ID))
	return s.startSession(*user)
}

// Logout ends the session behind token. Unknown or expired tokens are ignored.
func (s *AuthService) Logout(token string) {
	claims, err := s.parseToken(token)
	if err != nil {
		return
	}
	if sid, ok := claims["sid"].(string); ok {
		s.sessions.Delete(sid)
	}
}

// ResolveSession checks the token signature and returns the live session it names.
func (s *AuthService) ResolveSession(token string) (session.Session, error) {
	if token == "" {
		return session.Session{}, fmt.Errorf("%w: missing session token", ErrUnauthorized)
	}
	claims, err := s.parseToken(token)
	if err != nil {
		return session.Session{}, fmt.Errorf("%w: invalid session token", ErrUnauthorized)
	}
	sid, _ := claims["sid"].(string)
	sess, ok := s.sessions.Get(sid)
	if !ok {
		return session.Session{}, fmt.Errorf("%w: session expired or signed out", ErrUnauthorized)
	}
	return sess, nil
}

// UpdateProfile edits a user's profile and refreshes every live session of that user.
func (s *AuthService) UpdateProfile(userID string, input UpdateProfileInput) (*models.User, error) {
	trim := func(p *string) {
		if p != nil {
			*p = strings.TrimSpace(*p)
		}
	}
	trim(input.FirstName)
	trim(input.LastName)
	trim(input.Phone)
	trim(input.ProfilePicture)
	if err := validateStruct(s.validate, input); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
		}
		return nil, s.storageFailure("look up user", err)
	}
	if user.IsDeleted {
		return nil, ErrAccountDeactivated
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
	if input.ProfilePicture != nil {
		user.ProfilePicture = *input.ProfilePicture
	}
	user.UpdatedAt = s.now()

	if err := s.userRepo.Update(user); err != nil {
		return nil, s.storageFailure("update user", err)
	}

	refreshed := s.sessions.RefreshUser(*user)
	s.logger.Info("Profile updated", zap.String("userId", user.ID), zap.Int("sessions", refreshed))

	redacted := user.Redacted()
	return &redacted, nil
}

// EnsureAdmin makes sure an admin account exists for email. Empty credentials are a no-op.
func (s *AuthService) EnsureAdmin(email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil
	}

	existing, err := s.userRepo.GetByEmail(email)
	if err == nil {
		if existing.IsAdmin() {
			return nil
		}
		existing.Role = models.RoleAdmin
		if err := s.userRepo.Update(existing); err != nil {
			return fmt.Errorf("failed to promote admin: %w", err)
		}
		s.logger.Info("Existing user promoted to admin", zap.String("userId", existing.ID))
		return nil
	}
	if !errors.Is(err, repositories.ErrUserNotFound) {
		return fmt.Errorf("failed to look up admin: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	admin := &models.User{
		ID:        uuid.New().String(),
		Email:     email,
		FirstName: "Admin",
		LastName:  "Kedai",
		Password:  string(hashedPassword),
		Role:      models.RoleAdmin,
	}
	if err := s.userRepo.Create(admin); err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}
	s.logger.Info("Admin account seeded", zap.String("userId", admin.ID))
	return nil
}

func (s *AuthService) startSession(user models.User) (*AuthResult, error) {
	now := s.now()
	sess := session.Session{
		ID:        uuid.New().String(),
		User:      user.Redacted(),
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid":     sess.ID,
		"user_id": user.ID,
		"exp":     sess.ExpiresAt.Unix(),
		"iat":     now.Unix(),
	})
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	if err := s.sessions.Save(sess); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return &AuthResult{User: sess.User, Token: tokenString, ExpiresAt: sess.ExpiresAt}, nil
}

func (s *AuthService) parseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

func (s *AuthService) storageFailure(op string, err error) error {
	s.logger.Error("User storage operation failed", zap.String("op", op), zap.Error(err))
	return fmt.Errorf("%w: could not %s", ErrStorageFailure, op)
}
