package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/yukikurage/school-management-api/internal/auth"
	"github.com/yukikurage/school-management-api/internal/constants"
	apierrors "github.com/yukikurage/school-management-api/internal/errors"
	"github.com/yukikurage/school-management-api/internal/events"
	"github.com/yukikurage/school-management-api/internal/models"
	"github.com/yukikurage/school-management-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// bcrypt ignores input past 72 bytes
const maxPasswordBytes = 72

var (
	ErrEmailPasswordRequired = apierrors.Validation("Email and password required")
	ErrPasswordTooShort      = apierrors.Validation("Password must be at least %d characters", constants.MinPasswordLength)
	ErrPasswordTooLong       = apierrors.Validation("Password must be at most %d bytes", maxPasswordBytes)
	ErrEmailTaken            = apierrors.Conflictf("Email already registered")
)

// dummyHash is compared against when the email is unknown so both
// login failures cost one bcrypt comparison.
var dummyHash = sync.OnceValue(func() []byte {
	hash, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), constants.BcryptCost)
	if err != nil {
		panic(err)
	}
	return hash
})

// AuthService handles authentication related business logic.
type AuthService struct {
	userRepo  repository.UserRepository
	tokens    *auth.Service
	publisher events.Publisher
	compare   func(hash, password []byte) error
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, tokens *auth.Service, publisher events.Publisher) *AuthService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &AuthService{
		userRepo:  userRepo,
		tokens:    tokens,
		publisher: publisher,
		compare:   bcrypt.CompareHashAndPassword,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Email    string
	Password string
	Username string
}

// Register creates a new user with a hashed password.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	user, err := newUser(ctx, s.userRepo, input)
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(ctx, events.UserCreated, user)
	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and issues an access token.
// Unknown emails and wrong passwords fail with the same error.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (string, *models.User, error) {
	email := normalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return "", nil, ErrEmailPasswordRequired
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apierrors.ErrNotFound) {
			_ = s.compare(dummyHash(), []byte(input.Password))
			return "", nil, apierrors.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := s.compare([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return "", nil, apierrors.ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return token, user, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	return s.userRepo.FindByID(ctx, id)
}

// newUser validates input, hashes the password and stores the user.
func newUser(ctx context.Context, repo repository.UserRepository, input RegisterInput) (*models.User, error) {
	email := normalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, ErrEmailPasswordRequired
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}
	if len(input.Password) > maxPasswordBytes {
		return nil, ErrPasswordTooLong
	}

	if _, err := repo.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, apierrors.ErrNotFound) {
		return nil, err
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     strings.TrimSpace(input.Username),
		Email:        email,
		PasswordHash: hash,
	}
	if err := repo.Create(ctx, user); err != nil {
		if errors.Is(err, apierrors.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), constants.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
