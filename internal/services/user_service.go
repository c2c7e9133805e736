package services

import (
	"context"
	"errors"
	"strings"

	"github.com/yukikurage/school-management-api/internal/constants"
	apierrors "github.com/yukikurage/school-management-api/internal/errors"
	"github.com/yukikurage/school-management-api/internal/events"
	"github.com/yukikurage/school-management-api/internal/models"
	"github.com/yukikurage/school-management-api/internal/repository"
	"github.com/yukikurage/school-management-api/internal/utils"
)

// UserService handles user CRUD
type UserService struct {
	userRepo    repository.UserRepository
	attachments *AttachmentService
	publisher   events.Publisher
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository, attachments *AttachmentService, publisher events.Publisher) *UserService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &UserService{
		userRepo:    userRepo,
		attachments: attachments,
		publisher:   publisher,
	}
}

// UpdateUserInput holds the fields to change. Nil fields are left untouched.
type UpdateUserInput struct {
	Username *string
	Email    *string
	Password *string
}

func (s *UserService) List(ctx context.Context, page *utils.PaginationParams) ([]models.User, error) {
	return s.userRepo.List(ctx, page)
}

func (s *UserService) Get(ctx context.Context, id uint64) (*models.User, error) {
	return s.userRepo.FindByID(ctx, id)
}

// Create registers a user the same way sign-up does.
func (s *UserService) Create(ctx context.Context, input RegisterInput) (*models.User, error) {
	user, err := newUser(ctx, s.userRepo, input)
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(ctx, events.UserCreated, user)
	return user, nil
}

// Update applies the provided fields and saves the user.
func (s *UserService) Update(ctx context.Context, id uint64, input UpdateUserInput) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Username != nil {
		user.Username = strings.TrimSpace(*input.Username)
	}
	if input.Email != nil {
		email := normalizeEmail(*input.Email)
		if email == "" {
			return nil, apierrors.Validation("Email cannot be empty")
		}
		user.Email = email
	}
	if input.Password != nil {
		if len(*input.Password) < constants.MinPasswordLength {
			return nil, ErrPasswordTooShort
		}
		if len(*input.Password) > maxPasswordBytes {
			return nil, ErrPasswordTooLong
		}
		hash, err := hashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, apierrors.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	s.publisher.Publish(ctx, events.UserUpdated, user)
	return user, nil
}

// Delete removes the user and its files, returning the last known state.
func (s *UserService) Delete(ctx context.Context, id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.attachments.DetachAll(ctx, user.Owner()); err != nil {
		return nil, err
	}
	if err := s.userRepo.Delete(ctx, user); err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, events.UserDeleted, user)
	return user, nil
}
