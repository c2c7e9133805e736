package repository

import (
	"context"

	"github.com/yukikurage/school-management-api/internal/database"
	apierrors "github.com/yukikurage/school-management-api/internal/errors"
	"github.com/yukikurage/school-management-api/internal/models"
	"github.com/yukikurage/school-management-api/internal/utils"
	"gorm.io/gorm"
)

// ErrUserNotFound is returned when no user matches the lookup.
var ErrUserNotFound = apierrors.NotFoundf("User not found.")

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// List returns users ordered by id
func (r *GormUserRepository) List(ctx context.Context, page *utils.PaginationParams) ([]models.User, error) {
	users := []models.User{}
	err := r.db.WithContext(ctx).
		Scopes(database.Paginate(page)).
		Order("id ASC").
		Find(&users).Error
	if err != nil {
		return nil, translate("list users", err, ErrUserNotFound)
	}
	return users, nil
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate("find user", err, ErrUserNotFound)
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate("find user by email", err, ErrUserNotFound)
	}
	return &user, nil
}

// Create creates a new user
func (r *GormUserRepository) Create(ctx context.Context, user *models.User) error {
	return translate("create user", r.db.WithContext(ctx).Create(user).Error, ErrUserNotFound)
}

// Update saves every field of user
func (r *GormUserRepository) Update(ctx context.Context, user *models.User) error {
	return translate("update user", r.db.WithContext(ctx).Save(user).Error, ErrUserNotFound)
}

// Delete removes a user
func (r *GormUserRepository) Delete(ctx context.Context, user *models.User) error {
	result := r.db.WithContext(ctx).Delete(&models.User{}, user.ID)
	if result.Error != nil {
		return translate("delete user", result.Error, ErrUserNotFound)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
