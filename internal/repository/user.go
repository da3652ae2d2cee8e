package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"tush00nka/dream_homes/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindWithRelations(ctx context.Context, id uint) (*model.User, error)
	FindWithSaved(ctx context.Context, email string) (*model.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	SaveProperty(ctx context.Context, userID, propertyID uint) error
	UnsaveProperty(ctx context.Context, userID, propertyID uint) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	user.Email = normalizeEmail(user.Email)
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindWithRelations(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Preload("SavedProperties.Images").
		Preload("ReceivedMessages", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Preload("ReceivedMessages.Sender").
		Preload("ReceivedMessages.Receiver").
		Preload("ReceivedMessages.Property").
		First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindWithSaved(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Preload("SavedProperties").
		Where("email = ?", normalizeEmail(email)).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", normalizeEmail(email)).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// SaveProperty links an existing property to the user's saved list. Saving
// an already saved property is a no-op.
func (r *userRepository) SaveProperty(ctx context.Context, userID, propertyID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.First(&user, userID).Error; err != nil {
			return err
		}

		var property model.Property
		if err := tx.First(&property, propertyID).Error; err != nil {
			return err
		}

		return tx.Model(&user).Association("SavedProperties").Append(&property)
	})
}

func (r *userRepository) UnsaveProperty(ctx context.Context, userID, propertyID uint) error {
	user := model.User{}
	user.ID = userID
	property := model.Property{}
	property.ID = propertyID

	return r.db.WithContext(ctx).Model(&user).Association("SavedProperties").Delete(&property)
}
