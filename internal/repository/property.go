package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"tush00nka/dream_homes/internal/model"
)

type PropertyRepository interface {
	Create(ctx context.Context, property *model.Property) error
	FindByID(ctx context.Context, id uint) (*model.Property, error)
	FindWithOwner(ctx context.Context, id uint) (*model.Property, error)
	List(ctx context.Context, filter model.PropertyFilter, order model.SortOrder, limit int) ([]model.Property, error)
	ListByOwner(ctx context.Context, ownerID uint, sold *bool) ([]model.Property, error)
	Search(ctx context.Context, listingType model.ListingType, location string) ([]model.Property, error)
	Update(ctx context.Context, id uint, property *model.Property, imageURLs []string) error
	SetSold(ctx context.Context, id uint, sold bool) error
}

type propertyRepository struct {
	db *gorm.DB
}

func NewPropertyRepository(db *gorm.DB) PropertyRepository {
	return &propertyRepository{db: db}
}

func (r *propertyRepository) Create(ctx context.Context, property *model.Property) error {
	return r.db.WithContext(ctx).Create(property).Error
}

func (r *propertyRepository) FindByID(ctx context.Context, id uint) (*model.Property, error) {
	var property model.Property
	if err := r.db.WithContext(ctx).Preload("Images").First(&property, id).Error; err != nil {
		return nil, err
	}
	return &property, nil
}

func (r *propertyRepository) FindWithOwner(ctx context.Context, id uint) (*model.Property, error) {
	var property model.Property
	if err := r.db.WithContext(ctx).Preload("Images").Preload("Owner").First(&property, id).Error; err != nil {
		return nil, err
	}
	return &property, nil
}

func orderClause(order model.SortOrder) (string, error) {
	switch order {
	case model.SortLatest:
		return "created_at DESC", nil
	case model.SortPriceAsc:
		return "price ASC", nil
	case model.SortPriceDesc:
		return "price DESC", nil
	}
	return "", fmt.Errorf("%w: %q", model.ErrInvalidSortOrder, order)
}

func (r *propertyRepository) List(ctx context.Context, filter model.PropertyFilter, order model.SortOrder, limit int) ([]model.Property, error) {
	orderBy, err := orderClause(order)
	if err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).Model(&model.Property{}).
		Preload("Images").
		Where("is_sold = ?", false)

	if filter.Type != "" {
		query = query.Where("type = ?", string(filter.Type))
	}
	if filter.PropertyType != "" {
		query = query.Where("property_type = ?", string(filter.PropertyType))
	}
	if len(filter.BHK) > 0 {
		bhk := make([]string, 0, len(filter.BHK))
		for _, b := range filter.BHK {
			bhk = append(bhk, string(b))
		}
		query = query.Where("bhk IN ?", bhk)
	}
	if filter.Price != nil {
		query = query.Where("price >= ? AND price <= ?", filter.Price.Min, filter.Price.Max)
	}
	if filter.Area != nil {
		query = query.Where("area >= ? AND area <= ?", filter.Area.Min, filter.Area.Max)
	}
	if filter.PreferredTenants != "" {
		query = query.Where("preferred_tenants = ?", string(filter.PreferredTenants))
	}

	var properties []model.Property
	if err := query.Order(orderBy).Order("id DESC").Limit(limit).Find(&properties).Error; err != nil {
		return nil, err
	}
	return properties, nil
}

func (r *propertyRepository) ListByOwner(ctx context.Context, ownerID uint, sold *bool) ([]model.Property, error) {
	query := r.db.WithContext(ctx).Preload("Images").Where("owner_id = ?", ownerID)
	if sold != nil {
		query = query.Where("is_sold = ?", *sold)
	}

	var properties []model.Property
	if err := query.Order("created_at DESC").Find(&properties).Error; err != nil {
		return nil, err
	}
	return properties, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern, used with ESCAPE '\', that matches s
// literally as a substring.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(s))) + "%"
}

func (r *propertyRepository) Search(ctx context.Context, listingType model.ListingType, location string) ([]model.Property, error) {
	pattern := containsPattern(location)

	var properties []model.Property
	err := r.db.WithContext(ctx).
		Preload("Images").
		Where("type = ?", string(listingType)).
		Where(r.db.Where(`LOWER(state) LIKE ? ESCAPE '\'`, pattern).
			Or(`LOWER(city) LIKE ? ESCAPE '\'`, pattern).
			Or(`LOWER(street) LIKE ? ESCAPE '\'`, pattern)).
		Order("created_at DESC").
		Find(&properties).Error
	if err != nil {
		return nil, err
	}
	return properties, nil
}

// Update overwrites the editable fields and replaces the image rows with
// imageURLs in a single transaction.
func (r *propertyRepository) Update(ctx context.Context, id uint, property *model.Property, imageURLs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Property{}).
			Where("id = ?", id).
			Select(append(append([]string{}, model.EditableFields...), "UpdatedAt")).
			Updates(property)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if err := tx.Unscoped().Where("property_id = ?", id).Delete(&model.Image{}).Error; err != nil {
			return fmt.Errorf("failed to drop images: %w", err)
		}

		if len(imageURLs) == 0 {
			return nil
		}

		images := make([]model.Image, 0, len(imageURLs))
		for _, url := range imageURLs {
			images = append(images, model.Image{URL: url, PropertyID: id})
		}
		if err := tx.Create(&images).Error; err != nil {
			return fmt.Errorf("failed to create images: %w", err)
		}
		return nil
	})
}

func (r *propertyRepository) SetSold(ctx context.Context, id uint, sold bool) error {
	res := r.db.WithContext(ctx).Model(&model.Property{}).Where("id = ?", id).Update("is_sold", sold)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
