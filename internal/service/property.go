package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"slices"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"tush00nka/dream_homes/internal/model"
	"tush00nka/dream_homes/internal/repository"
)

const (
	StatusMarkedSold = "Property marked as sold"
	StatusActivated  = "Property activated"
)

// propertyService реализация PropertyService
type propertyService struct {
	propertyRepo repository.PropertyRepository
	cache        repository.PropertyCacheRepository
	images       ImageStorage
	cacheTTL     time.Duration
}

// NewPropertyService создает новый экземпляр PropertyService. cache и images
// могут быть nil: тогда выборки не кешируются, а загрузка изображений
// недоступна.
func NewPropertyService(
	propertyRepo repository.PropertyRepository,
	cache repository.PropertyCacheRepository,
	images ImageStorage,
	cacheTTL time.Duration,
) PropertyService {
	return &propertyService{
		propertyRepo: propertyRepo,
		cache:        cache,
		images:       images,
		cacheTTL:     cacheTTL,
	}
}

// PropertyIDFromString разбирает идентификатор из пути; 0 означает невалидный ID
func PropertyIDFromString(raw string) uint {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}

func validateProperty(p *model.Property) error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("property name cannot be empty")
	}
	if !p.Type.Valid() {
		return fmt.Errorf("unknown listing type %q", p.Type)
	}
	if p.PropertyType != "" && !p.PropertyType.Valid() {
		return fmt.Errorf("unknown property type %q", p.PropertyType)
	}
	if p.BHK != "" && !p.BHK.Valid() {
		return fmt.Errorf("unknown bhk %q", p.BHK)
	}
	if p.PreferredTenants != "" && !p.PreferredTenants.Valid() {
		return fmt.Errorf("unknown tenant preference %q", p.PreferredTenants)
	}
	return nil
}

func listingCacheKey(filter model.PropertyFilter, order model.SortOrder, count int) string {
	raw, _ := json.Marshal(struct {
		Filter model.PropertyFilter `json:"filter"`
		Order  model.SortOrder      `json:"order"`
		Count  int                  `json:"count"`
	}{filter, order, count})

	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

func (s *propertyService) invalidateListings(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		log.Printf("Failed to invalidate listing cache: %v", err)
	}
}

// ListProperties возвращает непроданные объявления по фильтрам
func (s *propertyService) ListProperties(ctx context.Context, filter model.PropertyFilter, order model.SortOrder, count int) []model.Property {
	count = model.ClampCount(count)
	key := listingCacheKey(filter, order, count)

	// Поколение читается до запроса к БД, чтобы результат, полученный до
	// инвалидации, не пережил ее
	useCache := s.cache != nil
	var generation int64
	if useCache {
		gen, err := s.cache.Generation(ctx)
		if err != nil {
			log.Printf("Listing cache read failed: %v", err)
			useCache = false
		}
		generation = gen
	}

	if useCache {
		cached, ok, err := s.cache.GetList(ctx, generation, key)
		if err != nil {
			log.Printf("Listing cache read failed: %v", err)
		} else if ok {
			return cached
		}
	}

	properties, err := s.propertyRepo.List(ctx, filter, order, count)
	if err != nil {
		log.Printf("Error fetching properties: %v", err)
		return []model.Property{}
	}
	if properties == nil {
		properties = []model.Property{}
	}

	if useCache {
		if err := s.cache.SaveList(ctx, generation, key, properties, s.cacheTTL); err != nil {
			log.Printf("Listing cache write failed: %v", err)
		}
	}

	return properties
}

// CreateProperty загружает изображения и создает объявление владельца
func (s *propertyService) CreateProperty(ctx context.Context, property *model.Property, ownerID uint, images []string) *model.Property {
	if property == nil || ownerID == 0 {
		log.Printf("Error creating property: missing property or owner")
		return nil
	}

	if err := validateProperty(property); err != nil {
		log.Printf("Error creating property: %v", err)
		return nil
	}

	urls, err := uploadImages(ctx, s.images, images)
	if err != nil {
		log.Printf("Error creating property: %v", err)
		return nil
	}

	property.Model = gorm.Model{}
	property.OwnerID = ownerID
	property.Owner = nil
	property.IsSold = false
	property.Images = make([]model.Image, 0, len(urls))
	for _, url := range urls {
		property.Images = append(property.Images, model.Image{URL: url})
	}

	if err := s.propertyRepo.Create(ctx, property); err != nil {
		log.Printf("Error creating property: %v", err)
		return nil
	}

	s.invalidateListings(ctx)
	return property
}

// EditProperty обновляет объявление. Уже привязанные изображения
// сохраняются, новые загружаются и добавляются в конец.
func (s *propertyService) EditProperty(ctx context.Context, id uint, property *model.Property, images []string) *model.Property {
	if id == 0 || property == nil {
		log.Printf("Error editing property: invalid input")
		return nil
	}

	if err := validateProperty(property); err != nil {
		log.Printf("Error editing property: %v", err)
		return nil
	}

	existing, err := s.propertyRepo.FindByID(ctx, id)
	if err != nil {
		log.Printf("Error editing property: %v", err)
		return nil
	}

	existingURLs := model.URLs(existing.Images)
	var fresh []string
	for _, img := range images {
		if !slices.Contains(existingURLs, img) {
			fresh = append(fresh, img)
		}
	}

	uploaded, err := uploadImages(ctx, s.images, fresh)
	if err != nil {
		log.Printf("Error editing property: %v", err)
		return nil
	}

	finalURLs := append(existingURLs, uploaded...)

	property.Model = gorm.Model{}
	property.Owner = nil
	property.Images = nil
	if err := s.propertyRepo.Update(ctx, id, property, finalURLs); err != nil {
		log.Printf("Error editing property: %v", err)
		return nil
	}

	updated, err := s.propertyRepo.FindByID(ctx, id)
	if err != nil {
		log.Printf("Error editing property: %v", err)
		return nil
	}

	s.invalidateListings(ctx)
	return updated
}

// GetPropertyByID возвращает объявление вместе с изображениями и владельцем
func (s *propertyService) GetPropertyByID(ctx context.Context, id uint) *model.Property {
	if id == 0 {
		return nil
	}

	property, err := s.propertyRepo.FindWithOwner(ctx, id)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Error fetching property: %v", err)
		}
		return nil
	}

	property.SanitizeOwner()
	return property
}

// ListUserProperties возвращает объявления владельца; при sold == nil возвращаются все
func (s *propertyService) ListUserProperties(ctx context.Context, ownerID uint, sold *bool) []model.Property {
	if ownerID == 0 {
		return []model.Property{}
	}

	properties, err := s.propertyRepo.ListByOwner(ctx, ownerID, sold)
	if err != nil {
		log.Printf("Failed to fetch properties: %v", err)
		return []model.Property{}
	}
	if properties == nil {
		return []model.Property{}
	}
	return properties
}

// TogglePropertySold переключает признак продажи и возвращает статус
func (s *propertyService) TogglePropertySold(ctx context.Context, id uint) string {
	if id == 0 {
		return ""
	}

	property, err := s.propertyRepo.FindByID(ctx, id)
	if err != nil {
		log.Printf("Failed to update property: %v", err)
		return ""
	}

	newStatus := !property.IsSold
	if err := s.propertyRepo.SetSold(ctx, id, newStatus); err != nil {
		log.Printf("Failed to update property: %v", err)
		return ""
	}

	s.invalidateListings(ctx)
	if newStatus {
		return StatusMarkedSold
	}
	return StatusActivated
}

// MarkSold помечает объявление проданным
func (s *propertyService) MarkSold(ctx context.Context, id uint) *model.Property {
	if id == 0 {
		return nil
	}

	if err := s.propertyRepo.SetSold(ctx, id, true); err != nil {
		log.Printf("Failed to mark property as sold: %v", err)
		return nil
	}
	s.invalidateListings(ctx)

	property, err := s.propertyRepo.FindByID(ctx, id)
	if err != nil {
		log.Printf("Failed to mark property as sold: %v", err)
		return nil
	}
	return property
}

// SearchProperties ищет объявления по типу и подстроке адреса
func (s *propertyService) SearchProperties(ctx context.Context, listingType model.ListingType, location string) []model.Property {
	if !listingType.Valid() || strings.TrimSpace(location) == "" {
		return []model.Property{}
	}

	properties, err := s.propertyRepo.Search(ctx, listingType, location)
	if err != nil {
		log.Printf("Failed to search properties: %v", err)
		return []model.Property{}
	}
	if properties == nil {
		return []model.Property{}
	}
	return properties
}
