package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"tush00nka/dream_homes/internal/model"
)

const (
	listingKeyPrefix     = "properties:list:"
	listingGenerationKey = "properties:list:generation"
)

// PropertyCacheRepository хранит результаты выборки объявлений в Redis.
// Ключи выборок содержат номер поколения: Invalidate увеличивает его, и
// запись, начатая до инвалидации, попадает под ключ, который больше не читается.
type PropertyCacheRepository interface {
	Generation(ctx context.Context) (int64, error)
	GetList(ctx context.Context, generation int64, key string) ([]model.Property, bool, error)
	SaveList(ctx context.Context, generation int64, key string, properties []model.Property, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}

type propertyCacheRepository struct {
	rdb *redis.Client
}

// NewPropertyCacheRepository создает новый экземпляр репозитория кеша
func NewPropertyCacheRepository(rdb *redis.Client) PropertyCacheRepository {
	return &propertyCacheRepository{rdb: rdb}
}

func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return rdb, nil
}

func (r *propertyCacheRepository) listKey(generation int64, key string) string {
	return listingKeyPrefix + strconv.FormatInt(generation, 10) + ":" + key
}

// Generation возвращает текущее поколение кеша; 0, если инвалидаций еще не было
func (r *propertyCacheRepository) Generation(ctx context.Context) (int64, error) {
	gen, err := r.rdb.Get(ctx, listingGenerationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// GetList возвращает закешированную выборку; второй результат false при промахе
func (r *propertyCacheRepository) GetList(ctx context.Context, generation int64, key string) ([]model.Property, bool, error) {
	data, err := r.rdb.Get(ctx, r.listKey(generation, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var properties []model.Property
	if err := json.Unmarshal(data, &properties); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached listings: %w", err)
	}
	return properties, true, nil
}

// SaveList кеширует выборку под ключом поколения, прочитанного до запроса к БД
func (r *propertyCacheRepository) SaveList(ctx context.Context, generation int64, key string, properties []model.Property, ttl time.Duration) error {
	data, err := json.Marshal(properties)
	if err != nil {
		return fmt.Errorf("failed to marshal listings: %w", err)
	}

	return r.rdb.Set(ctx, r.listKey(generation, key), data, ttl).Err()
}

// Invalidate делает все закешированные выборки недоступными; старые ключи
// истекают по TTL
func (r *propertyCacheRepository) Invalidate(ctx context.Context) error {
	return r.rdb.Incr(ctx, listingGenerationKey).Err()
}
