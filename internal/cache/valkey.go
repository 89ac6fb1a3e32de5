package cache

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"zeko/internal/models"
)

// ErrCacheMiss означает, что учетные данные не закэшированы
var ErrCacheMiss = errors.New("credentials not found in cache")

// allConcerts хранится вместо id концерта для учетных записей без ограничения
const allConcerts = "*"

// defaultAuthTTL ограничивает время, в течение которого отключенный клиент
// еще может пройти проверку по кешу
const defaultAuthTTL = 5 * time.Minute

type Config struct {
	Enabled   bool
	Addr      string
	Password  string
	KeyPrefix string
	AuthTTL   time.Duration
}

type ValkeyClient struct {
	client    *redis.Client
	keyPrefix string
	authTTL   time.Duration
}

func NewValkeyClient(cfg Config) (*ValkeyClient, error) {
	keyPrefix := cfg.KeyPrefix
	if keyPrefix == "" {
		keyPrefix = "clients:auth"
	}
	authTTL := cfg.AuthTTL
	if authTTL <= 0 {
		authTTL = defaultAuthTTL
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           0,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Valkey: %w", err)
	}

	return &ValkeyClient{
		client:    rdb,
		keyPrefix: keyPrefix,
		authTTL:   authTTL,
	}, nil
}

func authKey(email, passwordHash string) string {
	authString := fmt.Sprintf("%s:%s", email, passwordHash)
	return base64.StdEncoding.EncodeToString([]byte(authString))
}

func (v *ValkeyClient) key(email, passwordHash string) string {
	return v.keyPrefix + ":" + authKey(email, passwordHash)
}

// GetScopeByAuth возвращает концерт, к которому привязан клиент.
// nil означает доступ ко всем концертам.
func (v *ValkeyClient) GetScopeByAuth(ctx context.Context, email, passwordHash string) (*models.ID, error) {
	value, err := v.client.Get(ctx, v.key(email, passwordHash)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("cache lookup error: %w", err)
	}

	if value == allConcerts {
		return nil, nil
	}

	id := models.ID(value)
	if id.Canonical() == "" {
		return nil, fmt.Errorf("invalid concert ID in cache: %q", value)
	}
	return &id, nil
}

// SetScopeByAuth кэширует успешную проверку учетных данных на AuthTTL
func (v *ValkeyClient) SetScopeByAuth(ctx context.Context, email, passwordHash string, concertID *models.ID) error {
	value := allConcerts
	if concertID != nil {
		value = concertID.Canonical()
	}

	if err := v.client.Set(ctx, v.key(email, passwordHash), value, v.authTTL).Err(); err != nil {
		return fmt.Errorf("cache store error: %w", err)
	}
	return nil
}

func (v *ValkeyClient) Ping(ctx context.Context) error {
	return v.client.Ping(ctx).Err()
}

func (v *ValkeyClient) Close() error {
	return v.client.Close()
}
