package middleware

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"zeko/internal/cache"
	apperrors "zeko/internal/errors"
	"zeko/internal/logger"
	"zeko/internal/metrics"
	"zeko/internal/models"
	"zeko/internal/report"

	"github.com/gin-gonic/gin"
)

const (
	// RequestIDHeader передается клиентом или генерируется сервером
	RequestIDHeader = "X-Request-ID"

	scopeKey     = "scope"
	requestIDKey = "request_id"
)

type scopeCtxKey struct{}

func ContextWithScope(ctx context.Context, scope report.Scope) context.Context {
	return context.WithValue(ctx, scopeCtxKey{}, scope)
}

func ScopeFromContext(ctx context.Context) (report.Scope, bool) {
	scope, ok := ctx.Value(scopeCtxKey{}).(report.Scope)
	return scope, ok
}

// CredentialStore ищет клиента дашборда по email
type CredentialStore interface {
	GetByEmail(ctx context.Context, email string) (*models.Client, error)
}

// CredentialCache кэширует проверенные учетные данные
type CredentialCache interface {
	GetScopeByAuth(ctx context.Context, email, passwordHash string) (*models.ID, error)
	SetScopeByAuth(ctx context.Context, email, passwordHash string, concertID *models.ID) error
}

// RequestID присваивает запросу идентификатор для логов и событий
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = logger.NewRequestID()
		}

		c.Set(requestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)
		c.Request = c.Request.WithContext(logger.ContextWithRequestID(c.Request.Context(), requestID))

		c.Next()
	}
}

// CORS middleware для обработки CORS запросов
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	}
}

// Logger middleware для структурированного логирования запросов
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)

		logFields := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"query", c.Request.URL.RawQuery,
			"status_code", c.Writer.Status(),
			"latency_ms", latency.Milliseconds(),
			"client_ip", c.ClientIP(),
			"user_agent", c.Request.UserAgent(),
		}

		if requestID := c.GetString(requestIDKey); requestID != "" {
			logFields = append(logFields, "request_id", requestID)
		}
		if scope, ok := ScopeFromContext(c.Request.Context()); ok {
			logFields = append(logFields, "identity", scope.Identity)
		}

		if c.Writer.Status() >= 400 {
			if len(c.Errors) > 0 {
				logFields = append(logFields, "error", c.Errors.String())
			}
			slog.Error("Request completed with error", logFields...)
			return
		}

		slog.Info("Request completed", logFields...)
	}
}

// Recovery middleware для восстановления после паники с детальным логированием
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		slog.Error("PANIC recovered",
			"panic", recovered,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"query", c.Request.URL.RawQuery,
			"request_id", c.GetString(requestIDKey),
			"client_ip", c.ClientIP(),
		)

		if !c.Writer.Written() {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error: "Internal server error",
			})
		}
	})
}

// Metrics записывает длительность и статус запросов в Prometheus
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		metrics.TrackActiveRequest(true)
		defer metrics.TrackActiveRequest(false)

		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		metrics.RecordAPIRequest(c.Request.Method, endpoint, c.Writer.Status(), time.Since(start))
	}
}

func hashPassword(password string) string {
	hash := sha256.Sum256([]byte(password))
	return fmt.Sprintf("%x", hash)
}

func unauthorized(c *gin.Context, reason string) {
	metrics.RecordAuthFailure(reason)
	_ = c.Error(fmt.Errorf("%w: %s", apperrors.ErrUnauthorized, reason))
	c.Header("WWW-Authenticate", "Basic realm=\"Restricted\"")
	c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Error: "Invalid credentials"})
}

// BasicAuth аутентифицирует клиента дашборда по HTTP Basic Auth, проверяя
// логин/пароль в кеше Valkey, затем в БД. Найденная область видимости
// (все концерты или один) передается дальше через контекст запроса.
func BasicAuth(store CredentialStore, credentialCache CredentialCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, password, ok := c.Request.BasicAuth()
		if !ok {
			unauthorized(c, "missing_credentials")
			return
		}

		ctx := c.Request.Context()
		passwordHash := hashPassword(password)

		// Сначала пытаемся найти учетные данные в кеше Valkey
		if credentialCache != nil {
			concertID, err := credentialCache.GetScopeByAuth(ctx, email, passwordHash)
			switch {
			case err == nil:
				metrics.RecordAuthCache(true)
				authorize(c, report.Scope{Identity: email, ConcertID: concertID})
				return
			case !errors.Is(err, cache.ErrCacheMiss):
				logger.WithContext(ctx).Warn("Credential cache lookup failed", "error", err)
			}
			metrics.RecordAuthCache(false)
		}

		// Fallback: поиск в базе данных
		client, err := store.GetByEmail(ctx, email)
		if err != nil {
			logger.WithContext(ctx).Error("Credential store lookup failed", "error", err)
			metrics.RecordAuthFailure("store_unavailable")
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, models.ErrorResponse{
				Error: "Credential store unavailable",
			})
			return
		}
		if client == nil || !client.IsActive {
			unauthorized(c, "unknown_client")
			return
		}
		if client.PasswordHash == "" || subtle.ConstantTimeCompare([]byte(passwordHash), []byte(client.PasswordHash)) != 1 {
			unauthorized(c, "invalid_password")
			return
		}

		if credentialCache != nil {
			if err := credentialCache.SetScopeByAuth(ctx, email, passwordHash, client.ConcertID); err != nil {
				logger.WithContext(ctx).Warn("Failed to cache credentials", "error", err)
			}
		}

		authorize(c, report.Scope{Identity: email, ConcertID: client.ConcertID})
	}
}

func authorize(c *gin.Context, scope report.Scope) {
	c.Set(scopeKey, scope)
	ctx := ContextWithScope(c.Request.Context(), scope)
	ctx = logger.ContextWithIdentity(ctx, scope.Identity)
	c.Request = c.Request.WithContext(ctx)
	c.Next()
}
