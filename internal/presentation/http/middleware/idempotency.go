package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/outlet-pos/internal/domain/entity"
	"github.com/sangkips/outlet-pos/internal/domain/repository"
	"github.com/sangkips/outlet-pos/internal/presentation/http/dto/response"
	"github.com/sangkips/outlet-pos/pkg/apperror"
	"github.com/sangkips/outlet-pos/pkg/logger"
)

const (
	// IdempotencyKeyHeader is the HTTP header for idempotency keys
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyReplayedHeader marks a response served from the key store
	IdempotencyReplayedHeader = "X-Idempotency-Replayed"
	// DefaultIdempotencyKeyTTL is how long keys are valid when no TTL is configured
	DefaultIdempotencyKeyTTL = 24 * time.Hour
)

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Repo repository.IdempotencyRepository
	TTL  time.Duration
}

// responseWriter wraps gin.ResponseWriter to capture the response body
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays the stored response when a client retries a request with the same
// Idempotency-Key. Requests without the header pass straight through. Only 2xx responses
// are stored, so a rejected sale can be retried under the same key.
func Idempotency(config IdempotencyConfig) gin.HandlerFunc {
	ttl := config.TTL
	if ttl <= 0 {
		ttl = DefaultIdempotencyKeyTTL
	}

	return func(c *gin.Context) {
		idempotencyKey := c.GetHeader(IdempotencyKeyHeader)
		if idempotencyKey == "" {
			c.Next()
			return
		}
		if len(idempotencyKey) > 255 {
			response.Error(c, apperror.NewBadRequestError("Idempotency-Key must be at most 255 characters"))
			c.Abort()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			response.Error(c, apperror.NewBadRequestError("Failed to read request body"))
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
		requestHash := hashBody(body)

		ctx := c.Request.Context()
		log := logger.WithContext(ctx)
		endpoint := c.Request.Method + " " + c.Request.URL.Path

		existing, err := config.Repo.GetByKey(ctx, idempotencyKey, endpoint)
		if err != nil {
			log.Error("failed to check idempotency key", "error", err)
			response.Error(c, apperror.NewInternalError("Failed to check idempotency key"))
			c.Abort()
			return
		}

		if existing != nil && !existing.IsExpired() {
			if existing.RequestHash != requestHash {
				response.Error(c, &apperror.AppError{
					Code:    http.StatusUnprocessableEntity,
					Message: "Idempotency-Key was already used with a different request body",
					Reason:  apperror.ReasonConflict,
				})
				c.Abort()
				return
			}
			c.Header(IdempotencyReplayedHeader, "true")
			c.Data(existing.ResponseCode, "application/json; charset=utf-8", []byte(existing.ResponseBody))
			c.Abort()
			return
		}

		blw := &responseWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		status := blw.Status()
		if status < 200 || status >= 300 {
			return
		}

		now := time.Now()
		ikey := &entity.IdempotencyKey{
			Key:          idempotencyKey,
			Endpoint:     endpoint,
			RequestHash:  requestHash,
			ResponseCode: status,
			ResponseBody: blw.body.String(),
			CreatedAt:    now,
			ExpiresAt:    now.Add(ttl),
		}
		if existing != nil {
			// expired row still holds the unique slot
			ikey.ID = existing.ID
		}
		if err := config.Repo.Create(ctx, ikey); err != nil {
			if errors.Is(err, repository.ErrDuplicateKey) {
				log.Warn("idempotency key stored concurrently", "key", idempotencyKey)
				return
			}
			log.Error("failed to store idempotency key", "error", err)
		}
	}
}

func hashBody(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}
