package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/hatchpoint/intake-api/internal/dto"
	appErrors "github.com/hatchpoint/intake-api/pkg/errors"
)

// SessionCookieName is the one-time admission marker issued on login.
const SessionCookieName = "admin-once"

type loginMetrics interface {
	RecordLoginFailure()
}

// AuthConfig defines the shared admin secret and session behaviour.
type AuthConfig struct {
	Password      string
	PasswordHash  string
	SessionSecret string
	SessionTTL    time.Duration

	ThrottleEnabled     bool
	ThrottleMaxAttempts int
	ThrottleWindow      time.Duration
}

// AuthService implements the single authorization predicate shared by the
// login endpoint and the admin gate: a request is authorized when it proves
// knowledge of the admin secret, either directly (password / Basic auth) or
// via a session token minted at login.
type AuthService struct {
	redis   *redis.Client
	metrics loginMetrics
	logger  *zap.Logger
	cfg     AuthConfig
}

// NewAuthService constructs an AuthService instance. The redis client is
// optional; without it login throttling is disabled.
func NewAuthService(redisClient *redis.Client, metrics loginMetrics, logger *zap.Logger, cfg AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 120 * time.Second
	}
	if cfg.ThrottleMaxAttempts <= 0 {
		cfg.ThrottleMaxAttempts = 10
	}
	if cfg.ThrottleWindow <= 0 {
		cfg.ThrottleWindow = 5 * time.Minute
	}
	return &AuthService{redis: redisClient, metrics: metrics, logger: logger, cfg: cfg}
}

// Login validates the submitted password. A mismatch is recorded against the
// caller's IP when throttling is active.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest, clientIP string) error {
	if err := s.checkThrottle(ctx, clientIP); err != nil {
		return err
	}
	if !s.VerifyPassword(req.Password) {
		s.recordFailure(ctx, clientIP)
		if s.metrics != nil {
			s.metrics.RecordLoginFailure()
		}
		return appErrors.ErrInvalidPassword
	}
	return nil
}

// VerifyPassword compares a candidate against the shared secret. When a
// bcrypt hash is configured it wins over the plaintext secret.
func (s *AuthService) VerifyPassword(candidate string) bool {
	if s.cfg.PasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(s.cfg.PasswordHash), []byte(candidate)) == nil
	}
	if s.cfg.Password == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(s.cfg.Password), []byte(candidate)) == 1
}

// IssueSessionToken mints the short-lived session token carried by the
// admin-once cookie. The token holds no identity beyond "recently
// authenticated": just subject, issue and expiry times.
func (s *AuthService) IssueSessionToken() (string, int, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   "admin",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.SessionTTL)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.SessionSecret))
	if err != nil {
		return "", 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign session token")
	}
	return token, int(s.cfg.SessionTTL.Seconds()), nil
}

// VerifySessionToken reports whether the cookie value is a valid, unexpired
// session token.
func (s *AuthService) VerifySessionToken(raw string) bool {
	if raw == "" {
		return false
	}
	token, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.cfg.SessionSecret), nil
	})
	return err == nil && token.Valid
}

// SessionTTLSeconds exposes the cookie max age.
func (s *AuthService) SessionTTLSeconds() int {
	return int(s.cfg.SessionTTL.Seconds())
}

func (s *AuthService) checkThrottle(ctx context.Context, clientIP string) error {
	if !s.cfg.ThrottleEnabled || s.redis == nil || clientIP == "" {
		return nil
	}
	key := throttleKey(clientIP)
	count, err := s.redis.Get(ctx, key).Int()
	if err != nil && err != redis.Nil {
		// Redis being down never locks admins out.
		s.logger.Warn("login throttle lookup failed", zap.Error(err))
		return nil
	}
	if count >= s.cfg.ThrottleMaxAttempts {
		return appErrors.ErrTooManyAttempts
	}
	return nil
}

func (s *AuthService) recordFailure(ctx context.Context, clientIP string) {
	if !s.cfg.ThrottleEnabled || s.redis == nil || clientIP == "" {
		return
	}
	key := throttleKey(clientIP)
	count, err := s.redis.Incr(ctx, key).Result()
	if err != nil {
		s.logger.Warn("login throttle increment failed", zap.Error(err))
		return
	}
	if count == 1 {
		if err := s.redis.Expire(ctx, key, s.cfg.ThrottleWindow).Err(); err != nil {
			s.logger.Warn("login throttle expire failed", zap.Error(err))
		}
	}
}

func throttleKey(clientIP string) string {
	return "admin:login_attempts:" + clientIP
}
