// Package auth authenticates admins and issues the JWTs checked by
// middleware.Protected.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/meinhoongagan/careforme-admin/models"
	"github.com/meinhoongagan/careforme-admin/redis"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrUserNotFound       = errors.New("user not found")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrPasswordMismatch   = errors.New("passwords do not match")
)

// MinPasswordLength is enforced on password changes.
const MinPasswordLength = 6

const (
	TokenAccess  = "access"
	TokenRefresh = "refresh"
)

// Session is the authenticated admin.
type Session struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Claims is the JWT payload of both token kinds.
type Claims struct {
	UserID    uint   `json:"id"`
	Email     string `json:"email"`
	Role      string `json:"role,omitempty"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

// Session returns the session described by the claims.
func (c *Claims) Session() *Session {
	return &Session{UID: strconv.FormatUint(uint64(c.UserID), 10), Email: c.Email, Role: c.Role}
}

// LoginResult is returned by a successful Login.
type LoginResult struct {
	Token        string    `json:"token"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
	Session      *Session  `json:"user"`
}

// UserRepository loads and updates admin accounts.
type UserRepository interface {
	// FindByEmail returns ErrUserNotFound for unknown emails.
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	// FindByID preloads the role and its permissions.
	FindByID(ctx context.Context, id uint) (*models.User, error)
	UpdatePassword(ctx context.Context, id uint, hash string) error
}

type Config struct {
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type Service struct {
	users  UserRepository
	cache  redis.Cache
	cfg    Config
	logger zerolog.Logger
	now    func() time.Time

	mu      sync.Mutex
	subs    map[int]func(*Session)
	nextSub int
}

func NewService(users UserRepository, cache redis.Cache, cfg Config, logger zerolog.Logger) *Service {
	return &Service{
		users:  users,
		cache:  cache,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
		subs:   map[int]func(*Session){},
	}
}

// Secret is the HMAC key, shared with the JWT middleware.
func (s *Service) Secret() []byte {
	return s.cfg.Secret
}

// Login checks the credentials and issues an access and a refresh token.
// Subscribers receive the new session.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	access, exp, err := s.issue(user, TokenAccess, s.cfg.AccessTTL)
	if err != nil {
		return nil, err
	}
	refresh, _, err := s.issue(user, TokenRefresh, s.cfg.RefreshTTL)
	if err != nil {
		return nil, err
	}

	session := &Session{UID: strconv.FormatUint(uint64(user.ID), 10), Email: user.Email, Role: user.Role.Name}
	s.logger.Info().Str("uid", session.UID).Msg("admin logged in")
	s.publish(session)

	return &LoginResult{Token: access, RefreshToken: refresh, ExpiresAt: exp, Session: session}, nil
}

// Logout revokes the presented access token and, when given, the refresh
// token if it belongs to the same user. Subscribers receive nil.
func (s *Service) Logout(ctx context.Context, claims *Claims, refreshToken string) error {
	if err := s.revoke(ctx, claims); err != nil {
		return err
	}
	if refreshToken != "" {
		rc, err := s.Parse(ctx, refreshToken, TokenRefresh)
		switch {
		case err != nil:
			// an unusable refresh token is simply left alone
		case rc.UserID != claims.UserID:
			s.logger.Warn().Uint("uid", claims.UserID).Uint("token_uid", rc.UserID).Msg("logout ignored a refresh token of another user")
		default:
			if err := s.revoke(ctx, rc); err != nil {
				return err
			}
		}
	}
	s.logger.Info().Uint("uid", claims.UserID).Msg("admin logged out")
	s.publish(nil)
	return nil
}

// Refresh exchanges a refresh token for a new access token.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, time.Time, error) {
	claims, err := s.Parse(ctx, refreshToken, TokenRefresh)
	if err != nil {
		return "", time.Time{}, err
	}
	user, err := s.users.FindByID(ctx, claims.UserID)
	if errors.Is(err, ErrUserNotFound) {
		return "", time.Time{}, ErrInvalidToken
	}
	if err != nil {
		return "", time.Time{}, fmt.Errorf("find user: %w", err)
	}
	return s.issue(user, TokenAccess, s.cfg.AccessTTL)
}

// Parse validates a token of the given kind, including the revocation list.
func (s *Service) Parse(ctx context.Context, token, kind string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, s.keyFunc)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != kind {
		return nil, ErrInvalidToken
	}
	revoked, err := s.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

// IsRevoked reports whether the token id was logged out.
func (s *Service) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return true, nil
	}
	_, err := s.cache.Get(ctx, revokedKey(jti))
	if errors.Is(err, redis.ErrMiss) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check revocation: %w", err)
	}
	return true, nil
}

// ChangePassword replaces the password of userID after checking the current
// one.
func (s *Service) ChangePassword(ctx context.Context, userID uint, current, next, confirm string) error {
	if len(next) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if next != confirm {
		return ErrPasswordMismatch
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(current)); err != nil {
		return ErrInvalidCredentials
	}
	hash, err := HashPassword(next)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	s.logger.Info().Uint("uid", userID).Msg("admin password changed")
	return nil
}

// HasPermission reports whether the user's role grants action on resource.
func (s *Service) HasPermission(ctx context.Context, userID uint, resource, action string) (bool, error) {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, ErrUserNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return user.HasPermission(resource, action), nil
}

// Subscribe registers fn for session changes: the session on login, nil on
// logout. The returned func removes the subscription.
func (s *Service) Subscribe(fn func(*Session)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
		})
	}
}

func (s *Service) publish(session *Session) {
	s.mu.Lock()
	fns := make([]func(*Session), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(session)
	}
}

func (s *Service) issue(user *models.User, kind string, ttl time.Duration) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(ttl)
	claims := Claims{
		UserID:    user.ID,
		Email:     user.Email,
		TokenType: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	if kind == TokenAccess {
		claims.Role = user.Role.Name
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.cfg.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign %s token: %w", kind, err)
	}
	return signed, exp, nil
}

func (s *Service) revoke(ctx context.Context, claims *Claims) error {
	ttl := time.Minute
	if claims.ExpiresAt != nil {
		if left := claims.ExpiresAt.Time.Sub(s.now()); left > 0 {
			ttl = left
		}
	}
	if err := s.cache.Set(ctx, revokedKey(claims.ID), "1", ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (s *Service) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
	}
	return s.cfg.Secret, nil
}

func revokedKey(jti string) string {
	return "auth:revoked:" + jti
}

// HashPassword hashes a password with bcrypt's default cost.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
