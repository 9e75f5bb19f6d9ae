package app

import (
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"flex_reviews/internal/domain"
)

const roleAdmin = "admin"

// Claims carried by the bearer credential: the registered subject is the
// admin email; Role gates the mutating routes.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// UserInfo echoes the logged-in identity back to the client.
type UserInfo struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// LoginResult is the login response body.
type LoginResult struct {
	OK    bool     `json:"ok"`
	Token string   `json:"token"`
	User  UserInfo `json:"user"`
}

// AuthService checks the single configured admin credential pair and
// issues/verifies signed, time-limited bearer tokens.
type AuthService struct {
	adminEmail string
	adminPass  string
	secret     []byte
	ttl        time.Duration
}

func NewAuthService(adminEmail, adminPass, secret string, ttl time.Duration) *AuthService {
	return &AuthService{adminEmail: adminEmail, adminPass: adminPass, secret: []byte(secret), ttl: ttl}
}

func (s *AuthService) Login(email, password string) (LoginResult, error) {
	if email == "" || password == "" {
		return LoginResult{}, fmt.Errorf("email and password required: %w", domain.ErrInvalidInput)
	}

	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(s.adminEmail)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.adminPass)) == 1
	if s.adminEmail == "" || !emailOK || !passOK {
		return LoginResult{}, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}

	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Role: roleAdmin,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{OK: true, Token: token, User: UserInfo{Email: email, Role: roleAdmin}}, nil
}

// Verify parses and validates a bearer token. Any failure, including expiry,
// maps to domain.ErrUnauthorized.
func (s *AuthService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrUnauthorized
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid or expired token: %w", domain.ErrUnauthorized)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims: %w", domain.ErrUnauthorized)
	}
	return claims, nil
}

// IsAdmin reports whether the claims carry the admin role.
func (c *Claims) IsAdmin() bool { return c.Role == roleAdmin }
