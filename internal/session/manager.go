package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fitpulse/internal/models"
	"fitpulse/internal/validation"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Directory is the account storage the Manager authenticates against.
type Directory interface {
	// CredentialByEmail returns the credential for the email, or nil when
	// no account exists.
	CredentialByEmail(ctx context.Context, email string) (*models.Credential, error)
	// CreateAccount persists the credential and its 1:1 profile together.
	CreateAccount(ctx context.Context, cred *models.Credential, profile *models.Profile) error
}

// Session is an issued sign-in result.
type Session struct {
	Token     string    `json:"token"`
	Identity  Identity  `json:"identity"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Manager implements the session contract: sign-in, sign-up, sign-out,
// and bearer-token resolution. Tokens are HS256 JWTs.
type Manager struct {
	directory Directory
	secret    string
	tokenTTL  time.Duration
}

// NewManager creates a Manager over the given account directory.
func NewManager(directory Directory, secret string) *Manager {
	return &Manager{
		directory: directory,
		secret:    secret,
		tokenTTL:  7 * 24 * time.Hour,
	}
}

// SignIn authenticates the email/password pair and returns a session.
func (m *Manager) SignIn(ctx context.Context, email, password string) (*Session, error) {
	cred, err := m.directory.CredentialByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if cred == nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.Password), []byte(password)); err != nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}

	return m.issue(Identity{ID: cred.ID, Email: cred.Email})
}

// SignUp registers a new account with its profile and returns a session.
// The profile's full name must be non-empty.
func (m *Manager) SignUp(ctx context.Context, email, password, fullName string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	fullName = strings.TrimSpace(fullName)

	if err := validation.ValidateEmail(email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if fullName == "" {
		return nil, models.NewValidationError("Full name is required")
	}

	existing, err := m.directory.CredentialByEmail(ctx, email)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if existing != nil {
		return nil, models.NewValidationError("An account with this email already exists")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	cred := &models.Credential{
		ID:       uuid.NewString(),
		Email:    email,
		Password: string(hashed),
	}
	profile := &models.Profile{
		ID:       cred.ID,
		FullName: fullName,
		Email:    email,
	}
	if err := m.directory.CreateAccount(ctx, cred, profile); err != nil {
		return nil, models.NewInternalError(err)
	}

	return m.issue(Identity{ID: cred.ID, Email: cred.Email})
}

// ResolveToken parses a bearer token into the identity it was issued for.
// Any parse or validation failure resolves to an error; the caller treats
// that as unauthenticated.
func (m *Manager) ResolveToken(tokenString string) (Identity, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(m.secret), nil
	})
	if err != nil || !token.Valid {
		return Identity{}, models.NewUnauthorizedError("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, models.NewUnauthorizedError("Invalid token claims")
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return Identity{}, models.NewUnauthorizedError("Invalid token subject")
	}
	email, _ := claims["email"].(string)

	return Identity{ID: sub, Email: email}, nil
}

func (m *Manager) issue(identity Identity) (*Session, error) {
	if m.secret == "" {
		return nil, models.NewInternalError(fmt.Errorf("JWT secret not configured"))
	}

	now := time.Now()
	expiresAt := now.Add(m.tokenTTL)
	claims := jwt.MapClaims{
		"sub":   identity.ID,
		"email": identity.Email,
		"iss":   "fitpulse-api",
		"aud":   "fitpulse-client",
		"exp":   expiresAt.Unix(),
		"iat":   now.Unix(),
		"nbf":   now.Unix(),
		"jti":   fmt.Sprintf("%d-%s", now.Unix(), uuid.NewString()[:8]),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(m.secret))
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	return &Session{Token: token, Identity: identity, ExpiresAt: expiresAt}, nil
}
