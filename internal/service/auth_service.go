package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"tsunami_usgs/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultTokenTTL = time.Hour
	tokenIssuer     = "tsunami_usgs"
)

var (
	ErrEmptyCredentials = errors.New("username and password are required")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrOperatorNotFound = errors.New("operator not found")
	ErrOperatorExists   = repository.ErrOperatorExists
	ErrInvalidToken     = errors.New("invalid token")
	ErrTokenExpired     = fmt.Errorf("%w: expired", ErrInvalidToken)
)

// AuthOptions configures token signing. An empty SigningKey gets a random
// per-process key, so tokens do not survive a restart.
type AuthOptions struct {
	SigningKey string
	TokenTTL   time.Duration
}

// Token is a signed bearer token for the diagnostics API.
type Token struct {
	Value     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AuthService handles operator sign-up and bearer tokens for the diagnostics API.
type AuthService struct {
	repo       repository.OperatorRepo
	signingKey []byte
	tokenTTL   time.Duration
	now        func() time.Time
	parser     *jwt.Parser
}

func NewAuthService(repo repository.OperatorRepo, opts AuthOptions) *AuthService {
	key := []byte(opts.SigningKey)
	if len(key) == 0 {
		key = make([]byte, 32)
		_, _ = rand.Read(key)
	}
	ttl := opts.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	s := &AuthService{repo: repo, signingKey: key, tokenTTL: ttl, now: time.Now}
	s.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return s.now() }),
	)
	return s
}

// SignUp registers an operator. Usernames are trimmed; taken names yield
// ErrOperatorExists.
func (s *AuthService) SignUp(ctx context.Context, username, password string) (int, error) {
	username = strings.TrimSpace(username)
	if username == "" || strings.TrimSpace(password) == "" {
		return 0, ErrEmptyCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}
	return s.repo.Create(ctx, username, string(hash))
}

// SignIn checks the credentials and issues a token valid for the configured TTL.
func (s *AuthService) SignIn(ctx context.Context, username, password string) (Token, error) {
	o, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return Token{}, err
	}
	if o == nil {
		return Token{}, ErrOperatorNotFound
	}
	if bcrypt.CompareHashAndPassword([]byte(o.PasswordHash), []byte(password)) != nil {
		return Token{}, ErrInvalidPassword
	}
	return s.issueToken(o.ID)
}

// ParseToken returns the operator id carried by a token this process signed.
func (s *AuthService) ParseToken(accessToken string) (int, error) {
	var claims jwt.RegisteredClaims
	_, err := s.parser.ParseWithClaims(accessToken, &claims, func(*jwt.Token) (interface{}, error) {
		return s.signingKey, nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return 0, ErrTokenExpired
	case err != nil:
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	id, err := strconv.Atoi(claims.Subject)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: bad subject %q", ErrInvalidToken, claims.Subject)
	}
	return id, nil
}

func (s *AuthService) issueToken(operatorID int) (Token, error) {
	now := s.now()
	exp := now.Add(s.tokenTTL)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   strconv.Itoa(operatorID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString(s.signingKey)
	if err != nil {
		return Token{}, fmt.Errorf("sign token: %w", err)
	}
	return Token{Value: signed, ExpiresAt: exp.UTC().Truncate(time.Second)}, nil
}
