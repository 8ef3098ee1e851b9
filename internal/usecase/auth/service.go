package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/duma2005/moviedeck/internal/domain"
)

// Service implements registration, login and token-based identity.
type Service struct {
	users  UserRepository
	tokens *TokenIssuer
	logger *zap.Logger
}

// New creates a Service.
func New(users UserRepository, tokens *TokenIssuer, logger *zap.Logger) *Service {
	return &Service{users: users, tokens: tokens, logger: logger}
}

// Register creates an account and returns a signed access token.
// The username is derived from the email local part; collisions get a
// numeric suffix (jane, jane2, jane3, ...).
func (s *Service) Register(ctx context.Context, email, password, fullName string) (string, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return "", err
	}
	if password == "" {
		return "", fmt.Errorf("%w: password is required", domain.ErrValidation)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return "", fmt.Errorf("%w: email already registered", domain.ErrAlreadyExists)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return "", err
	}

	username, err := s.buildUsername(ctx, email)
	if err != nil {
		return "", err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return "", err
	}

	created, err := s.users.Create(ctx, domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(fullName),
		Role:         domain.RoleUser,
	})
	if err != nil {
		return "", err
	}

	s.logger.Info("User registered",
		zap.Int64("user_id", created.ID),
		zap.String("username", created.Username))

	return s.tokens.Issue(created.ID)
}

// Login verifies credentials and returns a signed access token.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return "", err
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", err
	}
	if !VerifyPassword(password, u.PasswordHash) {
		return "", domain.ErrInvalidCredentials
	}
	return s.tokens.Issue(u.ID)
}

// Identify resolves an access token to the user it belongs to.
func (s *Service) Identify(ctx context.Context, token string) (domain.User, error) {
	userID, err := s.tokens.Parse(token)
	if err != nil {
		return domain.User{}, fmt.Errorf("%w: %s", domain.ErrUnauthorized, err)
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, domain.ErrUnauthorized
		}
		return domain.User{}, err
	}
	return u, nil
}

func (s *Service) buildUsername(ctx context.Context, email string) (string, error) {
	base := email
	if at := strings.Index(email, "@"); at >= 0 {
		base = email[:at]
	}
	base = strings.ToLower(strings.ReplaceAll(base, " ", ""))
	if base == "" {
		base = "user"
	}

	candidate := base
	for counter := 1; ; counter++ {
		if counter > 1 {
			candidate = base + strconv.Itoa(counter)
		}
		taken, err := s.users.UsernameExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
}

func normalizeEmail(email string) (string, error) {
	cleaned := strings.TrimSpace(email)
	if _, err := mail.ParseAddress(cleaned); err != nil {
		return "", fmt.Errorf("%w: invalid email format", domain.ErrValidation)
	}
	return cleaned, nil
}
