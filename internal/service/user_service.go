package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fernet/fernet-go"
	"golang.org/x/crypto/bcrypt"

	"github.com/updawg/Fund-Manager-Backend/internal/apperrors"
	"github.com/updawg/Fund-Manager-Backend/internal/model"
	"github.com/updawg/Fund-Manager-Backend/internal/repository"
)

// DefaultBcryptCost is used when the configured cost is below bcrypt.MinCost.
const DefaultBcryptCost = 12

// UserService registers users and issues bearer session tokens.
// Tokens are fernet messages carrying the username; their validity window is
// the fernet timestamp plus the session TTL, so no session table is needed.
type UserService struct {
	userRepo   *repository.UserRepository
	key        *fernet.Key
	ttl        time.Duration
	bcryptCost int
}

// NewUserService creates a new UserService.
func NewUserService(userRepo *repository.UserRepository, key *fernet.Key, ttl time.Duration, bcryptCost int) *UserService {
	if bcryptCost < bcrypt.MinCost {
		bcryptCost = DefaultBcryptCost
	}
	return &UserService{
		userRepo:   userRepo,
		key:        key,
		ttl:        ttl,
		bcryptCost: bcryptCost,
	}
}

// LoadSessionKey decodes a base64 fernet key. An empty value generates a
// random key, which invalidates every token on restart.
func LoadSessionKey(encoded string) (*fernet.Key, error) {
	if strings.TrimSpace(encoded) == "" {
		var k fernet.Key
		if err := k.Generate(); err != nil {
			return nil, fmt.Errorf("failed to generate session key: %w", err)
		}
		return &k, nil
	}

	k, err := fernet.DecodeKey(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode session key: %w", err)
	}
	return k, nil
}

// Register stores a new user with a bcrypt hash of the password.
// Returns apperrors.ErrDuplicateEntry when the username is taken.
func (s *UserService) Register(ctx context.Context, ins model.UserInsert) (model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(ins.Password), s.bcryptCost)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to hash password: %w", err)
	}
	return s.userRepo.InsertUser(ctx, ins.Username, string(hash), time.Now())
}

// Login checks the credentials and issues a session token.
// Unknown users and wrong passwords both return apperrors.ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, creds model.UserInsert) (model.Session, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, creds.Username)
	if errors.Is(err, apperrors.ErrUserNotFound) {
		return model.Session{}, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return model.Session{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		return model.Session{}, apperrors.ErrInvalidCredentials
	}

	issued := time.Now()
	token, err := fernet.EncryptAndSign([]byte(user.Username), s.key)
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to sign session token: %w", err)
	}

	return model.Session{
		Token:     string(token),
		Username:  user.Username,
		ExpiresAt: issued.Add(s.ttl).UTC().Truncate(time.Second),
	}, nil
}

// VerifyToken returns the username carried by a valid, unexpired token.
func (s *UserService) VerifyToken(token string) (string, error) {
	msg := fernet.VerifyAndDecrypt([]byte(token), s.ttl, []*fernet.Key{s.key})
	if msg == nil {
		return "", apperrors.ErrInvalidToken
	}
	return string(msg), nil
}
