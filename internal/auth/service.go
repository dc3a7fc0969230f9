package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"notely/internal/apperr"
	"notely/internal/metrics"
	"notely/internal/user"
)

// errInvalidCredentials is returned for both unknown emails and wrong passwords.
var errInvalidCredentials = fmt.Errorf("%w: invalid credentials", apperr.ErrUnauthorized)

type userFinder interface {
	FindByEmail(ctx context.Context, email string) (user.User, error)
}

type signer interface {
	Sign(id Identity) (string, error)
}

type Token struct {
	AccessToken string `json:"access_token"`
}

type Service struct {
	users  userFinder
	signer signer
	log    zerolog.Logger

	// dummyHash is compared against on unknown emails so both failure
	// paths pay the same bcrypt cost.
	dummyHash string
	compare   func(hash, password string) bool
}

// NewService uses bcryptCost for the dummy hash; it should match the cost
// user passwords are hashed with.
func NewService(users userFinder, signer signer, bcryptCost int, log zerolog.Logger) *Service {
	dummy, err := user.HashPassword("notely-dummy-password", bcryptCost)
	if err != nil {
		dummy, _ = user.HashPassword("notely-dummy-password", bcrypt.DefaultCost)
	}
	return &Service{
		users:     users,
		signer:    signer,
		log:       log.With().Str("component", "auth").Logger(),
		dummyHash: dummy,
		compare:   user.ComparePassword,
	}
}

func (s *Service) SignIn(ctx context.Context, email, password string) (Token, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return Token{}, apperr.Invalid("credentials", "email and password are required")
	}

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			s.compare(s.dummyHash, password)
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
			return Token{}, errInvalidCredentials
		}
		return Token{}, fmt.Errorf("auth.SignIn find user: %w", err)
	}

	if !s.compare(u.PasswordHash, password) {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return Token{}, errInvalidCredentials
	}

	tok, err := s.signer.Sign(Identity{UserID: u.ID, Username: u.Username})
	if err != nil {
		return Token{}, fmt.Errorf("auth.SignIn sign: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.log.Debug().Str("user_id", u.ID.String()).Msg("user signed in")
	return Token{AccessToken: tok}, nil
}
