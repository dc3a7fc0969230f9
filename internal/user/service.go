package user

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"notely/internal/apperr"
	"notely/internal/metrics"
)

const (
	minPasswordLen = 6
	// bcrypt rejects longer input
	MaxPasswordBytes = 72
)

type repository interface {
	Create(ctx context.Context, u *User) error
	FindByEmail(ctx context.Context, email string) (User, error)
	FindByID(ctx context.Context, id uuid.UUID) (User, error)
}

type Service struct {
	repo       repository
	bcryptCost int
	log        zerolog.Logger
}

func NewService(repo repository, bcryptCost int, log zerolog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		bcryptCost: bcryptCost,
		log:        log.With().Str("component", "user").Logger(),
	}
}

type CreateInput struct {
	Email    string
	Username string
	Password string
}

func (in *CreateInput) normalize() {
	in.Email = NormalizeEmail(in.Email)
	in.Username = strings.TrimSpace(in.Username)
}

func (in CreateInput) validate() error {
	var fields []apperr.FieldError
	if in.Email == "" {
		fields = append(fields, apperr.FieldError{Field: "email", Message: "is required"})
	} else if _, err := mail.ParseAddress(in.Email); err != nil {
		fields = append(fields, apperr.FieldError{Field: "email", Message: "must be a valid email"})
	}
	if in.Username == "" {
		fields = append(fields, apperr.FieldError{Field: "username", Message: "is required"})
	}
	switch {
	case len(in.Password) < minPasswordLen:
		fields = append(fields, apperr.FieldError{Field: "password", Message: fmt.Sprintf("must be at least %d characters", minPasswordLen)})
	case len(in.Password) > MaxPasswordBytes:
		fields = append(fields, apperr.FieldError{Field: "password", Message: fmt.Sprintf("must be at most %d bytes", MaxPasswordBytes)})
	}
	if len(fields) > 0 {
		return &apperr.ValidationError{Fields: fields}
	}
	return nil
}

// Create registers a user. A taken email yields apperr.ErrConflict.
func (s *Service) Create(ctx context.Context, in CreateInput) (User, error) {
	in.normalize()
	if err := in.validate(); err != nil {
		return User{}, err
	}

	hash, err := HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return User{}, fmt.Errorf("user.Create hash password: %w", err)
	}

	u := User{Email: in.Email, Username: in.Username, PasswordHash: hash}
	if err := s.repo.Create(ctx, &u); err != nil {
		return User{}, fmt.Errorf("user.Create: %w", err)
	}

	metrics.UsersRegisteredTotal.Inc()
	s.log.Info().Str("user_id", u.ID.String()).Msg("user registered")
	return u, nil
}

func (s *Service) FindByEmail(ctx context.Context, email string) (User, error) {
	u, err := s.repo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return User{}, fmt.Errorf("user.FindByEmail: %w", err)
	}
	return u, nil
}

func (s *Service) FindByID(ctx context.Context, id uuid.UUID) (User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return User{}, fmt.Errorf("user.FindByID: %w", err)
	}
	return u, nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
