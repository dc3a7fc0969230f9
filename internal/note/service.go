package note

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"notely/internal/apperr"
	"notely/internal/metrics"
)

type repository interface {
	Create(ctx context.Context, n *Note, categoryIDs []uuid.UUID) error
	Duplicate(ctx context.Context, id, ownerID uuid.UUID) (Note, error)
	List(ctx context.Context, ownerID uuid.UUID, active bool, offset, limit int) ([]Note, int64, error)
	Update(ctx context.Context, id, ownerID uuid.UUID, p Patch) (Note, error)
	SetActive(ctx context.Context, id, ownerID uuid.UUID, active bool) (Note, error)
	Remove(ctx context.Context, id, ownerID uuid.UUID) error
}

// Service applies note rules on top of the store. A note that belongs to
// another user is reported exactly like a missing one.
type Service struct {
	repo repository
	log  zerolog.Logger
}

func NewService(repo repository, log zerolog.Logger) *Service {
	return &Service{repo: repo, log: log.With().Str("component", "note").Logger()}
}

type CreateInput struct {
	Title       string
	Content     string
	CategoryIDs []uuid.UUID
}

func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, in CreateInput) (Note, error) {
	title, err := validTitle(in.Title)
	if err != nil {
		return Note{}, err
	}

	n := Note{
		Title:    title,
		Content:  in.Content,
		IsActive: true,
		UserID:   ownerID,
	}
	if err := s.repo.Create(ctx, &n, in.CategoryIDs); err != nil {
		return Note{}, fmt.Errorf("note.Create: %w", err)
	}

	s.mutated("create", ownerID, n.ID)
	return n, nil
}

func (s *Service) Duplicate(ctx context.Context, id, ownerID uuid.UUID) (Note, error) {
	n, err := s.repo.Duplicate(ctx, id, ownerID)
	if err != nil {
		return Note{}, fmt.Errorf("note.Duplicate: %w", err)
	}
	s.mutated("duplicate", ownerID, n.ID)
	return n, nil
}

func (s *Service) ListActive(ctx context.Context, ownerID uuid.UUID, p PageRequest) (Paged[Note], error) {
	return s.list(ctx, ownerID, true, p)
}

func (s *Service) ListArchived(ctx context.Context, ownerID uuid.UUID, p PageRequest) (Paged[Note], error) {
	return s.list(ctx, ownerID, false, p)
}

func (s *Service) list(ctx context.Context, ownerID uuid.UUID, active bool, p PageRequest) (Paged[Note], error) {
	p, err := p.normalize()
	if err != nil {
		return Paged[Note]{}, err
	}

	rows, total, err := s.repo.List(ctx, ownerID, active, p.offset(), p.Limit)
	if err != nil {
		return Paged[Note]{}, fmt.Errorf("note.List: %w", err)
	}

	return Paged[Note]{
		Data:       rows,
		Total:      total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: TotalPages(total, p.Limit),
	}, nil
}

func (s *Service) Update(ctx context.Context, id, ownerID uuid.UUID, p Patch) (Note, error) {
	if p.Title != nil {
		title, err := validTitle(*p.Title)
		if err != nil {
			return Note{}, err
		}
		p.Title = &title
	}

	n, err := s.repo.Update(ctx, id, ownerID, p)
	if err != nil {
		return Note{}, fmt.Errorf("note.Update: %w", err)
	}
	s.mutated("update", ownerID, id)
	return n, nil
}

func (s *Service) Archive(ctx context.Context, id, ownerID uuid.UUID) (Note, error) {
	n, err := s.repo.SetActive(ctx, id, ownerID, false)
	if err != nil {
		return Note{}, fmt.Errorf("note.Archive: %w", err)
	}
	s.mutated("archive", ownerID, id)
	return n, nil
}

func (s *Service) Unarchive(ctx context.Context, id, ownerID uuid.UUID) (Note, error) {
	n, err := s.repo.SetActive(ctx, id, ownerID, true)
	if err != nil {
		return Note{}, fmt.Errorf("note.Unarchive: %w", err)
	}
	s.mutated("unarchive", ownerID, id)
	return n, nil
}

func (s *Service) Remove(ctx context.Context, id, ownerID uuid.UUID) error {
	if err := s.repo.Remove(ctx, id, ownerID); err != nil {
		return fmt.Errorf("note.Remove: %w", err)
	}
	s.mutated("remove", ownerID, id)
	return nil
}

func (s *Service) mutated(op string, ownerID, noteID uuid.UUID) {
	metrics.NoteMutationsTotal.WithLabelValues(op).Inc()
	s.log.Debug().
		Str("op", op).
		Str("user_id", ownerID.String()).
		Str("note_id", noteID.String()).
		Msg("note mutated")
}

func validTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	switch {
	case title == "":
		return "", apperr.Invalid("title", "is required")
	case utf8.RuneCountInString(title) > MaxTitleLen:
		return "", apperr.Invalid("title", fmt.Sprintf("must be at most %d characters", MaxTitleLen))
	}
	return title, nil
}
