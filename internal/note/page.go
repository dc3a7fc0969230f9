package note

import (
	"fmt"

	"notely/internal/apperr"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
	// MaxPage keeps (page-1)*limit far from int overflow.
	MaxPage = 1_000_000
)

// PageRequest is 1-based. Zero values take the defaults.
type PageRequest struct {
	Page  int
	Limit int
}

func (p PageRequest) normalize() (PageRequest, error) {
	if p.Page == 0 {
		p.Page = DefaultPage
	}
	if p.Limit == 0 {
		p.Limit = DefaultLimit
	}
	if p.Page < 1 {
		return p, apperr.Invalid("page", "must be at least 1")
	}
	if p.Page > MaxPage {
		return p, apperr.Invalid("page", fmt.Sprintf("must be at most %d", MaxPage))
	}
	if p.Limit < 1 {
		return p, apperr.Invalid("limit", "must be at least 1")
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p, nil
}

func (p PageRequest) offset() int {
	return (p.Page - 1) * p.Limit
}

type Paged[T any] struct {
	Data       []T   `json:"data"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

func TotalPages(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
