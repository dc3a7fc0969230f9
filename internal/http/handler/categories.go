package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"notely/internal/category"
)

type categoryService interface {
	Create(ctx context.Context, ownerID uuid.UUID, name string) (category.Category, error)
	ListForOwner(ctx context.Context, ownerID uuid.UUID) ([]category.Category, error)
}

type CategoryHandler struct {
	Svc categoryService
	Log zerolog.Logger
}

type createCategoryReq struct {
	Name string `json:"name" validate:"required,max=50"`
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, err := caller(r)
	if err != nil {
		WriteError(w, r, h.Log, err)
		return
	}

	var req createCategoryReq
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, r, h.Log, err)
		return
	}
	if err := validateStruct(req); err != nil {
		WriteError(w, r, h.Log, err)
		return
	}

	c, err := h.Svc.Create(r.Context(), uid, req.Name)
	if err != nil {
		WriteError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, err := caller(r)
	if err != nil {
		WriteError(w, r, h.Log, err)
		return
	}

	cats, err := h.Svc.ListForOwner(r.Context(), uid)
	if err != nil {
		WriteError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}
