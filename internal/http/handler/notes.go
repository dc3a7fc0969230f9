package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"notely/internal/apperr"
	"notely/internal/auth"
	"notely/internal/note"
)

type noteService interface {
	Create(ctx context.Context, ownerID uuid.UUID, in note.CreateInput) (note.Note, error)
	Duplicate(ctx context.Context, id, ownerID uuid.UUID) (note.Note, error)
	ListActive(ctx context.Context, ownerID uuid.UUID, p note.PageRequest) (note.Paged[note.Note], error)
	ListArchived(ctx context.Context, ownerID uuid.UUID, p note.PageRequest) (note.Paged[note.Note], error)
	Update(ctx context.Context, id, ownerID uuid.UUID, p note.Patch) (note.Note, error)
	Archive(ctx context.Context, id, ownerID uuid.UUID) (note.Note, error)
	Unarchive(ctx context.Context, id, ownerID uuid.UUID) (note.Note, error)
	Remove(ctx context.Context, id, ownerID uuid.UUID) error
}

type NoteHandler struct {
	Svc noteService
	Log zerolog.Logger
}

type createNoteReq struct {
	Title       string   `json:"title" validate:"required,max=40"`
	Content     string   `json:"content"`
	CategoryIDs []string `json:"categoryIds" validate:"omitempty,dive,uuid"`
}

type updateNoteReq struct {
	Title       *string  `json:"title" validate:"omitempty,max=40"`
	Content     *string  `json:"content"`
	CategoryIDs []string `json:"categoryIds" validate:"omitempty,dive,uuid"`
}

func caller(r *http.Request) (uuid.UUID, error) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		return uuid.Nil, apperr.ErrUnauthorized
	}
	return id.UserID, nil
}

func (h *NoteHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.Svc.ListActive)
}

func (h *NoteHandler) ListArchived(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.Svc.ListArchived)
}

type listFunc func(ctx context.Context, ownerID uuid.UUID, p note.PageRequest) (note.Paged[note.Note], error)

func (h *NoteHandler) list(w http.ResponseWriter, r *http.Request, fn listFunc) {
	uid, err := caller(r)
	if err != nil {
		WriteError(w, r, h.Log, err)
		return
	}
	page, err := queryInt(r, "page")
	if err != nil {
		WriteError(w, r, h.Log, err)
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		WriteError(w, r, h.Log, err)
		return
	}

	res, err := fn(r.Context(), uid, note.PageRequest{Page: page, Limit: limit})
	if err != nil {
		WriteError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, err := caller(r)
	if err != nil {
		WriteError(w, r, h.Log, err)
		return
	}

	var req createNoteReq
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, r, h.Log, err)
		return
	}
	if err := validateStruct(req); err != nil {
		WriteError(w, r, h.Log, err)
		return
	}

	n, err := h.Svc.Create(r.Context(), uid, note.CreateInput{
		Title:       req.Title,
		Content:     req.Content,
		CategoryIDs: parseUUIDs(req.CategoryIDs),
	})
	if err != nil {
		WriteError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

func (h *NoteHandler) Duplicate(w http.ResponseWriter, r *http.Request) {
	h.withNote(w, r, http.StatusCreated, h.Svc.Duplicate)
}

func (h *NoteHandler) Archive(w http.ResponseWriter, r *http.Request) {
	h.withNote(w, r, http.StatusOK, h.Svc.Archive)
}

func (h *NoteHandler) Unarchive(w http.ResponseWriter, r *http.Request) {
	h.withNote(w, r, http.StatusOK, h.Svc.Unarchive)
}

func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	uid, err := caller(r)
	if err != nil {
		WriteError(w, r, h.Log, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		WriteError(w, r, h.Log, err)
		return
	}

	var req updateNoteReq
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, r, h.Log, err)
		return
	}
	if err := validateStruct(req); err != nil {
		WriteError(w, r, h.Log, err)
		return
	}

	p := note.Patch{Title: req.Title, Content: req.Content}
	if req.CategoryIDs != nil {
		ids := parseUUIDs(req.CategoryIDs)
		p.CategoryIDs = &ids
	}

	n, err := h.Svc.Update(r.Context(), id, uid, p)
	if err != nil {
		WriteError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (h *NoteHandler) Remove(w http.ResponseWriter, r *http.Request) {
	uid, err := caller(r)
	if err != nil {
		WriteError(w, r, h.Log, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		WriteError(w, r, h.Log, err)
		return
	}

	if err := h.Svc.Remove(r.Context(), id, uid); err != nil {
		WriteError(w, r, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type noteFunc func(ctx context.Context, id, ownerID uuid.UUID) (note.Note, error)

// withNote covers the body-less endpoints addressed by {id}.
func (h *NoteHandler) withNote(w http.ResponseWriter, r *http.Request, status int, fn noteFunc) {
	uid, err := caller(r)
	if err != nil {
		WriteError(w, r, h.Log, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		WriteError(w, r, h.Log, err)
		return
	}

	n, err := fn(r.Context(), id, uid)
	if err != nil {
		WriteError(w, r, h.Log, err)
		return
	}
	writeJSON(w, status, n)
}
