package http

import (
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/domain/note"
	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type NoteHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type noteHandlerImpl struct {
	noteService note.NoteService
}

func NewNoteHandler(noteService note.NoteService) NoteHandler {
	return &noteHandlerImpl{
		noteService: noteService,
	}
}

// List implements NoteHandler.
func (h *noteHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	var filter note.NoteFilter
	if raw := queryPtr(r, "limit"); raw != nil {
		limit, err := strconv.Atoi(*raw)
		if err != nil {
			response.ValidationError(w, map[string]string{"limit": "limit must be a number"})
			return
		}
		filter.Limit = &limit
	}

	notes, err := h.noteService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, notes)
}

// Create implements NoteHandler.
func (h *noteHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req note.CreateNoteRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	created, err := h.noteService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Note created", created)
}

// Get implements NoteHandler.
func (h *noteHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	found, err := h.noteService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, found)
}

// Update implements NoteHandler.
func (h *noteHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req note.UpdateNoteRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	updated, err := h.noteService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Note updated", updated)
}

// Delete implements NoteHandler.
func (h *noteHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.noteService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Note deleted", nil)
}
