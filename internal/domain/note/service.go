package note

import "context"

// NoteService defines business logic for notes
type NoteService interface {
	Create(ctx context.Context, req CreateNoteRequest) (NoteResponse, error)
	Update(ctx context.Context, req UpdateNoteRequest) (NoteResponse, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (NoteResponse, error)

	// List orders notes by reminder time, most recently updated first on ties
	List(ctx context.Context, filter NoteFilter) ([]NoteResponse, error)
}
