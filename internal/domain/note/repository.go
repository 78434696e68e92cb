package note

import "context"

// NoteRepository persists notes.
type NoteRepository interface {
	Create(ctx context.Context, n Note) (Note, error)

	// Update replaces every mutable column of an existing note
	Update(ctx context.Context, n Note) error

	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Note, error)

	// List returns notes in creation order
	List(ctx context.Context) ([]Note, error)
}
