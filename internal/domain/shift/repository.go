package shift

import "context"

// ShiftRepository persists shift definitions and the active-shift selection.
type ShiftRepository interface {
	Create(ctx context.Context, shift Shift) (Shift, error)

	// Update replaces every mutable column of an existing shift
	Update(ctx context.Context, shift Shift) error

	// Delete removes the shift and clears the active selection if it pointed to it
	Delete(ctx context.Context, id string) error

	GetByID(ctx context.Context, id string) (Shift, error)
	List(ctx context.Context) ([]Shift, error)

	// ExistsByName compares names case-insensitively, ignoring excludeID
	ExistsByName(ctx context.Context, name string, excludeID string) (bool, error)

	// GetActive returns nil when no shift is active
	GetActive(ctx context.Context) (*Shift, error)
	SetActive(ctx context.Context, id *string) error
}
