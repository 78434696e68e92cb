package shift

import "context"

// ShiftService defines business logic for shift definitions
type ShiftService interface {
	Create(ctx context.Context, req CreateShiftRequest) (ShiftResponse, error)
	Update(ctx context.Context, req UpdateShiftRequest) (ShiftResponse, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (ShiftResponse, error)
	List(ctx context.Context) ([]ShiftResponse, error)

	// GetActive returns ErrNoActiveShift when nothing is selected
	GetActive(ctx context.Context) (ShiftResponse, error)

	// SetActive selects a shift, or clears the selection when ShiftID is nil
	SetActive(ctx context.Context, req SetActiveShiftRequest) (*ShiftResponse, error)
}
