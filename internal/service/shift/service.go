package shift

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/domain/shift"
	"github.com/google/uuid"
)

type ShiftServiceImpl struct {
	shift.ShiftRepository
	now func() time.Time
}

func NewShiftService(shiftRepo shift.ShiftRepository, now func() time.Time) shift.ShiftService {
	if now == nil {
		now = time.Now
	}
	return &ShiftServiceImpl{
		ShiftRepository: shiftRepo,
		now:             now,
	}
}

// Create implements shift.ShiftService.
func (s *ShiftServiceImpl) Create(ctx context.Context, req shift.CreateShiftRequest) (shift.ShiftResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.ShiftResponse{}, err
	}

	exists, err := s.ShiftRepository.ExistsByName(ctx, req.Name, "")
	if err != nil {
		return shift.ShiftResponse{}, fmt.Errorf("failed to check shift name: %w", err)
	}
	if exists {
		return shift.ShiftResponse{}, shift.ErrShiftNameExists
	}

	id, err := uuid.NewV7()
	if err != nil {
		return shift.ShiftResponse{}, fmt.Errorf("failed to generate shift id: %w", err)
	}

	now := s.now().UTC()
	newShift := fromRequest(req)
	newShift.ID = id.String()
	newShift.CreatedAt = now
	newShift.UpdatedAt = now

	created, err := s.ShiftRepository.Create(ctx, newShift)
	if err != nil {
		return shift.ShiftResponse{}, fmt.Errorf("failed to create shift: %w", err)
	}

	slog.Info("Shift created", "shift_id", created.ID, "name", created.Name)
	return s.toResponse(ctx, created)
}

// Update implements shift.ShiftService.
func (s *ShiftServiceImpl) Update(ctx context.Context, req shift.UpdateShiftRequest) (shift.ShiftResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.ShiftResponse{}, err
	}

	existing, err := s.ShiftRepository.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, shift.ErrShiftNotFound) {
			return shift.ShiftResponse{}, shift.ErrShiftNotFound
		}
		return shift.ShiftResponse{}, fmt.Errorf("failed to get shift: %w", err)
	}

	exists, err := s.ShiftRepository.ExistsByName(ctx, req.Name, req.ID)
	if err != nil {
		return shift.ShiftResponse{}, fmt.Errorf("failed to check shift name: %w", err)
	}
	if exists {
		return shift.ShiftResponse{}, shift.ErrShiftNameExists
	}

	updated := fromRequest(req.CreateShiftRequest)
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = s.now().UTC()

	if err := s.ShiftRepository.Update(ctx, updated); err != nil {
		return shift.ShiftResponse{}, fmt.Errorf("failed to update shift: %w", err)
	}

	slog.Info("Shift updated", "shift_id", updated.ID)
	return s.toResponse(ctx, updated)
}

// Delete implements shift.ShiftService.
func (s *ShiftServiceImpl) Delete(ctx context.Context, id string) error {
	if _, err := s.ShiftRepository.GetByID(ctx, id); err != nil {
		if errors.Is(err, shift.ErrShiftNotFound) {
			return shift.ErrShiftNotFound
		}
		return fmt.Errorf("failed to get shift: %w", err)
	}

	if err := s.ShiftRepository.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete shift: %w", err)
	}

	slog.Info("Shift deleted", "shift_id", id)
	return nil
}

// Get implements shift.ShiftService.
func (s *ShiftServiceImpl) Get(ctx context.Context, id string) (shift.ShiftResponse, error) {
	found, err := s.ShiftRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, shift.ErrShiftNotFound) {
			return shift.ShiftResponse{}, shift.ErrShiftNotFound
		}
		return shift.ShiftResponse{}, fmt.Errorf("failed to get shift: %w", err)
	}
	return s.toResponse(ctx, found)
}

// List implements shift.ShiftService.
func (s *ShiftServiceImpl) List(ctx context.Context) ([]shift.ShiftResponse, error) {
	shifts, err := s.ShiftRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}

	active, err := s.ShiftRepository.GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get active shift: %w", err)
	}

	responses := make([]shift.ShiftResponse, 0, len(shifts))
	for _, sh := range shifts {
		responses = append(responses, MapShift(sh, active != nil && active.ID == sh.ID))
	}
	return responses, nil
}

// GetActive implements shift.ShiftService.
func (s *ShiftServiceImpl) GetActive(ctx context.Context) (shift.ShiftResponse, error) {
	active, err := s.ShiftRepository.GetActive(ctx)
	if err != nil {
		return shift.ShiftResponse{}, fmt.Errorf("failed to get active shift: %w", err)
	}
	if active == nil {
		return shift.ShiftResponse{}, shift.ErrNoActiveShift
	}
	return MapShift(*active, true), nil
}

// SetActive implements shift.ShiftService.
func (s *ShiftServiceImpl) SetActive(ctx context.Context, req shift.SetActiveShiftRequest) (*shift.ShiftResponse, error) {
	if req.ShiftID == nil {
		if err := s.ShiftRepository.SetActive(ctx, nil); err != nil {
			return nil, fmt.Errorf("failed to clear active shift: %w", err)
		}
		slog.Info("Active shift cleared")
		return nil, nil
	}

	selected, err := s.ShiftRepository.GetByID(ctx, *req.ShiftID)
	if err != nil {
		if errors.Is(err, shift.ErrShiftNotFound) {
			return nil, shift.ErrShiftNotFound
		}
		return nil, fmt.Errorf("failed to get shift: %w", err)
	}

	if err := s.ShiftRepository.SetActive(ctx, &selected.ID); err != nil {
		return nil, fmt.Errorf("failed to set active shift: %w", err)
	}

	slog.Info("Active shift changed", "shift_id", selected.ID)
	resp := MapShift(selected, true)
	return &resp, nil
}

func (s *ShiftServiceImpl) toResponse(ctx context.Context, sh shift.Shift) (shift.ShiftResponse, error) {
	active, err := s.ShiftRepository.GetActive(ctx)
	if err != nil {
		return shift.ShiftResponse{}, fmt.Errorf("failed to get active shift: %w", err)
	}
	return MapShift(sh, active != nil && active.ID == sh.ID), nil
}

func fromRequest(req shift.CreateShiftRequest) shift.Shift {
	return shift.Shift{
		Name:                   req.Name,
		StartTime:              req.StartTime,
		OfficeEndTime:          req.OfficeEndTime,
		EndTime:                req.EndTime,
		DepartureTime:          req.DepartureTime,
		DaysApplied:            append([]string(nil), req.DaysApplied...),
		RemindBeforeStart:      req.RemindBeforeStart,
		RemindAfterEnd:         req.RemindAfterEnd,
		ShowPunch:              req.ShowPunch,
		BreakMinutes:           req.BreakMinutes,
		PenaltyRoundingMinutes: req.PenaltyRoundingMinutes,
	}
}

// MapShift converts a Shift entity to its response shape
func MapShift(sh shift.Shift, isActive bool) shift.ShiftResponse {
	return shift.ShiftResponse{
		ID:                     sh.ID,
		Name:                   sh.Name,
		StartTime:              sh.StartTime,
		OfficeEndTime:          sh.OfficeEndTime,
		EndTime:                sh.EndTime,
		DepartureTime:          sh.DepartureTime,
		DaysApplied:            sh.DaysApplied,
		RemindBeforeStart:      sh.RemindBeforeStart,
		RemindAfterEnd:         sh.RemindAfterEnd,
		ShowPunch:              sh.ShowPunch,
		BreakMinutes:           sh.BreakMinutes,
		PenaltyRoundingMinutes: sh.PenaltyRoundingMinutes,
		IsActive:               isActive,
		CreatedAt:              sh.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt:              sh.UpdatedAt.Format(time.RFC3339Nano),
	}
}
