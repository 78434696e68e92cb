package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/domain/backup"
	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/handler/http/response"
)

type BackupHandler interface {
	Export(w http.ResponseWriter, r *http.Request)
	Restore(w http.ResponseWriter, r *http.Request)
}

type backupHandlerImpl struct {
	backupService backup.BackupService
}

func NewBackupHandler(backupService backup.BackupService) BackupHandler {
	return &backupHandlerImpl{
		backupService: backupService,
	}
}

// Export writes the bare backup document so the file can be posted back to
// Restore unchanged.
func (h *backupHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	doc, err := h.backupService.Export(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filename := fmt.Sprintf("shiftsavvy-backup-%s.json", doc.BackupDate[:10])
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(doc); err != nil {
		slog.Error("Failed to write backup", "error", err)
	}
}

// Restore implements BackupHandler.
func (h *backupHandlerImpl) Restore(w http.ResponseWriter, r *http.Request) {
	var doc backup.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		response.BadRequest(w, "Invalid backup file", nil)
		return
	}

	result, err := h.backupService.Restore(r.Context(), doc)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Backup restored", result)
}
