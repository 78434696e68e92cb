package backup_test

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/domain/backup"
	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/pkg/storage"
	backupService "github.com/cmlabs-hris/shiftsavvy-backend-go/internal/service/backup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Archive - writes one file per day and keeps the newest
func TestArchiver_Archive(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	seed(t, e)

	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	day := time.Date(2025, 3, 1, 23, 0, 0, 0, time.UTC)
	archiver := backupService.NewArchiver(e.svc, store, 2, func() time.Time { return day })

	for i := 0; i < 4; i++ {
		key, err := archiver.Archive(ctx)
		require.NoError(t, err)
		assert.Equal(t, "backups/shiftsavvy-backup-"+day.Format("2006-01-02")+".json", key)
		day = day.AddDate(0, 0, 1)
	}

	keys, err := store.List(ctx, "backups")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"backups/shiftsavvy-backup-2025-03-03.json",
		"backups/shiftsavvy-backup-2025-03-04.json",
	}, keys)

	rc, err := store.Download(ctx, keys[1])
	require.NoError(t, err)
	defer rc.Close()
	raw, err := io.ReadAll(rc)
	require.NoError(t, err)

	var doc backup.Document
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Len(t, doc.Shifts, 1)
	assert.NoError(t, doc.Validate())
}
