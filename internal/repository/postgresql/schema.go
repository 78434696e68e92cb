package postgresql

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/pkg/database"
)

//go:embed schema.sql
var schema string

const settingActiveShift = "active_shift_id"

// Migrate creates missing tables and indexes. Every statement is idempotent.
func Migrate(ctx context.Context, db *database.DB) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

type eventJSON struct {
	Kind string    `json:"kind"`
	Time time.Time `json:"time"`
}

func encodeEvents(events []attendance.Event) ([]byte, error) {
	out := make([]eventJSON, 0, len(events))
	for _, e := range events {
		out = append(out, eventJSON{Kind: string(e.Kind), Time: e.Time})
	}
	return json.Marshal(out)
}

func decodeEvents(b []byte) ([]attendance.Event, error) {
	var in []eventJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return nil, err
	}
	if len(in) == 0 {
		return nil, nil
	}
	events := make([]attendance.Event, 0, len(in))
	for _, e := range in {
		events = append(events, attendance.Event{Kind: attendance.EventKind(e.Kind), Time: e.Time})
	}
	return events, nil
}
