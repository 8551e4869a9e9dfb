package models

import (
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"
)

// UsageRecord aggregates the lecturers and location usage committed for one
// (daySlot, date) slot key across all teams and all processed documents.
// It is the only cross-document shared mutable state in the system.
type UsageRecord struct {
	SlotKey        string         `db:"slot_key" json:"slot_key"`
	LecturerIDs    pq.StringArray `db:"lecturer_ids" json:"lecturer_ids"`
	LocationCounts types.JSONText `db:"location_counts" json:"location_counts"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
}

// DecodeLocationCounts unpacks the per-location usage multiset.
func (u *UsageRecord) DecodeLocationCounts() (map[string]int, error) {
	counts := make(map[string]int)
	if len(u.LocationCounts) == 0 {
		return counts, nil
	}
	if err := json.Unmarshal(u.LocationCounts, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}

// EncodeLocationCounts packs a usage multiset for persistence.
func EncodeLocationCounts(counts map[string]int) (types.JSONText, error) {
	raw, err := json.Marshal(counts)
	if err != nil {
		return nil, err
	}
	return types.JSONText(raw), nil
}
