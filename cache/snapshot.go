package cache

import (
	"encoding/json"
	"time"
)

// PageSnapshot is the persisted form of one page: ordered identifiers, the
// total result count and page size at capture time, and the capture time in
// milliseconds.
type PageSnapshot struct {
	IDs       []string `json:"ids"`
	Total     int      `json:"total"`
	Timestamp int64    `json:"ts"`
	PerPage   int      `json:"perPage"`
}

// Age returns how old the snapshot is relative to now.
func (s PageSnapshot) Age(now time.Time) time.Duration {
	return now.Sub(time.UnixMilli(s.Timestamp))
}

func decodeSnapshot(raw string) (PageSnapshot, error) {
	var s PageSnapshot
	err := json.Unmarshal([]byte(raw), &s)
	return s, err
}

func (s PageSnapshot) encode() (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
