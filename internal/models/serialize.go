package models

import "time"

// TimeLayout is the ISO-8601 layout used for every serialized timestamp.
const TimeLayout = time.RFC3339Nano

// formatTime renders t in UTC, or nil when t is unset.
func formatTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(TimeLayout)
}

func formatTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func stringOrNil(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func idOrNil(id *uint64) any {
	if id == nil {
		return nil
	}
	return *id
}
