package progress

import (
	"math"
	"time"
)

// Record is a student's completion marker for a week: one logical record per
// (user, week) pair, last write wins, no history.
type Record struct {
	UserID       string    `json:"userId"`
	WeekID       string    `json:"weekId"`
	Completed    bool      `json:"completed"`
	LastAccessed time.Time `json:"lastAccessed"` // UTC
}

// SaveProgress is the upsert payload; a record is first written with
// completed=false when a week is viewed, then overwritten with completed=true
// on quiz submission.
type SaveProgress struct {
	WeekID    string `json:"weekId" validate:"required"`
	Completed bool   `json:"completed"`
}

// Started reports whether any record exists for the week.
func Started(records []Record, weekID string) bool {
	for _, rec := range records {
		if rec.WeekID == weekID {
			return true
		}
	}
	return false
}

// IsCompleted reports whether a completed record exists for the week.
func IsCompleted(records []Record, weekID string) bool {
	for _, rec := range records {
		if rec.WeekID == weekID && rec.Completed {
			return true
		}
	}
	return false
}

// Percent is the overall course progress: completed records over the total
// published week count, rounded to the nearest integer percent.
func Percent(records []Record, totalPublished int) int {
	if totalPublished <= 0 {
		return 0
	}
	var completed int
	for _, rec := range records {
		if rec.Completed {
			completed++
		}
	}
	return int(math.Round(float64(completed) / float64(totalPublished) * 100))
}
