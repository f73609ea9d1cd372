package model

import (
	"time"

	"github.com/BuzzLyutic/taskhub-api/internal/pagination"
)

type TaskFilter struct {
	OwnerID   int64
	Status    *Status
	Deadline  *time.Time
	Weekday   *time.Weekday
	Search    string
	Ascending bool
	Cursor    *pagination.Cursor
	Limit     int
}

type SubTaskFilter struct {
	OwnerID   int64
	Status    *Status
	Deadline  *time.Time
	TaskTitle string
	Search    string
	Ascending bool
	Cursor    *pagination.Cursor
	Limit     int
}
