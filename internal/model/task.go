package model

import "time"

type Status string

const (
	StatusNew        Status = "New"
	StatusInProgress Status = "In progress"
	StatusPending    Status = "Pending"
	StatusBlocked    Status = "Blocked"
	StatusDone       Status = "Done"
)

// Statuses lists every valid status in display order.
var Statuses = []Status{StatusNew, StatusInProgress, StatusPending, StatusBlocked, StatusDone}

func ParseStatus(s string) (Status, bool) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// Open reports whether a task in this status can still become overdue.
func (s Status) Open() bool {
	return s != StatusDone
}

// ClosedStatuses are the statuses excluded from overdue counting.
func ClosedStatuses() []string {
	var out []string
	for _, st := range Statuses {
		if !st.Open() {
			out = append(out, string(st))
		}
	}
	return out
}

type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      Status     `json:"status"`
	Deadline    *time.Time `json:"deadline"`
	CreatedAt   time.Time  `json:"created_at"`
	OwnerID     int64      `json:"-"`
	Owner       string     `json:"owner"`
	CategoryIDs []int64    `json:"-"`
	Categories  []string   `json:"categories"`
}

// TaskDetail is a task rendered together with its subtasks.
type TaskDetail struct {
	Task
	SubTasks []SubTask `json:"subtasks"`
}

type SubTask struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	TaskID      int64      `json:"task"`
	Status      Status     `json:"status"`
	Deadline    *time.Time `json:"deadline"`
	CreatedAt   time.Time  `json:"created_at"`
	OwnerID     int64      `json:"-"`
	Owner       string     `json:"owner"`
}

type TaskStats struct {
	TotalTasks   int            `json:"total_tasks"`
	StatusCounts map[Status]int `json:"status_counts"`
	OverdueTasks int            `json:"overdue_tasks"`
}
