package entity

import (
	"errors"
	"strings"
	"time"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusInProgress TaskStatus = "in_progress"
)

// TaskStatuses lists the accepted statuses in the order they are shown to users.
var TaskStatuses = []TaskStatus{
	TaskStatusPending,
	TaskStatusCompleted,
	TaskStatusInProgress,
}

var (
	ErrInvalidStatus = errors.New("invalid task status")
	ErrTaskNotFound  = errors.New("task not found")
)

func (s TaskStatus) String() string {
	return string(s)
}

func (s TaskStatus) Valid() bool {
	for _, v := range TaskStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// ParseTaskStatus accepts only the exact enum values. An empty string is
// rejected too; callers that want a default apply it before parsing.
func ParseTaskStatus(s string) (TaskStatus, error) {
	status := TaskStatus(s)
	if !status.Valid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// StatusList renders the accepted statuses as "pending, completed, in_progress".
func StatusList() string {
	names := make([]string, 0, len(TaskStatuses))
	for _, s := range TaskStatuses {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}

type Task struct {
	ID        string     `json:"id" dynamodbav:"id"`
	Name      string     `json:"name" dynamodbav:"name"`
	DueDate   string     `json:"due_date" dynamodbav:"due_date"`
	Status    TaskStatus `json:"status" dynamodbav:"status"`
	CreatedAt time.Time  `json:"created_at" dynamodbav:"created_at"`
}
