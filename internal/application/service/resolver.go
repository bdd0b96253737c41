package service

import (
	"strings"

	"task-agent/internal/domain/entity"
)

// ResolveTaskID maps a human-supplied task name to a stored ID.
//
// An exact case-insensitive match wins; failing that, the first task whose
// name contains the query (case-insensitively) is used. Within each pass the
// first task in scan order wins, and scan order is whatever the backend
// returns, so duplicates resolve to an unspecified one of them.
func ResolveTaskID(tasks []entity.Task, query string) (string, bool) {
	task, ok := resolveTask(tasks, query)
	if !ok {
		return "", false
	}
	return task.ID, true
}

func resolveTask(tasks []entity.Task, query string) (entity.Task, bool) {
	query = strings.TrimSpace(query)
	if query == "" {
		return entity.Task{}, false
	}

	for _, t := range tasks {
		if strings.EqualFold(t.Name, query) {
			return t, true
		}
	}

	needle := strings.ToLower(query)
	for _, t := range tasks {
		if strings.Contains(strings.ToLower(t.Name), needle) {
			return t, true
		}
	}

	return entity.Task{}, false
}
