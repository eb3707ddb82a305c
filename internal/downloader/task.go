package downloader

import (
	"strings"

	"github.com/ligustah/symfetch/internal/idset"
)

// Status is the terminal status of a task.
type Status string

const (
	// StatusOK means the asset was downloaded and stored.
	StatusOK Status = "ok"
	// StatusSkipped means the asset already existed and overwrite was off.
	StatusSkipped Status = "skipped"
	// StatusNotFound means the origin answered 404.
	StatusNotFound Status = "not_found"
	// StatusError means the task failed; Message says why.
	StatusError Status = "error"
)

// Task describes the download of one symbol.
type Task struct {
	ID   int    // symbol id
	Name string // object name in the content store
	URL  string // source URL
}

// NewTask builds the task for id against baseURL.
func NewTask(baseURL string, id int) Task {
	name := idset.ObjectName(id)
	return Task{
		ID:   id,
		Name: name,
		URL:  strings.TrimRight(baseURL, "/") + "/" + name,
	}
}

// NewTasks builds one task per id, in order.
func NewTasks(baseURL string, ids []int) []Task {
	tasks := make([]Task, len(ids))
	for i, id := range ids {
		tasks[i] = NewTask(baseURL, id)
	}
	return tasks
}

// Result is the outcome of one task.
type Result struct {
	ID      int
	Status  Status
	URL     string
	Path    string // set for ok and skipped
	Message string // set for not_found and error

	Attempts int   // requests issued
	Bytes    int64 // bytes stored, ok only
}
