package input

import "context"

type ExecuteResult struct {
	FinalAnswer string
	Iterations  int
}

// TaskExecutor runs the planning agent on one user message. The agent may
// call any number of task tools before producing FinalAnswer.
type TaskExecutor interface {
	Execute(ctx context.Context, message string) (*ExecuteResult, error)
}
