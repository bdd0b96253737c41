package entity

// OutcomeKind classifies the result of a task operation. Everything except
// OutcomeOK and OutcomeEmpty is a soft failure: it is reported as text to the
// agent rather than returned as a Go error.
type OutcomeKind string

const (
	OutcomeOK         OutcomeKind = "ok"
	OutcomeEmpty      OutcomeKind = "empty"
	OutcomeInvalid    OutcomeKind = "invalid"
	OutcomeNotFound   OutcomeKind = "not_found"
	OutcomeStoreError OutcomeKind = "store_error"
)

type Outcome struct {
	Kind    OutcomeKind
	Message string
	Task    *Task
	Tasks   []Task
}

func (o Outcome) Failed() bool {
	switch o.Kind {
	case OutcomeOK, OutcomeEmpty:
		return false
	default:
		return true
	}
}

func (o Outcome) String() string {
	return o.Message
}
