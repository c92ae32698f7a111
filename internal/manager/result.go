package manager

// Outcome is how a submit or delete ended.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeCancelled
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return "failed"
	}
}

// Result reports the outcome of a mutation to the caller, which decides how
// to show Message.
type Result[T any] struct {
	Outcome Outcome
	Record  T
	Message string
	Err     error
}

// OK reports whether the mutation succeeded.
func (r Result[T]) OK() bool { return r.Outcome == OutcomeOK }

func failed[T any](err error) Result[T] {
	return Result[T]{Outcome: OutcomeFailed, Err: err, Message: UserMessage(err)}
}
