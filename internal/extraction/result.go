package extraction

// State tells how an extractor finished.
type State int

const (
	// NotFound means the section or pattern was absent; the field stays unset.
	NotFound State = iota
	// Found means Value holds the extracted data.
	Found
	// Malformed means the data was located but is corrupt; Err says why.
	Malformed
)

func (s State) String() string {
	switch s {
	case Found:
		return "found"
	case Malformed:
		return "malformed"
	default:
		return "not found"
	}
}

// Result is the outcome of one field extractor.
type Result[T any] struct {
	Value T
	State State
	Err   error
}

func found[T any](v T) Result[T] {
	return Result[T]{Value: v, State: Found}
}

func notFound[T any]() Result[T] {
	return Result[T]{State: NotFound}
}

func malformed[T any](err error) Result[T] {
	return Result[T]{State: Malformed, Err: err}
}

// Get returns the value and whether it was found.
func (r Result[T]) Get() (T, bool) {
	return r.Value, r.State == Found
}
