package upload

// State is the upload controller's position in its lifecycle.
type State int

const (
	StateIdle       State = iota // Nothing in flight
	StateValidating              // Checking the selection, no network yet
	StateUploading               // Request in flight
	StateSucceeded               // Server answered 200/201
	StateFailed                  // Transport error or other status
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateValidating:
		return "Validating"
	case StateUploading:
		return "Uploading"
	case StateSucceeded:
		return "Succeeded"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Busy reports whether a submission is being processed.
func (s State) Busy() bool {
	return s == StateValidating || s == StateUploading
}
