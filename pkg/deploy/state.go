package deploy

// State is a stage of a deployment run. A run only moves forward; any
// failure ends in Failed.
type State int

const (
	StateIdle State = iota
	StateConfiguring
	StateArchiving
	StateUploading
	StateUnpacking
	StateDone
	StateFailed
)

var stateNames = map[State]string{
	StateIdle:        "idle",
	StateConfiguring: "configuring",
	StateArchiving:   "archiving",
	StateUploading:   "uploading",
	StateUnpacking:   "unpacking",
	StateDone:        "done",
	StateFailed:      "failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Terminal reports whether no further transition can happen
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}

// StageError is returned by Run. Its message is the underlying diagnostic;
// Stage tells where the run stopped.
type StageError struct {
	Stage State
	Err   error
}

func (e *StageError) Error() string { return e.Err.Error() }

func (e *StageError) Unwrap() error { return e.Err }
