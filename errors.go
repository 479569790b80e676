package nutriplan

import "errors"

var (
	// ErrInvalidRequest is returned for requests rejected before any
	// provider call: non-positive calorie target, empty slot list.
	ErrInvalidRequest = errors.New("invalid plan request")

	// ErrGenerationAborted is returned when a run is cancelled. In-flight
	// work is discarded and no partial plan is returned.
	ErrGenerationAborted = errors.New("plan generation aborted")

	// ErrNoCurrentSelection is returned by queue operations when nothing
	// is being shown to the user.
	ErrNoCurrentSelection = errors.New("no current selection")
)
