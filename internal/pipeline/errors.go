package pipeline

import (
	"fmt"

	"scribe/internal/stage"
)

// MissingPrerequisiteError reports a generation request whose upstream
// artifact does not exist. No provider call is made in this case.
type MissingPrerequisiteError struct {
	Target  stage.Stage
	Missing stage.Stage
}

func (e *MissingPrerequisiteError) Error() string {
	return fmt.Sprintf("cannot generate %s: %s has not been generated", e.Target, e.Missing)
}

// NavigationError reports a rejected stage navigation.
type NavigationError struct {
	Target stage.Stage
	Latest stage.Stage
}

func (e *NavigationError) Error() string {
	if e.Target == stage.Audio {
		return "audio is not a navigable stage"
	}
	return fmt.Sprintf("cannot navigate to %s: latest generated stage is %s", e.Target, e.Latest)
}
