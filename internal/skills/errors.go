package skills

import "fmt"

// InputError means the user input produced no submittable skills.
type InputError struct {
	Message string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("input error: %s", e.Message)
}
