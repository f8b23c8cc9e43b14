package sequence

import (
	"errors"
	"fmt"
)

// CounterNotFoundError is raised when counter-existence enforcement is on
// and the native counter for the pair is confirmed absent. It is the only
// error this domain defines; backing-store failures propagate unchanged.
type CounterNotFoundError struct {
	Name       CounterName
	EntityType string
	Attribute  string
}

func (e *CounterNotFoundError) Error() string {
	return fmt.Sprintf("native counter %q not found for %s.%s", e.Name, e.EntityType, e.Attribute)
}

// IsCounterNotFound checks if an error is a CounterNotFoundError
func IsCounterNotFound(err error) bool {
	var target *CounterNotFoundError
	return errors.As(err, &target)
}
