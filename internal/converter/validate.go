package converter

import (
	"fmt"

	"github.com/fjglira/storeflow/internal/domain"
)

// ValidateSteps checks that every step names a known operation.
func ValidateSteps(steps []domain.Step, r Resolver) error {
	if len(steps) == 0 {
		return fmt.Errorf("scenario has no steps")
	}
	for i, st := range steps {
		if st.Op == "" {
			return fmt.Errorf("step %d has no operation", i+1)
		}
		if !r.Known(st.Op) {
			return fmt.Errorf("step %d: unknown operation %q", i+1, st.Op)
		}
	}
	return nil
}
