package domain

import "fmt"

// StateCheck controls how a callback with an unknown state is treated.
type StateCheck string

const (
	// StateCheckStrict rejects callbacks whose state has no side record.
	StateCheckStrict StateCheck = "strict"

	// StateCheckAdvisory logs the mismatch and proceeds. The tenant then
	// comes from the issuer's response, which requires the domain policy.
	StateCheckAdvisory StateCheck = "advisory"
)

// ParseStateCheck validates a configured state check mode.
// An empty value selects strict.
func ParseStateCheck(s string) (StateCheck, error) {
	switch StateCheck(s) {
	case StateCheckStrict, "":
		return StateCheckStrict, nil
	case StateCheckAdvisory:
		return StateCheckAdvisory, nil
	default:
		return "", fmt.Errorf("%w: unknown state check %q", ErrConfiguration, s)
	}
}
