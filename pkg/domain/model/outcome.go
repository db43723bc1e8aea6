package model

// Outcome is the terminal state of a save call
type Outcome string

const (
	OutcomeSaved     Outcome = "saved"
	OutcomeCancelled Outcome = "cancelled"
	OutcomeFailed    Outcome = "failed"
)

// Bool converts the outcome to the boolean result returned to callers
func (o Outcome) Bool() bool {
	return o == OutcomeSaved
}

func (o Outcome) String() string {
	return string(o)
}
