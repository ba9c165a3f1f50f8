package repair

const (
	stepPolicyRequiredLabelConstant   = "required"
	stepPolicyBestEffortLabelConstant = "best-effort"
)

// StepPolicy specifies how the service treats a failing repair step.
type StepPolicy int

const (
	// StepRequired aborts the current branch repair when the step fails.
	StepRequired StepPolicy = iota
	// StepBestEffort continues the current branch repair when the step fails.
	StepBestEffort
)

// IsRequired reports whether a failing step must abort the branch repair.
func (policy StepPolicy) IsRequired() bool {
	return policy == StepRequired
}

// String names the policy for logging.
func (policy StepPolicy) String() string {
	if policy == StepBestEffort {
		return stepPolicyBestEffortLabelConstant
	}
	return stepPolicyRequiredLabelConstant
}
