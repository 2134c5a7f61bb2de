package constant

// Turn roles.
const (
	RoleClient  = "client"
	RoleTrainee = "trainee"
)

// Session modes.
const (
	ModeTraining = "training"
	ModeExam     = "exam"
)

// Session statuses. A session leaves ACTIVE exactly once.
const (
	StatusActive         = "ACTIVE"
	StatusTerminatedFail = "TERMINATED_FAIL"
	StatusCompletedPass  = "COMPLETED_PASS"
	StatusCompletedFail  = "COMPLETED_FAIL"
)

// Pass/fail verdicts.
const (
	VerdictPass = "PASS"
	VerdictFail = "FAIL"
)

// Termination reasons.
const (
	TerminationAbuse     = "ABUSE"
	TerminationProfanity = "PROFANITY"
)

// Default session lengths per mode.
const (
	DefaultTrainingSteps = 8
	DefaultExamSteps     = 10
)
