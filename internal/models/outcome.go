package models

// OutcomeKind enumerates the terminal states of a download session.
type OutcomeKind int

const (
	OutcomeSucceeded OutcomeKind = iota
	OutcomeAlreadyExists
	OutcomeCancelled
	OutcomeRestricted
	OutcomeFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSucceeded:
		return "Succeeded"
	case OutcomeAlreadyExists:
		return "Already Exists"
	case OutcomeCancelled:
		return "Cancelled"
	case OutcomeRestricted:
		return "Restricted"
	case OutcomeFailed:
		return "Failed"
	}
	return "Unknown"
}

// Outcome is the terminal result reported toward the caller.
type Outcome struct {
	Kind OutcomeKind

	// Files are the completed filenames (Succeeded).
	Files []string

	// Filename is the pre-existing file (AlreadyExists).
	Filename string

	// Message carries the failure or restriction detail.
	Message string
}
