package domain

import "errors"

// Run-level failures. These abort a validation run before any pose is processed.
var (
	ErrTopologySource = errors.New("topology source error")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// Pose-level failures. Recorded on the pose's ValidationResult.
var (
	ErrPoseParse            = errors.New("pose parse error")
	ErrNoPeptideAtoms       = errors.New("no peptide atoms found")
	ErrAlignmentUnavailable = errors.New("alignment unavailable")
)

// Target-level failures. The target is skipped with a warning.
var (
	ErrMissingScoreFile = errors.New("missing score file")
	ErrMissingPoseFiles = errors.New("no pose files found")
)
