package service

import "time"

// DiagnosticFilter narrows the attempt history by time range and outcome.
type DiagnosticFilter struct {
	From    time.Time // inclusive; zero means no lower bound
	To      time.Time // inclusive; zero means no upper bound
	Outcome string    // "", "DISPLAYED", "TIMEOUT", ...
}
