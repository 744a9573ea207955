package domain

// Status describes where a visualization run is in its lifecycle.
type Status string

const (
	StatusStart    Status = "start"    // Nothing stepped yet (or just reset)
	StatusRunning  Status = "running"  // At least one step applied
	StatusFinished Status = "finished" // Sorter reported completion
)

// Frame is a snapshot of a run taken after a step.
// It carries everything a renderer needs besides the numbers themselves.
type Frame struct {
	Algorithm   string    `json:"algorithm"`
	Step        int       `json:"step"`
	Highlight   Highlight `json:"highlight"`
	Reason      Reason    `json:"reason"`
	Status      Status    `json:"status"`
	Comparisons int       `json:"comparisons"`
	Swaps       int       `json:"swaps"`
}

// Finished reports whether the frame belongs to a completed run.
func (f Frame) Finished() bool {
	return f.Status == StatusFinished
}
