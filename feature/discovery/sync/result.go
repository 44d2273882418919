package sync

// Result accumulates a run's outcome per phase. Counts and errors only ever
// grow during a run; Cleanup prunes empty entries at the end so callers see
// only phases that did something. Partial success is the normal shape: a
// run with both uploads and errors still completed.
type Result struct {
	UploadCounts map[string]int      `json:"uploadCounts,omitempty"`
	Info         map[string]string   `json:"info,omitempty"`
	Errors       map[string][]string `json:"errors,omitempty"`
}

// NewResult creates an empty accumulator.
func NewResult() *Result {
	return &Result{
		UploadCounts: make(map[string]int),
		Info:         make(map[string]string),
		Errors:       make(map[string][]string),
	}
}

// AddCount increments a phase's upload count.
func (r *Result) AddCount(phase string, n int) {
	if n > 0 {
		r.UploadCounts[phase] += n
	}
}

// AddError appends one recoverable error to a phase.
func (r *Result) AddError(phase, msg string) {
	if msg != "" {
		r.Errors[phase] = append(r.Errors[phase], msg)
	}
}

// AddErrors appends several recoverable errors to a phase.
func (r *Result) AddErrors(phase string, msgs []string) {
	for _, msg := range msgs {
		r.AddError(phase, msg)
	}
}

// SetInfo records a phase's informational note.
func (r *Result) SetInfo(phase, msg string) {
	if msg != "" {
		r.Info[phase] = msg
	}
}

// TotalUploads sums the upload counts across phases.
func (r *Result) TotalUploads() int {
	total := 0
	for _, n := range r.UploadCounts {
		total += n
	}
	return total
}

// TotalErrors counts the recorded errors across phases.
func (r *Result) TotalErrors() int {
	total := 0
	for _, errs := range r.Errors {
		total += len(errs)
	}
	return total
}

// Cleanup removes zero counts and empty entries. Returns the receiver for
// chaining at the end of a run.
func (r *Result) Cleanup() *Result {
	for phase, n := range r.UploadCounts {
		if n == 0 {
			delete(r.UploadCounts, phase)
		}
	}
	for phase, msg := range r.Info {
		if msg == "" {
			delete(r.Info, phase)
		}
	}
	for phase, errs := range r.Errors {
		if len(errs) == 0 {
			delete(r.Errors, phase)
		}
	}
	return r
}
