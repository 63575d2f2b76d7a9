package audio

import (
	"fmt"
	"strings"
)

// Transcript is the user-visible run log
type Transcript struct {
	lines []string
}

// NewTranscript creates an empty transcript
func NewTranscript() *Transcript {
	return &Transcript{}
}

// Add appends one or more lines
func (t *Transcript) Add(lines ...string) {
	t.lines = append(t.lines, lines...)
}

// Addf appends a formatted line
func (t *Transcript) Addf(format string, args ...any) {
	t.lines = append(t.lines, fmt.Sprintf(format, args...))
}

// Lines returns a copy of the transcript lines
func (t *Transcript) Lines() []string {
	return append([]string(nil), t.lines...)
}

// Len returns the number of lines
func (t *Transcript) Len() int {
	return len(t.lines)
}

func (t *Transcript) String() string {
	return strings.Join(t.lines, "\n")
}

// ItemResult records the outcome for one uploaded file
type ItemResult struct {
	Name       string
	OutputPath string
	Succeeded  bool
	Size       int64
}

// BatchResult holds the outcome of one batch, in upload order
type BatchResult struct {
	Items     []ItemResult
	Outputs   []string
	Succeeded int
	Failed    int
}

// Record appends an item outcome. Only successful items contribute an output
// path, and a path written twice is listed once.
func (r *BatchResult) Record(item ItemResult) {
	r.Items = append(r.Items, item)
	if !item.Succeeded {
		r.Failed++
		return
	}
	r.Succeeded++
	for _, existing := range r.Outputs {
		if existing == item.OutputPath {
			return
		}
	}
	r.Outputs = append(r.Outputs, item.OutputPath)
}

// Total returns the number of processed items
func (r *BatchResult) Total() int {
	return len(r.Items)
}

// ExistingOutputs returns the output paths that are still on disk.
// Outputs may be removed after they were recorded, so downloads re-check here.
func (r *BatchResult) ExistingOutputs(checker FileChecker) []string {
	var existing []string
	for _, p := range r.Outputs {
		if checker.Exists(p) {
			existing = append(existing, p)
		}
	}
	return existing
}
