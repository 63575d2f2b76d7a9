package extraction

import "audio-extractor/domain/audio"

// Run carries the transcript and batch result through one batch.
// It is created by the caller, threaded through every step and handed back.
type Run struct {
	Transcript *audio.Transcript
	Result     *audio.BatchResult
}

// NewRun creates an empty Run
func NewRun() *Run {
	return &Run{
		Transcript: audio.NewTranscript(),
		Result:     &audio.BatchResult{},
	}
}
