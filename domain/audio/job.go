package audio

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Job describes the extraction of one staged video into one audio file
type Job struct {
	InputPath  string
	OutputPath string
	Format     Format
}

// NewJob creates a Job after validating the output path's format
func NewJob(inputPath, outputPath string) (*Job, error) {
	if inputPath == "" {
		return nil, fmt.Errorf("input path is required")
	}
	format, err := ValidateOutput(outputPath)
	if err != nil {
		return nil, err
	}
	return &Job{
		InputPath:  inputPath,
		OutputPath: outputPath,
		Format:     format,
	}, nil
}

// IntermediatePath returns the lossless scratch file used by the fallback path
func (j *Job) IntermediatePath() string {
	ext := filepath.Ext(j.OutputPath)
	return strings.TrimSuffix(j.OutputPath, ext) + "_temp.wav"
}

// OutputName builds "{prefix}_{base}.{format}", or "{base}.{format}" without a prefix
func OutputName(uploadName, prefix string, format Format) string {
	base := filepath.Base(uploadName)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	prefix = strings.TrimSpace(prefix)
	if prefix != "" {
		return prefix + "_" + base + format.Extension()
	}
	return base + format.Extension()
}
