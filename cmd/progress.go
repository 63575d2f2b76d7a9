package cmd

import (
	"fmt"
	"io"
	"os"

	"audio-extractor/domain/audio"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// isTerminal reports whether w is an interactive terminal
func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// barProgress renders batch progress as a terminal progress bar
type barProgress struct {
	out io.Writer
	bar *progressbar.ProgressBar
}

func newBarProgress(out io.Writer) *barProgress {
	return &barProgress{out: out}
}

func (p *barProgress) Start(total int) {
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(p.out),
		progressbar.OptionSetDescription("extracting"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetPredictTime(false),
	)
}

func (p *barProgress) Advance(done, total int, name string) {
	if p.bar == nil {
		return
	}
	p.bar.Describe(name)
	_ = p.bar.Set(done)
}

func (p *barProgress) Finish(succeeded, total int) {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
	fmt.Fprintln(p.out)
}

var _ audio.ProgressReporter = (*barProgress)(nil)
