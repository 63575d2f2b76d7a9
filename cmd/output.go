package cmd

import "os"

// OutputWriter is an interface for writing output (allows testing)
type OutputWriter interface {
	Write(p []byte) (n int, err error)
}

// DefaultOutput is the default output writer for commands
var DefaultOutput OutputWriter = os.Stdout
