package cli

import (
	"io"
	"os"
)

// Sink opens the destination of a rendered diagram.
type Sink interface {
	Open(filename string) (io.WriteCloser, error)
}

type fileSink struct {
	stdout io.Writer
}

// NewFileSink creates a sink writing to filename, or to stdout when the
// filename is empty or "-".
func NewFileSink() Sink {
	return &fileSink{stdout: os.Stdout}
}

func (s *fileSink) Open(filename string) (io.WriteCloser, error) {
	if filename == "" || filename == "-" {
		return nopCloser{s.stdout}, nil
	}
	return os.Create(filename)
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
