package osmio

import (
	"io"
	"os"
)

// openOutput opens path for writing, truncating any existing file, or
// returns stdout when path is empty (spec.md §6: omitting -o/--output
// writes to standard output).
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

// nopCloser wraps an io.Writer that must not be closed by the writer
// implementations above, such as os.Stdout.
type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
