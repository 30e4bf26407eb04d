package osmio

import (
	"io"
	"os"

	pb "gopkg.in/cheggaaa/pb.v1"
)

// progressReader wraps a file's read side with a byte-position progress
// bar on stderr, in the style of the pack's cmd/pbf/cli.progressBar
// helper (maguro-pbf), generalized to any opened input file rather than
// just a PBF.
type progressReader struct {
	r   io.ReadCloser
	bar *pb.ProgressBar
}

// wrapProgress returns f unchanged when enabled is false (or f's size
// can't be determined); otherwise it returns a proxy reader that drives
// a terminal progress bar as bytes are consumed.
func wrapProgress(f *os.File, enabled bool) io.ReadCloser {
	if !enabled {
		return f
	}
	fi, err := f.Stat()
	if err != nil || fi.Size() <= 0 {
		return f
	}
	bar := pb.New(int(fi.Size())).SetUnits(pb.U_BYTES_DEC).SetWidth(79)
	bar.Output = os.Stderr
	bar.Start()
	return progressReader{r: bar.NewProxyReader(f), bar: bar}
}

func (p progressReader) Read(buf []byte) (int, error) { return p.r.Read(buf) }

func (p progressReader) Close() error {
	p.bar.Output = nil
	p.bar.NotPrint = true
	p.bar.Finish()
	return p.r.Close()
}
