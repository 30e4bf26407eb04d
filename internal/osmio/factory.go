package osmio

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/wegman-software/osmfilter-go/internal/config"
	"github.com/wegman-software/osmfilter-go/internal/driver"
)

// closer is satisfied by every concrete reader above; it lets OpenInput
// return a single value the caller can both read from and close without
// a type switch.
type closer interface {
	Close() error
}

type readCloser interface {
	driver.ObjectReader
	closer
}

// OpenInput dispatches on path's extension to the matching reader:
// .pbf for Protocol Buffer input, .osc/.osc.gz for an OSM change file,
// anything else for plain .osm XML (spec.md §3 takes the object stream
// as given; format detection is this module's own addition).
func OpenInput(path string, verbose bool) (readCloser, error) {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".pbf"):
		return OpenPBF(path, verbose)
	case strings.HasSuffix(lower, ".osc") || strings.HasSuffix(lower, ".osc.gz"):
		return OpenOSC(path)
	default:
		return OpenXML(path, verbose)
	}
}

// Opener builds a driver.ReaderOpener bound to path, so the driver can
// reopen the same input for complete-ways' second pass.
func Opener(path string, verbose bool) driver.ReaderOpener {
	return func() (driver.ObjectReader, error) {
		return OpenInput(path, verbose)
	}
}

// OpenOutput builds the writer cfg.OutputFormat selects.
func OpenOutput(ctx context.Context, cfg *config.Config) (driver.ObjectWriter, error) {
	switch cfg.OutputFormat {
	case config.FormatXML:
		return NewXMLWriter(cfg.OutputFile)
	case config.FormatJSON:
		return NewJSONWriter(cfg.OutputFile)
	case config.FormatPGCopy:
		return NewPGWriter(ctx, cfg)
	case config.FormatParquet:
		if cfg.OutputFile == "" {
			return nil, fmt.Errorf("osmio: --output-format parquet requires -o/--output")
		}
		return NewParquetWriter(cfg.OutputFile)
	default:
		return nil, fmt.Errorf("osmio: unknown output format %q", cfg.OutputFormat)
	}
}

// DefaultOutputPath derives an output filename for format from the input
// file's base name. OpenOutput does not use it: with no -o/--output, xml
// and json output go to stdout and parquet output is an error.
func DefaultOutputPath(inputPath string, format config.OutputFormat) string {
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	switch format {
	case config.FormatJSON:
		return base + ".filtered.jsonl"
	case config.FormatParquet:
		return base + ".filtered.parquet"
	default:
		return base + ".filtered.osm"
	}
}
