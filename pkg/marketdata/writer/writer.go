package writer

import (
	"github.com/rxtech-lab/argo-medallion/internal/types"
)

// MarketDataWriter defines the interface for writing provider bars to a bronze file.
type MarketDataWriter interface {
	// Initialize creates the destination file and writes its header.
	Initialize() error
	// Write persists a single bar.
	Write(data types.Bar) error
	// Finalize flushes and closes the file and returns its path.
	Finalize() (outputPath string, err error)
	// Close releases any resources held by the writer. A file that was never
	// finalized is removed.
	Close() error
	// GetOutputPath returns the path of the file being written.
	GetOutputPath() string
	// Rows returns the number of bars written so far.
	Rows() int
}
