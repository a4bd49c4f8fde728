package writer

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"

	"github.com/rxtech-lab/argo-medallion/internal/utils"
	"github.com/rxtech-lab/argo-medallion/pkg/errors"
)

// tableSink returns the writer table rows are buffered into. Tests swap it to
// simulate a full disk.
var tableSink = func(f *os.File) io.Writer { return f }

// WriteTable writes a header and rows to a new dir/name.csv and returns its
// path. Silver and gold files go through here. A failed write leaves no file.
func WriteTable(dir, name string, header []string, rows [][]string) (path string, err error) {
	file, created, err := utils.CreateExclusive(dir, name, ".csv")
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to create output file", err)
	}

	// created is never reassigned by the returns below.
	defer func() {
		if err != nil {
			_ = file.Close()
			_ = os.Remove(created)
		}
	}()

	buf := bufio.NewWriter(tableSink(file))
	w := csv.NewWriter(buf)

	if err = w.Write(header); err != nil {
		return "", errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to write header", err)
	}

	if err = w.WriteAll(rows); err != nil {
		return "", errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to write rows", err)
	}

	if err = buf.Flush(); err != nil {
		return "", errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to flush output file", err)
	}

	if err = file.Close(); err != nil {
		return "", errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to close output file", err)
	}

	return created, nil
}
