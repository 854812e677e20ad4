package gridchunk

import (
	"context"
	"fmt"
	"strings"

	"github.com/flatgeo/gridchunk/gridchunk/backend"
	"github.com/flatgeo/gridchunk/gridchunk/logger"
)

// DefaultDriver is the output format used when the source driver cannot
// be written directly.
const DefaultDriver = "GTiff"

// defaultCreationOptions enable tiled layout and large-file support on
// the output.
var defaultCreationOptions = []string{"TILED=YES", "BIGTIFF=IF_SAFER"}

// virtualDrivers are composite or in-memory formats that cannot be
// materialized as standalone output files; chunks sourced from them are
// written with DefaultDriver instead.
var virtualDrivers = map[string]bool{
	"MEM":  true,
	"VRT":  true,
	"WMS":  true,
	"WMTS": true,
	"WCS":  true,
}

// ChunkWriter persists the unpadded core of chunks to new grid files.
type ChunkWriter interface {
	// WriteChunk writes chunk's core region (the buffer margin is
	// discarded) to a new dataset at outPath. It fails with
	// ErrAlreadyExists when outPath exists, and removes the output again
	// if any band write fails.
	WriteChunk(ctx context.Context, chunk *RasterChunk, outPath string, progress ProgressCallback) error
}

type chunkWriter struct {
	backend backend.Backend
}

// NewChunkWriter creates a ChunkWriter over the given backend.
func NewChunkWriter(b backend.Backend) ChunkWriter {
	return &chunkWriter{backend: b}
}

// outputDriver picks the driver for the output dataset, substituting
// DefaultDriver for virtual source formats.
func outputDriver(driverID string) string {
	if driverID == "" || virtualDrivers[strings.ToUpper(driverID)] {
		return DefaultDriver
	}
	return driverID
}

func (w *chunkWriter) WriteChunk(ctx context.Context, chunk *RasterChunk, outPath string, progress ProgressCallback) error {
	// Checked before anything touches the filesystem.
	if w.backend.Exists(outPath) {
		return NewAlreadyExistsError(outPath)
	}

	driver := outputDriver(chunk.DriverID)
	if driver != chunk.DriverID {
		logger.Debug("substituting %s for non-materializable driver %q", driver, chunk.DriverID)
	}

	out, err := w.backend.Create(ctx, outPath, driver, chunk.Cols, chunk.Rows, chunk.Bands, chunk.DataType, defaultCreationOptions)
	if err != nil {
		return fmt.Errorf("creating output dataset: %w", err)
	}

	if err := w.populate(out, chunk, progress); err != nil {
		// A failed write must not leave a valid-looking partial file.
		if closeErr := out.Close(); closeErr != nil {
			logger.Warn("closing partial output %s: %v", outPath, closeErr)
		}
		if delErr := w.backend.Delete(outPath); delErr != nil {
			logger.Warn("removing partial output %s: %v", outPath, delErr)
		}
		if band, ok := failedBand(err); ok {
			return NewPartialWriteError(outPath, band, err)
		}
		return err
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("closing output dataset: %w", err)
	}
	logger.Info("wrote %d-band %dx%d chunk to %s (%s)", chunk.Bands, chunk.Cols, chunk.Rows, outPath, driver)
	return nil
}

// populate sets the output's georeferencing and writes the core region of
// every band.
func (w *chunkWriter) populate(out backend.Dataset, chunk *RasterChunk, progress ProgressCallback) error {
	if err := out.SetGeoTransform(chunk.CoreGeoTransform()); err != nil {
		return fmt.Errorf("setting geotransform: %w", err)
	}
	if err := out.SetProjection(chunk.Projection); err != nil {
		return fmt.Errorf("setting projection: %w", err)
	}

	if progress != nil {
		progress(0, int64(chunk.Bands))
	}

	core := make([]float64, chunk.Rows*chunk.Cols)
	for band := 1; band <= chunk.Bands; band++ {
		b, err := out.Band(band)
		if err != nil {
			return fmt.Errorf("accessing output band %d: %w", band, err)
		}
		if chunk.NoData != nil {
			if err := b.SetNoData(*chunk.NoData); err != nil {
				return fmt.Errorf("setting nodata on band %d: %w", band, err)
			}
		}

		// Crop the buffer margin: only the core sub-region of the padded
		// plane goes to disk.
		for row := 0; row < chunk.Rows; row++ {
			copy(core[row*chunk.Cols:(row+1)*chunk.Cols], chunk.coreRow(band, row))
		}
		if err := b.WriteWindow(0, 0, chunk.Cols, chunk.Rows, core); err != nil {
			return &bandWriteError{band: band, cause: err}
		}

		if progress != nil {
			progress(int64(band), int64(chunk.Bands))
		}
	}
	return nil
}

// bandWriteError carries the failing band number out of populate so
// WriteChunk can attach it to the partial-write error.
type bandWriteError struct {
	band  int
	cause error
}

func (e *bandWriteError) Error() string {
	return fmt.Sprintf("writing band %d: %v", e.band, e.cause)
}

func (e *bandWriteError) Unwrap() error { return e.cause }

func failedBand(err error) (int, bool) {
	if bw, ok := err.(*bandWriteError); ok {
		return bw.band, true
	}
	return 0, false
}
