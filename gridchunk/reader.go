package gridchunk

import (
	"context"
	"fmt"

	"github.com/flatgeo/gridchunk/gridchunk/backend"
	"github.com/flatgeo/gridchunk/gridchunk/logger"
)

// ProgressCallback is called as bands complete to report progress
// current: bands processed so far
// total: total number of bands
type ProgressCallback func(current int64, total int64)

// ChunkReader reads buffer-padded windows of grid files.
type ChunkReader interface {
	// ReadChunk reads a window of cols=readX by rows=readY cells starting
	// at (xStart, yStart), padded by buffer cells on every side. A readX
	// or readY of 0 means the full source extent on that axis. Padding
	// that falls outside the source stays at the nodata fill value.
	ReadChunk(ctx context.Context, sourcePath string, xStart, yStart, readX, readY, buffer int, progress ProgressCallback) (*RasterChunk, error)
}

type chunkReader struct {
	backend backend.Backend
}

// NewChunkReader creates a ChunkReader over the given backend.
func NewChunkReader(b backend.Backend) ChunkReader {
	return &chunkReader{backend: b}
}

func (r *chunkReader) ReadChunk(ctx context.Context, sourcePath string, xStart, yStart, readX, readY, buffer int, progress ProgressCallback) (*RasterChunk, error) {
	src, err := r.backend.Open(ctx, sourcePath)
	if err != nil {
		return nil, NewBackendOpenError(sourcePath, err)
	}
	defer src.Close()

	rows := readY
	if rows == 0 {
		rows = src.Rows()
	}
	cols := readX
	if cols == 0 {
		cols = src.Cols()
	}

	gt, err := src.GeoTransform()
	if err != nil {
		return nil, fmt.Errorf("reading geotransform: %w", err)
	}

	// Nodata and data type come from band 1 and are assumed uniform
	// across bands.
	first, err := src.Band(1)
	if err != nil {
		return nil, fmt.Errorf("accessing band 1: %w", err)
	}
	var noData *float64
	if nd, ok := first.NoData(); ok {
		v := nd
		noData = &v
	}

	chunk := &RasterChunk{
		Rows:         rows,
		Cols:         cols,
		Buffer:       buffer,
		Bands:        src.BandCount(),
		XStart:       xStart,
		YStart:       yStart,
		DataType:     first.DataType(),
		GeoTransform: gt,
		Projection:   src.Projection(),
		CellSize:     cellSize(gt),
		NoData:       noData,
		DriverID:     src.DriverID(),
	}

	// The plan is clamped against the source extent, not the requested
	// window size. Fails before the buffer is allocated.
	plan, err := PlanWindow(xStart, yStart, cols, rows, buffer, src.Cols(), src.Rows())
	if err != nil {
		return nil, err
	}

	logger.Debug("read %s window %dx%d+%d+%d buffer %d: reading %dx%d+%d+%d into [%d:%d)x[%d:%d)",
		sourcePath, cols, rows, xStart, yStart, buffer,
		plan.ReadXSize, plan.ReadYSize, plan.ReadXOff, plan.ReadYOff,
		plan.DstXStart, plan.DstXEnd, plan.DstYStart, plan.DstYEnd)

	paddedCols := chunk.PaddedCols()
	data := make([]float64, chunk.Bands*chunk.PaddedRows()*paddedCols)
	if fill := chunk.FillValue(); fill != 0 {
		for i := range data {
			data[i] = fill
		}
	}

	if progress != nil {
		progress(0, int64(chunk.Bands))
	}

	for band := 1; band <= chunk.Bands; band++ {
		b, err := src.Band(band)
		if err != nil {
			return nil, fmt.Errorf("accessing band %d: %w", band, err)
		}
		window, err := b.ReadWindow(plan.ReadXOff, plan.ReadYOff, plan.ReadXSize, plan.ReadYSize)
		if err != nil {
			return nil, fmt.Errorf("reading band %d: %w", band, err)
		}

		base := chunk.bandOffset(band - 1)
		for row := 0; row < plan.ReadYSize; row++ {
			dst := base + (plan.DstYStart+row)*paddedCols + plan.DstXStart
			copy(data[dst:dst+plan.ReadXSize], window[row*plan.ReadXSize:(row+1)*plan.ReadXSize])
		}

		if progress != nil {
			progress(int64(band), int64(chunk.Bands))
		}
	}

	chunk.Data = data
	logger.Info("read %d-band %dx%d chunk (buffer %d) from %s", chunk.Bands, cols, rows, buffer, sourcePath)
	return chunk, nil
}
