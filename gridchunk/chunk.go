// Package gridchunk reads rectangular, optionally buffer-padded windows of
// multi-band georeferenced grids into memory and writes their unpadded core
// back out through a raster backend.
package gridchunk

import (
	"math"

	"github.com/flatgeo/gridchunk/gridchunk/backend"
)

// RasterChunk holds the pixels and metadata for one rectangular window of
// a grid file, padded by Buffer cells on every side. Rows and Cols are the
// core window dimensions and exclude the buffer. Cells of the padding that
// fall outside the source extent hold the nodata value (or 0 when none is
// defined).
//
// Band numbers in the accessors are 1-based, matching the backend
// convention; rows and columns are 0-based. Data is the chunk's own flat
// band-major buffer of Bands*PaddedRows()*PaddedCols() values and is never
// shared between chunks.
type RasterChunk struct {
	Rows   int
	Cols   int
	Buffer int
	Bands  int

	// XStart, YStart is the core window origin in source pixel
	// coordinates.
	XStart int
	YStart int

	DataType     backend.DataType
	GeoTransform [6]float64
	Projection   string
	CellSize     float64
	NoData       *float64
	DriverID     string

	Data []float64
}

// PaddedRows returns the buffer-inclusive row count.
func (c *RasterChunk) PaddedRows() int { return c.Rows + 2*c.Buffer }

// PaddedCols returns the buffer-inclusive column count.
func (c *RasterChunk) PaddedCols() int { return c.Cols + 2*c.Buffer }

// FillValue returns the value padding cells are initialized to: the nodata
// value when one is defined, 0 otherwise.
func (c *RasterChunk) FillValue() float64 {
	if c.NoData != nil {
		return *c.NoData
	}
	return 0
}

// bandOffset returns the offset of the 0-based plane inside Data. This is
// the only place the 1-based band convention of the public API meets the
// 0-based storage layout.
func (c *RasterChunk) bandOffset(plane int) int {
	return plane * c.PaddedRows() * c.PaddedCols()
}

// Value returns one cell of the padded buffer. band is 1-based; row and
// col are 0-based padded coordinates.
func (c *RasterChunk) Value(band, row, col int) float64 {
	return c.Data[c.bandOffset(band-1)+row*c.PaddedCols()+col]
}

// SetValue sets one cell of the padded buffer.
func (c *RasterChunk) SetValue(band, row, col int, v float64) {
	c.Data[c.bandOffset(band-1)+row*c.PaddedCols()+col] = v
}

// CoreValue returns one cell of the unpadded core window. row and col are
// 0-based core coordinates.
func (c *RasterChunk) CoreValue(band, row, col int) float64 {
	return c.Value(band, row+c.Buffer, col+c.Buffer)
}

// coreRow returns one row of the core window of the 1-based band as a
// slice into Data.
func (c *RasterChunk) coreRow(band, row int) []float64 {
	off := c.bandOffset(band-1) + (row+c.Buffer)*c.PaddedCols() + c.Buffer
	return c.Data[off : off+c.Cols]
}

// CoreGeoTransform returns the source geotransform with its origin moved
// to the core window origin, so a file holding just the core georeferences
// correctly.
func (c *RasterChunk) CoreGeoTransform() [6]float64 {
	gt := c.GeoTransform
	gt[0] = c.GeoTransform[0] + float64(c.XStart)*c.GeoTransform[1] + float64(c.YStart)*c.GeoTransform[2]
	gt[3] = c.GeoTransform[3] + float64(c.XStart)*c.GeoTransform[4] + float64(c.YStart)*c.GeoTransform[5]
	return gt
}

// cellSize derives the scalar cell size from a geotransform, assuming
// square axis-aligned pixels.
func cellSize(gt [6]float64) float64 {
	return math.Abs(gt[5])
}
