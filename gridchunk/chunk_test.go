package gridchunk

import (
	"testing"

	"github.com/flatgeo/gridchunk/gridchunk/backend"
)

func newTestChunk(rows, cols, buffer, bands int) *RasterChunk {
	c := &RasterChunk{
		Rows:     rows,
		Cols:     cols,
		Buffer:   buffer,
		Bands:    bands,
		DataType: backend.Float64,
	}
	c.Data = make([]float64, bands*c.PaddedRows()*c.PaddedCols())
	return c
}

func TestRasterChunk_PaddedDimensions(t *testing.T) {
	c := newTestChunk(4, 6, 2, 1)
	if got := c.PaddedRows(); got != 8 {
		t.Errorf("PaddedRows() = %d, want 8", got)
	}
	if got := c.PaddedCols(); got != 10 {
		t.Errorf("PaddedCols() = %d, want 10", got)
	}
}

func TestRasterChunk_ValueIndexing(t *testing.T) {
	c := newTestChunk(3, 3, 1, 2)

	c.SetValue(2, 4, 4, 42)
	if got := c.Value(2, 4, 4); got != 42 {
		t.Errorf("Value(2, 4, 4) = %v, want 42", got)
	}
	// Band 2's plane starts after band 1's 5x5 padded plane.
	if got := c.Data[25+4*5+4]; got != 42 {
		t.Errorf("flat index for band 2 cell = %v, want 42", got)
	}
	if got := c.Value(1, 4, 4); got != 0 {
		t.Errorf("Value(1, 4, 4) = %v, want 0 (bands must not alias)", got)
	}
}

func TestRasterChunk_CoreValue(t *testing.T) {
	c := newTestChunk(3, 3, 2, 1)
	c.SetValue(1, 2, 2, 7)
	if got := c.CoreValue(1, 0, 0); got != 7 {
		t.Errorf("CoreValue(1, 0, 0) = %v, want 7", got)
	}
}

func TestRasterChunk_FillValue(t *testing.T) {
	c := newTestChunk(2, 2, 0, 1)
	if got := c.FillValue(); got != 0 {
		t.Errorf("FillValue() with no nodata = %v, want 0", got)
	}
	nd := -9999.0
	c.NoData = &nd
	if got := c.FillValue(); got != -9999 {
		t.Errorf("FillValue() = %v, want -9999", got)
	}

	// nodata of zero is a defined nodata, not "absent"
	zero := 0.0
	c.NoData = &zero
	if c.NoData == nil {
		t.Error("nodata of 0 must stay distinguishable from no nodata")
	}
}

func TestRasterChunk_CoreGeoTransform(t *testing.T) {
	c := newTestChunk(4, 4, 2, 1)
	c.XStart = 8
	c.YStart = 8
	c.GeoTransform = [6]float64{437000, 5, 0, 4130000, 0, -5}

	got := c.CoreGeoTransform()
	want := [6]float64{437040, 5, 0, 4129960, 0, -5}
	if got != want {
		t.Errorf("CoreGeoTransform() = %v, want %v", got, want)
	}
}

func TestRasterChunk_CoreGeoTransformAtOrigin(t *testing.T) {
	c := newTestChunk(10, 10, 0, 1)
	c.GeoTransform = [6]float64{437000, 5, 0, 4130000, 0, -5}

	if got := c.CoreGeoTransform(); got != c.GeoTransform {
		t.Errorf("CoreGeoTransform() at origin = %v, want %v", got, c.GeoTransform)
	}
}
