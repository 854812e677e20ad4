package backend

import (
	"context"
	"testing"
)

func TestMemBackend_OpenMissing(t *testing.T) {
	b := NewMemBackend()
	if _, err := b.Open(context.Background(), "/nope.tif"); err == nil {
		t.Fatal("Open() expected error for missing dataset")
	}
}

func TestMemBackend_CreateExistsDelete(t *testing.T) {
	b := NewMemBackend()
	ctx := context.Background()

	ds, err := b.Create(ctx, "/a.tif", "GTiff", 4, 3, 2, Float32, []string{"TILED=YES"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if ds.Cols() != 4 || ds.Rows() != 3 || ds.BandCount() != 2 {
		t.Errorf("dims = %dx%dx%d, want 4x3x2", ds.Cols(), ds.Rows(), ds.BandCount())
	}
	if ds.DriverID() != "GTiff" {
		t.Errorf("DriverID() = %q, want GTiff", ds.DriverID())
	}
	if err := ds.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := ds.Close(); err == nil {
		t.Error("second Close() on the same handle should fail")
	}

	if !b.Exists("/a.tif") {
		t.Error("Exists() = false after Create")
	}
	if _, err := b.Create(ctx, "/a.tif", "GTiff", 4, 3, 2, Float32, nil); err == nil {
		t.Error("Create() over an existing path should fail")
	}

	if err := b.Delete("/a.tif"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if b.Exists("/a.tif") {
		t.Error("Exists() = true after Delete")
	}
	if err := b.Delete("/a.tif"); err == nil {
		t.Error("Delete() of a missing dataset should fail")
	}
}

func TestMemBand_WindowRoundTrip(t *testing.T) {
	ds := NewMemDataset(6, 5, 1, Float64)
	h := &memHandle{ds: ds}
	band, err := h.Band(1)
	if err != nil {
		t.Fatalf("Band(1) error = %v", err)
	}

	data := []float64{1, 2, 3, 4, 5, 6}
	if err := band.WriteWindow(2, 1, 3, 2, data); err != nil {
		t.Fatalf("WriteWindow() error = %v", err)
	}
	got, err := band.ReadWindow(2, 1, 3, 2)
	if err != nil {
		t.Fatalf("ReadWindow() error = %v", err)
	}
	for i := range data {
		if got[i] != data[i] {
			t.Fatalf("ReadWindow() = %v, want %v", got, data)
		}
	}
	if v := ds.Value(1, 1, 2); v != 1 {
		t.Errorf("Value(1, 1, 2) = %v, want 1", v)
	}
	if v := ds.Value(1, 2, 4); v != 6 {
		t.Errorf("Value(1, 2, 4) = %v, want 6", v)
	}
}

func TestMemBand_WindowBounds(t *testing.T) {
	ds := NewMemDataset(4, 4, 1, Float64)
	h := &memHandle{ds: ds}
	band, _ := h.Band(1)

	tests := []struct {
		name                     string
		xOff, yOff, xSize, ySize int
	}{
		{"negative offset", -1, 0, 2, 2},
		{"overhangs right", 3, 0, 2, 2},
		{"overhangs bottom", 0, 3, 2, 2},
		{"empty window", 0, 0, 0, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := band.ReadWindow(tt.xOff, tt.yOff, tt.xSize, tt.ySize); err == nil {
				t.Error("ReadWindow() expected error")
			}
		})
	}
}

func TestMemBand_NoData(t *testing.T) {
	ds := NewMemDataset(2, 2, 2, Float32)
	h := &memHandle{ds: ds}

	band1, _ := h.Band(1)
	if _, ok := band1.NoData(); ok {
		t.Error("NoData() = ok before any value is set")
	}
	if err := band1.SetNoData(-9999); err != nil {
		t.Fatalf("SetNoData() error = %v", err)
	}
	if nd, ok := band1.NoData(); !ok || nd != -9999 {
		t.Errorf("NoData() = %v (%v), want -9999", nd, ok)
	}

	// Bands keep independent nodata values.
	band2, _ := h.Band(2)
	if _, ok := band2.NoData(); ok {
		t.Error("band 2 inherited band 1's nodata")
	}

	if _, err := h.Band(3); err == nil {
		t.Error("Band(3) of a 2-band dataset should fail")
	}
	if _, err := h.Band(0); err == nil {
		t.Error("Band(0) should fail, bands are 1-based")
	}
}

func TestDataType(t *testing.T) {
	if Float32.String() != "Float32" {
		t.Errorf("Float32.String() = %q", Float32.String())
	}
	if DataType(99).String() != "Unknown" {
		t.Errorf("DataType(99).String() = %q", DataType(99).String())
	}
	if Float64.Size() != 8 || Byte.Size() != 1 || Int16.Size() != 2 || UInt32.Size() != 4 {
		t.Error("DataType.Size() mismatch")
	}
	if Unknown.Size() != 0 {
		t.Errorf("Unknown.Size() = %d, want 0", Unknown.Size())
	}
}
