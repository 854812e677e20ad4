// Package backend abstracts the raster I/O library behind a narrow
// interface so the windowing logic can be tested against an in-memory
// implementation without real files.
package backend

import "context"

// DataType identifies the pixel type of a band, mirroring the GDAL type
// enumeration for the types this system reads and writes.
type DataType int

const (
	Unknown DataType = iota
	Byte
	Int16
	UInt16
	Int32
	UInt32
	Float32
	Float64
)

var dataTypeNames = map[DataType]string{
	Unknown: "Unknown",
	Byte:    "Byte",
	Int16:   "Int16",
	UInt16:  "UInt16",
	Int32:   "Int32",
	UInt32:  "UInt32",
	Float32: "Float32",
	Float64: "Float64",
}

func (dt DataType) String() string {
	if name, ok := dataTypeNames[dt]; ok {
		return name
	}
	return "Unknown"
}

// Size returns the width of one pixel of this type in bytes.
func (dt DataType) Size() int {
	switch dt {
	case Byte:
		return 1
	case Int16, UInt16:
		return 2
	case Int32, UInt32, Float32:
		return 4
	case Float64:
		return 8
	default:
		return 0
	}
}

// Backend opens, creates and removes raster datasets.
type Backend interface {
	// Open opens the dataset at path read-only.
	Open(ctx context.Context, path string) (Dataset, error)
	// Create creates a new dataset at path with the given driver,
	// dimensions, band count and pixel type. creation holds
	// driver-specific creation options like "TILED=YES".
	Create(ctx context.Context, path, driver string, cols, rows, bands int, dt DataType, creation []string) (Dataset, error)
	// Exists reports whether a dataset already exists at path.
	Exists(path string) bool
	// Delete removes the dataset at path.
	Delete(path string) error
}

// Dataset is one open raster dataset handle. Band numbers are 1-based,
// following the backing library's convention.
type Dataset interface {
	Cols() int
	Rows() int
	BandCount() int
	GeoTransform() ([6]float64, error)
	SetGeoTransform(gt [6]float64) error
	Projection() string
	SetProjection(wkt string) error
	DriverID() string
	Band(band int) (Band, error)
	Close() error
}

// Band is one data layer of an open dataset.
type Band interface {
	// NoData returns the band's nodata value. ok is false when the band
	// has no nodata value defined.
	NoData() (nodata float64, ok bool)
	SetNoData(nodata float64) error
	DataType() DataType
	// ReadWindow reads a rectangle of the band into a row-major slice of
	// length xSize*ySize.
	ReadWindow(xOff, yOff, xSize, ySize int) ([]float64, error)
	// WriteWindow writes a row-major slice of length xSize*ySize into a
	// rectangle of the band.
	WriteWindow(xOff, yOff, xSize, ySize int, data []float64) error
}
