package backend

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/airbusgeo/godal"
)

var registerOnce sync.Once

// GDALBackend implements Backend on top of the godal GDAL binding.
type GDALBackend struct{}

// NewGDALBackend constructs a GDALBackend, registering the GDAL drivers on
// first use.
func NewGDALBackend() *GDALBackend {
	registerOnce.Do(godal.RegisterAll)
	return &GDALBackend{}
}

// driverByExt maps file extensions to GDAL driver short names. godal does
// not expose the driver of an open dataset, so the driver ID is derived
// from the path, falling back to GTiff.
var driverByExt = map[string]string{
	".tif":  "GTiff",
	".tiff": "GTiff",
	".vrt":  "VRT",
	".img":  "HFA",
	".asc":  "AAIGrid",
	".nc":   "netCDF",
	".jp2":  "OpenJPEG",
	".png":  "PNG",
	".jpg":  "JPEG",
	".jpeg": "JPEG",
}

func driverForPath(path string) string {
	if drv, ok := driverByExt[strings.ToLower(filepath.Ext(path))]; ok {
		return drv
	}
	return "GTiff"
}

// Open opens the dataset at path read-only.
func (g *GDALBackend) Open(ctx context.Context, path string) (Dataset, error) {
	ds, err := godal.Open(path)
	if err != nil {
		return nil, err
	}
	return &gdalDataset{ds: ds, driver: driverForPath(path)}, nil
}

// Create creates a new dataset at path.
func (g *GDALBackend) Create(ctx context.Context, path, driver string, cols, rows, bands int, dt DataType, creation []string) (Dataset, error) {
	opts := []godal.DatasetCreateOption{}
	if len(creation) > 0 {
		opts = append(opts, godal.CreationOption(creation...))
	}
	ds, err := godal.Create(godal.DriverName(driver), path, bands, toGodalType(dt), cols, rows, opts...)
	if err != nil {
		return nil, err
	}
	return &gdalDataset{ds: ds, driver: driver}, nil
}

// Exists reports whether path refers to an existing file.
func (g *GDALBackend) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Delete removes the file at path. Sidecar files some drivers create are
// left behind; the main dataset file is what makes a partial output
// discoverable.
func (g *GDALBackend) Delete(path string) error {
	return os.Remove(path)
}

type gdalDataset struct {
	ds     *godal.Dataset
	driver string
}

func (d *gdalDataset) Cols() int      { return d.ds.Structure().SizeX }
func (d *gdalDataset) Rows() int      { return d.ds.Structure().SizeY }
func (d *gdalDataset) BandCount() int { return d.ds.Structure().NBands }

// GeoTransform returns the dataset geotransform, falling back to the GDAL
// default transform when the dataset has none.
func (d *gdalDataset) GeoTransform() ([6]float64, error) {
	gt, err := d.ds.GeoTransform()
	if err != nil {
		return [6]float64{0, 1, 0, 0, 0, 1}, nil
	}
	return gt, nil
}

func (d *gdalDataset) SetGeoTransform(gt [6]float64) error {
	return d.ds.SetGeoTransform(gt)
}

func (d *gdalDataset) Projection() string { return d.ds.Projection() }

func (d *gdalDataset) SetProjection(wkt string) error {
	return d.ds.SetProjection(wkt)
}

func (d *gdalDataset) DriverID() string { return d.driver }

func (d *gdalDataset) Band(band int) (Band, error) {
	bands := d.ds.Bands()
	if band < 1 || band > len(bands) {
		return nil, fmt.Errorf("band %d out of range [1, %d]", band, len(bands))
	}
	return &gdalBand{band: bands[band-1]}, nil
}

func (d *gdalDataset) Close() error { return d.ds.Close() }

type gdalBand struct {
	band godal.Band
}

func (b *gdalBand) NoData() (float64, bool) { return b.band.NoData() }

func (b *gdalBand) SetNoData(nodata float64) error { return b.band.SetNoData(nodata) }

func (b *gdalBand) DataType() DataType {
	return fromGodalType(b.band.Structure().DataType)
}

// ReadWindow reads a rectangle of the band as float64; GDAL converts from
// the band's storage type.
func (b *gdalBand) ReadWindow(xOff, yOff, xSize, ySize int) ([]float64, error) {
	buf := make([]float64, xSize*ySize)
	if err := b.band.Read(xOff, yOff, buf, xSize, ySize); err != nil {
		return nil, err
	}
	return buf, nil
}

func (b *gdalBand) WriteWindow(xOff, yOff, xSize, ySize int, data []float64) error {
	if len(data) != xSize*ySize {
		return fmt.Errorf("%d values for a %dx%d window", len(data), xSize, ySize)
	}
	return b.band.Write(xOff, yOff, data, xSize, ySize)
}

func toGodalType(dt DataType) godal.DataType {
	switch dt {
	case Byte:
		return godal.Byte
	case Int16:
		return godal.Int16
	case UInt16:
		return godal.UInt16
	case Int32:
		return godal.Int32
	case UInt32:
		return godal.UInt32
	case Float32:
		return godal.Float32
	case Float64:
		return godal.Float64
	default:
		return godal.Unknown
	}
}

func fromGodalType(dt godal.DataType) DataType {
	switch dt {
	case godal.Byte:
		return Byte
	case godal.Int16:
		return Int16
	case godal.UInt16:
		return UInt16
	case godal.Int32:
		return Int32
	case godal.UInt32:
		return UInt32
	case godal.Float32:
		return Float32
	case godal.Float64:
		return Float64
	default:
		return Unknown
	}
}
