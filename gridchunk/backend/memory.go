package backend

import (
	"context"
	"fmt"
	"sync"
)

// MemBackend is an in-memory Backend implementation for tests and scratch
// datasets. Datasets live in a path-keyed registry guarded by a mutex.
type MemBackend struct {
	mu        sync.RWMutex
	datasets  map[string]*MemDataset
	writeErrs map[string]map[int]error
}

// NewMemBackend constructs an empty MemBackend.
func NewMemBackend() *MemBackend {
	return &MemBackend{
		datasets:  make(map[string]*MemDataset),
		writeErrs: make(map[string]map[int]error),
	}
}

// AddDataset registers a dataset under path, replacing any previous one.
func (m *MemBackend) AddDataset(path string, ds *MemDataset) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.datasets[path] = ds
}

// Dataset returns the dataset registered under path, or nil.
func (m *MemBackend) Dataset(path string) *MemDataset {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.datasets[path]
}

// FailBandWrite makes writes to the given 1-based band of any dataset
// later created at path fail with err.
func (m *MemBackend) FailBandWrite(path string, band int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErrs[path] == nil {
		m.writeErrs[path] = make(map[int]error)
	}
	m.writeErrs[path][band] = err
}

// Open returns a handle on the dataset registered under path.
func (m *MemBackend) Open(ctx context.Context, path string) (Dataset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ds, ok := m.datasets[path]
	if !ok {
		return nil, fmt.Errorf("mem backend: no dataset at %s", path)
	}
	return &memHandle{ds: ds}, nil
}

// Create registers a new dataset at path and returns a handle on it.
func (m *MemBackend) Create(ctx context.Context, path, driver string, cols, rows, bands int, dt DataType, creation []string) (Dataset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.datasets[path]; ok {
		return nil, fmt.Errorf("mem backend: dataset already exists at %s", path)
	}
	if cols <= 0 || rows <= 0 || bands <= 0 {
		return nil, fmt.Errorf("mem backend: invalid dimensions %dx%dx%d", cols, rows, bands)
	}

	ds := NewMemDataset(cols, rows, bands, dt)
	ds.driver = driver
	ds.creation = append([]string(nil), creation...)
	for band, err := range m.writeErrs[path] {
		ds.writeErrs[band] = err
	}
	m.datasets[path] = ds
	return &memHandle{ds: ds}, nil
}

// Exists reports whether a dataset is registered under path.
func (m *MemBackend) Exists(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.datasets[path]
	return ok
}

// Delete removes the dataset registered under path.
func (m *MemBackend) Delete(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.datasets[path]; !ok {
		return fmt.Errorf("mem backend: no dataset at %s", path)
	}
	delete(m.datasets, path)
	return nil
}

// MemDataset holds the pixels and metadata of one in-memory dataset.
// Planes are stored row-major, one per band.
type MemDataset struct {
	cols, rows int
	driver     string
	projection string
	gt         [6]float64
	planes     [][]float64
	nodata     []*float64
	dtype      DataType
	creation   []string
	writeErrs  map[int]error

	// Closes counts handle closes, so tests can assert that every open
	// handle was released exactly once.
	Closes int
}

// NewMemDataset builds a dataset of cols x rows x bands pixels of type dt,
// zero-filled, with the GDAL default geotransform and a "MEM" driver ID.
func NewMemDataset(cols, rows, bands int, dt DataType) *MemDataset {
	planes := make([][]float64, bands)
	for i := range planes {
		planes[i] = make([]float64, cols*rows)
	}
	return &MemDataset{
		cols:      cols,
		rows:      rows,
		driver:    "MEM",
		gt:        [6]float64{0, 1, 0, 0, 0, 1},
		planes:    planes,
		nodata:    make([]*float64, bands),
		dtype:     dt,
		writeErrs: make(map[int]error),
	}
}

// SetDriverID overrides the driver ID reported for this dataset.
func (d *MemDataset) SetDriverID(driver string) { d.driver = driver }

// SetGeoTransform sets the dataset geotransform.
func (d *MemDataset) SetGeoTransform(gt [6]float64) { d.gt = gt }

// SetProjection sets the dataset projection.
func (d *MemDataset) SetProjection(wkt string) { d.projection = wkt }

// SetNoData sets the nodata value of the 1-based band.
func (d *MemDataset) SetNoData(band int, nodata float64) {
	v := nodata
	d.nodata[band-1] = &v
}

// SetValue sets one pixel of the 1-based band.
func (d *MemDataset) SetValue(band, row, col int, v float64) {
	d.planes[band-1][row*d.cols+col] = v
}

// Value returns one pixel of the 1-based band.
func (d *MemDataset) Value(band, row, col int) float64 {
	return d.planes[band-1][row*d.cols+col]
}

// Fill sets every pixel of the 1-based band to v.
func (d *MemDataset) Fill(band int, v float64) {
	plane := d.planes[band-1]
	for i := range plane {
		plane[i] = v
	}
}

// CreationOptions returns the creation options the dataset was created
// with, if it was created through a MemBackend.
func (d *MemDataset) CreationOptions() []string { return d.creation }

// memHandle is one open handle on a MemDataset.
type memHandle struct {
	ds     *MemDataset
	closed bool
}

func (h *memHandle) Cols() int      { return h.ds.cols }
func (h *memHandle) Rows() int      { return h.ds.rows }
func (h *memHandle) BandCount() int { return len(h.ds.planes) }

func (h *memHandle) GeoTransform() ([6]float64, error) { return h.ds.gt, nil }

func (h *memHandle) SetGeoTransform(gt [6]float64) error {
	h.ds.gt = gt
	return nil
}

func (h *memHandle) Projection() string { return h.ds.projection }

func (h *memHandle) SetProjection(wkt string) error {
	h.ds.projection = wkt
	return nil
}

func (h *memHandle) DriverID() string { return h.ds.driver }

func (h *memHandle) Band(band int) (Band, error) {
	if band < 1 || band > len(h.ds.planes) {
		return nil, fmt.Errorf("mem backend: band %d out of range [1, %d]", band, len(h.ds.planes))
	}
	return &memBand{ds: h.ds, band: band}, nil
}

func (h *memHandle) Close() error {
	if h.closed {
		return fmt.Errorf("mem backend: handle closed more than once")
	}
	h.closed = true
	h.ds.Closes++
	return nil
}

// memBand reads and writes windows of one plane of a MemDataset.
type memBand struct {
	ds   *MemDataset
	band int
}

func (b *memBand) NoData() (float64, bool) {
	nd := b.ds.nodata[b.band-1]
	if nd == nil {
		return 0, false
	}
	return *nd, true
}

func (b *memBand) SetNoData(nodata float64) error {
	b.ds.SetNoData(b.band, nodata)
	return nil
}

func (b *memBand) DataType() DataType { return b.ds.dtype }

func (b *memBand) checkWindow(xOff, yOff, xSize, ySize int) error {
	if xSize <= 0 || ySize <= 0 {
		return fmt.Errorf("mem backend: empty window %dx%d", xSize, ySize)
	}
	if xOff < 0 || yOff < 0 || xOff+xSize > b.ds.cols || yOff+ySize > b.ds.rows {
		return fmt.Errorf("mem backend: window [%d,%d)x[%d,%d) outside %dx%d dataset",
			xOff, xOff+xSize, yOff, yOff+ySize, b.ds.cols, b.ds.rows)
	}
	return nil
}

func (b *memBand) ReadWindow(xOff, yOff, xSize, ySize int) ([]float64, error) {
	if err := b.checkWindow(xOff, yOff, xSize, ySize); err != nil {
		return nil, err
	}
	plane := b.ds.planes[b.band-1]
	out := make([]float64, xSize*ySize)
	for row := 0; row < ySize; row++ {
		src := (yOff+row)*b.ds.cols + xOff
		copy(out[row*xSize:(row+1)*xSize], plane[src:src+xSize])
	}
	return out, nil
}

func (b *memBand) WriteWindow(xOff, yOff, xSize, ySize int, data []float64) error {
	if err := b.ds.writeErrs[b.band]; err != nil {
		return err
	}
	if err := b.checkWindow(xOff, yOff, xSize, ySize); err != nil {
		return err
	}
	if len(data) != xSize*ySize {
		return fmt.Errorf("mem backend: %d values for a %dx%d window", len(data), xSize, ySize)
	}
	plane := b.ds.planes[b.band-1]
	for row := 0; row < ySize; row++ {
		dst := (yOff+row)*b.ds.cols + xOff
		copy(plane[dst:dst+xSize], data[row*xSize:(row+1)*xSize])
	}
	return nil
}
