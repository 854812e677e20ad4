package gridchunk

// WindowPlan describes the rectangle to read from a source grid and where
// that rectangle lands inside a padded destination buffer of
// (rows+2*buffer) x (cols+2*buffer) cells. Destination bounds are
// half-open; cells outside them keep their fill value.
type WindowPlan struct {
	ReadXOff  int
	ReadYOff  int
	ReadXSize int
	ReadYSize int

	DstXStart int
	DstXEnd   int
	DstYStart int
	DstYEnd   int
}

// PlanWindow computes the read geometry for a window of cols x rows cells
// whose origin is (xStart, yStart) in source pixel coordinates, padded by
// buffer cells on every side, against a source of srcCols x srcRows.
//
// The padded window is clamped to the source extent per axis. Wherever it
// overhangs the source, the read rectangle shrinks and the matching margin
// of the destination is excluded from the copy, leaving it at the fill
// value. The read rectangle is always within [0, srcCols) x [0, srcRows).
// An empty clamped rectangle (the padded window misses the source
// entirely) fails with ErrInvalidWindow before any allocation or I/O.
func PlanWindow(xStart, yStart, cols, rows, buffer, srcCols, srcRows int) (WindowPlan, error) {
	if buffer < 0 {
		return WindowPlan{}, ErrInvalidWindow.
			WithMessage("buffer must not be negative").
			WithDetail("buffer", buffer)
	}
	if cols <= 0 || rows <= 0 {
		return WindowPlan{}, ErrInvalidWindow.
			WithMessage("window dimensions must be positive").
			WithDetail("cols", cols).
			WithDetail("rows", rows)
	}
	if srcCols <= 0 || srcRows <= 0 {
		return WindowPlan{}, ErrInvalidWindow.
			WithMessage("source extent must be positive").
			WithDetail("srcCols", srcCols).
			WithDetail("srcRows", srcRows)
	}

	xOff := xStart - buffer
	yOff := yStart - buffer
	xSize := cols + 2*buffer
	ySize := rows + 2*buffer

	plan := WindowPlan{
		ReadXOff: clampLow(xOff, 0),
		ReadYOff: clampLow(yOff, 0),
	}
	readXEnd := clampHigh(xOff+xSize, srcCols)
	readYEnd := clampHigh(yOff+ySize, srcRows)
	plan.ReadXSize = readXEnd - plan.ReadXOff
	plan.ReadYSize = readYEnd - plan.ReadYOff

	if plan.ReadXSize <= 0 || plan.ReadYSize <= 0 {
		return WindowPlan{}, NewInvalidWindowError(xStart, yStart, cols, rows, buffer, srcCols, srcRows)
	}

	// The destination slice starts where the in-bounds part of the padded
	// window starts, so clamped-off margins stay at the fill value.
	plan.DstXStart = plan.ReadXOff - xOff
	plan.DstYStart = plan.ReadYOff - yOff
	plan.DstXEnd = plan.DstXStart + plan.ReadXSize
	plan.DstYEnd = plan.DstYStart + plan.ReadYSize

	return plan, nil
}

func clampLow(v, min int) int {
	if v < min {
		return min
	}
	return v
}

func clampHigh(v, max int) int {
	if v > max {
		return max
	}
	return v
}
