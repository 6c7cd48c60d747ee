package common

import "fmt"

// CellIndex is the position of a cell in the grid. X is the column (longitude), Y the row (latitude).
type CellIndex [2]int

func (c CellIndex) X() int { return c[0] }

func (c CellIndex) Y() int { return c[1] }

// IsWithin checks whether both coordinates are within [0, gridSize).
func (c CellIndex) IsWithin(gridSize int) bool {
	return c.X() >= 0 && c.Y() >= 0 && c.X() < gridSize && c.Y() < gridSize
}

// Clamp moves the index to the nearest cell within [0, gridSize).
func (c CellIndex) Clamp(gridSize int) CellIndex {
	return CellIndex{clamp(c.X(), 0, gridSize-1), clamp(c.Y(), 0, gridSize-1)}
}

// FlatIndex returns the position of this cell in a row-major array of gridSize*gridSize cells.
func (c CellIndex) FlatIndex(gridSize int) int {
	return c.Y()*gridSize + c.X()
}

func (c CellIndex) String() string {
	return fmt.Sprintf("[%d,%d]", c.X(), c.Y())
}

// CellExtent is an inclusive rectangle of cells given by its lower-left and upper-right cell.
type CellExtent [2]CellIndex

func (c CellExtent) LowerLeftCell() CellIndex { return c[0] }

func (c CellExtent) UpperRightCell() CellIndex { return c[1] }

// IsEmpty is true when the lower-left cell lies above or right of the upper-right cell on any axis.
func (c CellExtent) IsEmpty() bool {
	return c.LowerLeftCell().X() > c.UpperRightCell().X() || c.LowerLeftCell().Y() > c.UpperRightCell().Y()
}

// Clip restricts the extent to the cells of a gridSize*gridSize grid. The boolean is false when no cell of the extent
// lies within the grid.
func (c CellExtent) Clip(gridSize int) (CellExtent, bool) {
	clipped := CellExtent{
		CellIndex{max(c.LowerLeftCell().X(), 0), max(c.LowerLeftCell().Y(), 0)},
		CellIndex{min(c.UpperRightCell().X(), gridSize-1), min(c.UpperRightCell().Y(), gridSize-1)},
	}
	if clipped.IsEmpty() {
		return clipped, false
	}
	return clipped, true
}

// ForEach calls f for every cell of the extent. Columns are visited from left to right and within each column the
// cells from bottom to top.
func (c CellExtent) ForEach(f func(cell CellIndex)) {
	for x := c.LowerLeftCell().X(); x <= c.UpperRightCell().X(); x++ {
		for y := c.LowerLeftCell().Y(); y <= c.UpperRightCell().Y(); y++ {
			f(CellIndex{x, y})
		}
	}
}

func clamp(value int, lower int, upper int) int {
	if value < lower {
		return lower
	}
	if value > upper {
		return upper
	}
	return value
}
