package common

import (
	"geogrid/util"
	"testing"
)

func TestCellIndex_isBelowOrLeftOf(t *testing.T) {
	cell := CellIndex{10, 10}
	/*
		[ 9,11]   [10,11]   [11,11]

		[ 9,10]   [10,10]   [11,10]

		[ 9, 9]   [10, 9]   [11, 9]
	*/

	// First Column
	util.AssertTrue(t, cell.isBelowOrLeftOf(CellIndex{9, 11}))
	util.AssertFalse(t, cell.isBelowOrLeftOf(CellIndex{9, 10}))
	util.AssertFalse(t, cell.isBelowOrLeftOf(CellIndex{9, 9}))

	// Second column
	util.AssertTrue(t, cell.isBelowOrLeftOf(CellIndex{10, 11}))
	util.AssertFalse(t, cell.isBelowOrLeftOf(CellIndex{10, 10}))
	util.AssertFalse(t, cell.isBelowOrLeftOf(CellIndex{10, 9}))

	// Third column
	util.AssertTrue(t, cell.isBelowOrLeftOf(CellIndex{11, 11}))
	util.AssertTrue(t, cell.isBelowOrLeftOf(CellIndex{11, 10}))
	util.AssertTrue(t, cell.isBelowOrLeftOf(CellIndex{11, 9}))
}

func TestCellIndex_isWithin(t *testing.T) {
	util.AssertTrue(t, CellIndex{0, 0}.IsWithin(100))
	util.AssertTrue(t, CellIndex{99, 99}.IsWithin(100))
	util.AssertTrue(t, CellIndex{0, 0}.IsWithin(1))

	util.AssertFalse(t, CellIndex{-1, 0}.IsWithin(100))
	util.AssertFalse(t, CellIndex{0, -1}.IsWithin(100))
	util.AssertFalse(t, CellIndex{100, 0}.IsWithin(100))
	util.AssertFalse(t, CellIndex{0, 100}.IsWithin(100))
	util.AssertFalse(t, CellIndex{1, 0}.IsWithin(1))
}

func TestCellIndex_clamp(t *testing.T) {
	util.AssertEqual(t, CellIndex{0, 0}, CellIndex{-1, -5}.Clamp(100))
	util.AssertEqual(t, CellIndex{99, 99}, CellIndex{100, 250}.Clamp(100))
	util.AssertEqual(t, CellIndex{0, 99}, CellIndex{-1, 100}.Clamp(100))
	util.AssertEqual(t, CellIndex{42, 17}, CellIndex{42, 17}.Clamp(100))
	util.AssertEqual(t, CellIndex{0, 0}, CellIndex{3, -3}.Clamp(1))
}

func TestCellIndex_flatIndex(t *testing.T) {
	util.AssertEqual(t, 0, CellIndex{0, 0}.FlatIndex(100))
	util.AssertEqual(t, 5, CellIndex{5, 0}.FlatIndex(100))
	util.AssertEqual(t, 100, CellIndex{0, 1}.FlatIndex(100))
	util.AssertEqual(t, 9999, CellIndex{99, 99}.FlatIndex(100))
}

func TestCellExtent_clip(t *testing.T) {
	// Completely inside
	clipped, ok := CellExtent{CellIndex{10, 10}, CellIndex{20, 20}}.Clip(100)
	util.AssertTrue(t, ok)
	util.AssertEqual(t, CellExtent{CellIndex{10, 10}, CellIndex{20, 20}}, clipped)

	// Overlapping the lower-left and upper-right border
	clipped, ok = CellExtent{CellIndex{-1, -5}, CellIndex{100, 120}}.Clip(100)
	util.AssertTrue(t, ok)
	util.AssertEqual(t, CellExtent{CellIndex{0, 0}, CellIndex{99, 99}}, clipped)

	// Completely left of the grid
	_, ok = CellExtent{CellIndex{-10, 5}, CellIndex{-1, 10}}.Clip(100)
	util.AssertFalse(t, ok)

	// Completely above the grid
	_, ok = CellExtent{CellIndex{5, 100}, CellIndex{10, 110}}.Clip(100)
	util.AssertFalse(t, ok)
}

func TestCellExtent_forEach(t *testing.T) {
	// Arrange
	extent := CellExtent{CellIndex{1, 5}, CellIndex{2, 7}}
	var indices []CellIndex

	// Act
	extent.ForEach(func(cell CellIndex) {
		indices = append(indices, cell)
	})

	// Assert
	util.AssertEqual(t, []CellIndex{
		{1, 5}, {1, 6}, {1, 7},
		{2, 5}, {2, 6}, {2, 7},
	}, indices)
}

func TestCellExtent_forEachOfEmptyExtent(t *testing.T) {
	var indices []CellIndex
	CellExtent{CellIndex{2, 5}, CellIndex{1, 7}}.ForEach(func(cell CellIndex) {
		indices = append(indices, cell)
	})
	util.AssertLen(t, 0, indices)
}

func TestCellIndex_string(t *testing.T) {
	util.AssertEqual(t, "[3,-1]", CellIndex{3, -1}.String())
}
