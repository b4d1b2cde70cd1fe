package feather2d

import (
	"math"

	"github.com/akmonengine/feather2d/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// ============================================================================
// Types
// ============================================================================

// CellKey - Coordinates of a cell in the grid
type CellKey struct {
	X, Y int
}

// Cell - Handles of the bodies overlapping a cell
type Cell struct {
	bodies []BodyHandle
}

// Pair - Two bodies that might be colliding, lowest slot index first
type Pair struct {
	BodyA BodyHandle
	BodyB BodyHandle
}

func makePair(a, b BodyHandle) Pair {
	if b.index < a.index {
		a, b = b, a
	}
	return Pair{BodyA: a, BodyB: b}
}

// Has reports whether h is one of the two bodies
func (p Pair) Has(h BodyHandle) bool {
	return p.BodyA == h || p.BodyB == h
}

// SpatialGrid - Uniform grid covering the viewport, rebuilt every step.
// Bodies reaching outside of it are kept in a separate out-of-bounds list.
type SpatialGrid struct {
	columns     int
	rows        int
	cellSize    mgl64.Vec2
	cells       []Cell
	outOfBounds []BodyHandle
}

// GridSnapshot - Copy of the grid occupancy, for debug rendering
type GridSnapshot struct {
	Columns     int
	Rows        int
	CellSize    mgl64.Vec2
	Cells       [][]BodyHandle // row-major, Cells[y*Columns+x]
	OutOfBounds []BodyHandle
}

// ============================================================================
// Constructor
// ============================================================================

// NewSpatialGrid - Creates a columns x rows grid stretched over extent
func NewSpatialGrid(columns, rows int, extent mgl64.Vec2) *SpatialGrid {
	columns = max(1, columns)
	rows = max(1, rows)

	cells := make([]Cell, columns*rows)
	for i := range cells {
		cells[i].bodies = make([]BodyHandle, 0, 4)
	}

	sg := &SpatialGrid{
		columns:  columns,
		rows:     rows,
		cellSize: mgl64.Vec2{1, 1},
		cells:    cells,
	}
	sg.Resize(extent)

	return sg
}

// Resize - Stretches the grid over a new extent. Non-positive extents are ignored.
func (sg *SpatialGrid) Resize(extent mgl64.Vec2) {
	if !(extent.X() > 0) || !(extent.Y() > 0) {
		return
	}

	sg.cellSize = mgl64.Vec2{
		extent.X() / float64(sg.columns),
		extent.Y() / float64(sg.rows),
	}
}

func (sg *SpatialGrid) Columns() int {
	return sg.columns
}

func (sg *SpatialGrid) Rows() int {
	return sg.rows
}

func (sg *SpatialGrid) CellSize() mgl64.Vec2 {
	return sg.cellSize
}

func (sg *SpatialGrid) Clear() {
	for i := range sg.cells {
		sg.cells[i].bodies = sg.cells[i].bodies[:0]
	}
	sg.outOfBounds = sg.outOfBounds[:0]
}

// Insert - Marks every cell covered by the box, and flags the body if the box leaves the grid
func (sg *SpatialGrid) Insert(handle BodyHandle, aabb actor.AABB) {
	corners := aabb.Corners()

	minCell := sg.worldToCell(corners[0])
	maxCell := minCell
	outside := false
	for _, corner := range corners {
		key := sg.worldToCell(corner)
		minCell.X = min(minCell.X, key.X)
		minCell.Y = min(minCell.Y, key.Y)
		maxCell.X = max(maxCell.X, key.X)
		maxCell.Y = max(maxCell.Y, key.Y)

		if !sg.inBounds(key) {
			outside = true
		}
	}

	if outside {
		sg.outOfBounds = append(sg.outOfBounds, handle)
	}

	for y := max(0, minCell.Y); y <= min(sg.rows-1, maxCell.Y); y++ {
		for x := max(0, minCell.X); x <= min(sg.columns-1, maxCell.X); x++ {
			idx := sg.cellIndex(CellKey{x, y})
			sg.cells[idx].bodies = append(sg.cells[idx].bodies, handle)
		}
	}
}

// FindPairs - Every unordered pair sharing a cell, plus every pair of out-of-bounds bodies.
// Each pair is reported once. Pairs filtered by collision groups or with disjoint boxes are dropped.
func (sg *SpatialGrid) FindPairs(registry *Registry) []Pair {
	pairs := make([]Pair, 0)
	seen := make(map[Pair]struct{})

	check := func(a, b BodyHandle) {
		if a == b {
			return
		}

		pair := makePair(a, b)
		if _, ok := seen[pair]; ok {
			return
		}
		seen[pair] = struct{}{}

		bodyA, okA := registry.Get(pair.BodyA)
		bodyB, okB := registry.Get(pair.BodyB)
		if !okA || !okB {
			return
		}
		if bodyA.Ignores(bodyB.Group) || bodyB.Ignores(bodyA.Group) {
			return
		}
		if !bodyA.AABB().Overlaps(bodyB.AABB()) {
			return
		}

		pairs = append(pairs, pair)
	}

	for i := range sg.cells {
		bodies := sg.cells[i].bodies
		if len(bodies) < 2 {
			continue
		}
		for a := 0; a < len(bodies); a++ {
			for b := a + 1; b < len(bodies); b++ {
				check(bodies[a], bodies[b])
			}
		}
	}

	// Bodies outside the grid cannot be bucketed: test them exhaustively
	for a := 0; a < len(sg.outOfBounds); a++ {
		for b := a + 1; b < len(sg.outOfBounds); b++ {
			check(sg.outOfBounds[a], sg.outOfBounds[b])
		}
	}

	return pairs
}

// Snapshot - Copies the current occupancy
func (sg *SpatialGrid) Snapshot() GridSnapshot {
	cells := make([][]BodyHandle, len(sg.cells))
	for i := range sg.cells {
		if len(sg.cells[i].bodies) > 0 {
			cells[i] = append([]BodyHandle(nil), sg.cells[i].bodies...)
		}
	}

	return GridSnapshot{
		Columns:     sg.columns,
		Rows:        sg.rows,
		CellSize:    sg.cellSize,
		Cells:       cells,
		OutOfBounds: append([]BodyHandle(nil), sg.outOfBounds...),
	}
}

// worldToCell - Converts a world position to cell coordinates, possibly outside of the grid
func (sg *SpatialGrid) worldToCell(pos mgl64.Vec2) CellKey {
	return CellKey{
		X: int(math.Floor(pos.X() / sg.cellSize.X())),
		Y: int(math.Floor(pos.Y() / sg.cellSize.Y())),
	}
}

func (sg *SpatialGrid) inBounds(key CellKey) bool {
	return key.X >= 0 && key.X < sg.columns && key.Y >= 0 && key.Y < sg.rows
}

// cellIndex - Row-major index of an in-bounds cell
func (sg *SpatialGrid) cellIndex(key CellKey) int {
	return key.Y*sg.columns + key.X
}

// Cell returns the bodies marked in an in-bounds cell
func (sg *SpatialGrid) Cell(key CellKey) []BodyHandle {
	if !sg.inBounds(key) {
		return nil
	}
	return sg.cells[sg.cellIndex(key)].bodies
}

// OutOfBounds returns the bodies whose box leaves the grid
func (sg *SpatialGrid) OutOfBounds() []BodyHandle {
	return sg.outOfBounds
}
