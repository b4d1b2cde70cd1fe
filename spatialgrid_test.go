package feather2d

import (
	"slices"
	"testing"

	"github.com/akmonengine/feather2d/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// 10x10 grid of 10x10 cells
func newTestGrid() *SpatialGrid {
	return NewSpatialGrid(10, 10, mgl64.Vec2{100, 100})
}

// =============================================================================
// Construction Tests
// =============================================================================

func TestNewSpatialGrid(t *testing.T) {
	tests := []struct {
		name         string
		columns      int
		rows         int
		extent       mgl64.Vec2
		wantColumns  int
		wantRows     int
		wantCellSize mgl64.Vec2
	}{
		{"square", 10, 10, mgl64.Vec2{100, 100}, 10, 10, mgl64.Vec2{10, 10}},
		{"window", 20, 15, mgl64.Vec2{800, 600}, 20, 15, mgl64.Vec2{40, 40}},
		{"zero resolution", 0, -3, mgl64.Vec2{50, 20}, 1, 1, mgl64.Vec2{50, 20}},
		{"invalid extent", 4, 4, mgl64.Vec2{0, 10}, 4, 4, mgl64.Vec2{1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sg := NewSpatialGrid(tt.columns, tt.rows, tt.extent)

			if sg.Columns() != tt.wantColumns || sg.Rows() != tt.wantRows {
				t.Errorf("grid = %dx%d, want %dx%d", sg.Columns(), sg.Rows(), tt.wantColumns, tt.wantRows)
			}
			if sg.CellSize() != tt.wantCellSize {
				t.Errorf("CellSize() = %v, want %v", sg.CellSize(), tt.wantCellSize)
			}
		})
	}
}

func TestSpatialGrid_Resize(t *testing.T) {
	sg := newTestGrid()

	sg.Resize(mgl64.Vec2{200, 50})
	if sg.CellSize() != (mgl64.Vec2{20, 5}) {
		t.Errorf("CellSize() = %v, want [20 5]", sg.CellSize())
	}

	sg.Resize(mgl64.Vec2{-1, 50})
	if sg.CellSize() != (mgl64.Vec2{20, 5}) {
		t.Errorf("negative extent changed CellSize() to %v", sg.CellSize())
	}
}

// =============================================================================
// Insert Tests
// =============================================================================

func TestSpatialGrid_Insert(t *testing.T) {
	tests := []struct {
		name            string
		aabb            actor.AABB
		wantCells       []CellKey
		wantOutOfBounds bool
	}{
		{
			name:      "single cell",
			aabb:      actor.AABB{Min: mgl64.Vec2{21, 31}, Max: mgl64.Vec2{29, 39}},
			wantCells: []CellKey{{2, 3}},
		},
		{
			name:      "spans four cells",
			aabb:      actor.AABB{Min: mgl64.Vec2{5, 5}, Max: mgl64.Vec2{15, 15}},
			wantCells: []CellKey{{0, 0}, {1, 0}, {0, 1}, {1, 1}},
		},
		{
			name:      "spans a row",
			aabb:      actor.AABB{Min: mgl64.Vec2{5, 55}, Max: mgl64.Vec2{35, 58}},
			wantCells: []CellKey{{0, 5}, {1, 5}, {2, 5}, {3, 5}},
		},
		{
			name:            "partially outside",
			aabb:            actor.AABB{Min: mgl64.Vec2{-5, 2}, Max: mgl64.Vec2{5, 8}},
			wantCells:       []CellKey{{0, 0}},
			wantOutOfBounds: true,
		},
		{
			name:            "fully outside",
			aabb:            actor.AABB{Min: mgl64.Vec2{150, 150}, Max: mgl64.Vec2{160, 160}},
			wantCells:       nil,
			wantOutOfBounds: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sg := newTestGrid()
			h := BodyHandle{index: 0, generation: 1}

			sg.Insert(h, tt.aabb)

			var cells []CellKey
			for y := 0; y < sg.Rows(); y++ {
				for x := 0; x < sg.Columns(); x++ {
					if slices.Contains(sg.Cell(CellKey{x, y}), h) {
						cells = append(cells, CellKey{x, y})
					}
				}
			}
			if !slices.Equal(cells, tt.wantCells) {
				t.Errorf("marked cells = %v, want %v", cells, tt.wantCells)
			}

			outOfBounds := slices.Contains(sg.OutOfBounds(), h)
			if outOfBounds != tt.wantOutOfBounds {
				t.Errorf("out of bounds = %v, want %v", outOfBounds, tt.wantOutOfBounds)
			}
		})
	}
}

func TestSpatialGrid_Clear(t *testing.T) {
	sg := newTestGrid()
	h := BodyHandle{index: 0, generation: 1}
	sg.Insert(h, actor.AABB{Min: mgl64.Vec2{-5, -5}, Max: mgl64.Vec2{5, 5}})

	sg.Clear()

	if len(sg.Cell(CellKey{0, 0})) != 0 || len(sg.OutOfBounds()) != 0 {
		t.Errorf("Clear() left %v and %v", sg.Cell(CellKey{0, 0}), sg.OutOfBounds())
	}
}

// =============================================================================
// FindPairs Tests
// =============================================================================

func TestSpatialGrid_FindPairs(t *testing.T) {
	tests := []struct {
		name      string
		bodyA     actor.BodyDef
		bodyB     actor.BodyDef
		wantPairs int
	}{
		{
			name:      "overlapping boxes sharing four cells are reported once",
			bodyA:     actor.BodyDef{Shape: actor.ShapeTypeRectangle, Position: mgl64.Vec2{10, 10}, Width: 4, Height: 4, Mass: 1},
			bodyB:     actor.BodyDef{Shape: actor.ShapeTypeRectangle, Position: mgl64.Vec2{11, 11}, Width: 4, Height: 4, Mass: 1},
			wantPairs: 1,
		},
		{
			name:      "different cells",
			bodyA:     actor.BodyDef{Shape: actor.ShapeTypeRectangle, Position: mgl64.Vec2{15, 15}, Width: 2, Height: 2, Mass: 1},
			bodyB:     actor.BodyDef{Shape: actor.ShapeTypeRectangle, Position: mgl64.Vec2{85, 85}, Width: 2, Height: 2, Mass: 1},
			wantPairs: 0,
		},
		{
			name:      "same cell, disjoint boxes",
			bodyA:     actor.BodyDef{Shape: actor.ShapeTypeRectangle, Position: mgl64.Vec2{12, 12}, Width: 2, Height: 2, Mass: 1},
			bodyB:     actor.BodyDef{Shape: actor.ShapeTypeRectangle, Position: mgl64.Vec2{17, 17}, Width: 2, Height: 2, Mass: 1},
			wantPairs: 0,
		},
		{
			name:      "A ignores the group of B",
			bodyA:     actor.BodyDef{Shape: actor.ShapeTypeRectangle, Position: mgl64.Vec2{15, 15}, Width: 2, Height: 2, Mass: 1, Group: 1, IgnoreGroups: []int{2}},
			bodyB:     actor.BodyDef{Shape: actor.ShapeTypeRectangle, Position: mgl64.Vec2{15, 15}, Width: 2, Height: 2, Mass: 1, Group: 2},
			wantPairs: 0,
		},
		{
			name:      "B ignores the group of A",
			bodyA:     actor.BodyDef{Shape: actor.ShapeTypeRectangle, Position: mgl64.Vec2{15, 15}, Width: 2, Height: 2, Mass: 1, Group: 1},
			bodyB:     actor.BodyDef{Shape: actor.ShapeTypeRectangle, Position: mgl64.Vec2{15, 15}, Width: 2, Height: 2, Mass: 1, Group: 2, IgnoreGroups: []int{1}},
			wantPairs: 0,
		},
		{
			name:      "walls of the same group ignore each other",
			bodyA:     actor.BodyDef{Shape: actor.ShapeTypeRectangle, Position: mgl64.Vec2{50, 1}, Width: 100, Height: 2, Frozen: true, Group: 1, IgnoreGroups: []int{1}},
			bodyB:     actor.BodyDef{Shape: actor.ShapeTypeRectangle, Position: mgl64.Vec2{1, 50}, Width: 2, Height: 100, Frozen: true, Group: 1, IgnoreGroups: []int{1}},
			wantPairs: 0,
		},
		{
			name:      "both fully outside the grid",
			bodyA:     actor.BodyDef{Shape: actor.ShapeTypePolygon, Position: mgl64.Vec2{-50, -50}, Radius: 2, Sides: 6, Mass: 1},
			bodyB:     actor.BodyDef{Shape: actor.ShapeTypePolygon, Position: mgl64.Vec2{-48, -50}, Radius: 2, Sides: 5, Mass: 1},
			wantPairs: 1,
		},
		{
			name:      "both outside, far apart",
			bodyA:     actor.BodyDef{Shape: actor.ShapeTypePolygon, Position: mgl64.Vec2{-50, -50}, Radius: 2, Sides: 6, Mass: 1},
			bodyB:     actor.BodyDef{Shape: actor.ShapeTypePolygon, Position: mgl64.Vec2{250, 250}, Radius: 2, Sides: 5, Mass: 1},
			wantPairs: 0,
		},
		{
			name:      "one outside, one inside, straddling the border",
			bodyA:     actor.BodyDef{Shape: actor.ShapeTypeRectangle, Position: mgl64.Vec2{0, 50}, Width: 4, Height: 4, Mass: 1},
			bodyB:     actor.BodyDef{Shape: actor.ShapeTypeRectangle, Position: mgl64.Vec2{2, 50}, Width: 2, Height: 2, Mass: 1},
			wantPairs: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := NewRegistry()
			hA := registry.Insert(createTestBody(t, tt.bodyA))
			hB := registry.Insert(createTestBody(t, tt.bodyB))

			pairs := BroadPhase(newTestGrid(), registry)

			if len(pairs) != tt.wantPairs {
				t.Fatalf("got %d pairs, want %d: %v", len(pairs), tt.wantPairs, pairs)
			}
			for _, p := range pairs {
				if p.BodyA != hA || p.BodyB != hB {
					t.Errorf("pair = %v, want {%v %v}", p, hA, hB)
				}
			}
		})
	}
}

func TestSpatialGrid_FindPairs_NoDuplicates(t *testing.T) {
	registry := NewRegistry()
	// A cluster of boxes sitting on the corner of four cells
	for i := 0; i < 5; i++ {
		registry.Insert(createTestBody(t, actor.BodyDef{
			Shape:    actor.ShapeTypeRectangle,
			Position: mgl64.Vec2{20 + float64(i)*0.1, 20},
			Width:    3,
			Height:   3,
			Mass:     1,
		}))
	}

	pairs := BroadPhase(newTestGrid(), registry)

	if len(pairs) != 10 {
		t.Errorf("got %d pairs, want 10 (5 choose 2)", len(pairs))
	}
	seen := make(map[Pair]bool)
	for _, p := range pairs {
		if seen[p] {
			t.Errorf("pair %v reported twice", p)
		}
		if p.BodyA == p.BodyB {
			t.Errorf("body %v paired with itself", p.BodyA)
		}
		if p.BodyA.Index() > p.BodyB.Index() {
			t.Errorf("pair %v is not ordered by slot", p)
		}
		seen[p] = true
	}
}

func TestSpatialGrid_Snapshot(t *testing.T) {
	registry := NewRegistry()
	h := registry.Insert(createTestBody(t, actor.BodyDef{
		Shape:    actor.ShapeTypeRectangle,
		Position: mgl64.Vec2{35, 15},
		Width:    2,
		Height:   2,
		Mass:     1,
	}))
	sg := newTestGrid()
	BroadPhase(sg, registry)

	snapshot := sg.Snapshot()

	if snapshot.Columns != 10 || snapshot.Rows != 10 || len(snapshot.Cells) != 100 {
		t.Fatalf("snapshot = %dx%d with %d cells", snapshot.Columns, snapshot.Rows, len(snapshot.Cells))
	}
	if cell := snapshot.Cells[1*snapshot.Columns+3]; len(cell) != 1 || cell[0] != h {
		t.Errorf("cell (3,1) = %v, want [%v]", cell, h)
	}

	// The snapshot does not follow later steps
	sg.Clear()
	if len(snapshot.Cells[13]) != 1 {
		t.Errorf("snapshot changed after Clear(): %v", snapshot.Cells[13])
	}
}
