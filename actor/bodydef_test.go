package actor

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

func TestNewBody(t *testing.T) {
	tests := []struct {
		name      string
		def       BodyDef
		wantType  ShapeType
		wantMass  float64
		wantSides int
	}{
		{
			name:      "regular polygon with mass",
			def:       BodyDef{Shape: ShapeTypePolygon, Radius: 1, Sides: 5, Mass: 3},
			wantType:  ShapeTypePolygon,
			wantMass:  3,
			wantSides: 5,
		},
		{
			name:      "rectangle from density",
			def:       BodyDef{Shape: ShapeTypeRectangle, Width: 2, Height: 3, Density: 0.5},
			wantType:  ShapeTypeRectangle,
			wantMass:  3,
			wantSides: 4,
		},
		{
			name:      "frozen without mass",
			def:       BodyDef{Shape: ShapeTypeRectangle, Width: 10, Height: 1, Frozen: true},
			wantType:  ShapeTypeRectangle,
			wantMass:  0,
			wantSides: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rb, err := NewBody(tt.def)
			if err != nil {
				t.Fatalf("NewBody() error = %v", err)
			}

			if rb.Shape.Type != tt.wantType {
				t.Errorf("Shape.Type = %v, want %v", rb.Shape.Type, tt.wantType)
			}
			if !floatEqual(rb.Mass(), tt.wantMass, tolerance) {
				t.Errorf("Mass() = %v, want %v", rb.Mass(), tt.wantMass)
			}
			if rb.Shape.VertexCount() != tt.wantSides {
				t.Errorf("VertexCount() = %d, want %d", rb.Shape.VertexCount(), tt.wantSides)
			}
			if rb.Frozen != tt.def.Frozen {
				t.Errorf("Frozen = %v, want %v", rb.Frozen, tt.def.Frozen)
			}
		})
	}
}

func TestNewBodyCopiesSettings(t *testing.T) {
	ignore := []int{2}
	def := BodyDef{
		Shape:           ShapeTypeRectangle,
		Width:           1,
		Height:          1,
		Mass:            1,
		Position:        mgl64.Vec2{4, 5},
		Rotation:        0.5,
		Restitution:     0.3,
		StaticFriction:  0.6,
		DynamicFriction: 0.4,
		IsTrigger:       true,
		Group:           1,
		IgnoreGroups:    ignore,
	}

	rb, err := NewBody(def)
	if err != nil {
		t.Fatalf("NewBody() error = %v", err)
	}

	if rb.Transform.Position != def.Position || rb.Transform.Rotation != def.Rotation {
		t.Errorf("Transform = %v", rb.Transform)
	}
	if rb.Material.Restitution != 0.3 || rb.Material.StaticFriction != 0.6 || rb.Material.DynamicFriction != 0.4 {
		t.Errorf("Material = %+v", rb.Material)
	}
	if !rb.IsTrigger || rb.Group != 1 || !rb.Ignores(2) {
		t.Errorf("filtering not copied: trigger=%v group=%d ignore=%v", rb.IsTrigger, rb.Group, rb.IgnoreGroups)
	}

	ignore[0] = 7
	if !rb.Ignores(2) {
		t.Errorf("IgnoreGroups shares the caller slice: %v", rb.IgnoreGroups)
	}
}

func TestNewBodyErrors(t *testing.T) {
	tests := []struct {
		name string
		def  BodyDef
		want error
	}{
		{"unknown shape", BodyDef{Shape: ShapeType(9), Mass: 1}, ErrUnknownShape},
		{"polygon with two sides", BodyDef{Shape: ShapeTypePolygon, Radius: 1, Sides: 2, Mass: 1}, ErrTooFewVertices},
		{"polygon without radius", BodyDef{Shape: ShapeTypePolygon, Sides: 4, Mass: 1}, ErrInvalidDimension},
		{"flat rectangle", BodyDef{Shape: ShapeTypeRectangle, Width: 1, Mass: 1}, ErrInvalidDimension},
		{"dynamic without mass", BodyDef{Shape: ShapeTypeRectangle, Width: 1, Height: 1}, ErrInvalidMass},
		{"negative mass", BodyDef{Shape: ShapeTypeRectangle, Width: 1, Height: 1, Mass: -2}, ErrInvalidMass},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewBody(tt.def); !errors.Is(err, tt.want) {
				t.Errorf("NewBody() error = %v, want %v", err, tt.want)
			}
		})
	}
}
