package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// ShapeType represents the kind of collision shape a body is built from
type ShapeType int

const (
	// ShapeTypePolygon is a convex polygon, regular when built from a radius and a side count
	ShapeTypePolygon ShapeType = iota
	// ShapeTypeRectangle is a 4-vertex polygon with Width and Height set
	ShapeTypeRectangle
)

func (s ShapeType) String() string {
	switch s {
	case ShapeTypePolygon:
		return "polygon"
	case ShapeTypeRectangle:
		return "rectangle"
	default:
		return "unknown"
	}
}

const (
	geometryEpsilon  = 1e-9
	turningTolerance = 1e-6
)

var (
	ErrTooFewVertices    = errors.New("polygon needs at least 3 vertices")
	ErrInvalidDimension  = errors.New("shape dimensions must be positive")
	ErrDegeneratePolygon = errors.New("degenerate polygon")
	ErrNotConvex         = errors.New("polygon is not convex")
	ErrUnknownShape      = errors.New("unknown shape type")
)

// Polygon is an immutable convex collision shape.
// Vertices are stored counter-clockwise in body-local space, translated so that
// the centroid sits at the local origin. Rotations therefore happen around the center of mass.
type Polygon struct {
	Type ShapeType

	// Regular polygons only
	Radius float64
	Sides  int

	// Rectangles only
	Width  float64
	Height float64

	vertices []mgl64.Vec2
	normals  []mgl64.Vec2 // outward normal of edge i -> i+1

	area        float64
	unitInertia float64 // polar moment around the centroid for a density of 1
}

// NewPolygon builds a convex polygon from vertices given in either winding order.
// The vertices are re-centered on their centroid.
func NewPolygon(vertices []mgl64.Vec2) (*Polygon, error) {
	if len(vertices) < 3 {
		return nil, errors.Wrapf(ErrTooFewVertices, "got %d", len(vertices))
	}

	verts := make([]mgl64.Vec2, len(vertices))
	copy(verts, vertices)

	area := signedArea(verts)
	if math.Abs(area) < geometryEpsilon {
		return nil, errors.Wrap(ErrDegeneratePolygon, "zero area")
	}
	if area < 0 {
		for i, j := 0, len(verts)-1; i < j; i, j = i+1, j-1 {
			verts[i], verts[j] = verts[j], verts[i]
		}
		area = -area
	}

	n := len(verts)
	turning := 0.0
	for i := 0; i < n; i++ {
		edge := verts[(i+1)%n].Sub(verts[i])
		if edge.Len() < geometryEpsilon {
			return nil, errors.Wrapf(ErrDegeneratePolygon, "edge %d has zero length", i)
		}
		next := verts[(i+2)%n].Sub(verts[(i+1)%n])
		cross := Cross(edge, next)
		if cross < -geometryEpsilon {
			return nil, errors.Wrapf(ErrNotConvex, "reflex vertex %d", (i+1)%n)
		}
		turning += math.Atan2(cross, edge.Dot(next))
	}
	// A simple convex outline turns exactly once; a star turns twice or more
	if math.Abs(turning-2*math.Pi) > turningTolerance {
		return nil, errors.Wrapf(ErrNotConvex, "outline turns %.2f times", turning/(2*math.Pi))
	}

	// Centroid of the polygon, weighted by the area of each fan triangle
	var centroid mgl64.Vec2
	for i := 0; i < n; i++ {
		a, b := verts[i], verts[(i+1)%n]
		centroid = centroid.Add(a.Add(b).Mul(Cross(a, b)))
	}
	centroid = centroid.Mul(1.0 / (6.0 * area))

	for i := range verts {
		verts[i] = verts[i].Sub(centroid)
	}

	unitInertia := 0.0
	normals := make([]mgl64.Vec2, n)
	for i := 0; i < n; i++ {
		a, b := verts[i], verts[(i+1)%n]
		cross := Cross(a, b)
		intx2 := a.X()*a.X() + a.X()*b.X() + b.X()*b.X()
		inty2 := a.Y()*a.Y() + a.Y()*b.Y() + b.Y()*b.Y()
		unitInertia += cross * (intx2 + inty2) / 12.0

		edge := b.Sub(a)
		normals[i] = mgl64.Vec2{edge.Y(), -edge.X()}.Normalize()
	}

	return &Polygon{
		Type:        ShapeTypePolygon,
		Sides:       n,
		vertices:    verts,
		normals:     normals,
		area:        area,
		unitInertia: unitInertia,
	}, nil
}

// NewRegularPolygon builds a polygon with all vertices on a circle of the given radius.
// The first edge is horizontal at the bottom, so a 4-sided polygon is an axis-aligned square.
func NewRegularPolygon(radius float64, sides int) (*Polygon, error) {
	if sides < 3 {
		return nil, errors.Wrapf(ErrTooFewVertices, "got %d sides", sides)
	}
	if !(radius > 0) {
		return nil, errors.Wrapf(ErrInvalidDimension, "radius %v", radius)
	}

	step := 2 * math.Pi / float64(sides)
	start := -math.Pi/2 - step/2
	vertices := make([]mgl64.Vec2, sides)
	for i := range vertices {
		angle := start + step*float64(i)
		vertices[i] = mgl64.Vec2{radius * math.Cos(angle), radius * math.Sin(angle)}
	}

	p, err := NewPolygon(vertices)
	if err != nil {
		return nil, err
	}
	p.Radius = radius

	return p, nil
}

// NewRectangle builds an axis-aligned rectangle centered on its origin
func NewRectangle(width, height float64) (*Polygon, error) {
	if !(width > 0) || !(height > 0) {
		return nil, errors.Wrapf(ErrInvalidDimension, "rectangle %vx%v", width, height)
	}

	hw, hh := width/2, height/2
	p, err := NewPolygon([]mgl64.Vec2{
		{-hw, -hh},
		{hw, -hh},
		{hw, hh},
		{-hw, hh},
	})
	if err != nil {
		return nil, err
	}
	p.Type = ShapeTypeRectangle
	p.Width = width
	p.Height = height

	return p, nil
}

func signedArea(vertices []mgl64.Vec2) float64 {
	area := 0.0
	for i := range vertices {
		area += Cross(vertices[i], vertices[(i+1)%len(vertices)])
	}

	return area / 2
}

// VertexCount returns the number of vertices (and edges)
func (p *Polygon) VertexCount() int {
	return len(p.vertices)
}

// Vertex returns the local-space vertex i
func (p *Polygon) Vertex(i int) mgl64.Vec2 {
	return p.vertices[i]
}

// Normal returns the local-space outward normal of edge i -> i+1
func (p *Polygon) Normal(i int) mgl64.Vec2 {
	return p.normals[i]
}

// Vertices returns a copy of the local-space vertices
func (p *Polygon) Vertices() []mgl64.Vec2 {
	out := make([]mgl64.Vec2, len(p.vertices))
	copy(out, p.vertices)
	return out
}

// Area of the polygon
func (p *Polygon) Area() float64 {
	return p.area
}

// ComputeMass calculates the mass of the polygon for a given surface density
func (p *Polygon) ComputeMass(density float64) float64 {
	return density * p.area
}

// ComputeInertia returns the moment of inertia around the centroid for the given mass
func (p *Polygon) ComputeInertia(mass float64) float64 {
	return mass * p.unitInertia / p.area
}

// ComputeAABB calculates the world bounding box at the given transform
func (p *Polygon) ComputeAABB(transform Transform) AABB {
	world := make([]mgl64.Vec2, len(p.vertices))
	for i, v := range p.vertices {
		world[i] = transform.Apply(v)
	}

	return NewAABBFromPoints(world)
}
