package globe

import (
	"fmt"

	"github.com/golang/geo/r3"
)

// Vertice is a position in globe space.
type Vertice r3.Vector

// Vector is a direction in globe space.
type Vector r3.Vector

// Origin is the centre of the globe.
func Origin() Vertice {
	return Vertice{}
}

func NewVertice(x, y, z float64) Vertice {
	return Vertice{X: x, Y: y, Z: z}
}

func NewVector(x, y, z float64) Vector {
	return Vector{X: x, Y: y, Z: z}
}

func (v Vertice) r3() r3.Vector { return r3.Vector(v) }

// Plus translates v by d.
func (v Vertice) Plus(d Vector) Vertice {
	return Vertice(v.r3().Add(r3.Vector(d)))
}

// Minus is the vector from o to v.
func (v Vertice) Minus(o Vertice) Vector {
	return Vector(v.r3().Sub(o.r3()))
}

// Vector is the position vector of v.
func (v Vertice) Vector() Vector {
	return Vector(v)
}

func (v Vertice) DistanceTo(o Vertice) float64 {
	return v.r3().Distance(o.r3())
}

func (v Vertice) IsOrigin() bool {
	return v == Origin()
}

func (v Vertice) String() string {
	return fmt.Sprintf("(%v, %v, %v)", v.X, v.Y, v.Z)
}

func (v Vector) r3() r3.Vector { return r3.Vector(v) }

// Normalize returns the unit vector; the zero vector stays zero.
func (v Vector) Normalize() Vector {
	return Vector(v.r3().Normalize())
}

func (v Vector) Length() float64 {
	return v.r3().Norm()
}

func (v Vector) Dot(o Vector) float64 {
	return v.r3().Dot(o.r3())
}

func (v Vector) Cross(o Vector) Vector {
	return Vector(v.r3().Cross(o.r3()))
}

func (v Vector) Plus(o Vector) Vector {
	return Vector(v.r3().Add(o.r3()))
}

func (v Vector) Minus(o Vector) Vector {
	return Vector(v.r3().Sub(o.r3()))
}

func (v Vector) Scale(k float64) Vector {
	return Vector(v.r3().Mul(k))
}

// SetLength keeps the direction and changes the length.
func (v Vector) SetLength(length float64) Vector {
	return v.Normalize().Scale(length)
}

func (v Vector) Opposite() Vector {
	return v.Scale(-1)
}

func (v Vector) IsZero() bool {
	return v == Vector{}
}

// Vertice is the point v points at from the origin.
func (v Vector) Vertice() Vertice {
	return Vertice(v)
}

// Line is an infinite line through Vertice along Vector.
type Line struct {
	Vertice Vertice
	Vector  Vector
}

func NewLine(v Vertice, d Vector) Line {
	return Line{Vertice: v, Vector: d}
}

// Plan is the plane A·x + B·y + C·z + D = 0.
type Plan struct {
	A, B, C, D float64
}

// NewPlan rejects planes without a normal.
func NewPlan(a, b, c, d float64) (Plan, error) {
	for _, f := range []struct {
		name  string
		value float64
	}{{"A", a}, {"B", b}, {"C", c}, {"D", d}} {
		if err := CheckFinite(f.name, f.value); err != nil {
			return Plan{}, err
		}
	}
	if a == 0 && b == 0 && c == 0 {
		return Plan{}, InvalidArgument("plan", [4]float64{a, b, c, d}, "normal is the zero vector")
	}
	return Plan{A: a, B: b, C: c, D: d}, nil
}

// Normal is (A, B, C).
func (p Plan) Normal() Vector {
	return Vector{X: p.A, Y: p.B, Z: p.C}
}
