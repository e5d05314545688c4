package globe

import (
	"math"
)

// relative tolerance of the discriminant under which a line is tangent to the sphere
const tangentEpsilon = 1e-12

func LengthFromVerticeToVertice(a, b Vertice) float64 {
	return a.DistanceTo(b)
}

// LengthFromVerticeToLine is the distance from v to the infinite line l.
// A line without direction degenerates to its own vertice.
func LengthFromVerticeToLine(v Vertice, l Line) float64 {
	dir := l.Vector.Normalize()
	toV := v.Minus(l.Vertice)
	if dir.IsZero() {
		return toV.Length()
	}
	return toV.Cross(dir).Length()
}

// LengthFromVerticeToPlan is |Ax+By+Cz+D| / |(A,B,C)|.
func LengthFromVerticeToPlan(v Vertice, p Plan) float64 {
	n := p.Normal().Length()
	if n == 0 {
		return 0
	}
	return math.Abs(p.A*v.X+p.B*v.Y+p.C*v.Z+p.D) / n
}

// VerticeVerticalIntersectPointWithPlan is the foot of the perpendicular from v on p.
func VerticeVerticalIntersectPointWithPlan(v Vertice, p Plan) Vertice {
	n := p.Normal()
	n2 := n.Dot(n)
	if n2 == 0 {
		return v
	}
	t := (n.Dot(v.Vector()) + p.D) / n2
	return v.Plus(n.Scale(-t))
}

// IntersectPointByLineAndPlan solves the line for the plane; ok is false when they are parallel.
func IntersectPointByLineAndPlan(l Line, p Plan) (Vertice, bool) {
	dir := l.Vector.Normalize()
	n := p.Normal()
	denominator := n.Dot(dir)
	if denominator == 0 {
		return Vertice{}, false
	}
	t := -(n.Dot(l.Vertice.Vector()) + p.D) / denominator
	return l.Vertice.Plus(dir.Scale(t)), true
}

// CrossPlaneByLine is the plane through v with normal dir; ok is false for a zero dir.
func CrossPlaneByLine(v Vertice, dir Vector) (Plan, bool) {
	n := dir.Normalize()
	if n.IsZero() {
		return Plan{}, false
	}
	return Plan{A: n.X, B: n.Y, C: n.Z, D: -n.Dot(v.Vector())}, true
}

// TriangleArea by Heron's formula.
func TriangleArea(a, b, c Vertice) float64 {
	ab := a.DistanceTo(b)
	bc := b.DistanceTo(c)
	ca := c.DistanceTo(a)
	s := (ab + bc + ca) / 2
	area2 := s * (s - ab) * (s - bc) * (s - ca)
	if area2 <= 0 {
		return 0
	}
	return math.Sqrt(area2)
}

// LineIntersectPointWithEarth intersects the infinite line with the sphere of the model.
// It returns no vertice when the line misses, one when it touches, two otherwise (in line order).
func (m Model) LineIntersectPointWithEarth(l Line) []Vertice {
	dir := l.Vector.Normalize()
	if dir.IsZero() {
		return nil
	}
	o := l.Vertice.Vector()
	r2 := m.Radius * m.Radius
	// |o + t·dir|² = r² with |dir| = 1: t² + 2·b·t + c = 0
	b := dir.Dot(o)
	c := o.Dot(o) - r2
	discriminant := b*b - c
	epsilon := tangentEpsilon * r2
	switch {
	case discriminant < -epsilon:
		return nil
	case discriminant <= epsilon:
		return []Vertice{l.Vertice.Plus(dir.Scale(-b))}
	}
	sqrt := math.Sqrt(discriminant)
	return []Vertice{
		l.Vertice.Plus(dir.Scale(-b - sqrt)),
		l.Vertice.Plus(dir.Scale(-b + sqrt)),
	}
}
