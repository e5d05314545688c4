// Package matrix is a 4x4 homogeneous transform in column-major order.
// Matrices are values; every operation returns a new Matrix.
package matrix

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/pdok/globetiles/globe"
)

// Matrix stores its elements column by column, so index 12..14 is the translation.
type Matrix mgl64.Mat4

func Identity() Matrix {
	return Matrix(mgl64.Ident4())
}

// FromRows builds a matrix from its elements written row by row.
func FromRows(rows [4][4]float64) Matrix {
	return Matrix(mgl64.Mat4FromRows(rows[0], rows[1], rows[2], rows[3]))
}

// FromBasis is the pose with axes x, y, z and origin o, last row (0, 0, 0, 1).
func FromBasis(x, y, z globe.Vector, o globe.Vertice) Matrix {
	return Matrix{
		x.X, x.Y, x.Z, 0,
		y.X, y.Y, y.Z, 0,
		z.X, z.Y, z.Z, 0,
		o.X, o.Y, o.Z, 1,
	}
}

// Perspective is the symmetric perspective projection for a vertical fov in degrees.
// The arguments are not checked; see camera for the validated setters.
func Perspective(fov, aspect, near, far float64) Matrix {
	return Matrix(mgl64.Perspective(fov*globe.OneDegreeEqualRadian, aspect, near, far))
}

func (m Matrix) mat() mgl64.Mat4 { return mgl64.Mat4(m) }

// At is the element at row, column.
func (m Matrix) At(row, column int) float64 {
	return m.mat().At(row, column)
}

// Elements in column-major order.
func (m Matrix) Elements() [16]float64 {
	return m
}

// Mul is m·o.
func (m Matrix) Mul(o Matrix) Matrix {
	return Matrix(m.mat().Mul4(o.mat()))
}

// MulColumn is m·c for a homogeneous column.
func (m Matrix) MulColumn(c [4]float64) [4]float64 {
	return m.mat().Mul4x1(c)
}

// TransformVertice applies m to (v, 1) and divides by w. ok is false when w is 0.
func (m Matrix) TransformVertice(v globe.Vertice) (globe.Vertice, bool) {
	c := m.MulColumn([4]float64{v.X, v.Y, v.Z, 1})
	if c[3] == 0 {
		return globe.Vertice{}, false
	}
	return globe.Vertice{X: c[0] / c[3], Y: c[1] / c[3], Z: c[2] / c[3]}, true
}

// TransformVector applies the linear part of m to d.
func (m Matrix) TransformVector(d globe.Vector) globe.Vector {
	c := m.MulColumn([4]float64{d.X, d.Y, d.Z, 0})
	return globe.Vector{X: c[0], Y: c[1], Z: c[2]}
}

func (m Matrix) Determinant() float64 {
	return m.mat().Det()
}

// Inverse of m; ok is false for a singular matrix.
func (m Matrix) Inverse() (Matrix, bool) {
	det := m.Determinant()
	if det == 0 || math.IsNaN(det) {
		return Matrix{}, false
	}
	return Matrix(m.mat().Inv()), true
}

// RigidInverse inverts a rotation plus translation without a determinant:
// the rotation is transposed and the translation rotated back.
func (m Matrix) RigidInverse() Matrix {
	x, y, z := m.ColumnX(), m.ColumnY(), m.ColumnZ()
	p := m.Position().Vector()
	return Matrix{
		x.X, y.X, z.X, 0,
		x.Y, y.Y, z.Y, 0,
		x.Z, y.Z, z.Z, 0,
		-x.Dot(p), -y.Dot(p), -z.Dot(p), 1,
	}
}

func (m Matrix) Transpose() Matrix {
	return Matrix(m.mat().Transpose())
}

// ApproxEqual compares element-wise, each element within an absolute epsilon.
func (m Matrix) ApproxEqual(o Matrix, epsilon float64) bool {
	return m.mat().ApproxFuncEqual(o.mat(), func(a, b float64) bool {
		return math.Abs(a-b) <= epsilon
	})
}

func (m Matrix) column(i int) globe.Vector {
	c := m.mat().Col(i)
	return globe.Vector{X: c[0], Y: c[1], Z: c[2]}
}

func (m Matrix) ColumnX() globe.Vector { return m.column(0) }
func (m Matrix) ColumnY() globe.Vector { return m.column(1) }
func (m Matrix) ColumnZ() globe.Vector { return m.column(2) }

// Position is the translation column.
func (m Matrix) Position() globe.Vertice {
	return m.column(3).Vertice()
}

// WithPosition replaces the translation column.
func (m Matrix) WithPosition(p globe.Vertice) Matrix {
	m[12], m[13], m[14] = p.X, p.Y, p.Z
	return m
}

// WorldTranslate moves the origin along world axes.
func (m Matrix) WorldTranslate(x, y, z float64) Matrix {
	m[12] += x
	m[13] += y
	m[14] += z
	return m
}

// LocalTranslate moves the origin along the axes of m itself.
func (m Matrix) LocalTranslate(x, y, z float64) Matrix {
	moved, _ := m.TransformVertice(globe.Vertice{X: x, Y: y, Z: z})
	return m.WithPosition(moved)
}

// WorldScale scales about the world origin.
func (m Matrix) WorldScale(x, y, z float64) Matrix {
	return Matrix(mgl64.Scale3D(x, y, z).Mul4(m.mat()))
}

// LocalScale scales in place, keeping the position.
func (m Matrix) LocalScale(x, y, z float64) Matrix {
	p := m.Position()
	return m.WithPosition(globe.Origin()).WorldScale(x, y, z).WithPosition(p)
}

// WorldRotate rotates by radian about axis through the world origin.
// A zero axis leaves m unchanged.
func (m Matrix) WorldRotate(radian float64, axis globe.Vector) Matrix {
	n := axis.Normalize()
	if n.IsZero() {
		return m
	}
	return Matrix(mgl64.HomogRotate3D(radian, mgl64.Vec3{n.X, n.Y, n.Z}).Mul4(m.mat()))
}

// LocalRotate rotates by radian about an axis given in the frame of m, through its own position.
func (m Matrix) LocalRotate(radian float64, localAxis globe.Vector) Matrix {
	p := m.Position()
	axis := m.TransformVector(localAxis)
	return m.WithPosition(globe.Origin()).WorldRotate(radian, axis).WithPosition(p)
}

func (m Matrix) LocalRotateX(radian float64) Matrix {
	return m.LocalRotate(radian, globe.Vector{X: 1})
}

func (m Matrix) LocalRotateY(radian float64) Matrix {
	return m.LocalRotate(radian, globe.Vector{Y: 1})
}

func (m Matrix) LocalRotateZ(radian float64) Matrix {
	return m.LocalRotate(radian, globe.Vector{Z: 1})
}
