// Package exact implements unbounded-precision rational geometry primitives
// and the certified floating-point filters that guard them.
//
// The rational types are the ground truth for every predicate in this
// module. They are treated as immutable: operations allocate fresh big.Rat
// values and never mutate their receivers or arguments, so values can be
// shared freely across goroutines.
package exact

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec3 is an exact rational 3-vector.
type Vec3 [3]big.Rat

// NewVec3 builds a Vec3 from three rationals, copying them.
func NewVec3(x, y, z *big.Rat) Vec3 {
	var v Vec3
	v[0].Set(x)
	v[1].Set(y)
	v[2].Set(z)
	return v
}

// Vec3FromFloat converts an approximate coordinate to its exact rational
// equivalent. Every float64 is exactly representable as a rational, so this
// is lossless.
func Vec3FromFloat(p mgl64.Vec3) Vec3 {
	var v Vec3
	v[0].SetFloat64(p.X())
	v[1].SetFloat64(p.Y())
	v[2].SetFloat64(p.Z())
	return v
}

// Approx returns the nearest float64 vector.
func (v *Vec3) Approx() mgl64.Vec3 {
	x, _ := v[0].Float64()
	y, _ := v[1].Float64()
	z, _ := v[2].Float64()
	return mgl64.Vec3{x, y, z}
}

func (v *Vec3) Add(w *Vec3) Vec3 {
	var r Vec3
	for i := 0; i < 3; i++ {
		r[i].Add(&v[i], &w[i])
	}
	return r
}

func (v *Vec3) Sub(w *Vec3) Vec3 {
	var r Vec3
	for i := 0; i < 3; i++ {
		r[i].Sub(&v[i], &w[i])
	}
	return r
}

func (v *Vec3) Scale(s *big.Rat) Vec3 {
	var r Vec3
	for i := 0; i < 3; i++ {
		r[i].Mul(&v[i], s)
	}
	return r
}

// Dot returns the exact dot product as a fresh rational.
func (v *Vec3) Dot(w *Vec3) *big.Rat {
	var t, r big.Rat
	r.Mul(&v[0], &w[0])
	r.Add(&r, t.Mul(&v[1], &w[1]))
	return r.Add(&r, t.Mul(&v[2], &w[2]))
}

func (v *Vec3) Cross(w *Vec3) Vec3 {
	var r Vec3
	var t big.Rat
	r[0].Mul(&v[1], &w[2])
	r[0].Sub(&r[0], t.Mul(&v[2], &w[1]))
	r[1].Mul(&v[2], &w[0])
	r[1].Sub(&r[1], t.Mul(&v[0], &w[2]))
	r[2].Mul(&v[0], &w[1])
	r[2].Sub(&r[2], t.Mul(&v[1], &w[0]))
	return r
}

// CrossPoly returns the Newell normal of a polygon given by co, which need
// not be planar-exact for more than three vertices. For a triangle it
// matches Cross of two edge vectors.
func CrossPoly(co []Vec3) Vec3 {
	var n Vec3
	var t big.Rat
	for i := range co {
		a := &co[i]
		b := &co[(i+1)%len(co)]
		n[0].Add(&n[0], t.Mul(t.Sub(&a[1], &b[1]), new(big.Rat).Add(&a[2], &b[2])))
		n[1].Add(&n[1], t.Mul(t.Sub(&a[2], &b[2]), new(big.Rat).Add(&a[0], &b[0])))
		n[2].Add(&n[2], t.Mul(t.Sub(&a[0], &b[0]), new(big.Rat).Add(&a[1], &b[1])))
	}
	return n
}

func (v *Vec3) Equal(w *Vec3) bool {
	return v[0].Cmp(&w[0]) == 0 && v[1].Cmp(&w[1]) == 0 && v[2].Cmp(&w[2]) == 0
}

// Cmp compares two vectors lexicographically by component, returning -1,
// 0 or +1.
func (v *Vec3) Cmp(w *Vec3) int {
	for i := 0; i < 3; i++ {
		if c := v[i].Cmp(&w[i]); c != 0 {
			return c
		}
	}
	return 0
}

func (v *Vec3) IsZero() bool {
	return v[0].Sign() == 0 && v[1].Sign() == 0 && v[2].Sign() == 0
}

// Key returns a canonical string form usable as a hash-map key. big.Rat
// keeps values normalized, so equal rationals produce equal keys.
func (v *Vec3) Key() string {
	var sb strings.Builder
	sb.WriteString(v[0].RatString())
	sb.WriteByte(',')
	sb.WriteString(v[1].RatString())
	sb.WriteByte(',')
	sb.WriteString(v[2].RatString())
	return sb.String()
}

func (v *Vec3) String() string {
	return fmt.Sprintf("(%s,%s,%s)", v[0].RatString(), v[1].RatString(), v[2].RatString())
}

// DominantAxis returns the axis index of the normal component with the
// largest magnitude. Projecting a plane's geometry along this axis never
// degenerates it.
func DominantAxis(n *Vec3) int {
	var ax, ay, az big.Rat
	ax.Abs(&n[0])
	ay.Abs(&n[1])
	az.Abs(&n[2])
	if ax.Cmp(&ay) >= 0 && ax.Cmp(&az) >= 0 {
		return 0
	}
	if ay.Cmp(&az) >= 0 {
		return 1
	}
	return 2
}

// Orient3D returns the sign of the signed volume of tetrahedron (a, b, c, d):
// +1 if d is below the plane of CCW triangle (a, b, c), -1 if above, 0 if
// the four points are coplanar. This is the exact ground truth the
// Orient3DFilter defers to.
func Orient3D(a, b, c, d *Vec3) int {
	ad := a.Sub(d)
	bd := b.Sub(d)
	cd := c.Sub(d)
	n := bd.Cross(&cd)
	return ad.Dot(&n).Sign()
}
