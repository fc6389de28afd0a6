package exact

import (
	"fmt"
	"math/big"

	"github.com/go-gl/mathgl/mgl64"
)

// Plane is an exact plane in implicit form: a point p is on the plane when
// Dot(p, Norm) + D == 0. The approximate normal and offset are cached at
// construction for use by the floating-point filters.
type Plane struct {
	Norm Vec3
	D    big.Rat

	NormApprox mgl64.Vec3
	DApprox    float64
}

// NewPlane builds a plane from an exact normal and offset.
func NewPlane(norm Vec3, d *big.Rat) Plane {
	var p Plane
	p.Norm = norm
	p.D.Set(d)
	p.NormApprox = norm.Approx()
	p.DApprox, _ = d.Float64()
	return p
}

// PlaneFromPoints builds the plane through polygon co, oriented by the
// polygon's winding. co must have at least three vertices.
func PlaneFromPoints(co []Vec3) Plane {
	var norm Vec3
	if len(co) > 3 {
		norm = CrossPoly(co)
	} else {
		tr02 := co[0].Sub(&co[2])
		tr12 := co[1].Sub(&co[2])
		norm = tr02.Cross(&tr12)
	}
	var d big.Rat
	d.Neg(norm.Dot(&co[0]))
	return NewPlane(norm, &d)
}

func (p *Plane) Equal(q *Plane) bool {
	return p.Norm.Equal(&q.Norm) && p.D.Cmp(&q.D) == 0
}

// Canonical returns the grouping form of the plane: the first nonzero
// normal component forced to 1 by dividing through. This may flip the
// plane's orientation, so the canonical form is only used as a map key,
// never stored on a Face. Canonicalization is idempotent.
func (p *Plane) Canonical() Plane {
	var den big.Rat
	switch {
	case p.Norm[0].Sign() != 0:
		den.Set(&p.Norm[0])
	case p.Norm[1].Sign() != 0:
		den.Set(&p.Norm[1])
	default:
		den.Set(&p.Norm[2])
	}
	var inv big.Rat
	inv.Inv(&den)
	norm := p.Norm.Scale(&inv)
	var d big.Rat
	d.Mul(&p.D, &inv)
	return NewPlane(norm, &d)
}

// Key returns a canonical string form usable as a hash-map key. Callers
// grouping coplanar geometry should call it on the Canonical() plane.
func (p *Plane) Key() string {
	return p.Norm.Key() + ";" + p.D.RatString()
}

// SideOf returns the sign of the signed distance of pt to the plane
// (positive on the side the normal points to).
func (p *Plane) SideOf(pt *Vec3) int {
	var r big.Rat
	r.Add(p.Norm.Dot(pt), &p.D)
	return r.Sign()
}

func (p *Plane) String() string {
	return fmt.Sprintf("[%s;%s]", p.Norm.String(), p.D.RatString())
}
