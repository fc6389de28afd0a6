package exact

import (
	"fmt"
	"math/big"
	"strings"
)

// Vec2 is an exact rational 2-vector, used for projected plane geometry.
type Vec2 [2]big.Rat

// NewVec2 builds a Vec2 from two rationals, copying them.
func NewVec2(x, y *big.Rat) Vec2 {
	var v Vec2
	v[0].Set(x)
	v[1].Set(y)
	return v
}

func (v *Vec2) Add(w *Vec2) Vec2 {
	var r Vec2
	r[0].Add(&v[0], &w[0])
	r[1].Add(&v[1], &w[1])
	return r
}

func (v *Vec2) Sub(w *Vec2) Vec2 {
	var r Vec2
	r[0].Sub(&v[0], &w[0])
	r[1].Sub(&v[1], &w[1])
	return r
}

func (v *Vec2) Dot(w *Vec2) *big.Rat {
	var t, r big.Rat
	r.Mul(&v[0], &w[0])
	return r.Add(&r, t.Mul(&v[1], &w[1]))
}

// Cross returns the scalar (z) cross product of the two vectors.
func (v *Vec2) Cross(w *Vec2) *big.Rat {
	var t, r big.Rat
	r.Mul(&v[0], &w[1])
	return r.Sub(&r, t.Mul(&v[1], &w[0]))
}

func (v *Vec2) Equal(w *Vec2) bool {
	return v[0].Cmp(&w[0]) == 0 && v[1].Cmp(&w[1]) == 0
}

// Key returns a canonical string form usable as a hash-map key.
func (v *Vec2) Key() string {
	var sb strings.Builder
	sb.WriteString(v[0].RatString())
	sb.WriteByte(',')
	sb.WriteString(v[1].RatString())
	return sb.String()
}

func (v *Vec2) String() string {
	return fmt.Sprintf("(%s,%s)", v[0].RatString(), v[1].RatString())
}

// Orient2D returns +1 if c is strictly left of directed line a->b, -1 if
// strictly right, 0 if collinear.
func Orient2D(a, b, c *Vec2) int {
	ab := b.Sub(a)
	ac := c.Sub(a)
	return ab.Cross(&ac).Sign()
}

// InCircle returns +1 if d is strictly inside the circumcircle of the CCW
// triangle (a, b, c), -1 if strictly outside, 0 if on it.
func InCircle(a, b, c, d *Vec2) int {
	var ax, ay, bx, by, cx, cy big.Rat
	ax.Sub(&a[0], &d[0])
	ay.Sub(&a[1], &d[1])
	bx.Sub(&b[0], &d[0])
	by.Sub(&b[1], &d[1])
	cx.Sub(&c[0], &d[0])
	cy.Sub(&c[1], &d[1])

	sq := func(x, y *big.Rat) *big.Rat {
		var t, r big.Rat
		r.Mul(x, x)
		return r.Add(&r, t.Mul(y, y))
	}
	det2 := func(p, q, r, s *big.Rat) *big.Rat {
		var t, d big.Rat
		d.Mul(p, s)
		return d.Sub(&d, t.Mul(q, r))
	}

	asq, bsq, csq := sq(&ax, &ay), sq(&bx, &by), sq(&cx, &cy)
	var r, t big.Rat
	r.Mul(asq, det2(&bx, &by, &cx, &cy))
	r.Sub(&r, t.Mul(bsq, det2(&ax, &ay, &cx, &cy)))
	r.Add(&r, t.Mul(csq, det2(&ax, &ay, &bx, &by)))
	return r.Sign()
}
