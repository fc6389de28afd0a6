package exact

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Error-bounded floating-point filters.
//
// Each predicate below is computed in double precision together with a
// certified upper bound on the absolute error of that computation. The
// bound follows the supremum/index scheme of Burnikel, Funke and Seel
// ("Exact Geometric Computation Using Cascading"): for an expression E
// over +, -, * the supremum is the same expression evaluated on absolute
// values with every subtraction replaced by addition, and
//
//	|E_exact - E| <= supremum(E) * index(E) * epsilon
//
// where index follows
//
//	index(x op y) = 1 + max(index(x), index(y))   for + and -
//	index(x * y)  = 1 + index(x) + index(y)
//	index(x)      = 1 for an input that approximates an exact value.
//
// If |E| exceeds the bound, the sign of E is certified equal to the sign of
// the exact result. Otherwise the caller must fall back to exact rational
// arithmetic; a filter never returns a wrong sign.

const dblEpsilon = 2.220446049250313e-16

// Index constants for inputs that are approximations of exact values.
// They would be smaller if inputs were known exactly representable.
const (
	indexOrient3D = 11
	indexCross    = 11
	indexDot      = 5
)

func absVec(a mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{math.Abs(a.X()), math.Abs(a.Y()), math.Abs(a.Z())}
}

func orient3DFast(a, b, c, d mgl64.Vec3) float64 {
	ad := a.Sub(d)
	bd := b.Sub(d)
	cd := c.Sub(d)
	return ad.Dot(bd.Cross(cd))
}

func supremumOrient3D(a, b, c, d mgl64.Vec3) float64 {
	aa, ab, ac, ad := absVec(a), absVec(b), absVec(c), absVec(d)
	x := aa.Add(ad)
	y := ab.Add(ad)
	z := ac.Add(ad)
	// cross with + in place of - on absolute values
	cr := mgl64.Vec3{
		y.Y()*z.Z() + y.Z()*z.Y(),
		y.Z()*z.X() + y.X()*z.Z(),
		y.X()*z.Y() + y.Y()*z.X(),
	}
	return x.Dot(cr)
}

// Orient3DFilter returns the certified sign of the orientation of four
// points: the result is +1 or -1 only when the exact Orient3D over the
// underlying rationals would agree. 0 means uncertain.
func Orient3DFilter(a, b, c, d mgl64.Vec3) int {
	det := orient3DFast(a, b, c, d)
	if det == 0.0 {
		return 0
	}
	errBound := supremumOrient3D(a, b, c, d) * indexOrient3D * dblEpsilon
	if math.Abs(det) > errBound {
		if det > 0 {
			return 1
		}
		return -1
	}
	return 0
}

func supremumCrossLenSq(a, b mgl64.Vec3) float64 {
	aa, ab := absVec(a), absVec(b)
	c := mgl64.Vec3{
		aa.Y()*ab.Z() + aa.Z()*ab.Y(),
		aa.Z()*ab.X() + aa.X()*ab.Z(),
		aa.X()*ab.Y() + aa.Y()*ab.X(),
	}
	return c.Dot(c)
}

// NearParallel reports whether a and b may be parallel. It returns false
// only when the cross product magnitude is certified nonzero; a true
// answer means parallel or too close to call.
func NearParallel(a, b mgl64.Vec3) bool {
	cr := a.Cross(b)
	crLenSq := cr.Dot(cr)
	if crLenSq == 0.0 {
		return true
	}
	errBound := supremumCrossLenSq(a, b) * indexCross * dblEpsilon
	return crLenSq <= errBound
}

func supremumDot(a, b mgl64.Vec3) float64 {
	return absVec(a).Dot(absVec(b))
}

// DotCertainlyPositive reports whether dot(a, b) is certified strictly
// positive. A false answer means negative, zero, or uncertain.
func DotCertainlyPositive(a, b mgl64.Vec3) bool {
	d := a.Dot(b)
	if d <= 0.0 {
		return false
	}
	errBound := supremumDot(a, b) * indexDot * dblEpsilon
	return d > errBound
}
