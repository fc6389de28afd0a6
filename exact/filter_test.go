package exact

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// A filter result of +1 or -1 must agree with the exact predicate over
// the rational lift of the same coordinates. 0 is always allowed.
func checkFilterAgrees(t *testing.T, a, b, c, d mgl64.Vec3) {
	t.Helper()
	got := Orient3DFilter(a, b, c, d)
	if got == 0 {
		return
	}
	ea := Vec3FromFloat(a)
	eb := Vec3FromFloat(b)
	ec := Vec3FromFloat(c)
	ed := Vec3FromFloat(d)
	want := Orient3D(&ea, &eb, &ec, &ed)
	if got != want {
		t.Errorf("filter certified %d but exact sign is %d for %v %v %v %v", got, want, a, b, c, d)
	}
}

func TestOrient3DFilterClearCases(t *testing.T) {
	a := mgl64.Vec3{0, 0, 0}
	b := mgl64.Vec3{1, 0, 0}
	c := mgl64.Vec3{0, 1, 0}
	if got := Orient3DFilter(a, b, c, mgl64.Vec3{0, 0, -1}); got != 1 {
		t.Errorf("well-separated below: got %d, want 1", got)
	}
	if got := Orient3DFilter(a, b, c, mgl64.Vec3{0, 0, 1}); got != -1 {
		t.Errorf("well-separated above: got %d, want -1", got)
	}
	if got := Orient3DFilter(a, b, c, mgl64.Vec3{3, 4, 0}); got != 0 {
		t.Errorf("coplanar: got %d, want 0", got)
	}
}

func TestOrient3DFilterNearDegenerate(t *testing.T) {
	// Points almost on a plane: the filter must either refuse to answer
	// or agree with exact arithmetic.
	a := mgl64.Vec3{0, 0, 0}
	b := mgl64.Vec3{1, 0, 0}
	c := mgl64.Vec3{0, 1, 0}
	for _, z := range []float64{1e-20, -1e-20, 1e-15, -1e-15, math.SmallestNonzeroFloat64} {
		checkFilterAgrees(t, a, b, c, mgl64.Vec3{0.3, 0.3, z})
	}
}

func TestOrient3DFilterRandomAgreement(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 500; i++ {
		pts := [4]mgl64.Vec3{}
		for j := range pts {
			pts[j] = mgl64.Vec3{rng.Float64()*2 - 1, rng.Float64()*2 - 1, rng.Float64()*2 - 1}
		}
		checkFilterAgrees(t, pts[0], pts[1], pts[2], pts[3])
	}
}

func TestNearParallel(t *testing.T) {
	x := mgl64.Vec3{1, 0, 0}
	if !NearParallel(x, mgl64.Vec3{-3, 0, 0}) {
		t.Error("anti-parallel vectors reported as not parallel")
	}
	if NearParallel(x, mgl64.Vec3{0, 1, 0}) {
		t.Error("orthogonal vectors reported as possibly parallel")
	}
	// Too close to call must stay on the safe side.
	if !NearParallel(x, mgl64.Vec3{1, 1e-200, 0}) {
		t.Error("nearly parallel vectors certified as non-parallel")
	}
}

func TestDotCertainlyPositive(t *testing.T) {
	a := mgl64.Vec3{1, 2, 3}
	if !DotCertainlyPositive(a, a) {
		t.Error("dot of a vector with itself not certified positive")
	}
	if DotCertainlyPositive(a, mgl64.Vec3{-1, -2, -3}) {
		t.Error("negative dot certified positive")
	}
	if DotCertainlyPositive(mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 1, 0}) {
		t.Error("zero dot certified positive")
	}
}
