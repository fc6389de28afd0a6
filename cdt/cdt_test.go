package cdt

import (
	"math/big"
	"testing"

	"github.com/meshtools/trisect/exact"
)

func pt(x, y float64) exact.Vec2 {
	var a, b big.Rat
	a.SetFloat64(x)
	b.SetFloat64(y)
	return exact.NewVec2(&a, &b)
}

func findVert(t *testing.T, res *Result, p exact.Vec2) int {
	t.Helper()
	for i := range res.Verts {
		if res.Verts[i].Equal(&p) {
			return i
		}
	}
	t.Fatalf("vertex %s not in result", p.String())
	return -1
}

func findEdge(res *Result, a, b int) int {
	for e := range res.Edges {
		if (res.Edges[e][0] == a && res.Edges[e][1] == b) ||
			(res.Edges[e][0] == b && res.Edges[e][1] == a) {
			return e
		}
	}
	return -1
}

func hasID(ids []int, id int) bool {
	for _, have := range ids {
		if have == id {
			return true
		}
	}
	return false
}

// doubleArea sums twice the area of all output triangles tagged with
// input face f. Output triangles are CCW, so each term is positive.
func doubleArea(res *Result, f int) *big.Rat {
	total := new(big.Rat)
	for i, tri := range res.Faces {
		if !hasID(res.FaceOrig[i], f) {
			continue
		}
		a := &res.Verts[tri[0]]
		b := &res.Verts[tri[1]]
		c := &res.Verts[tri[2]]
		ab := b.Sub(a)
		ac := c.Sub(a)
		total.Add(total, ab.Cross(&ac))
	}
	return total
}

func TestTriangulateSingleTriangle(t *testing.T) {
	res, err := Triangulate(Input{
		Verts: []exact.Vec2{pt(0, 0), pt(4, 0), pt(0, 4)},
		Faces: [][]int{{0, 1, 2}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Faces) != 1 {
		t.Fatalf("got %d faces, want 1", len(res.Faces))
	}
	if len(res.Verts) != 3 {
		t.Fatalf("got %d verts, want 3", len(res.Verts))
	}
	if !hasID(res.FaceOrig[0], 0) {
		t.Errorf("FaceOrig[0] = %v, missing input face 0", res.FaceOrig[0])
	}
	if got := doubleArea(res, 0); got.Cmp(big.NewRat(16, 1)) != 0 {
		t.Errorf("double area = %s, want 16", got.RatString())
	}

	// Boundary edge of face 0 at position 0: origin id (0+1)*foff + 0.
	a := findVert(t, res, pt(0, 0))
	b := findVert(t, res, pt(4, 0))
	e := findEdge(res, a, b)
	if e == -1 {
		t.Fatal("boundary edge (0,0)-(4,0) missing from result")
	}
	if !hasID(res.EdgeOrig[e], res.FaceEdgeOffset) {
		t.Errorf("EdgeOrig = %v, missing boundary id %d", res.EdgeOrig[e], res.FaceEdgeOffset)
	}
}

func TestTriangulateForcedInteriorEdge(t *testing.T) {
	res, err := Triangulate(Input{
		Verts: []exact.Vec2{pt(0, 0), pt(4, 0), pt(0, 4), pt(1, 1), pt(2, 1)},
		Edges: [][2]int{{3, 4}},
		Faces: [][]int{{0, 1, 2}},
	})
	if err != nil {
		t.Fatal(err)
	}
	a := findVert(t, res, pt(1, 1))
	b := findVert(t, res, pt(2, 1))
	e := findEdge(res, a, b)
	if e == -1 {
		t.Fatal("forced edge (1,1)-(2,1) missing from result")
	}
	if !hasID(res.EdgeOrig[e], 0) {
		t.Errorf("EdgeOrig = %v, missing input edge id 0", res.EdgeOrig[e])
	}
	for i := range res.Faces {
		if !hasID(res.FaceOrig[i], 0) {
			t.Errorf("face %d FaceOrig = %v, want containing 0", i, res.FaceOrig[i])
		}
	}
	if got := doubleArea(res, 0); got.Cmp(big.NewRat(16, 1)) != 0 {
		t.Errorf("double area = %s, want 16", got.RatString())
	}
}

func TestTriangulateCrossingConstraints(t *testing.T) {
	res, err := Triangulate(Input{
		Verts: []exact.Vec2{
			pt(0, 0), pt(4, 0), pt(0, 4),
			pt(0.5, 1), pt(2.5, 1),
			pt(1, 0.25), pt(1, 2),
		},
		Edges: [][2]int{{3, 4}, {5, 6}},
		Faces: [][]int{{0, 1, 2}},
	})
	if err != nil {
		t.Fatal(err)
	}
	// The segments properly cross at (1, 1), which must become a vertex
	// splitting both constraints.
	x := findVert(t, res, pt(1, 1))
	a := findVert(t, res, pt(0.5, 1))
	b := findVert(t, res, pt(1, 0.25))
	ea := findEdge(res, a, x)
	if ea == -1 {
		t.Fatal("sub-edge (0.5,1)-(1,1) missing")
	}
	if !hasID(res.EdgeOrig[ea], 0) {
		t.Errorf("EdgeOrig = %v, missing id 0", res.EdgeOrig[ea])
	}
	eb := findEdge(res, b, x)
	if eb == -1 {
		t.Fatal("sub-edge (1,0.25)-(1,1) missing")
	}
	if !hasID(res.EdgeOrig[eb], 1) {
		t.Errorf("EdgeOrig = %v, missing id 1", res.EdgeOrig[eb])
	}
	if got := doubleArea(res, 0); got.Cmp(big.NewRat(16, 1)) != 0 {
		t.Errorf("double area = %s, want 16", got.RatString())
	}
}

func TestTriangulateOverlappingFaces(t *testing.T) {
	// Offsets are exactly representable in float64 so each face's double
	// area is exactly 1.
	res, err := Triangulate(Input{
		Verts: []exact.Vec2{
			pt(0, 0), pt(1, 0), pt(0, 1),
			pt(0.25, 0.25), pt(1.25, 0.25), pt(0.25, 1.25),
		},
		Faces: [][]int{{0, 1, 2}, {3, 4, 5}},
	})
	if err != nil {
		t.Fatal(err)
	}
	both := false
	for i := range res.Faces {
		if hasID(res.FaceOrig[i], 0) && hasID(res.FaceOrig[i], 1) {
			both = true
		}
	}
	if !both {
		t.Error("no output triangle tagged with both overlapping faces")
	}
	// Each face keeps its full area through the shared subdivision.
	if got := doubleArea(res, 0); got.Cmp(big.NewRat(1, 1)) != 0 {
		t.Errorf("double area of face 0 = %s, want 1", got.RatString())
	}
	if got := doubleArea(res, 1); got.Cmp(big.NewRat(1, 1)) != 0 {
		t.Errorf("double area of face 1 = %s, want 1", got.RatString())
	}
}

func TestTriangulateDedupsVerts(t *testing.T) {
	res, err := Triangulate(Input{
		Verts: []exact.Vec2{pt(0, 0), pt(2, 0), pt(0, 2), pt(2, 0)},
		Edges: [][2]int{{0, 3}},
		Faces: [][]int{{0, 1, 2}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Verts) != 3 {
		t.Errorf("got %d verts, want 3 after dedup", len(res.Verts))
	}
}

func TestTriangulateDegenerateFace(t *testing.T) {
	_, err := Triangulate(Input{
		Verts: []exact.Vec2{pt(0, 0), pt(1, 0)},
		Faces: [][]int{{0, 0, 1}},
	})
	if err == nil {
		t.Fatal("expected error for degenerate face loop")
	}
}
