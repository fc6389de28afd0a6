package cdt

import (
	"fmt"
	"math/big"

	"github.com/meshtools/trisect/exact"
)

// triangulator holds the working triangulation: all points (input points
// first, then the four bounding-rectangle corners), CCW triangles, and a
// directed-edge adjacency map. Dead triangle slots are kept so indices
// stay stable; adjacency always points at live triangles.
type triangulator struct {
	pts   []exact.Vec2
	nreal int // points before the rectangle corners

	tris [][3]int
	dead []bool
	adj  map[[2]int]int

	fixed map[[2]int][]int
}

const maxForceFlips = 100000

func newTriangulator(pts []exact.Vec2) *triangulator {
	tr := &triangulator{
		pts:   pts,
		nreal: len(pts),
		adj:   make(map[[2]int]int),
	}
	tr.addBoundingRect()
	return tr
}

// addBoundingRect appends four corner points strictly outside the bounds
// of all real points and seeds the triangulation with two CCW triangles.
func (tr *triangulator) addBoundingRect() {
	var minX, maxX, minY, maxY big.Rat
	for i := range tr.pts {
		p := &tr.pts[i]
		if i == 0 {
			minX.Set(&p[0])
			maxX.Set(&p[0])
			minY.Set(&p[1])
			maxY.Set(&p[1])
			continue
		}
		if p[0].Cmp(&minX) < 0 {
			minX.Set(&p[0])
		}
		if p[0].Cmp(&maxX) > 0 {
			maxX.Set(&p[0])
		}
		if p[1].Cmp(&minY) < 0 {
			minY.Set(&p[1])
		}
		if p[1].Cmp(&maxY) > 0 {
			maxY.Set(&p[1])
		}
	}
	var pad big.Rat
	pad.Sub(&maxX, &minX)
	var h big.Rat
	h.Sub(&maxY, &minY)
	if h.Cmp(&pad) > 0 {
		pad.Set(&h)
	}
	one := big.NewRat(1, 1)
	pad.Add(&pad, one)

	var left, right, bottom, top big.Rat
	left.Sub(&minX, &pad)
	right.Add(&maxX, &pad)
	bottom.Sub(&minY, &pad)
	top.Add(&maxY, &pad)

	lb := len(tr.pts)
	tr.pts = append(tr.pts,
		exact.NewVec2(&left, &bottom),
		exact.NewVec2(&right, &bottom),
		exact.NewVec2(&right, &top),
		exact.NewVec2(&left, &top),
	)
	tr.addTri(lb, lb+1, lb+2)
	tr.addTri(lb, lb+2, lb+3)
}

func (tr *triangulator) addTri(a, b, c int) int {
	i := len(tr.tris)
	tr.tris = append(tr.tris, [3]int{a, b, c})
	tr.dead = append(tr.dead, false)
	tr.adj[[2]int{a, b}] = i
	tr.adj[[2]int{b, c}] = i
	tr.adj[[2]int{c, a}] = i
	return i
}

func (tr *triangulator) killTri(i int) {
	t := tr.tris[i]
	tr.dead[i] = true
	delete(tr.adj, [2]int{t[0], t[1]})
	delete(tr.adj, [2]int{t[1], t[2]})
	delete(tr.adj, [2]int{t[2], t[0]})
}

// apex returns the vertex of triangle i that is neither u nor v.
func (tr *triangulator) apex(i, u, v int) int {
	for _, w := range tr.tris[i] {
		if w != u && w != v {
			return w
		}
	}
	return -1
}

func (tr *triangulator) hasEdge(a, b int) bool {
	if _, ok := tr.adj[[2]int{a, b}]; ok {
		return true
	}
	_, ok := tr.adj[[2]int{b, a}]
	return ok
}

func (tr *triangulator) isFixed(a, b int) bool {
	_, ok := tr.fixed[sortPair(a, b)]
	return ok
}

func (tr *triangulator) contains(i, p int) bool {
	t := tr.tris[i]
	return exact.Orient2D(&tr.pts[t[0]], &tr.pts[t[1]], &tr.pts[p]) >= 0 &&
		exact.Orient2D(&tr.pts[t[1]], &tr.pts[t[2]], &tr.pts[p]) >= 0 &&
		exact.Orient2D(&tr.pts[t[2]], &tr.pts[t[0]], &tr.pts[p]) >= 0
}

// insert adds point p to the triangulation. p is strictly inside the
// bounding rectangle and distinct from all existing points.
func (tr *triangulator) insert(p int) error {
	var containing []int
	for i := range tr.tris {
		if !tr.dead[i] && tr.contains(i, p) {
			containing = append(containing, i)
		}
	}
	switch len(containing) {
	case 1:
		// Interior split: one triangle becomes three.
		i := containing[0]
		a, b, c := tr.tris[i][0], tr.tris[i][1], tr.tris[i][2]
		tr.killTri(i)
		tr.addTri(a, b, p)
		tr.addTri(b, c, p)
		tr.addTri(c, a, p)
		tr.legalize(p, a, b)
		tr.legalize(p, b, c)
		tr.legalize(p, c, a)
	case 2:
		// p lies on the edge shared by the two triangles: four-way split.
		u, v, ok := tr.sharedEdge(containing[0], containing[1])
		if !ok {
			return fmt.Errorf("cdt: inconsistent point location for point %d", p)
		}
		t1 := tr.adj[[2]int{u, v}]
		t2 := tr.adj[[2]int{v, u}]
		x := tr.apex(t1, u, v)
		y := tr.apex(t2, u, v)
		tr.killTri(t1)
		tr.killTri(t2)
		tr.addTri(u, p, x)
		tr.addTri(p, v, x)
		tr.addTri(v, p, y)
		tr.addTri(p, u, y)
		tr.legalize(p, x, u)
		tr.legalize(p, v, x)
		tr.legalize(p, y, v)
		tr.legalize(p, u, y)
	default:
		return fmt.Errorf("cdt: point %d located in %d triangles", p, len(containing))
	}
	return nil
}

// sharedEdge returns the directed edge (u, v) of triangle i whose reverse
// belongs to triangle j.
func (tr *triangulator) sharedEdge(i, j int) (int, int, bool) {
	t := tr.tris[i]
	for k := 0; k < 3; k++ {
		u, v := t[k], t[(k+1)%3]
		if n, ok := tr.adj[[2]int{v, u}]; ok && n == j {
			return u, v, true
		}
	}
	return 0, 0, false
}

// legalize restores the Delaunay property of edge (a, b) opposite the
// freshly inserted point p in triangle (a, b, p). Fixed edges are never
// flipped.
func (tr *triangulator) legalize(p, a, b int) {
	if tr.isFixed(a, b) {
		return
	}
	ot, ok := tr.adj[[2]int{b, a}]
	if !ok {
		return
	}
	d := tr.apex(ot, a, b)
	if exact.InCircle(&tr.pts[a], &tr.pts[b], &tr.pts[p], &tr.pts[d]) <= 0 {
		return
	}
	t := tr.adj[[2]int{a, b}]
	tr.killTri(t)
	tr.killTri(ot)
	tr.addTri(a, d, p)
	tr.addTri(d, b, p)
	tr.legalize(p, a, d)
	tr.legalize(p, d, b)
}

// forceEdge flips crossing edges until (a, b) is an edge of the
// triangulation. The arrangement pass guarantees no vertex lies on the
// open segment and no fixed edge crosses it, so the flip loop terminates.
func (tr *triangulator) forceEdge(a, b int) error {
	flips := 0
	for !tr.hasEdge(a, b) {
		crossing := tr.crossingEdges(a, b)
		if len(crossing) == 0 {
			return ErrNoTriangulation
		}
		progressed := false
		for _, e := range crossing {
			u, v := e[0], e[1]
			if !tr.hasEdge(u, v) {
				continue
			}
			if tr.isFixed(u, v) {
				return ErrNoTriangulation
			}
			if tr.flipIfConvex(u, v) {
				progressed = true
				flips++
				if flips > maxForceFlips {
					return ErrNoTriangulation
				}
			}
		}
		if !progressed {
			return ErrNoTriangulation
		}
	}
	return nil
}

// crossingEdges returns the live edges properly crossing segment (a, b),
// in deterministic triangle order.
func (tr *triangulator) crossingEdges(a, b int) [][2]int {
	var out [][2]int
	seen := make(map[[2]int]bool)
	pa, pb := &tr.pts[a], &tr.pts[b]
	for i := range tr.tris {
		if tr.dead[i] {
			continue
		}
		t := tr.tris[i]
		for k := 0; k < 3; k++ {
			key := sortPair(t[k], t[(k+1)%3])
			if seen[key] {
				continue
			}
			seen[key] = true
			if properCross(pa, pb, &tr.pts[key[0]], &tr.pts[key[1]]) {
				out = append(out, key)
			}
		}
	}
	return out
}

func properCross(a, b, c, d *exact.Vec2) bool {
	o1 := exact.Orient2D(a, b, c)
	o2 := exact.Orient2D(a, b, d)
	o3 := exact.Orient2D(c, d, a)
	o4 := exact.Orient2D(c, d, b)
	return o1*o2 < 0 && o3*o4 < 0
}

// flipIfConvex flips edge (u, v) to the opposite diagonal when the
// surrounding quad is strictly convex. Returns false when the flip is not
// possible yet.
func (tr *triangulator) flipIfConvex(u, v int) bool {
	t1, ok1 := tr.adj[[2]int{u, v}]
	t2, ok2 := tr.adj[[2]int{v, u}]
	if !ok1 || !ok2 {
		return false
	}
	x := tr.apex(t1, u, v)
	y := tr.apex(t2, u, v)
	if !properCross(&tr.pts[u], &tr.pts[v], &tr.pts[x], &tr.pts[y]) {
		return false
	}
	tr.killTri(t1)
	tr.killTri(t2)
	tr.addTri(u, y, x)
	tr.addTri(y, v, x)
	return true
}

// restoreDelaunay runs incircle flips over non-fixed edges until stable.
// This only improves triangle quality; the constraints are already in
// place.
func (tr *triangulator) restoreDelaunay() {
	flips := 0
	for changed := true; changed; {
		changed = false
		for i := range tr.tris {
			if tr.dead[i] {
				continue
			}
			t := tr.tris[i]
			for k := 0; k < 3; k++ {
				u, v := t[k], t[(k+1)%3]
				if u > v || tr.isFixed(u, v) {
					continue
				}
				t2, ok := tr.adj[[2]int{v, u}]
				if !ok {
					continue
				}
				x := tr.apex(i, u, v)
				y := tr.apex(t2, u, v)
				if exact.InCircle(&tr.pts[u], &tr.pts[v], &tr.pts[x], &tr.pts[y]) <= 0 {
					continue
				}
				if tr.flipIfConvex(u, v) {
					changed = true
					flips++
					if flips > maxForceFlips {
						return
					}
					break
				}
			}
		}
	}
}

// extract builds the Result: triangles whose centroid is inside at least
// one input face loop, with face and edge provenance.
func (tr *triangulator) extract(faces [][]int, fixed map[[2]int][]int, foff int) *Result {
	res := &Result{FaceEdgeOffset: foff}
	vmap := make(map[int]int)
	addVert := func(v int) int {
		if i, ok := vmap[v]; ok {
			return i
		}
		i := len(res.Verts)
		vmap[v] = i
		res.Verts = append(res.Verts, tr.pts[v])
		return i
	}
	seenEdge := make(map[[2]int]bool)

	for i := range tr.tris {
		if tr.dead[i] {
			continue
		}
		t := tr.tris[i]
		cen := tr.centroid(i)
		var fo []int
		for f, loop := range faces {
			if tr.pointInLoop(&cen, loop) {
				fo = append(fo, f)
			}
		}
		if len(fo) == 0 {
			continue
		}
		a, b, c := addVert(t[0]), addVert(t[1]), addVert(t[2])
		res.Faces = append(res.Faces, [3]int{a, b, c})
		res.FaceOrig = append(res.FaceOrig, fo)
		for k := 0; k < 3; k++ {
			key := sortPair(t[k], t[(k+1)%3])
			if seenEdge[key] {
				continue
			}
			seenEdge[key] = true
			res.Edges = append(res.Edges, sortPair(vmap[t[k]], vmap[t[(k+1)%3]]))
			res.EdgeOrig = append(res.EdgeOrig, append([]int(nil), fixed[key]...))
		}
	}
	return res
}

func (tr *triangulator) centroid(i int) exact.Vec2 {
	t := tr.tris[i]
	sum := tr.pts[t[0]].Add(&tr.pts[t[1]])
	sum = sum.Add(&tr.pts[t[2]])
	third := big.NewRat(1, 3)
	return scaleVec2(&sum, third)
}

// pointInLoop reports whether pt is inside or on the CCW convex loop.
func (tr *triangulator) pointInLoop(pt *exact.Vec2, loop []int) bool {
	for i := range loop {
		a := &tr.pts[loop[i]]
		b := &tr.pts[loop[(i+1)%len(loop)]]
		if exact.Orient2D(a, b, pt) < 0 {
			return false
		}
	}
	return true
}
