// Package cdt provides exact 2D constrained Delaunay triangulation behind
// the contract the retriangulation pipeline consumes: deduplicated
// vertices, required edges, and CCW face loops go in; triangles tagged
// with the input faces they subdivide and edges tagged with the input
// edges they lie on come out.
//
// All predicates are exact rational arithmetic, so required edges may
// cross each other or pass through vertices: crossings are resolved into
// split points before triangulation. The implementation is incremental
// insertion with incircle flips, followed by flip-based constraint
// forcing.
package cdt

import (
	"errors"
	"fmt"
	"math/big"
	"sort"

	"github.com/meshtools/trisect/exact"
)

// Input is a planar straight-line graph plus face constraints.
type Input struct {
	Verts []exact.Vec2
	// Edges are required edges as unordered pairs of vertex indices.
	Edges [][2]int
	// Faces are CCW convex loops of vertex indices (triangles, in
	// practice). Their boundary edges become required edges, and output
	// triangles are kept only if they fall inside at least one face.
	Faces [][]int
}

// Result is the triangulation with provenance.
type Result struct {
	Verts []exact.Vec2
	// Faces are CCW triangles over Verts.
	Faces [][3]int
	// FaceOrig[f] lists the Input.Faces indices that contain face f.
	FaceOrig [][]int
	// Edges are the unordered edges of the kept triangles.
	Edges [][2]int
	// EdgeOrig[e] lists origin ids for edge e: an id below
	// FaceEdgeOffset is an Input.Edges index; an id >= FaceEdgeOffset
	// encodes face boundary position p of input face f as
	// (f+1)*FaceEdgeOffset + p. Synthesized edges have no origins.
	EdgeOrig [][]int
	// FaceEdgeOffset is the encoding base used in EdgeOrig.
	FaceEdgeOffset int
}

var (
	// ErrNoTriangulation reports that constraint forcing could not
	// complete, which indicates invalid input (e.g. a degenerate face
	// loop).
	ErrNoTriangulation = errors.New("cdt: cannot force constraint edge")
)

type constraint struct {
	a, b int
	ids  []int
}

// Triangulate runs the full pipeline on in.
func Triangulate(in Input) (*Result, error) {
	foff := len(in.Edges)
	for _, f := range in.Faces {
		if len(f) < 3 {
			return nil, fmt.Errorf("cdt: face loop with %d vertices", len(f))
		}
		if len(f) > foff {
			foff = len(f)
		}
	}
	foff++

	// Dedup input vertices by exact coordinate.
	pts := make([]exact.Vec2, 0, len(in.Verts))
	index := make(map[string]int, len(in.Verts))
	remap := make([]int, len(in.Verts))
	for i := range in.Verts {
		key := in.Verts[i].Key()
		if j, ok := index[key]; ok {
			remap[i] = j
			continue
		}
		remap[i] = len(pts)
		index[key] = len(pts)
		pts = append(pts, in.Verts[i])
	}

	// Collect constraints: required edges first, then face boundaries.
	var cons []constraint
	for k, e := range in.Edges {
		a, b := remap[e[0]], remap[e[1]]
		if a == b {
			continue
		}
		cons = append(cons, constraint{a: a, b: b, ids: []int{k}})
	}
	faces := make([][]int, len(in.Faces))
	for f, loop := range in.Faces {
		faces[f] = make([]int, len(loop))
		for p, v := range loop {
			faces[f][p] = remap[v]
		}
		for p := range loop {
			a := faces[f][p]
			b := faces[f][(p+1)%len(loop)]
			if a == b {
				return nil, fmt.Errorf("cdt: degenerate face loop %d", f)
			}
			cons = append(cons, constraint{a: a, b: b, ids: []int{(f+1)*foff + p}})
		}
	}

	// Split crossing constraints into an exact arrangement.
	pts = addCrossingPoints(pts, index, cons)
	subs, fixed := splitConstraints(pts, cons)

	tr := newTriangulator(pts)
	tr.fixed = fixed
	for p := range pts {
		if err := tr.insert(p); err != nil {
			return nil, err
		}
	}
	for _, s := range subs {
		if err := tr.forceEdge(s[0], s[1]); err != nil {
			return nil, err
		}
	}
	tr.restoreDelaunay()

	return tr.extract(faces, fixed, foff), nil
}

// addCrossingPoints appends the proper crossing point of every pair of
// constraints to pts (deduplicated). Crossings between existing segments
// are the only new vertices an exact arrangement needs: endpoints lying on
// other constraints are already vertices.
func addCrossingPoints(pts []exact.Vec2, index map[string]int, cons []constraint) []exact.Vec2 {
	for i := 0; i < len(cons); i++ {
		for j := i + 1; j < len(cons); j++ {
			p, ok := properCrossingPoint(&pts[cons[i].a], &pts[cons[i].b], &pts[cons[j].a], &pts[cons[j].b])
			if !ok {
				continue
			}
			key := p.Key()
			if _, dup := index[key]; dup {
				continue
			}
			index[key] = len(pts)
			pts = append(pts, p)
		}
	}
	return pts
}

// properCrossingPoint returns the intersection point of segments ab and cd
// when their interiors properly cross (collinear overlaps and endpoint
// touches excluded).
func properCrossingPoint(a, b, c, d *exact.Vec2) (exact.Vec2, bool) {
	o1 := exact.Orient2D(a, b, c)
	o2 := exact.Orient2D(a, b, d)
	o3 := exact.Orient2D(c, d, a)
	o4 := exact.Orient2D(c, d, b)
	if o1*o2 >= 0 || o3*o4 >= 0 {
		return exact.Vec2{}, false
	}
	ab := b.Sub(a)
	cd := d.Sub(c)
	ac := c.Sub(a)
	den := ab.Cross(&cd)
	var t big.Rat
	t.Quo(ac.Cross(&cd), den)
	scaled := scaleVec2(&ab, &t)
	return a.Add(&scaled), true
}

func scaleVec2(v *exact.Vec2, s *big.Rat) exact.Vec2 {
	var r exact.Vec2
	r[0].Mul(&v[0], s)
	r[1].Mul(&v[1], s)
	return r
}

// splitConstraints chops every constraint at each vertex lying strictly
// inside it and merges the origin ids of coincident sub-segments. The
// returned subs preserve first-seen order so forcing is deterministic.
func splitConstraints(pts []exact.Vec2, cons []constraint) (subs [][2]int, fixed map[[2]int][]int) {
	fixed = make(map[[2]int][]int)
	for _, c := range cons {
		a, b := &pts[c.a], &pts[c.b]
		dir := b.Sub(a)
		type split struct {
			v int
			t big.Rat
		}
		var splits []split
		for v := range pts {
			if v == c.a || v == c.b {
				continue
			}
			p := &pts[v]
			if exact.Orient2D(a, b, p) != 0 {
				continue
			}
			ap := p.Sub(a)
			var t big.Rat
			t.Quo(ap.Dot(&dir), dir.Dot(&dir))
			if t.Sign() <= 0 || t.Cmp(big.NewRat(1, 1)) >= 0 {
				continue
			}
			splits = append(splits, split{v: v, t: t})
		}
		sort.Slice(splits, func(i, j int) bool { return splits[i].t.Cmp(&splits[j].t) < 0 })

		prev := c.a
		for i := 0; i <= len(splits); i++ {
			next := c.b
			if i < len(splits) {
				next = splits[i].v
			}
			key := sortPair(prev, next)
			if _, seen := fixed[key]; !seen {
				subs = append(subs, key)
			}
			fixed[key] = mergeIDs(fixed[key], c.ids)
			prev = next
		}
	}
	return subs, fixed
}

func mergeIDs(dst []int, add []int) []int {
	for _, id := range add {
		dup := false
		for _, have := range dst {
			if have == id {
				dup = true
				break
			}
		}
		if !dup {
			dst = append(dst, id)
		}
	}
	return dst
}

func sortPair(a, b int) [2]int {
	if a > b {
		return [2]int{b, a}
	}
	return [2]int{a, b}
}
