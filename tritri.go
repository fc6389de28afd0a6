package trisect

import (
	"fmt"
	"math/big"

	"github.com/meshtools/trisect/exact"
	"github.com/meshtools/trisect/mesh"
)

// Exact triangle pair intersection, following the case analysis of Guigue
// and Devillers, "Faster Triangle-Triangle Intersection Tests". All signs
// and constructed points are exact rationals; the float filters have
// already run by the time this code is reached.

type ittKind int

const (
	ittNone ittKind = iota
	ittPoint
	ittSegment
	ittCoplanar
)

func (k ittKind) String() string {
	switch k {
	case ittNone:
		return "none"
	case ittPoint:
		return "point"
	case ittSegment:
		return "segment"
	case ittCoplanar:
		return "coplanar"
	}
	return "unknown"
}

// ittValue is the intersection of one ordered triangle pair: nothing, a
// single point, a segment, or coplanar triangles (resolved later by
// clustering). For a coplanar result, source is the second triangle's
// index.
type ittValue struct {
	kind   ittKind
	p1, p2 exact.Vec3
	source int
}

func (v ittValue) String() string {
	switch v.kind {
	case ittPoint:
		return fmt.Sprintf("point(%s)", v.p1.String())
	case ittSegment:
		return fmt.Sprintf("segment(%s %s)", v.p1.String(), v.p2.String())
	case ittCoplanar:
		return fmt.Sprintf("coplanar(t%d)", v.source)
	}
	return v.kind.String()
}

// ittCanon2 constructs the intersection segment once both triangles are in
// canonical vertex order: p1 (and p2) alone on the positive side of the
// other triangle's plane, with q, r following CCW as seen from that side.
func ittCanon2(p1, q1, r1, p2, q2, r2, n1, n2 *exact.Vec3) ittValue {
	var source, target exact.Vec3
	var alpha big.Rat
	ok := false

	v1 := q1.Sub(p1)
	v2 := r2.Sub(p1)
	n := v1.Cross(&v2)
	v := p2.Sub(p1)
	if v.Dot(&n).Sign() > 0 {
		v1 = r1.Sub(p1)
		n = v1.Cross(&v2)
		if v.Dot(&n).Sign() <= 0 {
			v2 = q2.Sub(p1)
			n = v1.Cross(&v2)
			if v.Dot(&n).Sign() > 0 {
				v1 = p1.Sub(p2)
				v2 = p1.Sub(r1)
				alpha.Quo(v1.Dot(n2), v2.Dot(n2))
				v1 = v2.Scale(&alpha)
				source = p1.Sub(&v1)
				v1 = p2.Sub(p1)
				v2 = p2.Sub(r2)
				alpha.Quo(v1.Dot(n1), v2.Dot(n1))
				v1 = v2.Scale(&alpha)
				target = p2.Sub(&v1)
				ok = true
			} else {
				v1 = p2.Sub(p1)
				v2 = p2.Sub(q2)
				alpha.Quo(v1.Dot(n1), v2.Dot(n1))
				v1 = v2.Scale(&alpha)
				source = p2.Sub(&v1)
				v1 = p2.Sub(p1)
				v2 = p2.Sub(r2)
				alpha.Quo(v1.Dot(n1), v2.Dot(n1))
				v1 = v2.Scale(&alpha)
				target = p2.Sub(&v1)
				ok = true
			}
		}
	} else {
		v2 = q2.Sub(p1)
		n = v1.Cross(&v2)
		if v.Dot(&n).Sign() >= 0 {
			v1 = r1.Sub(p1)
			n = v1.Cross(&v2)
			if v.Dot(&n).Sign() > 0 {
				v1 = p1.Sub(p2)
				v2 = p1.Sub(r1)
				alpha.Quo(v1.Dot(n2), v2.Dot(n2))
				v1 = v2.Scale(&alpha)
				source = p1.Sub(&v1)
				v1 = p1.Sub(p2)
				v2 = p1.Sub(q1)
				alpha.Quo(v1.Dot(n2), v2.Dot(n2))
				v1 = v2.Scale(&alpha)
				target = p1.Sub(&v1)
				ok = true
			} else {
				v1 = p2.Sub(p1)
				v2 = p2.Sub(q2)
				alpha.Quo(v1.Dot(n1), v2.Dot(n1))
				v1 = v2.Scale(&alpha)
				source = p2.Sub(&v1)
				v1 = p1.Sub(p2)
				v2 = p1.Sub(q1)
				alpha.Quo(v1.Dot(n2), v2.Dot(n2))
				v1 = v2.Scale(&alpha)
				target = p1.Sub(&v1)
				ok = true
			}
		}
	}

	if !ok {
		return ittValue{kind: ittNone}
	}
	if source.Equal(&target) {
		return ittValue{kind: ittPoint, p1: source}
	}
	return ittValue{kind: ittSegment, p1: source, p2: target}
}

// ittCanon1 dispatches on the plane-side signs of triangle 2's vertices,
// with triangle 1 already canonicalized.
func ittCanon1(p1, q1, r1, p2, q2, r2, n1, n2 *exact.Vec3, sp2, sq2, sr2 int) ittValue {
	if sp2 > 0 {
		if sq2 > 0 {
			return ittCanon2(p1, r1, q1, r2, p2, q2, n1, n2)
		}
		if sr2 > 0 {
			return ittCanon2(p1, r1, q1, q2, r2, p2, n1, n2)
		}
		return ittCanon2(p1, q1, r1, p2, q2, r2, n1, n2)
	}
	if sp2 < 0 {
		if sq2 < 0 {
			return ittCanon2(p1, q1, r1, r2, p2, q2, n1, n2)
		}
		if sr2 < 0 {
			return ittCanon2(p1, q1, r1, q2, r2, p2, n1, n2)
		}
		return ittCanon2(p1, r1, q1, p2, q2, r2, n1, n2)
	}
	if sq2 < 0 {
		if sr2 >= 0 {
			return ittCanon2(p1, r1, q1, q2, r2, p2, n1, n2)
		}
		return ittCanon2(p1, q1, r1, p2, q2, r2, n1, n2)
	}
	if sq2 > 0 {
		if sr2 > 0 {
			return ittCanon2(p1, r1, q1, p2, q2, r2, n1, n2)
		}
		return ittCanon2(p1, q1, r1, q2, r2, p2, n1, n2)
	}
	if sr2 > 0 {
		return ittCanon2(p1, q1, r1, r2, p2, q2, n1, n2)
	}
	if sr2 < 0 {
		return ittCanon2(p1, r1, q1, r2, p2, q2, n1, n2)
	}
	return ittValue{kind: ittCoplanar}
}

// planeSideSign is the exact sign of (p - ref) . n.
func planeSideSign(p, ref, n *exact.Vec3) int {
	d := p.Sub(ref)
	return d.Dot(n).Sign()
}

// intersectTriTri computes the exact intersection of triangles t1 and t2
// of tm.
func intersectTriTri(tm *mesh.Mesh, t1, t2 int) ittValue {
	tri1 := tm.Face(t1)
	tri2 := tm.Face(t2)
	p1 := &tri1.Vert[0].Co
	q1 := &tri1.Vert[1].Co
	r1 := &tri1.Vert[2].Co
	p2 := &tri2.Vert[0].Co
	q2 := &tri2.Vert[1].Co
	r2 := &tri2.Vert[2].Co

	n2 := &tri2.Plane.Norm
	sp1 := planeSideSign(p1, r2, n2)
	sq1 := planeSideSign(q1, r2, n2)
	sr1 := planeSideSign(r1, r2, n2)
	if sp1*sq1 > 0 && sp1*sr1 > 0 {
		// All of t1 strictly on one side of t2's plane.
		return ittValue{kind: ittNone}
	}

	n1 := &tri1.Plane.Norm
	sp2 := planeSideSign(p2, r1, n1)
	sq2 := planeSideSign(q2, r1, n1)
	sr2 := planeSideSign(r2, r1, n1)
	if sp2*sq2 > 0 && sp2*sr2 > 0 {
		return ittValue{kind: ittNone}
	}

	// Canonicalize so p1 is alone on the positive side of t2's plane,
	// then dispatch on t2's signs the same way.
	var ans ittValue
	switch {
	case sp1 > 0:
		if sq1 > 0 {
			ans = ittCanon1(r1, p1, q1, p2, r2, q2, n1, n2, sp2, sr2, sq2)
		} else if sr1 > 0 {
			ans = ittCanon1(q1, r1, p1, p2, r2, q2, n1, n2, sp2, sr2, sq2)
		} else {
			ans = ittCanon1(p1, q1, r1, p2, q2, r2, n1, n2, sp2, sq2, sr2)
		}
	case sp1 < 0:
		if sq1 < 0 {
			ans = ittCanon1(r1, p1, q1, p2, q2, r2, n1, n2, sp2, sq2, sr2)
		} else if sr1 < 0 {
			ans = ittCanon1(q1, r1, p1, p2, q2, r2, n1, n2, sp2, sq2, sr2)
		} else {
			ans = ittCanon1(p1, q1, r1, p2, r2, q2, n1, n2, sp2, sr2, sq2)
		}
	default:
		if sq1 < 0 {
			if sr1 >= 0 {
				ans = ittCanon1(q1, r1, p1, p2, r2, q2, n1, n2, sp2, sr2, sq2)
			} else {
				ans = ittCanon1(p1, q1, r1, p2, q2, r2, n1, n2, sp2, sq2, sr2)
			}
		} else if sq1 > 0 {
			if sr1 > 0 {
				ans = ittCanon1(p1, q1, r1, p2, r2, q2, n1, n2, sp2, sr2, sq2)
			} else {
				ans = ittCanon1(q1, r1, p1, p2, q2, r2, n1, n2, sp2, sq2, sr2)
			}
		} else {
			if sr1 > 0 {
				ans = ittCanon1(r1, p1, q1, p2, q2, r2, n1, n2, sp2, sq2, sr2)
			} else if sr1 < 0 {
				ans = ittCanon1(r1, p1, q1, p2, r2, q2, n1, n2, sp2, sr2, sq2)
			} else {
				ans = ittValue{kind: ittCoplanar}
			}
		}
	}
	if ans.kind == ittCoplanar {
		ans.source = t2
	}
	return ans
}
