package trisect

import (
	"github.com/meshtools/trisect/exact"
	"github.com/meshtools/trisect/mesh"
)

// triPlaneVertOrient is the certified orientation of v against tri's
// plane: nonzero only when the sign is provably right in floats.
func triPlaneVertOrient(tri *mesh.Face, v *mesh.Vert) int {
	return exact.Orient3DFilter(tri.Vert[0].Approx, tri.Vert[1].Approx, tri.Vert[2].Approx, v.Approx)
}

// mayNonTriviallyIntersect is the cheap pre-test run before the exact
// triangle pair intersection. A false return proves that any intersection
// of t1 and t2 is trivial (a shared vertex or shared edge only); a true
// return proves nothing. Only certified float filters are used, so this
// never wrongly rejects a pair.
func mayNonTriviallyIntersect(t1, t2 *mesh.Face) bool {
	var share1Pos, share2Pos [3]int
	nShared := 0
	for p1 := 0; p1 < 3; p1++ {
		for p2 := 0; p2 < 3; p2++ {
			// Arena dedup makes pointer equality exact coordinate equality.
			if t1.Vert[p1] == t2.Vert[p2] {
				share1Pos[nShared] = p1
				share2Pos[nShared] = p2
				nShared++
			}
		}
	}
	switch nShared {
	case 2:
		// Entire shared edge. Non-parallel planes can only meet along the
		// line of that edge, which is trivial.
		if !exact.NearParallel(t1.Plane.NormApprox, t2.Plane.NormApprox) {
			return false
		}
		// Same-direction normals with the edge traversed in opposite
		// directions means the triangles lie on opposite sides of the edge.
		erev1 := t1.PrevPos(share1Pos[0]) == share1Pos[1]
		erev2 := t2.PrevPos(share2Pos[0]) == share2Pos[1]
		if erev1 != erev2 && exact.DotCertainlyPositive(t1.Plane.NormApprox, t2.Plane.NormApprox) {
			return false
		}
	case 1:
		// One shared vertex. If both non-shared vertices of one triangle
		// are certifiably on the same side of the other's plane, the only
		// intersection is the shared vertex.
		p := share2Pos[0]
		v2a := t2.Vert[(p+1)%3]
		v2b := t2.Vert[(p+2)%3]
		o1 := triPlaneVertOrient(t1, v2a)
		o2 := triPlaneVertOrient(t1, v2b)
		if o1 == o2 && o1 != 0 {
			return false
		}
		p = share1Pos[0]
		v1a := t1.Vert[(p+1)%3]
		v1b := t1.Vert[(p+2)%3]
		o1 = triPlaneVertOrient(t2, v1a)
		o2 = triPlaneVertOrient(t2, v1b)
		if o1 == o2 && o1 != 0 {
			return false
		}
	}
	return true
}
