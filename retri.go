package trisect

import (
	"fmt"
	"math/big"

	"github.com/meshtools/trisect/cdt"
	"github.com/meshtools/trisect/exact"
	"github.com/meshtools/trisect/mesh"
)

// cdtData is one retriangulation problem: a plane, the geometry projected
// into it, and after triangulation the result with provenance. inputFace
// and isReversed parallel faces: which mesh triangle each face loop came
// from and whether projection reversed its winding.
type cdtData struct {
	plane      exact.Plane
	verts      []exact.Vec2
	edges      [][2]int
	faces      [][]int
	inputFace  []int
	isReversed []bool
	projAxis   int
	out        *cdt.Result
}

// projectTo2D drops the projAxis coordinate, keeping the other two in
// axis order.
func projectTo2D(p *exact.Vec3, projAxis int) exact.Vec2 {
	switch projAxis {
	case 0:
		return exact.NewVec2(&p[1], &p[2])
	case 1:
		return exact.NewVec2(&p[0], &p[2])
	default:
		return exact.NewVec2(&p[0], &p[1])
	}
}

// unprojectCDTVert recovers the 3D point of a projected vertex. The two
// kept coordinates are copied back and the dropped one is solved from the
// plane equation dot(p, norm) + d == 0; the projection axis was chosen so
// norm[projAxis] != 0.
func unprojectCDTVert(cd *cdtData, p2d *exact.Vec2) exact.Vec3 {
	n := &cd.plane.Norm
	var num, t big.Rat
	var p3d exact.Vec3
	switch cd.projAxis {
	case 0:
		num.Mul(&n[1], &p2d[0])
		num.Add(&num, t.Mul(&n[2], &p2d[1]))
		num.Add(&num, &cd.plane.D)
		num.Neg(&num)
		p3d[0].Quo(&num, &n[0])
		p3d[1].Set(&p2d[0])
		p3d[2].Set(&p2d[1])
	case 1:
		num.Mul(&n[0], &p2d[0])
		num.Add(&num, t.Mul(&n[2], &p2d[1]))
		num.Add(&num, &cd.plane.D)
		num.Neg(&num)
		p3d[0].Set(&p2d[0])
		p3d[1].Quo(&num, &n[1])
		p3d[2].Set(&p2d[1])
	default:
		num.Mul(&n[0], &p2d[0])
		num.Add(&num, t.Mul(&n[1], &p2d[1]))
		num.Add(&num, &cd.plane.D)
		num.Neg(&num)
		p3d[0].Set(&p2d[0])
		p3d[1].Set(&p2d[1])
		p3d[2].Quo(&num, &n[2])
	}
	return p3d
}

// needVert appends the projection of p3d; the triangulation dedups, so no
// need to here.
func needVert(cd *cdtData, p3d *exact.Vec3) int {
	cd.verts = append(cd.verts, projectTo2D(p3d, cd.projAxis))
	return len(cd.verts) - 1
}

func needEdge(cd *cdtData, p1, p2 *exact.Vec3) {
	v1 := needVert(cd, p1)
	v2 := needVert(cd, p2)
	cd.edges = append(cd.edges, [2]int{v1, v2})
}

// needTri adds triangle t of tm as a CCW face loop. Projection flips
// orientation depending on the axis (looking down y, the remaining axes
// are not right-and-up) and on whether t's plane opposes cd's plane.
func needTri(cd *cdtData, tm *mesh.Mesh, t int) {
	tri := tm.Face(t)
	v0 := needVert(cd, &tri.Vert[0].Co)
	v1 := needVert(cd, &tri.Vert[1].Co)
	v2 := needVert(cd, &tri.Vert[2].Co)
	var rev bool
	if cd.plane.Norm[cd.projAxis].Sign() >= 0 {
		rev = cd.projAxis == 1
	} else {
		rev = cd.projAxis != 1
	}
	if tri.Plane.Norm[cd.projAxis].Sign() != cd.plane.Norm[cd.projAxis].Sign() {
		rev = !rev
	}
	if rev {
		cd.faces = append(cd.faces, []int{v0, v2, v1})
	} else {
		cd.faces = append(cd.faces, []int{v0, v1, v2})
	}
	cd.inputFace = append(cd.inputFace, t)
	cd.isReversed = append(cd.isReversed, rev)
}

// prepareCDTInput builds the retriangulation problem for one non-cluster
// triangle t and the intersections found against it.
func prepareCDTInput(tm *mesh.Mesh, t int, itts []ittValue) *cdtData {
	cd := &cdtData{plane: tm.Face(t).Plane}
	cd.projAxis = exact.DominantAxis(&cd.plane.Norm)
	needTri(cd, tm, t)
	for i := range itts {
		switch itts[i].kind {
		case ittPoint:
			needVert(cd, &itts[i].p1)
		case ittSegment:
			needEdge(cd, &itts[i].p1, &itts[i].p2)
		case ittCoplanar:
			needTri(cd, tm, itts[i].source)
		}
	}
	return cd
}

// prepareCDTInputForCluster builds one shared retriangulation problem for
// all triangles of cluster c plus the intersections coming from outside
// the cluster.
func prepareCDTInputForCluster(tm *mesh.Mesh, clinfo *ClusterInfo, c int, itts []ittValue) *cdtData {
	cl := clinfo.Cluster(c)
	cd := &cdtData{plane: tm.Face(cl.tris[0]).Plane}
	cd.projAxis = exact.DominantAxis(&cd.plane.Norm)
	for _, t := range cl.tris {
		needTri(cd, tm, t)
	}
	for i := range itts {
		switch itts[i].kind {
		case ittPoint:
			needVert(cd, &itts[i].p1)
		case ittSegment:
			needEdge(cd, &itts[i].p1, &itts[i].p2)
		}
	}
	return cd
}

func doCDT(cd *cdtData) error {
	out, err := cdt.Triangulate(cdt.Input{
		Verts: cd.verts,
		Edges: cd.edges,
		Faces: cd.faces,
	})
	if err != nil {
		return err
	}
	cd.out = out
	return nil
}

// cdtEdgeOrig maps output edge (i0, i1) back to an original input edge
// id, or mesh.NoIndex. Origins encoding a face boundary position are
// decoded through the face that populated the triangulation; an origin
// below the face offset is a synthesized intersection segment, which has
// no input edge. The first decodable real id wins, so an edge that is
// both on an intersection segment and on an input edge keeps the input
// id.
func cdtEdgeOrig(i0, i1 int, cd *cdtData, inTM *mesh.Mesh) int {
	foff := cd.out.FaceEdgeOffset
	for e := range cd.out.Edges {
		edge := cd.out.Edges[e]
		if !(edge[0] == i0 && edge[1] == i1) && !(edge[0] == i1 && edge[1] == i0) {
			continue
		}
		for _, origIndex := range cd.out.EdgeOrig[e] {
			if origIndex < foff {
				continue
			}
			inFaceIndex := origIndex/foff - 1
			pos := origIndex % foff
			face := inTM.Face(cd.inputFace[inFaceIndex])
			var eorig int
			if cd.isReversed[inFaceIndex] {
				eorig = face.EdgeOrig[2-pos]
			} else {
				eorig = face.EdgeOrig[pos]
			}
			if eorig != mesh.NoIndex {
				return eorig
			}
		}
		return mesh.NoIndex
	}
	return mesh.NoIndex
}

// extractSubdividedTri gathers the output triangles that subdivide input
// triangle t into a Mesh, restoring t's original winding and carrying
// over vertex, face, and edge provenance.
func extractSubdividedTri(cd *cdtData, inTM *mesh.Mesh, t int, arena *mesh.Arena) (*mesh.Mesh, error) {
	tInCdt := -1
	for i, inT := range cd.inputFace {
		if inT == t {
			tInCdt = i
		}
	}
	if tInCdt == -1 {
		return nil, fmt.Errorf("trisect: triangle %d missing from its retriangulation", t)
	}
	tOrig := inTM.Face(t).Orig
	var faces []*mesh.Face
	for f := range cd.out.Faces {
		if !containsInt(cd.out.FaceOrig[f], tInCdt) {
			continue
		}
		i0 := cd.out.Faces[f][0]
		i1 := cd.out.Faces[f][1]
		i2 := cd.out.Faces[f][2]
		v0co := unprojectCDTVert(cd, &cd.out.Verts[i0])
		v1co := unprojectCDTVert(cd, &cd.out.Verts[i1])
		v2co := unprojectCDTVert(cd, &cd.out.Verts[i2])
		// A coordinate matching an original vertex finds it in the arena
		// with its orig tag intact, so no orig is needed here.
		v0 := arena.AddOrFindVert(v0co, mesh.NoIndex)
		v1 := arena.AddOrFindVert(v1co, mesh.NoIndex)
		v2 := arena.AddOrFindVert(v2co, mesh.NoIndex)
		var face *mesh.Face
		if cd.isReversed[tInCdt] {
			oe0 := cdtEdgeOrig(i0, i2, cd, inTM)
			oe1 := cdtEdgeOrig(i2, i1, cd, inTM)
			oe2 := cdtEdgeOrig(i1, i0, cd, inTM)
			face = arena.AddFace([]*mesh.Vert{v0, v2, v1}, tOrig, []int{oe0, oe1, oe2})
		} else {
			oe0 := cdtEdgeOrig(i0, i1, cd, inTM)
			oe1 := cdtEdgeOrig(i1, i2, cd, inTM)
			oe2 := cdtEdgeOrig(i2, i0, cd, inTM)
			face = arena.AddFace([]*mesh.Vert{v0, v1, v2}, tOrig, []int{oe0, oe1, oe2})
		}
		faces = append(faces, face)
	}
	return mesh.New(faces), nil
}

func extractSingleTri(tm *mesh.Mesh, t int) *mesh.Mesh {
	return mesh.New([]*mesh.Face{tm.Face(t)})
}

func containsInt(s []int, x int) bool {
	for _, v := range s {
		if v == x {
			return true
		}
	}
	return false
}
