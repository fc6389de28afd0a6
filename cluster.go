package trisect

import (
	"fmt"
	"strings"

	"github.com/meshtools/trisect/exact"
	"github.com/meshtools/trisect/mesh"
)

// NoCluster marks a triangle that belongs to no coplanar cluster.
const NoCluster = -1

// CoplanarCluster is a group of coplanar triangle indices where every
// triangle non-trivially 2D-intersects at least one other in the group.
// Trivial contact (shared vertices and edges only) does not bind
// triangles into a cluster.
type CoplanarCluster struct {
	tris []int
	bb   BoundingBox
}

func newCoplanarCluster(t int, bb BoundingBox) CoplanarCluster {
	return CoplanarCluster{tris: []int{t}, bb: bb}
}

func (cl *CoplanarCluster) addTri(t int, bb BoundingBox) {
	cl.tris = append(cl.tris, t)
	cl.bb.CombineBox(bb)
}

func (cl *CoplanarCluster) Len() int { return len(cl.tris) }

func (cl *CoplanarCluster) Tris() []int { return cl.tris }

func (cl *CoplanarCluster) BB() BoundingBox { return cl.bb }

func (cl *CoplanarCluster) String() string {
	var sb strings.Builder
	sb.WriteString("cl{")
	for i, t := range cl.tris {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "t%d", t)
	}
	sb.WriteByte('}')
	return sb.String()
}

// ClusterInfo indexes the nontrivial clusters of a mesh and maps each
// triangle to its cluster, if any.
type ClusterInfo struct {
	clusters   []CoplanarCluster
	triCluster []int
}

func newClusterInfo(numTri int) *ClusterInfo {
	ci := &ClusterInfo{triCluster: make([]int, numTri)}
	for i := range ci.triCluster {
		ci.triCluster[i] = NoCluster
	}
	return ci
}

func (ci *ClusterInfo) addCluster(cl CoplanarCluster) int {
	index := len(ci.clusters)
	ci.clusters = append(ci.clusters, cl)
	for _, t := range cl.tris {
		ci.triCluster[t] = index
	}
	return index
}

func (ci *ClusterInfo) Len() int { return len(ci.clusters) }

func (ci *ClusterInfo) Cluster(i int) *CoplanarCluster { return &ci.clusters[i] }

// TriCluster returns the cluster index of triangle t, or NoCluster.
func (ci *ClusterInfo) TriCluster(t int) int { return ci.triCluster[t] }

func (ci *ClusterInfo) String() string {
	var sb strings.Builder
	for i := range ci.clusters {
		fmt.Fprintf(&sb, "%d: %s\n", i, ci.clusters[i].String())
	}
	return sb.String()
}

// nonTrivially2DPointInTri reports whether point pi of one triangle is
// inside the other triangle or on an open edge of it: left of or on all
// three edges and strictly left of at least two.
func nonTrivially2DPointInTri(orients *[3][3]int, pi int) bool {
	pLeft01 := orients[pi][0]
	pLeft12 := orients[pi][1]
	pLeft20 := orients[pi][2]
	return pLeft01 >= 0 && pLeft12 >= 0 && pLeft20 >= 0 &&
		pLeft01+pLeft12+pLeft20 >= 2
}

// nonTrivially2DHexOverlap detects the hexagonal overlap pattern: every
// vertex of each triangle strictly right of exactly one edge of the other
// and strictly left of the remaining two.
func nonTrivially2DHexOverlap(orients *[2][3][3]int) bool {
	for ab := 0; ab < 2; ab++ {
		for i := 0; i < 3; i++ {
			ok := orients[ab][i][0]+orients[ab][i][1]+orients[ab][i][2] == 1 &&
				orients[ab][i][0] != 0 && orients[ab][i][1] != 0 && orients[ab][i][2] != 0
			if !ok {
				return false
			}
		}
	}
	return true
}

// nonTrivially2DSharedEdgeOverlap detects a shared edge with the two
// triangles folded onto the same side of it.
func nonTrivially2DSharedEdgeOverlap(orients *[2][3][3]int, a, b *[3]exact.Vec2) bool {
	for i := 0; i < 3; i++ {
		in := (i + 1) % 3
		inn := (i + 2) % 3
		for j := 0; j < 3; j++ {
			jn := (j + 1) % 3
			jnn := (j + 2) % 3
			if !a[i].Equal(&b[j]) || !a[in].Equal(&b[jn]) {
				continue
			}
			// Edge a[i]-a[in] is shared with b[j]-b[jn]. The third vertex
			// of a overlaps b if it is rightof or on one of b's other
			// edges; when on one, it must also fall on the overlapping
			// side of the shared edge.
			if orients[0][inn][jn] < 0 || orients[0][inn][jnn] < 0 {
				return true
			}
			if orients[0][inn][jn] == 0 && orients[0][inn][j] == 1 {
				return true
			}
			if orients[0][inn][jnn] == 0 && orients[0][inn][j] == -1 {
				return true
			}
			// Same for the third vertex of b against a.
			if orients[1][jnn][in] < 0 || orients[1][jnn][inn] < 0 {
				return true
			}
			if orients[1][jnn][in] == 0 && orients[1][jnn][i] == 1 {
				return true
			}
			if orients[1][jnn][inn] == 0 && orients[1][jnn][i] == -1 {
				return true
			}
		}
	}
	return false
}

// sameTriangles reports coordinate-equal triangles up to rotation.
func sameTriangles(a, b *[3]exact.Vec2) bool {
	for i := 0; i < 3; i++ {
		if a[0].Equal(&b[i]) && a[1].Equal(&b[(i+1)%3]) && a[2].Equal(&b[(i+2)%3]) {
			return true
		}
	}
	return false
}

// nonTrivially2DIntersect reports whether two CCW 2D triangles intersect
// in more than shared vertices or a shared edge. Eighteen orientation
// tests cover vertex-in-triangle containment; the hexagonal overlap,
// folded shared edge, and identical-triangle patterns have no contained
// vertex and are tested separately.
func nonTrivially2DIntersect(a, b *[3]exact.Vec2) bool {
	// orients[0][ai][bi]: orientation of a[ai] against b's edge from bi.
	// orients[1][bi][ai]: orientation of b[bi] against a's edge from ai.
	var orients [2][3][3]int
	for ai := 0; ai < 3; ai++ {
		for bi := 0; bi < 3; bi++ {
			orients[0][ai][bi] = exact.Orient2D(&b[bi], &b[(bi+1)%3], &a[ai])
			orients[1][bi][ai] = exact.Orient2D(&a[ai], &a[(ai+1)%3], &b[bi])
		}
	}
	return nonTrivially2DPointInTri(&orients[0], 0) ||
		nonTrivially2DPointInTri(&orients[0], 1) ||
		nonTrivially2DPointInTri(&orients[0], 2) ||
		nonTrivially2DPointInTri(&orients[1], 0) ||
		nonTrivially2DPointInTri(&orients[1], 1) ||
		nonTrivially2DPointInTri(&orients[1], 2) ||
		nonTrivially2DHexOverlap(&orients) ||
		nonTrivially2DSharedEdgeOverlap(&orients, a, b) ||
		sameTriangles(a, b)
}

// projectedCCWTri projects triangle f along projAxis and flips it CCW if
// the projection reversed it.
func projectedCCWTri(f *mesh.Face, projAxis int) [3]exact.Vec2 {
	v0 := projectTo2D(&f.Vert[0].Co, projAxis)
	v1 := projectTo2D(&f.Vert[1].Co, projAxis)
	v2 := projectTo2D(&f.Vert[2].Co, projAxis)
	if exact.Orient2D(&v0, &v1, &v2) != 1 {
		v1, v2 = v2, v1
	}
	return [3]exact.Vec2{v0, v1, v2}
}

// nonTriviallyCoplanarIntersects reports whether triangle t non-trivially
// intersects any triangle of cl. t is already known to be coplanar with
// the cluster, and projAxis is safe for their common plane.
func nonTriviallyCoplanarIntersects(tm *mesh.Mesh, t int, cl *CoplanarCluster, projAxis int) bool {
	tri := projectedCCWTri(tm.Face(t), projAxis)
	for _, clT := range cl.tris {
		clTri := projectedCCWTri(tm.Face(clT), projAxis)
		if nonTrivially2DIntersect(&tri, &clTri) {
			return true
		}
	}
	return false
}

// findClusters groups the triangles of tm into nontrivial coplanar
// clusters. Triangles are bucketed by the canonical form of their plane
// (canonicalizing may flip orientation, so opposite-facing coplanar
// triangles share a bucket), then merged transitively: a triangle
// intersecting several existing clusters fuses them into one. Buckets are
// kept in first-seen plane order so cluster ids are deterministic.
func findClusters(tm *mesh.Mesh, triBB []BoundingBox) *ClusterInfo {
	type planeBucket struct {
		clusters []CoplanarCluster
	}
	bucketIndex := make(map[string]int)
	var buckets []planeBucket

	for t := 0; t < tm.Len(); t++ {
		plane := tm.Face(t).Plane.Canonical()
		key := plane.Key()
		bi, ok := bucketIndex[key]
		if !ok {
			bucketIndex[key] = len(buckets)
			buckets = append(buckets, planeBucket{
				clusters: []CoplanarCluster{newCoplanarCluster(t, triBB[t])},
			})
			continue
		}
		bucket := &buckets[bi]
		projAxis := exact.DominantAxis(&plane.Norm)

		// Split the bucket's clusters into those t intersects and those
		// it does not.
		var intIdx, noIntIdx []int
		for ci := range bucket.clusters {
			cl := &bucket.clusters[ci]
			if triBB[t].Overlaps(cl.bb) && nonTriviallyCoplanarIntersects(tm, t, cl, projAxis) {
				intIdx = append(intIdx, ci)
			} else {
				noIntIdx = append(noIntIdx, ci)
			}
		}
		switch len(intIdx) {
		case 0:
			bucket.clusters = append(bucket.clusters, newCoplanarCluster(t, triBB[t]))
		case 1:
			bucket.clusters[intIdx[0]].addTri(t, triBB[t])
		default:
			// t bridges several clusters: merge them all into one.
			merged := newCoplanarCluster(t, triBB[t])
			for _, ci := range intIdx {
				for _, clT := range bucket.clusters[ci].tris {
					merged.addTri(clT, triBB[clT])
				}
			}
			newClusters := []CoplanarCluster{merged}
			for _, ci := range noIntIdx {
				newClusters = append(newClusters, bucket.clusters[ci])
			}
			bucket.clusters = newClusters
		}
	}

	ci := newClusterInfo(tm.Len())
	for bi := range buckets {
		for _, cl := range buckets[bi].clusters {
			if cl.Len() > 1 {
				ci.addCluster(cl)
			}
		}
	}
	return ci
}
