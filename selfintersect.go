// Package trisect resolves the self-intersections of a triangle mesh: the
// output mesh covers the same surface, but every pairwise triangle
// intersection has become shared vertices and edges, with provenance back
// to the input triangles and edges.
//
// The pipeline is a broad phase over padded bounding boxes, certified
// float filters to discard trivial contacts cheaply, exact rational
// triangle pair intersection, coplanar clustering, and constrained
// triangulation of each affected triangle.
package trisect

import (
	"errors"

	"github.com/meshtools/trisect/mesh"
)

const DEFAULT_WORKERS = 8

var (
	// ErrNotTriMesh reports an input face with more or fewer than three
	// vertices.
	ErrNotTriMesh = errors.New("trisect: input mesh face is not a triangle")
	// ErrDegenerateTri reports an input triangle with repeated vertices
	// or zero area.
	ErrDegenerateTri = errors.New("trisect: input mesh has a degenerate triangle")
)

func checkTriMesh(tm *mesh.Mesh) error {
	for _, f := range tm.Faces() {
		if f.Len() != 3 {
			return ErrNotTriMesh
		}
		v0, v1, v2 := f.Vert[0], f.Vert[1], f.Vert[2]
		if v0 == v1 || v0 == v2 || v1 == v2 {
			return ErrDegenerateTri
		}
		a := v2.Co.Sub(&v0.Co)
		b := v2.Co.Sub(&v1.Co)
		ab := a.Cross(&b)
		if ab.IsZero() {
			return ErrDegenerateTri
		}
	}
	return nil
}

// calcClusterSubdivided triangulates cluster c as one planar problem: all
// cluster triangles plus every non-coplanar intersection coming into the
// cluster's plane from outside. Coplanar results are skipped; a
// nontrivial coplanar intersector would already be in the cluster.
func calcClusterSubdivided(clinfo *ClusterInfo, c int, tm *mesh.Mesh, index *overlapIndex) (*cdtData, error) {
	cl := clinfo.Cluster(c)
	cands, err := index.overlapping(cl.BB())
	if err != nil {
		return nil, err
	}
	var itts []ittValue
	for _, tOther := range cands {
		if clinfo.TriCluster(tOther) == c {
			continue
		}
		for _, t := range cl.Tris() {
			itt := intersectTriTri(tm, t, tOther)
			if itt.kind != ittNone && itt.kind != ittCoplanar {
				itts = append(itts, itt)
			}
		}
	}
	cd := prepareCDTInputForCluster(tm, clinfo, c, itts)
	if err := doCDT(cd); err != nil {
		return nil, err
	}
	return cd, nil
}

// SelfIntersect computes the self-intersection subdivision of tmIn, whose
// faces must all be non-degenerate triangles. New vertices and faces are
// allocated from arena; input faces without intersections are passed
// through unchanged. workers bounds the number of goroutines used for the
// per-triangle work; non-positive means DEFAULT_WORKERS. Output face
// order and the populated vertex order are deterministic for a given
// input regardless of workers.
func SelfIntersect(tmIn *mesh.Mesh, arena *mesh.Arena, workers int) (*mesh.Mesh, error) {
	if workers <= 0 {
		workers = DEFAULT_WORKERS
	}
	if err := checkTriMesh(tmIn); err != nil {
		return nil, err
	}
	triBB := triBoundingBoxes(tmIn)
	clinfo := findClusters(tmIn, triBB)
	index, err := newOverlapIndex(triBB)
	if err != nil {
		return nil, err
	}

	clusterSub := make([]*cdtData, clinfo.Len())
	for c := range clusterSub {
		cd, err := calcClusterSubdivided(clinfo, c, tmIn, index)
		if err != nil {
			return nil, err
		}
		clusterSub[c] = cd
	}

	// Broad-phase queries run up front; the r-tree is not meant for
	// concurrent use.
	candidates := make([][]int, tmIn.Len())
	for t := 0; t < tmIn.Len(); t++ {
		if clinfo.TriCluster(t) != NoCluster {
			continue
		}
		candidates[t], err = index.overlapping(triBB[t])
		if err != nil {
			return nil, err
		}
	}

	// Each non-cluster triangle is subdivided independently against
	// everything its padded box touches, so the loop parallelizes over
	// disjoint result slots.
	subdivided := make([]*mesh.Mesh, tmIn.Len())
	errs := make([]error, tmIn.Len())
	indices := make([]int, tmIn.Len())
	for i := range indices {
		indices[i] = i
	}
	task(workers, indices, func(t int) {
		if clinfo.TriCluster(t) != NoCluster {
			return
		}
		var itts []ittValue
		for _, tOther := range candidates[t] {
			if tOther == t {
				continue
			}
			if !mayNonTriviallyIntersect(tmIn.Face(t), tmIn.Face(tOther)) {
				continue
			}
			itt := intersectTriTri(tmIn, t, tOther)
			if itt.kind == ittNone || itt.kind == ittCoplanar {
				continue
			}
			itts = append(itts, itt)
		}
		if len(itts) == 0 {
			return
		}
		cd := prepareCDTInput(tmIn, t, itts)
		if err := doCDT(cd); err != nil {
			errs[t] = err
			return
		}
		m, err := extractSubdividedTri(cd, tmIn, t, arena)
		if err != nil {
			errs[t] = err
			return
		}
		subdivided[t] = m
	})
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	for t := 0; t < tmIn.Len(); t++ {
		if c := clinfo.TriCluster(t); c != NoCluster {
			m, err := extractSubdividedTri(clusterSub[c], tmIn, t, arena)
			if err != nil {
				return nil, err
			}
			subdivided[t] = m
		} else if subdivided[t] == nil {
			subdivided[t] = extractSingleTri(tmIn, t)
		}
	}

	total := 0
	for _, m := range subdivided {
		total += m.Len()
	}
	faces := make([]*mesh.Face, 0, total)
	for _, m := range subdivided {
		faces = append(faces, m.Faces()...)
	}
	return mesh.New(faces), nil
}
