package mesh

import (
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/meshtools/trisect/exact"
)

// Arena owns every Vert and Face created during one intersection run and
// dedups vertices: only one Vert instance exists per exact coordinate.
// Nothing is freed individually; dropping the Arena reclaims everything.
//
// AddOrFindVert is the only globally mutating operation shared by parallel
// workers, so the vertex set is guarded by a mutex. AddFace only needs the
// lock for id allocation.
type Arena struct {
	mu    sync.Mutex
	vset  map[string]*Vert
	verts []*Vert
	faces []*Face

	nextVertID int
	nextFaceID int
}

func NewArena() *Arena {
	return &Arena{vset: make(map[string]*Vert)}
}

// Reserve sizes the internal storage for an expected number of vertices
// and faces. Estimates may be over or under.
func (a *Arena) Reserve(vertHint, faceHint int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if cap(a.verts) < vertHint {
		verts := make([]*Vert, len(a.verts), vertHint)
		copy(verts, a.verts)
		a.verts = verts
	}
	if cap(a.faces) < faceHint {
		faces := make([]*Face, len(a.faces), faceHint)
		copy(faces, a.faces)
		a.faces = faces
	}
}

// TotVerts returns the number of allocated vertices.
func (a *Arena) TotVerts() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.verts)
}

// TotFaces returns the number of allocated faces.
func (a *Arena) TotFaces() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.faces)
}

// AddOrFindVert returns the unique Vert for co. If a Vert with an equal
// exact coordinate already exists it is returned unchanged: the first-seen
// Orig tag wins, which is the intended merge semantics.
func (a *Arena) AddOrFindVert(co exact.Vec3, orig int) *Vert {
	return a.addOrFindVert(co, co.Approx(), orig)
}

// AddOrFindVertFloat is AddOrFindVert for an approximate coordinate,
// converted losslessly to its exact rational form.
func (a *Arena) AddOrFindVertFloat(co mgl64.Vec3, orig int) *Vert {
	return a.addOrFindVert(exact.Vec3FromFloat(co), co, orig)
}

func (a *Arena) addOrFindVert(co exact.Vec3, approx mgl64.Vec3, orig int) *Vert {
	key := co.Key()
	a.mu.Lock()
	defer a.mu.Unlock()
	if v, ok := a.vset[key]; ok {
		return v
	}
	v := &Vert{Co: co, Approx: approx, ID: a.nextVertID, Orig: orig}
	a.nextVertID++
	a.vset[key] = v
	a.verts = append(a.verts, v)
	return v
}

// FindVert returns the Vert with the given exact coordinate, or nil.
func (a *Arena) FindVert(co exact.Vec3) *Vert {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.vset[co.Key()]
}

// AddFace always allocates: faces are not deduplicated here, callers
// handle coplanar duplicates through clustering.
func (a *Arena) AddFace(verts []*Vert, orig int, edgeOrigs []int) *Face {
	a.mu.Lock()
	id := a.nextFaceID
	a.nextFaceID++
	a.mu.Unlock()

	f := newFace(verts, id, orig, edgeOrigs)

	a.mu.Lock()
	a.faces = append(a.faces, f)
	a.mu.Unlock()
	return f
}

// FindFace returns an allocated Face that is a cyclic permutation of
// verts, or nil. This is a linear scan meant for tests and debugging, not
// hot paths.
func (a *Arena) FindFace(verts []*Vert) *Face {
	edgeOrigs := make([]int, len(verts))
	for i := range edgeOrigs {
		edgeOrigs[i] = NoIndex
	}
	try := newFace(verts, NoIndex, NoIndex, edgeOrigs)

	a.mu.Lock()
	defer a.mu.Unlock()
	for _, f := range a.faces {
		if try.CyclicEqual(f) {
			return f
		}
	}
	return nil
}
