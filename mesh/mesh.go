package mesh

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Mesh is an ordered collection of borrowed Face references plus a lazily
// populated, deduplicated vertex list with a reverse lookup. A Mesh never
// outlives the Arena owning its faces.
type Mesh struct {
	faces []*Face

	verts     []*Vert
	vertIndex map[*Vert]int
	populated bool
}

func New(faces []*Face) *Mesh {
	return &Mesh{faces: append([]*Face(nil), faces...)}
}

func (m *Mesh) Len() int { return len(m.faces) }

func (m *Mesh) Face(i int) *Face { return m.faces[i] }

func (m *Mesh) Faces() []*Face { return m.faces }

// HasVerts reports whether the vertex list has been populated.
func (m *Mesh) HasVerts() bool { return m.populated }

// PopulateVerts builds the deduplicated vertex list. The list is sorted
// by original index first, then exact coordinate, so output vertex order
// is deterministic across runs regardless of vertex creation order and
// follows input order when there are no merged vertices. Once populated,
// the list is stable for the Mesh's lifetime.
func (m *Mesh) PopulateVerts() {
	if m.populated {
		return
	}
	m.vertIndex = make(map[*Vert]int, 4*len(m.faces))
	for _, f := range m.faces {
		for _, v := range f.Vert {
			if _, ok := m.vertIndex[v]; !ok {
				m.vertIndex[v] = len(m.verts)
				m.verts = append(m.verts, v)
			}
		}
	}
	sort.SliceStable(m.verts, func(i, j int) bool {
		a, b := m.verts[i], m.verts[j]
		if a.Orig != b.Orig {
			if a.Orig == NoIndex {
				return false
			}
			if b.Orig == NoIndex {
				return true
			}
			return a.Orig < b.Orig
		}
		return a.Co.Cmp(&b.Co) < 0
	})
	for i, v := range m.verts {
		m.vertIndex[v] = i
	}
	m.populated = true
}

// Verts returns the populated vertex list, populating it if needed.
func (m *Mesh) Verts() []*Vert {
	m.PopulateVerts()
	return m.verts
}

// LookupVert returns the position of v in the populated vertex list, or
// NoIndex if v is not part of this mesh.
func (m *Mesh) LookupVert(v *Vert) int {
	m.PopulateVerts()
	if i, ok := m.vertIndex[v]; ok {
		return i
	}
	return NoIndex
}

// EraseFacePositions replaces face fIndex with a copy that drops the
// positions marked true in erase. The replacement is a fresh Face from the
// arena; nothing happens if no position is marked or if the result would
// have fewer than three vertices.
func (m *Mesh) EraseFacePositions(fIndex int, erase []bool, arena *Arena) {
	cur := m.faces[fIndex]
	numErase := 0
	for i := range cur.Vert {
		if erase[i] {
			numErase++
		}
	}
	if numErase == 0 {
		return
	}
	newLen := cur.Len() - numErase
	if newLen < 3 {
		return
	}
	verts := make([]*Vert, 0, newLen)
	edgeOrigs := make([]int, 0, newLen)
	for i, v := range cur.Vert {
		if !erase[i] {
			verts = append(verts, v)
			edgeOrigs = append(edgeOrigs, cur.EdgeOrig[i])
		}
	}
	m.faces[fIndex] = arena.AddFace(verts, cur.Orig, edgeOrigs)
}

func (m *Mesh) String() string {
	var sb strings.Builder
	if m.populated {
		sb.WriteString("Verts:\n")
		for i, v := range m.verts {
			fmt.Fprintf(&sb, "%d: %s\n", i, v)
		}
	}
	sb.WriteString("Faces:\n")
	for i, f := range m.faces {
		fmt.Fprintf(&sb, "%d: %s\n", i, f)
		fmt.Fprintf(&sb, "    plane=%s eorig=%v\n", f.Plane.String(), f.EdgeOrig)
	}
	return sb.String()
}

// WriteObj writes m in Wavefront OBJ form using the approximate
// coordinates. Populating the vertex list is a side effect.
func WriteObj(w io.Writer, m *Mesh) error {
	for _, v := range m.Verts() {
		co := v.Approx
		if _, err := fmt.Fprintf(w, "v %g %g %g\n", co.X(), co.Y(), co.Z()); err != nil {
			return err
		}
	}
	for _, f := range m.Faces() {
		if _, err := io.WriteString(w, "f"); err != nil {
			return err
		}
		for _, v := range f.Vert {
			// OBJ files use 1-based vertex indices.
			if _, err := fmt.Fprintf(w, " %d", m.LookupVert(v)+1); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}
