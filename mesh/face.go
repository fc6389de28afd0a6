package mesh

import (
	"fmt"
	"strings"

	"github.com/meshtools/trisect/exact"
)

// Face is an ordered ring of 3 or more Arena-owned vertices. Vertex order
// fixes the orientation and therefore the sign of the cached Plane, which
// is computed once at construction. A Face is immutable: replacing any
// field means allocating a new Face through the Arena.
type Face struct {
	Vert []*Vert
	// EdgeOrig[i] is the original input edge that produced the edge from
	// Vert[i] to Vert[i+1], or NoIndex for synthesized edges.
	EdgeOrig []int
	Plane    exact.Plane

	ID   int
	Orig int
}

func newFace(verts []*Vert, id, orig int, edgeOrigs []int) *Face {
	co := make([]exact.Vec3, len(verts))
	for i, v := range verts {
		co[i] = v.Co
	}
	f := &Face{
		Vert:     append([]*Vert(nil), verts...),
		EdgeOrig: append([]int(nil), edgeOrigs...),
		Plane:    exact.PlaneFromPoints(co),
		ID:       id,
		Orig:     orig,
	}
	return f
}

func (f *Face) Len() int { return len(f.Vert) }

func (f *Face) NextPos(p int) int { return (p + 1) % len(f.Vert) }

func (f *Face) PrevPos(p int) int { return (p + len(f.Vert) - 1) % len(f.Vert) }

// Equal is positional equality: same vertices at the same positions.
// Vertex pointers can be compared directly because the Arena dedups them.
func (f *Face) Equal(g *Face) bool {
	if f.Len() != g.Len() {
		return false
	}
	for i := range f.Vert {
		if f.Vert[i] != g.Vert[i] {
			return false
		}
	}
	return true
}

// CyclicEqual reports whether g is the same vertex ring as f, allowing a
// different starting position.
func (f *Face) CyclicEqual(g *Face) bool {
	if f.Len() != g.Len() {
		return false
	}
	n := f.Len()
	for start := 0; start < n; start++ {
		ok := true
		for i := 0; ok && i < n; i++ {
			if f.Vert[(start+i)%n] != g.Vert[i] {
				ok = false
			}
		}
		if ok {
			return true
		}
	}
	return false
}

func (f *Face) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "f%do%d[", f.ID, f.Orig)
	for i, v := range f.Vert {
		if i > 0 {
			sb.WriteByte(' ')
		}
		if v.Orig != NoIndex {
			fmt.Fprintf(&sb, "v%do%d", v.ID, v.Orig)
		} else {
			fmt.Fprintf(&sb, "v%d", v.ID)
		}
	}
	sb.WriteByte(']')
	return sb.String()
}
