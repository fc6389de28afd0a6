package mesh

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func quadMesh(t *testing.T, arena *Arena) *Mesh {
	t.Helper()
	v0 := arena.AddOrFindVertFloat(mgl64.Vec3{0, 0, 0}, 0)
	v1 := arena.AddOrFindVertFloat(mgl64.Vec3{1, 0, 0}, 1)
	v2 := arena.AddOrFindVertFloat(mgl64.Vec3{1, 1, 0}, 2)
	v3 := arena.AddOrFindVertFloat(mgl64.Vec3{0, 1, 0}, 3)
	f0 := arena.AddFace([]*Vert{v0, v1, v2}, 0, []int{0, 1, NoIndex})
	f1 := arena.AddFace([]*Vert{v0, v2, v3}, 1, []int{NoIndex, 2, 3})
	return New([]*Face{f0, f1})
}

func TestPopulateVertsOrder(t *testing.T) {
	arena := NewArena()
	m := quadMesh(t, arena)
	if m.HasVerts() {
		t.Fatal("vertex list populated before PopulateVerts")
	}
	verts := m.Verts()
	if !m.HasVerts() {
		t.Fatal("HasVerts false after Verts")
	}
	if len(verts) != 4 {
		t.Fatalf("len(verts) = %d, want 4", len(verts))
	}
	for i, v := range verts {
		if v.Orig != i {
			t.Errorf("verts[%d].Orig = %d, want %d", i, v.Orig, i)
		}
		if got := m.LookupVert(v); got != i {
			t.Errorf("LookupVert(verts[%d]) = %d", i, got)
		}
	}
}

func TestPopulateVertsSynthesizedOrder(t *testing.T) {
	// Synthesized vertices sort by coordinate, so the populated list does
	// not depend on arena insertion order.
	coords := []mgl64.Vec3{{1, 0, 0}, {0, 0, 0}, {0, 1, 0}}
	build := func(order []int) *Mesh {
		arena := NewArena()
		vs := make([]*Vert, len(coords))
		for _, i := range order {
			vs[i] = arena.AddOrFindVertFloat(coords[i], NoIndex)
		}
		f := arena.AddFace(vs, 0, []int{NoIndex, NoIndex, NoIndex})
		return New([]*Face{f})
	}
	a := build([]int{0, 1, 2}).Verts()
	b := build([]int{2, 1, 0}).Verts()
	if len(a) != len(b) {
		t.Fatalf("vert counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Co.Key() != b[i].Co.Key() {
			t.Errorf("verts[%d] differ: %s vs %s", i, a[i], b[i])
		}
	}
}

func TestLookupVertForeign(t *testing.T) {
	arena := NewArena()
	m := quadMesh(t, arena)
	other := arena.AddOrFindVertFloat(mgl64.Vec3{9, 9, 9}, NoIndex)
	if got := m.LookupVert(other); got != NoIndex {
		t.Errorf("LookupVert(foreign) = %d, want NoIndex", got)
	}
}

func TestEraseFacePositions(t *testing.T) {
	arena := NewArena()
	v0 := arena.AddOrFindVertFloat(mgl64.Vec3{0, 0, 0}, 0)
	v1 := arena.AddOrFindVertFloat(mgl64.Vec3{2, 0, 0}, 1)
	mid := arena.AddOrFindVertFloat(mgl64.Vec3{1, 0, 0}, NoIndex)
	v2 := arena.AddOrFindVertFloat(mgl64.Vec3{0, 2, 0}, 2)
	f := arena.AddFace([]*Vert{v0, mid, v1, v2}, 5, []int{0, 0, 1, 2})
	m := New([]*Face{f})

	m.EraseFacePositions(0, []bool{false, true, false, false}, arena)
	got := m.Face(0)
	if got == f {
		t.Fatal("face was not replaced")
	}
	if got.Len() != 3 {
		t.Fatalf("replacement has %d verts, want 3", got.Len())
	}
	if got.Vert[0] != v0 || got.Vert[1] != v1 || got.Vert[2] != v2 {
		t.Error("replacement kept the wrong vertices")
	}
	if got.Orig != 5 {
		t.Errorf("replacement Orig = %d, want 5", got.Orig)
	}
	if got.EdgeOrig[0] != 0 || got.EdgeOrig[1] != 1 || got.EdgeOrig[2] != 2 {
		t.Errorf("replacement EdgeOrig = %v", got.EdgeOrig)
	}
}

func TestEraseFacePositionsWouldDegenerate(t *testing.T) {
	arena := NewArena()
	v0 := arena.AddOrFindVertFloat(mgl64.Vec3{0, 0, 0}, 0)
	v1 := arena.AddOrFindVertFloat(mgl64.Vec3{1, 0, 0}, 1)
	v2 := arena.AddOrFindVertFloat(mgl64.Vec3{0, 1, 0}, 2)
	f := arena.AddFace([]*Vert{v0, v1, v2}, 0, []int{0, 1, 2})
	m := New([]*Face{f})
	m.EraseFacePositions(0, []bool{true, false, false}, arena)
	if m.Face(0) != f {
		t.Error("face replaced even though result would have fewer than 3 verts")
	}
}

func TestWriteObj(t *testing.T) {
	arena := NewArena()
	m := quadMesh(t, arena)
	var sb strings.Builder
	if err := WriteObj(&sb, m); err != nil {
		t.Fatal(err)
	}
	got := sb.String()
	want := "v 0 0 0\nv 1 0 0\nv 1 1 0\nv 0 1 0\nf 1 2 3\nf 1 3 4\n"
	if got != want {
		t.Errorf("WriteObj output:\n%s\nwant:\n%s", got, want)
	}
}
