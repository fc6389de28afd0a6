package mesh

import (
	"sync"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/meshtools/trisect/exact"
)

func TestAddOrFindVertDedups(t *testing.T) {
	arena := NewArena()
	co := mgl64.Vec3{1, 2, 3}
	v1 := arena.AddOrFindVertFloat(co, 7)
	v2 := arena.AddOrFindVertFloat(co, 9)
	if v1 != v2 {
		t.Fatal("same coordinate produced two Vert instances")
	}
	if v1.Orig != 7 {
		t.Errorf("Orig = %d, want first-seen 7", v1.Orig)
	}
	if arena.TotVerts() != 1 {
		t.Errorf("TotVerts = %d, want 1", arena.TotVerts())
	}
}

func TestAddOrFindVertExactAndFloatAgree(t *testing.T) {
	arena := NewArena()
	co := mgl64.Vec3{0.5, -0.25, 2}
	v1 := arena.AddOrFindVertFloat(co, 0)
	v2 := arena.AddOrFindVert(exact.Vec3FromFloat(co), NoIndex)
	if v1 != v2 {
		t.Error("float and exact forms of the same coordinate did not dedup")
	}
}

func TestFindVert(t *testing.T) {
	arena := NewArena()
	co := mgl64.Vec3{1, 0, 0}
	v := arena.AddOrFindVertFloat(co, 3)
	if got := arena.FindVert(exact.Vec3FromFloat(co)); got != v {
		t.Error("FindVert did not return the stored vert")
	}
	if got := arena.FindVert(exact.Vec3FromFloat(mgl64.Vec3{2, 0, 0})); got != nil {
		t.Errorf("FindVert for absent coordinate = %v, want nil", got)
	}
}

func TestAddOrFindVertConcurrent(t *testing.T) {
	arena := NewArena()
	coords := []mgl64.Vec3{
		{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}, {1, 1, 1},
	}
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				arena.AddOrFindVertFloat(coords[i%len(coords)], i)
			}
		}()
	}
	wg.Wait()
	if arena.TotVerts() != len(coords) {
		t.Errorf("TotVerts = %d, want %d", arena.TotVerts(), len(coords))
	}
}

func triVerts(arena *Arena, coords ...mgl64.Vec3) []*Vert {
	verts := make([]*Vert, len(coords))
	for i, co := range coords {
		verts[i] = arena.AddOrFindVertFloat(co, i)
	}
	return verts
}

func TestAddFaceComputesPlane(t *testing.T) {
	arena := NewArena()
	verts := triVerts(arena, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 1, 0})
	f := arena.AddFace(verts, 0, []int{0, 1, 2})
	// CCW in the xy plane: normal along +z.
	if f.Plane.Norm[2].Sign() != 1 {
		t.Errorf("plane normal z sign = %d, want 1", f.Plane.Norm[2].Sign())
	}
	for _, v := range f.Vert {
		if got := f.Plane.SideOf(&v.Co); got != 0 {
			t.Errorf("vertex %s not on its face plane (side %d)", v, got)
		}
	}
	if arena.TotFaces() != 1 {
		t.Errorf("TotFaces = %d, want 1", arena.TotFaces())
	}
}

func TestFindFaceCyclic(t *testing.T) {
	arena := NewArena()
	verts := triVerts(arena, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 1, 0})
	f := arena.AddFace(verts, 0, []int{NoIndex, NoIndex, NoIndex})
	rotated := []*Vert{verts[1], verts[2], verts[0]}
	if got := arena.FindFace(rotated); got != f {
		t.Error("FindFace did not match a rotated vertex ring")
	}
	reversed := []*Vert{verts[2], verts[1], verts[0]}
	if got := arena.FindFace(reversed); got != nil {
		t.Error("FindFace matched a reversed ring")
	}
}
