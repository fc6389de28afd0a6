// Package mesh holds the owned geometry of one intersection run: vertices
// and faces live in an Arena, and a Mesh is a light, non-owning view over
// a list of faces.
package mesh

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/meshtools/trisect/exact"
)

// NoIndex marks a missing back-reference to an original mesh element.
const NoIndex = -1

// Vert is a vertex with an exact coordinate and a cached approximation.
// Verts are owned by an Arena, which guarantees that no two distinct Vert
// instances share the same exact coordinate, so pointer equality doubles
// as exact coordinate equality within one run.
type Vert struct {
	Co     exact.Vec3
	Approx mgl64.Vec3

	// ID is the creation-order identifier within the owning Arena.
	ID int
	// Orig is the index of the input vertex this one came from, or
	// NoIndex for vertices synthesized at intersections.
	Orig int
}

func (v *Vert) String() string {
	if v.Orig != NoIndex {
		return fmt.Sprintf("v%do%d%s", v.ID, v.Orig, v.Co.String())
	}
	return fmt.Sprintf("v%d%s", v.ID, v.Co.String())
}
