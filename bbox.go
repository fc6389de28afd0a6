package trisect

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/meshtools/trisect/mesh"
)

const floatEpsilon = 2.220446049250313e-16

// BoundingBox is an axis-aligned box over approximate coordinates. Boxes
// used in the broad phase are expanded by an epsilon pad on all sides so
// that inclusive min/max comparisons are enough to catch touching
// geometry despite the float rounding of exact coordinates.
type BoundingBox struct {
	Min, Max mgl64.Vec3
}

func emptyBoundingBox() BoundingBox {
	inf := math.Inf(1)
	return BoundingBox{
		Min: mgl64.Vec3{inf, inf, inf},
		Max: mgl64.Vec3{-inf, -inf, -inf},
	}
}

func (bb *BoundingBox) CombinePoint(p mgl64.Vec3) {
	for i := 0; i < 3; i++ {
		bb.Min[i] = math.Min(bb.Min[i], p[i])
		bb.Max[i] = math.Max(bb.Max[i], p[i])
	}
}

func (bb *BoundingBox) CombineBox(other BoundingBox) {
	for i := 0; i < 3; i++ {
		bb.Min[i] = math.Min(bb.Min[i], other.Min[i])
		bb.Max[i] = math.Max(bb.Max[i], other.Max[i])
	}
}

func (bb *BoundingBox) Expand(pad float64) {
	for i := 0; i < 3; i++ {
		bb.Min[i] -= pad
		bb.Max[i] += pad
	}
}

// Overlaps is inclusive: boxes that merely touch overlap.
func (bb BoundingBox) Overlaps(other BoundingBox) bool {
	for i := 0; i < 3; i++ {
		if bb.Max[i] < other.Min[i] || other.Max[i] < bb.Min[i] {
			return false
		}
	}
	return true
}

// triBoundingBoxes computes one padded box per face of tm. The pad scales
// with the largest coordinate magnitude so it stays above the rounding
// error of any vertex.
func triBoundingBoxes(tm *mesh.Mesh) []BoundingBox {
	maxAbs := 0.0
	bbs := make([]BoundingBox, tm.Len())
	for t := range bbs {
		bb := emptyBoundingBox()
		for _, v := range tm.Face(t).Vert {
			bb.CombinePoint(v.Approx)
			for i := 0; i < 3; i++ {
				maxAbs = math.Max(maxAbs, math.Abs(v.Approx[i]))
			}
		}
		bbs[t] = bb
	}
	pad := floatEpsilon
	if maxAbs != 0.0 {
		pad = 2 * floatEpsilon * maxAbs
	}
	// Extra safety factor over the worst-case rounding error.
	pad *= 10
	for t := range bbs {
		bbs[t].Expand(pad)
	}
	return bbs
}
