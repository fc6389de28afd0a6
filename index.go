package trisect

import (
	"sort"

	"github.com/dhconnelly/rtreego"
)

// triBounds adapts one padded triangle box to the r-tree's Spatial
// interface, remembering which triangle it came from.
type triBounds struct {
	rect rtreego.Rect
	tri  int
}

var _ rtreego.Spatial = (*triBounds)(nil)

func (tb *triBounds) Bounds() rtreego.Rect { return tb.rect }

// overlapIndex is the broad phase: an r-tree over the padded triangle
// boxes answering which triangles might touch a query box.
type overlapIndex struct {
	tree *rtreego.Rtree
}

func newOverlapIndex(bbs []BoundingBox) (*overlapIndex, error) {
	tree := rtreego.NewTree(3, 2, 8)
	for t := range bbs {
		rect, err := rectFromBox(bbs[t])
		if err != nil {
			return nil, err
		}
		tree.Insert(&triBounds{rect: rect, tri: t})
	}
	return &overlapIndex{tree: tree}, nil
}

func rectFromBox(bb BoundingBox) (rtreego.Rect, error) {
	// Padded boxes always have positive extent on every axis.
	lengths := []float64{
		bb.Max[0] - bb.Min[0],
		bb.Max[1] - bb.Min[1],
		bb.Max[2] - bb.Min[2],
	}
	return rtreego.NewRect(rtreego.Point{bb.Min[0], bb.Min[1], bb.Min[2]}, lengths)
}

// overlapping returns the indices of triangles whose padded box overlaps
// bb, sorted ascending so downstream work is deterministic.
func (ix *overlapIndex) overlapping(bb BoundingBox) ([]int, error) {
	rect, err := rectFromBox(bb)
	if err != nil {
		return nil, err
	}
	hits := ix.tree.SearchIntersect(rect)
	out := make([]int, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.(*triBounds).tri)
	}
	sort.Ints(out)
	return out, nil
}
