package trapmap

import (
	"github.com/matzehuels/trapmap/pkg/geom"
)

// run is a merged piece and the number of consecutive crossed regions it
// covers.
type run struct {
	region Trapezoid
	count  int
}

// mergePieces folds the pieces on one side of s from left to right. Two
// consecutive pieces fuse when the wall between them no longer reaches them:
// for the pieces above s that is a wall whose defining point lies below s,
// for the pieces below s one whose defining point lies above it. Pieces that
// should fuse but disagree on their outer boundary are kept apart with a
// warning.
//
// Every fusion removes one entry, so the result never has more runs than
// there are pieces.
func (m *Map) mergePieces(pieces []Trapezoid, walls []geom.Point, s geom.Segment, upper bool) []run {
	runs := []run{{region: pieces[0], count: 1}}
	for i := 1; i < len(pieces); i++ {
		cur := &runs[len(runs)-1]
		next := pieces[i]
		w := walls[i-1]

		side := s.Side(w)
		fuse := (upper && side < 0) || (!upper && side > 0)
		if !fuse {
			runs = append(runs, run{region: next, count: 1})
			continue
		}

		var merged Trapezoid
		if upper {
			if cur.region.Top != next.Top {
				m.logger.Warn("pieces above segment disagree on top", "left", cur.region.String(), "right", next.String())
				runs = append(runs, run{region: next, count: 1})
				continue
			}
			merged = NewTrapezoid(cur.region.LeftP, next.RightP, next.Top, s)
		} else {
			if cur.region.Bottom != next.Bottom {
				m.logger.Warn("pieces below segment disagree on bottom", "left", cur.region.String(), "right", next.String())
				runs = append(runs, run{region: next, count: 1})
				continue
			}
			merged = NewTrapezoid(cur.region.LeftP, next.RightP, s, next.Bottom)
		}
		cur.region = merged
		cur.count++
	}
	return runs
}
