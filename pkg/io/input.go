package io

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/trapmap/pkg/cache"
	"github.com/matzehuels/trapmap/pkg/errors"
	"github.com/matzehuels/trapmap/pkg/geom"
)

// Input is a bounding rectangle and the segments to insert, in order.
type Input struct {
	Bounds   geom.Rect
	Segments []geom.Segment
}

// Hash returns a content hash of the input. Two inputs with the same bounds
// and the same segments in the same order hash equally regardless of the
// format they were read from.
func (in Input) Hash() string {
	var buf bytes.Buffer
	_ = WriteJSON(in, &buf)
	return cache.Hash(buf.Bytes())
}

type jsonBounds struct {
	X      float64 `json:"x" toml:"x"`
	Y      float64 `json:"y" toml:"y"`
	Width  float64 `json:"width" toml:"width"`
	Height float64 `json:"height" toml:"height"`
}

// Segment is the serialised form of a segment in JSON, TOML and region
// output.
type Segment struct {
	X1 float64 `json:"x1" toml:"x1"`
	Y1 float64 `json:"y1" toml:"y1"`
	X2 float64 `json:"x2" toml:"x2"`
	Y2 float64 `json:"y2" toml:"y2"`
}

// Geom converts s to a geometric segment, keeping the endpoint order.
func (s Segment) Geom() geom.Segment {
	return geom.Segment{P: geom.Pt(s.X1, s.Y1), Q: geom.Pt(s.X2, s.Y2)}
}

func fromSegment(s geom.Segment) Segment {
	return Segment{X1: s.P.X, Y1: s.P.Y, X2: s.Q.X, Y2: s.Q.Y}
}

// validate checks coordinates and the bounds. where names the position of
// each segment for messages, e.g. "line 7" or "segment 2".
func (in Input) validate(where func(i int) string) error {
	b := in.Bounds
	for _, v := range []struct {
		name string
		val  float64
	}{{"bounds x", b.X}, {"bounds y", b.Y}, {"bounds width", b.W}, {"bounds height", b.H}} {
		if err := errors.ValidateCoordinate(v.name, v.val); err != nil {
			return err
		}
	}
	if b.Empty() {
		return errors.New(errors.ErrCodeInvalidInput, "bounds %s must have positive width and height", b)
	}
	for i, s := range in.Segments {
		coords := [...]float64{s.P.X, s.P.Y, s.Q.X, s.Q.Y}
		for j, name := range [...]string{"x1", "y1", "x2", "y2"} {
			if err := errors.ValidateCoordinate(fmt.Sprintf("%s %s", where(i), name), coords[j]); err != nil {
				return err
			}
		}
	}
	return nil
}

func segmentIndex(i int) string { return fmt.Sprintf("segment %d", i) }
