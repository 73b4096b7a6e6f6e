package io

import (
	"encoding/json"
	"io"

	"github.com/matzehuels/trapmap/pkg/errors"
	"github.com/matzehuels/trapmap/pkg/geom"
)

type jsonInput struct {
	Bounds   *jsonBounds `json:"bounds"`
	Segments []Segment   `json:"segments"`
}

// ReadJSON decodes {"bounds": {...}, "segments": [...]}. Unknown fields are
// rejected. ReadJSON does not close r.
func ReadJSON(r io.Reader) (Input, error) {
	var doc jsonInput
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return Input{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json")
	}
	if doc.Bounds == nil {
		return Input{}, errors.New(errors.ErrCodeInvalidFormat, "missing bounds")
	}

	in := Input{Bounds: geom.R(doc.Bounds.X, doc.Bounds.Y, doc.Bounds.Width, doc.Bounds.Height)}
	for _, s := range doc.Segments {
		in.Segments = append(in.Segments, s.Geom())
	}
	if err := in.validate(segmentIndex); err != nil {
		return Input{}, err
	}
	return in, nil
}

// WriteJSON encodes in as indented JSON. The output can be read back with
// [ReadJSON].
func WriteJSON(in Input, w io.Writer) error {
	doc := jsonInput{
		Bounds:   &jsonBounds{X: in.Bounds.X, Y: in.Bounds.Y, Width: in.Bounds.W, Height: in.Bounds.H},
		Segments: make([]Segment, len(in.Segments)),
	}
	for i, s := range in.Segments {
		doc.Segments[i] = fromSegment(s)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode json")
	}
	return nil
}
