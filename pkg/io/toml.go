package io

import (
	"io"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/trapmap/pkg/errors"
	"github.com/matzehuels/trapmap/pkg/geom"
)

type tomlInput struct {
	Bounds  jsonBounds `toml:"bounds"`
	Segment []Segment  `toml:"segment"`
}

// ReadTOML decodes a [bounds] table and a [[segment]] array. Unknown keys
// are rejected.
func ReadTOML(r io.Reader) (Input, error) {
	var doc tomlInput
	md, err := toml.NewDecoder(r).Decode(&doc)
	if err != nil {
		return Input{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode toml")
	}
	if !md.IsDefined("bounds") {
		return Input{}, errors.New(errors.ErrCodeInvalidFormat, "missing [bounds] table")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Input{}, errors.New(errors.ErrCodeInvalidFormat, "unknown key %q", undecoded[0].String())
	}

	in := Input{Bounds: geom.R(doc.Bounds.X, doc.Bounds.Y, doc.Bounds.Width, doc.Bounds.Height)}
	for _, s := range doc.Segment {
		in.Segments = append(in.Segments, s.Geom())
	}
	if err := in.validate(segmentIndex); err != nil {
		return Input{}, err
	}
	return in, nil
}

// WriteTOML encodes in as TOML.
func WriteTOML(in Input, w io.Writer) error {
	doc := tomlInput{Bounds: jsonBounds{X: in.Bounds.X, Y: in.Bounds.Y, Width: in.Bounds.W, Height: in.Bounds.H}}
	for _, s := range in.Segments {
		doc.Segment = append(doc.Segment, fromSegment(s))
	}
	if err := toml.NewEncoder(w).Encode(doc); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode toml")
	}
	return nil
}
