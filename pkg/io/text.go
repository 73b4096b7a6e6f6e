package io

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/matzehuels/trapmap/pkg/errors"
	"github.com/matzehuels/trapmap/pkg/geom"
)

// ReadText decodes the line-oriented text format: a segment count, a bounds
// line and one line per segment. Blank lines and lines starting with '#' are
// skipped. Extra segment lines beyond the count are an error, as are missing
// ones.
func ReadText(r io.Reader) (Input, error) {
	sc := bufio.NewScanner(r)
	var (
		in      Input
		lineNo  int
		count   = -1
		haveBox bool
		lines   []int
	)
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		switch {
		case count < 0:
			n, err := strconv.Atoi(line)
			if err != nil || n < 0 {
				return Input{}, errors.New(errors.ErrCodeInvalidFormat, "line %d: expected a segment count, got %q", lineNo, line)
			}
			count = n
		case !haveBox:
			v, err := numbers(line, lineNo)
			if err != nil {
				return Input{}, err
			}
			in.Bounds = geom.R(v[0], v[1], v[2], v[3])
			haveBox = true
		default:
			if len(in.Segments) == count {
				return Input{}, errors.New(errors.ErrCodeInvalidFormat, "line %d: more than %d segments", lineNo, count)
			}
			v, err := numbers(line, lineNo)
			if err != nil {
				return Input{}, err
			}
			in.Segments = append(in.Segments, geom.Segment{P: geom.Pt(v[0], v[1]), Q: geom.Pt(v[2], v[3])})
			lines = append(lines, lineNo)
		}
	}
	if err := sc.Err(); err != nil {
		return Input{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read")
	}

	switch {
	case count < 0:
		return Input{}, errors.New(errors.ErrCodeInvalidFormat, "missing segment count")
	case !haveBox:
		return Input{}, errors.New(errors.ErrCodeInvalidFormat, "missing bounds line")
	case len(in.Segments) != count:
		return Input{}, errors.New(errors.ErrCodeInvalidFormat, "expected %d segments, got %d", count, len(in.Segments))
	}
	if err := in.validate(func(i int) string { return fmt.Sprintf("line %d", lines[i]) }); err != nil {
		return Input{}, err
	}
	return in, nil
}

// WriteText encodes in in the text format.
func WriteText(in Input, w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d\n", len(in.Segments))
	fmt.Fprintf(bw, "%s %s %s %s\n", num(in.Bounds.X), num(in.Bounds.Y), num(in.Bounds.W), num(in.Bounds.H))
	for _, s := range in.Segments {
		fmt.Fprintf(bw, "%s %s %s %s\n", num(s.P.X), num(s.P.Y), num(s.Q.X), num(s.Q.Y))
	}
	return bw.Flush()
}

func numbers(line string, lineNo int) ([4]float64, error) {
	var out [4]float64
	fields := strings.Fields(line)
	if len(fields) != 4 {
		return out, errors.New(errors.ErrCodeInvalidFormat, "line %d: expected 4 numbers, got %d", lineNo, len(fields))
	}
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return out, errors.New(errors.ErrCodeInvalidFormat, "line %d: %q is not a number", lineNo, f)
		}
		out[i] = v
	}
	return out, nil
}

func num(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
