package io

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/trapmap/pkg/errors"
	"github.com/matzehuels/trapmap/pkg/geom"
	"github.com/matzehuels/trapmap/pkg/trapmap"
)

// WriteCSV writes a table, such as the adjacency export of a map, as CSV.
func WriteCSV(table [][]string, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(table); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write csv")
	}
	return nil
}

// ExportCSV writes table to a CSV file at path.
func ExportCSV(table [][]string, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "create %s", path)
	}
	if err := WriteCSV(table, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadCSV reads a table written by WriteCSV.
func ReadCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	table, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read csv")
	}
	return table, nil
}

// Region is the JSON form of one region of a map.
type Region struct {
	Label   string        `json:"label"`
	LeftP   geom.Point    `json:"left"`
	RightP  geom.Point    `json:"right"`
	Top     Segment       `json:"top"`
	Bottom  Segment       `json:"bottom"`
	Corners [4]geom.Point `json:"corners"`
	Area    float64       `json:"area"`
}

// Regions converts the leaves of m to their JSON form in arena order.
func Regions(m *trapmap.Map) []Region {
	ids := m.Leaves()
	out := make([]Region, len(ids))
	for i, id := range ids {
		n, _ := m.Node(id)
		out[i] = NewRegion(n.Label, n.Region)
	}
	return out
}

// NewRegion converts one region.
func NewRegion(label string, t trapmap.Trapezoid) Region {
	return Region{
		Label:   label,
		LeftP:   t.LeftP,
		RightP:  t.RightP,
		Top:     fromSegment(t.Top),
		Bottom:  fromSegment(t.Bottom),
		Corners: t.Corners(),
		Area:    t.Area(),
	}
}

// WriteRegionsJSON writes the regions of m as an indented JSON array.
func WriteRegionsJSON(m *trapmap.Map, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Regions(m)); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode regions")
	}
	return nil
}
