package io

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/trapmap/pkg/errors"
	"github.com/matzehuels/trapmap/pkg/geom"
	"github.com/matzehuels/trapmap/pkg/trapmap"
)

const sampleText = `# three segments
3
0 0 10 10

2 2 8 8
1 5 3 9
4 1 9 2
`

var sample = Input{
	Bounds: geom.R(0, 0, 10, 10),
	Segments: []geom.Segment{
		{P: geom.Pt(2, 2), Q: geom.Pt(8, 8)},
		{P: geom.Pt(1, 5), Q: geom.Pt(3, 9)},
		{P: geom.Pt(4, 1), Q: geom.Pt(9, 2)},
	},
}

func equalInput(t *testing.T, got, want Input) {
	t.Helper()
	if got.Bounds != want.Bounds {
		t.Errorf("bounds = %v, want %v", got.Bounds, want.Bounds)
	}
	if len(got.Segments) != len(want.Segments) {
		t.Fatalf("got %d segments, want %d", len(got.Segments), len(want.Segments))
	}
	for i := range want.Segments {
		if got.Segments[i] != want.Segments[i] {
			t.Errorf("segment %d = %v, want %v", i, got.Segments[i], want.Segments[i])
		}
	}
}

func TestReadText(t *testing.T) {
	in, err := ReadText(strings.NewReader(sampleText))
	if err != nil {
		t.Fatalf("ReadText: %v", err)
	}
	equalInput(t, in, sample)
}

func TestReadTextErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  errors.Code
	}{
		{"empty", "", errors.ErrCodeInvalidFormat},
		{"bad count", "three\n", errors.ErrCodeInvalidFormat},
		{"missing bounds", "0\n", errors.ErrCodeInvalidFormat},
		{"short bounds", "0\n0 0 10\n", errors.ErrCodeInvalidFormat},
		{"too few segments", "2\n0 0 10 10\n1 1 2 2\n", errors.ErrCodeInvalidFormat},
		{"too many segments", "1\n0 0 10 10\n1 1 2 2\n3 3 4 4\n", errors.ErrCodeInvalidFormat},
		{"not a number", "1\n0 0 10 10\n1 x 2 2\n", errors.ErrCodeInvalidFormat},
		{"infinite", "1\n0 0 10 10\n1 Inf 2 2\n", errors.ErrCodeInvalidInput},
		{"empty bounds", "0\n0 0 0 10\n", errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadText(strings.NewReader(tt.input))
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestTextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteText(sample, &buf); err != nil {
		t.Fatal(err)
	}
	in, err := ReadText(&buf)
	if err != nil {
		t.Fatalf("ReadText: %v", err)
	}
	equalInput(t, in, sample)
}

func TestTOMLRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTOML(sample, &buf); err != nil {
		t.Fatal(err)
	}
	in, err := ReadTOML(&buf)
	if err != nil {
		t.Fatalf("ReadTOML: %v\n%s", err, buf.String())
	}
	equalInput(t, in, sample)
}

func TestReadTOMLErrors(t *testing.T) {
	if _, err := ReadTOML(strings.NewReader("[[segment]]\nx1 = 1\n")); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("missing bounds: %v", err)
	}
	doc := "[bounds]\nx = 0\ny = 0\nwidth = 1\nheight = 1\ncolour = \"red\"\n"
	if _, err := ReadTOML(strings.NewReader(doc)); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("unknown key: %v", err)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(sample, &buf); err != nil {
		t.Fatal(err)
	}
	in, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	equalInput(t, in, sample)
}

func TestReadJSONErrors(t *testing.T) {
	tests := map[string]string{
		"malformed":      `{"bounds":`,
		"missing bounds": `{"segments": []}`,
		"unknown field":  `{"bounds": {"x": 0, "y": 0, "width": 1, "height": 1}, "extra": 1}`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ReadJSON(strings.NewReader(doc)); !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("error = %v", err)
			}
		})
	}
}

func TestHashIgnoresFormat(t *testing.T) {
	fromText, err := ReadText(strings.NewReader(sampleText))
	if err != nil {
		t.Fatal(err)
	}
	if fromText.Hash() != sample.Hash() {
		t.Error("equal inputs should hash equally")
	}
	other := Input{Bounds: sample.Bounds, Segments: sample.Segments[:2]}
	if other.Hash() == sample.Hash() {
		t.Error("different inputs should hash differently")
	}
}

func TestImport(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"in.txt", "in.toml", "in.json"} {
		path := filepath.Join(dir, name)
		f, err := os.Create(path)
		if err != nil {
			t.Fatal(err)
		}
		switch FormatOf(path) {
		case FormatText:
			err = WriteText(sample, f)
		case FormatTOML:
			err = WriteTOML(sample, f)
		case FormatJSON:
			err = WriteJSON(sample, f)
		}
		f.Close()
		if err != nil {
			t.Fatal(err)
		}

		in, err := Import(path)
		if err != nil {
			t.Fatalf("Import(%s): %v", name, err)
		}
		equalInput(t, in, sample)
	}

	_, err := Import(filepath.Join(dir, "missing.txt"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file: %v", err)
	}
}

func TestReadUnknownFormat(t *testing.T) {
	_, err := Read(strings.NewReader(""), "xml")
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("error = %v", err)
	}
}

func TestCSVAndRegions(t *testing.T) {
	m, err := trapmap.New(sample.Bounds)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.Insert(context.Background(), sample.Segments[:1], -1); err != nil {
		t.Fatal(err)
	}

	table := m.ExportAdjacency()
	var buf bytes.Buffer
	if err := WriteCSV(table, &buf); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), ",Q0,P1,S0,") {
		t.Errorf("unexpected header: %q", strings.SplitN(buf.String(), "\n", 2)[0])
	}
	back, err := ReadCSV(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(back) != len(table) || back[len(back)-1][len(table[0])-1] != "6" {
		t.Errorf("csv round trip lost data: %v", back)
	}

	regions := Regions(m)
	if len(regions) != 4 {
		t.Fatalf("got %d regions, want 4", len(regions))
	}
	total := 0.0
	for _, r := range regions {
		total += r.Area
	}
	if total != 100 {
		t.Errorf("areas add up to %g, want 100", total)
	}

	buf.Reset()
	if err := WriteRegionsJSON(m, &buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"label": "T1"`) {
		t.Errorf("regions json missing label: %s", buf.String())
	}
}
