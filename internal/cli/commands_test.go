package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/trapmap/pkg/errors"
	"github.com/matzehuels/trapmap/pkg/geom"
	"github.com/matzehuels/trapmap/pkg/trapmap"
)

const diagonalText = `1
0 0 10 10
2 2 8 8
`

const diagonalCSV = `,Q0,P1,S0,T1,T2,T3,T4,Total
Q0,0,1,0,0,0,0,0,1
P1,0,0,0,0,0,0,0,0
S0,1,0,0,0,0,0,0,1
T1,0,0,1,0,0,0,0,1
T2,0,0,1,0,0,0,0,1
T3,1,0,0,0,0,0,0,1
T4,0,1,0,0,0,0,0,1
Total,2,2,2,0,0,0,0,6
`

// runCLI executes the root command with args against isolated config and
// cache directories. It returns what the command wrote to its output.
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	c := New(io.Discard, LogDebug)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func testMap(t *testing.T) *trapmap.Map {
	t.Helper()
	m, err := trapmap.New(geom.R(0, 0, 10, 10))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.Insert(context.Background(), []geom.Segment{geom.Seg(geom.Pt(2, 2), geom.Pt(8, 8))}, -1); err != nil {
		t.Fatal(err)
	}
	return m
}

func TestBuildCommand(t *testing.T) {
	input := writeFile(t, "diagonal.txt", diagonalText)
	base := filepath.Join(t.TempDir(), "out")

	if _, err := runCLI(t, "", "build", input, "-f", "csv,regions,dot", "-o", base, "--no-cache"); err != nil {
		t.Fatalf("build error: %v", err)
	}

	csv, err := os.ReadFile(base + ".csv")
	if err != nil {
		t.Fatal(err)
	}
	if string(csv) != diagonalCSV {
		t.Errorf("csv =\n%s\nwant\n%s", csv, diagonalCSV)
	}
	for _, ext := range []string{".regions.json", ".dot"} {
		if _, err := os.Stat(base + ext); err != nil {
			t.Errorf("missing %s: %v", ext, err)
		}
	}
}

func TestBuildCommandErrors(t *testing.T) {
	input := writeFile(t, "diagonal.txt", diagonalText)
	if _, err := runCLI(t, "", "build", input, "-f", "gif"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("unknown format error = %v, want INVALID_FORMAT", err)
	}

	vertical := writeFile(t, "vertical.txt", "1\n0 0 10 10\n3 1 3 5\n")
	if _, err := runCLI(t, "", "build", vertical, "--no-cache"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("vertical segment error = %v, want INVALID_INPUT", err)
	}

	missing := filepath.Join(t.TempDir(), "missing.txt")
	if _, err := runCLI(t, "", "build", missing); err == nil {
		t.Error("build of a missing file should fail")
	}
}

func TestBuildExportEachFromConfig(t *testing.T) {
	input := writeFile(t, "two.txt", "2\n0 0 10 10\n2 2 8 8\n1 9 4 8\n")
	steps := filepath.Join(t.TempDir(), "steps")
	config := writeFile(t, "config.toml", `export_each = "`+filepath.ToSlash(steps)+`"`)

	if _, err := runCLI(t, "", "--config", config, "build", input, "-o", filepath.Join(t.TempDir(), "out.csv"), "--no-cache"); err != nil {
		t.Fatalf("build error: %v", err)
	}
	for _, name := range []string{"step-0001.csv", "step-0002.csv"} {
		if _, err := os.Stat(filepath.Join(steps, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}

func TestExportCommandCached(t *testing.T) {
	input := writeFile(t, "diagonal.json", `{"bounds": {"x": 0, "y": 0, "width": 10, "height": 10},
 "segments": [{"x1": 2, "y1": 2, "x2": 8, "y2": 8}]}`)
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	for i := range 2 {
		out := filepath.Join(t.TempDir(), "adjacency.csv")
		c := New(io.Discard, LogDebug)
		root := c.RootCommand()
		root.SetArgs([]string{"export", input, "-o", out})
		if err := root.ExecuteContext(context.Background()); err != nil {
			t.Fatalf("run %d: export error: %v", i, err)
		}
		got, err := os.ReadFile(out)
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != diagonalCSV {
			t.Errorf("run %d: csv =\n%s", i, got)
		}
	}

	entries, _ := filepath.Glob(filepath.Join(dir, appName, "*", "*.json"))
	if len(entries) != 1 {
		t.Errorf("cache holds %d entries, want 1", len(entries))
	}
}

func TestLocateCommand(t *testing.T) {
	input := writeFile(t, "diagonal.txt", diagonalText)

	if _, err := runCLI(t, "", "locate", input, "5", "1", "--trace"); err != nil {
		t.Errorf("locate error: %v", err)
	}
	if _, err := runCLI(t, "", "locate", input, "five", "1"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("locate with bad coordinate error = %v, want INVALID_INPUT", err)
	}
}

func TestQueryPlain(t *testing.T) {
	input := writeFile(t, "diagonal.txt", diagonalText)

	out, err := runCLI(t, "5 1\n# comment\n\n1,5\nbad\n", "query", input, "--plain")
	if err != nil {
		t.Fatalf("query error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "T2") {
		t.Errorf("(5, 1) answer = %q, want T2", lines[0])
	}
	if !strings.Contains(lines[1], "T4") {
		t.Errorf("(1, 5) answer = %q, want T4", lines[1])
	}
	if !strings.HasPrefix(lines[2], "error:") {
		t.Errorf("malformed line answer = %q", lines[2])
	}
}

func TestAnswerQueries(t *testing.T) {
	var out bytes.Buffer
	if err := answerQueries(testMap(t), strings.NewReader("9 5\n"), &out); err != nil {
		t.Fatal(err)
	}
	want := "(9, 5) " + iconArrow + " T3  left (8, 8)  right "
	if !strings.HasPrefix(out.String(), want) {
		t.Errorf("answer = %q, want prefix %q", out.String(), want)
	}
}

func TestQueryModel(t *testing.T) {
	var model tea.Model = newQueryModel(testMap(t), "diagonal.txt")

	keys := []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("5")},
		{Type: tea.KeySpace},
		{Type: tea.KeyRunes, Runes: []rune("12")},
		{Type: tea.KeyBackspace},
		{Type: tea.KeyEnter},
	}
	for _, k := range keys {
		model, _ = model.Update(k)
	}

	q := model.(queryModel)
	if len(q.history) != 1 || !strings.Contains(q.history[0], "T2") {
		t.Fatalf("history = %v, want one answer in T2", q.history)
	}
	if q.input != "" {
		t.Errorf("input = %q after submit", q.input)
	}
	if !strings.Contains(q.View(), "T2") {
		t.Error("View() should show the answer")
	}

	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if q := model.(queryModel); q.err == "" {
		t.Error("malformed query should set an error")
	}

	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should return tea.Quit")
	}
}

func TestQueryModelHistoryLimit(t *testing.T) {
	var model tea.Model = newQueryModel(testMap(t), "diagonal.txt")
	for range queryHistory + 5 {
		model, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("1 1")})
		model, _ = model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	}
	if got := len(model.(queryModel).history); got != queryHistory {
		t.Errorf("history = %d entries, want %d", got, queryHistory)
	}
}
