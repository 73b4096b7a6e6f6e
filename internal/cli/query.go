package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/trapmap/pkg/errors"
	"github.com/matzehuels/trapmap/pkg/trapmap"
)

// queryHistory is the number of answers kept on screen.
const queryHistory = 12

var (
	promptStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	answerStyle = lipgloss.NewStyle().Foreground(colorWhite)
	errorStyle  = lipgloss.NewStyle().Foreground(colorRed)
)

// queryCommand creates the query command: an interactive point-location
// prompt over a built map.
func (c *CLI) queryCommand() *cobra.Command {
	var (
		flags buildFlags
		plain bool
	)

	cmd := &cobra.Command{
		Use:   "query <input>",
		Short: "Locate points interactively",
		Long: `Build the map of <input> and answer point queries typed as "x y" or "x,y".

With --plain, queries are read line by line from standard input and answers
written to standard output, which suits scripts and pipes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := c.buildMap(cmd.Context(), cmd, args[0], &flags)
			if err != nil {
				return err
			}
			if plain {
				return answerQueries(m, cmd.InOrStdin(), cmd.OutOrStdout())
			}

			_, err = tea.NewProgram(newQueryModel(m, args[0]), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	flags.register(cmd, false)
	cmd.Flags().BoolVar(&plain, "plain", false, "read queries from standard input without a prompt")

	return cmd
}

// answerQueries answers one query per non-empty line of r. Lines starting
// with '#' are skipped; malformed lines produce an error line and do not stop
// processing.
func answerQueries(m *trapmap.Map, r io.Reader, w io.Writer) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		p, err := parsePointList(line)
		if err != nil {
			fmt.Fprintf(w, "error: %s\n", errors.UserMessage(err))
			continue
		}
		fmt.Fprintln(w, describe(m, p))
	}
	return sc.Err()
}

// =============================================================================
// queryModel - Interactive point queries
// =============================================================================

// queryModel is the bubbletea model of the query prompt.
type queryModel struct {
	m       *trapmap.Map
	name    string
	input   string
	history []string
	err     string
}

func newQueryModel(m *trapmap.Map, name string) queryModel {
	return queryModel{m: m, name: name}
}

func (q queryModel) Init() tea.Cmd {
	return nil
}

func (q queryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return q, nil
	}

	switch key.Type {
	case tea.KeyCtrlC, tea.KeyEsc, tea.KeyCtrlD:
		return q, tea.Quit
	case tea.KeyEnter:
		return q.submit()
	case tea.KeyBackspace:
		if r := []rune(q.input); len(r) > 0 {
			q.input = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		q.input += " "
	case tea.KeyRunes:
		q.input += string(key.Runes)
	}
	return q, nil
}

func (q queryModel) submit() (tea.Model, tea.Cmd) {
	line := strings.TrimSpace(q.input)
	q.input = ""
	q.err = ""

	switch line {
	case "":
		return q, nil
	case "q", "quit", "exit":
		return q, tea.Quit
	}

	p, err := parsePointList(line)
	if err != nil {
		q.err = errors.UserMessage(err)
		return q, nil
	}
	q.history = append(q.history, describe(q.m, p))
	if len(q.history) > queryHistory {
		q.history = q.history[len(q.history)-queryHistory:]
	}
	return q, nil
}

func (q queryModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Locate points in " + q.name))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("%d regions · type x y  ⏎ locate  esc quit", q.m.LeafCount())))
	b.WriteString("\n\n")

	for _, h := range q.history {
		b.WriteString("  " + answerStyle.Render(h) + "\n")
	}
	if len(q.history) > 0 {
		b.WriteString("\n")
	}

	b.WriteString(promptStyle.Render(iconInfo) + " " + q.input + StyleDim.Render("█"))
	b.WriteString("\n")
	if q.err != "" {
		b.WriteString(errorStyle.Render(iconError+" "+q.err) + "\n")
	}
	return b.String()
}
