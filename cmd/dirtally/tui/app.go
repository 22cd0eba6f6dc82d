package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/jamesainslie/dirtally/pkg/dirtally/logging"
	"github.com/jamesainslie/dirtally/pkg/dirtally/report"
	"github.com/jamesainslie/dirtally/pkg/dirtally/tree"
)

// Options configures the browser.
type Options struct {
	Root    *tree.Entry
	Source  string
	Options report.Options

	// InputTTY reads keys from the controlling terminal, for when stdin
	// carried the transcript.
	InputTTY bool
}

// Model is the Bubble Tea model for the tree browser.
type Model struct {
	tree      *TreeView
	keys      keyMap
	help      help.Model
	source    string
	total     int64
	deficit   int64
	candidate *tree.Entry
	status    string

	width  int
	height int
}

// NewModel creates a browser model. The deletion candidate is looked up
// here; an unsatisfiable deficit leaves it empty and shows a warning.
func NewModel(opts Options) Model {
	total := tree.Size(opts.Root)
	deficit := opts.Options.Deficit(total)

	var (
		candidate *tree.Entry
		status    string
	)
	if deficit > 0 {
		d, _, err := tree.SmallestAtLeast(opts.Root, deficit)
		if err != nil {
			logging.Get("tui").Warn("no deletion candidate", "error", err)
			status = err.Error()
		}
		candidate = d
	}

	return Model{
		tree:      NewTreeView(opts.Root, opts.Options.Limit, candidate),
		keys:      defaultKeyMap(),
		help:      help.New(),
		source:    opts.Source,
		total:     total,
		deficit:   deficit,
		candidate: candidate,
		status:    status,
		width:     80,
		height:    24,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// handleKey handles keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.tree.MoveUp()
	case key.Matches(msg, m.keys.Down):
		m.tree.MoveDown()
	case key.Matches(msg, m.keys.Top):
		m.tree.Top()
	case key.Matches(msg, m.keys.Bottom):
		m.tree.Bottom()
	case key.Matches(msg, m.keys.Expand):
		m.tree.Expand()
	case key.Matches(msg, m.keys.Collapse):
		m.tree.Collapse()
	case key.Matches(msg, m.keys.Toggle):
		m.tree.Toggle()
	case key.Matches(msg, m.keys.ExpandAll):
		m.tree.ExpandAll()
	case key.Matches(msg, m.keys.CollapseAll):
		m.tree.CollapseAll()
	case key.Matches(msg, m.keys.Candidate):
		if !m.tree.JumpToCandidate() {
			m.status = "no deletion needed"
		}
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

// View renders the browser.
func (m Model) View() string {
	header := m.renderHeader()
	footer := m.renderFooter()

	bodyHeight := m.height - countLines(header) - countLines(footer) - 1
	if bodyHeight < 3 {
		bodyHeight = 3
	}

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(m.tree.View(m.width, bodyHeight))
	b.WriteString(footer)
	return b.String()
}

func (m Model) renderHeader() string {
	source := m.source
	if source == "" {
		source = "-"
	}

	lines := []string{
		titleStyle.Render("dirtally") + " " + mutedTextStyle.Render(source),
		labelStyle.Render("Total: ") + sizeStyle.Render(fmt.Sprintf("%s (%s)",
			humanize.IBytes(uint64(m.total)), humanize.Comma(m.total))),
	}
	switch {
	case m.deficit <= 0:
		lines = append(lines, labelStyle.Render("Free space requirement met"))
	case m.candidate != nil:
		lines = append(lines, labelStyle.Render("Delete: ")+
			candidateStyle.Render(m.tree.index.Path(m.candidate))+" "+
			valueStyle.Render("frees "+humanize.Comma(m.tree.SizeOf(m.candidate))))
	default:
		lines = append(lines, warningTextStyle.Render("No directory frees enough space"))
	}
	return headerBoxStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) renderFooter() string {
	var b strings.Builder
	b.WriteString(divider(m.width))
	b.WriteString("\n")

	if e := m.tree.Selected(); e != nil {
		b.WriteString(valueStyle.Render(m.tree.SelectedPath()))
		b.WriteString(" ")
		b.WriteString(mutedTextStyle.Render(fmt.Sprintf("%s, %s bytes", e.Kind, humanize.Comma(m.tree.SizeOf(e)))))
	}
	if m.status != "" {
		b.WriteString("  ")
		b.WriteString(warningTextStyle.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func countLines(s string) int {
	return strings.Count(s, "\n") + 1
}

// Run starts the browser.
func Run(opts Options) error {
	programOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.InputTTY {
		programOpts = append(programOpts, tea.WithInputTTY())
	}

	_, err := tea.NewProgram(NewModel(opts), programOpts...).Run()
	return err
}
