package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jamesainslie/dirtally/pkg/dirtally/report"
	"github.com/jamesainslie/dirtally/pkg/dirtally/tree"
)

const sampleTranscript = `$ cd /
$ ls
dir a
14848514 b.txt
8504156 c.dat
dir d
$ cd a
$ ls
dir e
29116 f
2557 g
62596 h.lst
$ cd e
$ ls
584 i
$ cd ..
$ cd ..
$ cd d
$ ls
4060174 j
8033020 d.log
5626152 d.ext
7214296 k`

func newTestModel(t *testing.T, opts report.Options) Model {
	t.Helper()
	root, err := tree.Parse(sampleTranscript)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return NewModel(Options{Root: root, Source: "input.txt", Options: opts})
}

func press(m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewModel_FindsCandidate(t *testing.T) {
	m := newTestModel(t, report.DefaultOptions())

	if m.total != 48381165 {
		t.Errorf("total = %d, want 48381165", m.total)
	}
	if m.deficit != 8381165 {
		t.Errorf("deficit = %d, want 8381165", m.deficit)
	}
	if m.candidate == nil {
		t.Fatal("candidate = nil")
	}
	if got := m.tree.index.Path(m.candidate); got != "/d" {
		t.Errorf("candidate path = %q, want /d", got)
	}
}

func TestNewModel_NoDeficit(t *testing.T) {
	opts := report.DefaultOptions()
	opts.Capacity = 100000000

	m := newTestModel(t, opts)

	if m.candidate != nil {
		t.Error("candidate should be nil when the requirement is met")
	}
	if !strings.Contains(m.View(), "requirement met") {
		t.Error("View() should say the requirement is met")
	}
}

func TestNewModel_Unsatisfiable(t *testing.T) {
	opts := report.DefaultOptions()
	opts.Capacity = 10

	m := newTestModel(t, opts)

	if m.candidate != nil {
		t.Error("candidate should be nil when nothing is large enough")
	}
	if m.status == "" {
		t.Error("status should explain the missing candidate")
	}
}

func TestModel_Keys(t *testing.T) {
	m := newTestModel(t, report.DefaultOptions())

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyDown})
	if m.tree.Cursor() != 1 {
		t.Errorf("after down Cursor() = %d, want 1", m.tree.Cursor())
	}

	m, _ = press(m, runes("k"))
	if m.tree.Cursor() != 0 {
		t.Errorf("after k Cursor() = %d, want 0", m.tree.Cursor())
	}

	m, _ = press(m, runes("d"))
	if got := m.tree.SelectedPath(); got != "/d" {
		t.Errorf("after d SelectedPath() = %q, want /d", got)
	}

	m, _ = press(m, runes("E"))
	if m.tree.Len() != 17 {
		t.Errorf("after E Len() = %d, want 17", m.tree.Len())
	}

	m, _ = press(m, runes("C"))
	if m.tree.Len() != 7 {
		t.Errorf("after C Len() = %d, want 7", m.tree.Len())
	}

	m, _ = press(m, runes("?"))
	if !m.help.ShowAll {
		t.Error("? should expand the help")
	}
}

func TestModel_Quit(t *testing.T) {
	m := newTestModel(t, report.DefaultOptions())

	for _, msg := range []tea.KeyMsg{runes("q"), {Type: tea.KeyEsc}, {Type: tea.KeyCtrlC}} {
		_, cmd := press(m, msg)
		if cmd == nil {
			t.Fatalf("%s returned no command", msg)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s did not quit", msg)
		}
	}
}

func TestModel_WindowSize(t *testing.T) {
	m := newTestModel(t, report.DefaultOptions())

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = updated.(Model)

	if m.width != 100 || m.height != 40 {
		t.Errorf("size = %dx%d, want 100x40", m.width, m.height)
	}
}

func TestModel_View(t *testing.T) {
	m := newTestModel(t, report.DefaultOptions())

	view := m.View()

	for _, want := range []string{"dirtally", "input.txt", "48,381,165", "/d", "quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}
