package audit

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harshusoma/job-alert-agent/internal/filter"
	"github.com/harshusoma/job-alert-agent/internal/model"
)

var (
	viewerTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Padding(0, 1)

	viewerBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240"))

	rowStyle = lipgloss.NewStyle()

	selectedRowStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("24"))

	passStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	detailLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Width(14)

	statusBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))
)

// verdict is one posting's pass/fail outcome per predicate.
type verdict struct {
	posting    model.Posting
	exclusion  bool
	experience bool
	role       bool
	location   bool
	freshness  bool
}

func (v verdict) matched() bool {
	return v.exclusion && v.experience && v.role && v.location && v.freshness
}

func evaluate(postings []model.Posting, policy filter.Policy, now time.Time) []verdict {
	verdicts := make([]verdict, len(postings))
	for i, p := range postings {
		verdicts[i] = verdict{
			posting:    p,
			exclusion:  policy.PassesExclusion(p),
			experience: policy.PassesExperience(p),
			role:       policy.PassesRole(p),
			location:   policy.PassesLocation(p),
			freshness:  policy.PassesFreshness(p, now),
		}
	}
	return verdicts
}

type viewerModel struct {
	source      model.Source
	verdicts    []verdict
	visible     []int // indices into verdicts under the current view mode
	matchedOnly bool
	cursor      int // index into visible
	vp          viewport.Model
	width       int
	height      int
	ready       bool
}

func newViewerModel(source model.Source, postings []model.Posting, policy filter.Policy) viewerModel {
	m := viewerModel{
		source:   source,
		verdicts: evaluate(postings, policy, time.Now().UTC()),
	}
	m.rebuildVisible()
	return m
}

func (m *viewerModel) rebuildVisible() {
	m.visible = m.visible[:0]
	for i, v := range m.verdicts {
		if m.matchedOnly && !v.matched() {
			continue
		}
		m.visible = append(m.visible, i)
	}
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m viewerModel) Init() tea.Cmd {
	return nil
}

func (m viewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Reserve rows for the title, detail panel, and status bar.
		listHeight := m.height - detailPanelHeight - 4
		if listHeight < 3 {
			listHeight = 3
		}
		if !m.ready {
			m.vp = viewport.New(m.width-2, listHeight)
			m.ready = true
		} else {
			m.vp.Width = m.width - 2
			m.vp.Height = listHeight
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.visible)-1 {
				m.cursor++
			}
		case "m":
			m.matchedOnly = !m.matchedOnly
			m.rebuildVisible()
		case "g":
			m.cursor = 0
		case "G":
			m.cursor = len(m.visible) - 1
			if m.cursor < 0 {
				m.cursor = 0
			}
		}
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

const detailPanelHeight = 7

// refresh re-renders the list into the viewport and keeps the cursor row in
// view.
func (m *viewerModel) refresh() {
	if !m.ready {
		return
	}
	m.vp.SetContent(m.renderList())
	if m.cursor < m.vp.YOffset {
		m.vp.SetYOffset(m.cursor)
	} else if m.cursor >= m.vp.YOffset+m.vp.Height {
		m.vp.SetYOffset(m.cursor - m.vp.Height + 1)
	}
}

func (m viewerModel) renderList() string {
	if len(m.visible) == 0 {
		if m.matchedOnly {
			return "  no postings matched the policy"
		}
		return "  no postings fetched"
	}

	var b strings.Builder
	for pos, idx := range m.visible {
		v := m.verdicts[idx]
		mark := failStyle.Render("✗")
		if v.matched() {
			mark = passStyle.Render("✓")
		}
		line := fmt.Sprintf(" %s %-50.50s %-30.30s", mark, v.posting.Title, v.posting.Location)
		if pos == m.cursor {
			line = selectedRowStyle.Render(line)
		} else {
			line = rowStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m viewerModel) renderDetail() string {
	if len(m.visible) == 0 {
		return ""
	}
	v := m.verdicts[m.visible[m.cursor]]

	predicates := []struct {
		name string
		pass bool
	}{
		{"exclusion", v.exclusion},
		{"experience", v.experience},
		{"role", v.role},
		{"location", v.location},
		{"freshness", v.freshness},
	}
	var parts []string
	for _, pr := range predicates {
		if pr.pass {
			parts = append(parts, passStyle.Render("✓ "+pr.name))
		} else {
			parts = append(parts, failStyle.Render("✗ "+pr.name))
		}
	}

	posted := "not provided"
	if v.posting.PostedAt != nil {
		posted = v.posting.PostedAt.Format(time.RFC1123)
	}

	var b strings.Builder
	b.WriteString(detailLabelStyle.Render("Title") + v.posting.Title + "\n")
	b.WriteString(detailLabelStyle.Render("Location") + v.posting.Location + "\n")
	b.WriteString(detailLabelStyle.Render("Posted") + posted + "\n")
	b.WriteString(detailLabelStyle.Render("URL") + v.posting.URL + "\n")
	b.WriteString(detailLabelStyle.Render("Predicates") + strings.Join(parts, "  "))
	return b.String()
}

func (m viewerModel) View() string {
	if !m.ready {
		return "loading..."
	}

	matched := 0
	for _, v := range m.verdicts {
		if v.matched() {
			matched++
		}
	}

	mode := "all"
	if m.matchedOnly {
		mode = "matched only"
	}
	title := viewerTitleStyle.Render(fmt.Sprintf(
		"%s (%s) — %d postings, %d matched [%s]",
		m.source.Name, m.source.Kind, len(m.verdicts), matched, mode,
	))

	status := statusBarStyle.Render("↑/↓ navigate  m toggle matched  g/G first/last  q quit")

	return title + "\n" +
		viewerBorderStyle.Render(m.vp.View()) + "\n" +
		m.renderDetail() + "\n" +
		status
}

// RunViewer shows fetched postings with their per-predicate filter outcomes.
func RunViewer(source model.Source, postings []model.Posting, policy filter.Policy) error {
	m := newViewerModel(source, postings, policy)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
