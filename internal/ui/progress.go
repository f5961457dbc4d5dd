// Package ui renders batch translation progress in the terminal.
package ui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/MicrosoftEdge/WebGL-sub003/internal/buildpipeline"
)

// Каждый шейдер проходит стадии по порядку; вес стадии = доля готовности.
var stageWeight = map[buildpipeline.Stage]float64{
	buildpipeline.StagePreprocess: 0.1,
	buildpipeline.StageParse:      0.25,
	buildpipeline.StageVerify:     0.45,
	buildpipeline.StageEmit:       0.7,
	buildpipeline.StageLink:       0.9,
}

var (
	styleTitle   = lipgloss.NewStyle().Bold(true)
	styleOK      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleFail    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	styleBusy    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	styleIdle    = lipgloss.NewStyle().Faint(true)
	stageColumns = []buildpipeline.Stage{
		buildpipeline.StagePreprocess,
		buildpipeline.StageParse,
		buildpipeline.StageVerify,
		buildpipeline.StageEmit,
		buildpipeline.StageLink,
	}
)

// shader is one row of the view.
type shader struct {
	path   string
	stage  buildpipeline.Stage
	status buildpipeline.Status
	cached bool
	linked bool
}

// label is the short state shown next to the path.
func (s *shader) label() string {
	switch {
	case s.status == buildpipeline.StatusError:
		return "error"
	case s.cached && s.stage != buildpipeline.StageLink:
		return "cached"
	case s.linked:
		return "linked"
	case s.status == buildpipeline.StatusQueued || s.stage == "":
		return "queued"
	case s.status == buildpipeline.StatusDone && s.stage == buildpipeline.StageEmit:
		return "translated"
	}
	return string(s.stage)
}

// fraction estimates how far the shader got.
func (s *shader) fraction() float64 {
	if s.status == buildpipeline.StatusError || s.linked {
		return 1
	}
	if s.cached || (s.status == buildpipeline.StatusDone && s.stage == buildpipeline.StageEmit) {
		return stageWeight[buildpipeline.StageLink]
	}
	return stageWeight[s.stage]
}

// cell renders one stage column for the shader: reached stages are filled.
func (s *shader) cell(col buildpipeline.Stage) string {
	reached := slices.Index(stageColumns, s.stage)
	at := slices.Index(stageColumns, col)
	switch {
	case s.cached && col != buildpipeline.StageLink:
		return styleOK.Render("c")
	case s.status == buildpipeline.StatusError && at == reached:
		return styleFail.Render("x")
	case at < reached || (at == reached && s.status == buildpipeline.StatusDone):
		return styleOK.Render("■")
	case at == reached && s.status == buildpipeline.StatusWorking:
		return styleBusy.Render("▪")
	}
	return styleIdle.Render("·")
}

type progressModel struct {
	title   string
	events  <-chan buildpipeline.Event
	spinner spinner.Model
	bar     progress.Model
	rows    []*shader
	byPath  map[string]*shader
	width   int
	done    bool
	failed  int
}

type eventMsg buildpipeline.Event

type closedMsg struct{}

// NewProgressModel returns a Bubble Tea model that follows the build of files.
func NewProgressModel(title string, files []string, events <-chan buildpipeline.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = styleBusy

	m := &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     progress.New(progress.WithDefaultGradient()),
		byPath:  make(map[string]*shader, len(files)),
		width:   80,
	}
	m.bar.Width = m.width - 4
	for _, f := range files {
		row := &shader{path: f, status: buildpipeline.StatusQueued}
		m.rows = append(m.rows, row)
		m.byPath[f] = row
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		if m.events == nil {
			return closedMsg{}
		}
		ev, ok := <-m.events
		if !ok {
			return closedMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.applyEvent(buildpipeline.Event(msg)), m.next())
	case closedMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		// Сборка продолжается в фоне; выходим только из отображения.
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = max(msg.Width-4, 10)
		}
	case spinner.TickMsg:
		if !m.done {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) applyEvent(ev buildpipeline.Event) tea.Cmd {
	row, ok := m.byPath[ev.File]
	if !ok {
		return nil
	}
	switch {
	case ev.Stage == buildpipeline.StageCache:
		row.cached = true
		row.status = ev.Status
	case ev.Status == buildpipeline.StatusQueued:
		row.status = ev.Status
	default:
		row.stage, row.status = ev.Stage, ev.Status
		if ev.Stage == buildpipeline.StageLink && ev.Status == buildpipeline.StatusDone {
			row.linked = true
		}
	}
	if ev.Status == buildpipeline.StatusError {
		m.failed++
	}
	return m.bar.SetPercent(m.fraction())
}

func (m *progressModel) fraction() float64 {
	if len(m.rows) == 0 {
		return 1
	}
	var sum float64
	for _, r := range m.rows {
		sum += r.fraction()
	}
	return sum / float64(len(m.rows))
}

func (m *progressModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}
	var b strings.Builder
	header := m.title
	if m.done {
		header = "done: " + header
		if m.failed > 0 {
			header = fmt.Sprintf("%s, %d failed", header, m.failed)
		}
	} else {
		header = m.spinner.View() + " " + header
	}
	b.WriteString(styleTitle.Render(header))
	b.WriteString("\n\n")

	// Колонки: P S V E L, затем состояние и путь.
	const labelWidth = 10
	nameWidth := max(m.width-len(stageColumns)*2-labelWidth-6, 20)
	for _, r := range m.rows {
		b.WriteString("  ")
		for _, col := range stageColumns {
			b.WriteString(r.cell(col))
			b.WriteByte(' ')
		}
		label := fmt.Sprintf("%-*s", labelWidth, r.label())
		switch r.label() {
		case "error":
			label = styleFail.Render(label)
		case "linked", "translated", "cached":
			label = styleOK.Render(label)
		}
		b.WriteString(label)
		b.WriteString("  ")
		b.WriteString(truncate(r.path, nameWidth))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	if m.done {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteByte('\n')
	return b.String()
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}

// Run shows the progress of a build until events is closed.
func Run(title string, files []string, events <-chan buildpipeline.Event) error {
	_, err := tea.NewProgram(NewProgressModel(title, files, events)).Run()
	return err
}
