package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/benoitkugler/svgconv/svgconv"
)

const (
	progressBarWidth = 30
	recentItems      = 5
)

// eventMsg carries a batch event to the progress view.
type eventMsg struct{ event svgconv.Event }

// finishedMsg is sent once the batch returns.
type finishedMsg struct {
	summary svgconv.Summary
	err     error
}

// progressModel is the bubbletea model of the --tui view.
type progressModel struct {
	cancel context.CancelFunc // stops the batch at the next file

	total, current int
	ok, failed     int
	phase          svgconv.Phase
	svg            string
	recent         []svgconv.ItemEvent

	finished    bool
	interrupted bool
	err         error
}

func newProgressModel(cancel context.CancelFunc) progressModel {
	return progressModel{cancel: cancel}
}

func (m progressModel) Init() tea.Cmd {
	return nil
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.interrupted = true
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}
	case eventMsg:
		switch ev := msg.event.(type) {
		case svgconv.ProgressEvent:
			m.total, m.current, m.phase = ev.Total, ev.Current, ev.Phase
			m.ok, m.failed = ev.OK, ev.Failed
			m.svg = ev.LastSVG
		case svgconv.ItemEvent:
			m.recent = append(m.recent, ev)
			if len(m.recent) > recentItems {
				m.recent = m.recent[len(m.recent)-recentItems:]
			}
		}
	case finishedMsg:
		m.finished = true
		m.ok, m.failed = msg.summary.OK, msg.summary.Failed
		m.err = msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m progressModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Converting"))
	b.WriteString("\n\n")

	processed := m.ok + m.failed
	b.WriteString(progressBar(processed, m.total, progressBarWidth))
	b.WriteString(" ")
	b.WriteString(StyleNumber.Render(fmt.Sprintf("%d/%d", processed, m.total)))
	b.WriteString(StyleDim.Render(" · "))
	b.WriteString(StyleSuccess.Render(fmt.Sprintf("%d ok", m.ok)))
	if m.failed != 0 {
		b.WriteString(StyleDim.Render(" · "))
		b.WriteString(StyleError.Render(fmt.Sprintf("%d failed", m.failed)))
	}
	b.WriteString("\n")

	if !m.finished && m.svg != "" && m.phase != svgconv.PhaseDone {
		b.WriteString(StyleDim.Render(fmt.Sprintf("%s %s", m.phase, filepath.Base(m.svg))))
		b.WriteString("\n")
	}

	if len(m.recent) != 0 {
		b.WriteString("\n")
	}
	for _, it := range m.recent {
		if it.OK {
			b.WriteString(styleIconSuccess.Render(iconSuccess) + " " + filepath.Base(it.PNG))
		} else {
			b.WriteString(styleIconError.Render(iconError) + " " + filepath.Base(it.SVG) + " " + StyleDim.Render(it.Error))
		}
		b.WriteString("\n")
	}

	switch {
	case m.interrupted:
		b.WriteString("\n" + StyleWarning.Render("interrupted") + "\n")
	case m.err != nil:
		b.WriteString("\n" + StyleError.Render(m.err.Error()) + "\n")
	case !m.finished:
		b.WriteString("\n" + StyleDim.Render("q quit") + "\n")
	}
	return b.String()
}

// progressBar renders `done` out of `total` on `width` cells.
func progressBar(done, total, width int) string {
	filled := 0
	if total > 0 {
		filled = done * width / total
	}
	if filled > width {
		filled = width
	}
	return StyleSuccess.Render(strings.Repeat("█", filled)) + StyleDim.Render(strings.Repeat("░", width-filled))
}

// runWithProgressView runs the batch while displaying its progress.
// Quitting the view cancels the batch at the next file.
func runWithProgressView(ctx context.Context, req svgconv.Request) (svgconv.Summary, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newProgressModel(cancel))
	conv := svgconv.Converter{Emitter: svgconv.EmitterFunc(func(e svgconv.Event) { p.Send(eventMsg{e}) })}

	type result struct {
		summary svgconv.Summary
		err     error
	}
	done := make(chan result, 1)
	go func() {
		sum, err := conv.Convert(ctx, req)
		p.Send(finishedMsg{summary: sum, err: err})
		done <- result{sum, err}
	}()

	if _, err := p.Run(); err != nil {
		cancel()
		<-done
		return svgconv.Summary{}, err
	}
	r := <-done
	return r.summary, r.err
}
