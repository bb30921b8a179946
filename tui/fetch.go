// Package tui renders the interactive progress view for the fetch
// subcommand and carries the lipgloss severity styles used by the launcher
// diagnostics.
package tui

import (
	"fmt"

	"Blender-Object-Launcher/download"
	"Blender-Object-Launcher/model"
	"Blender-Object-Launcher/types"
	"Blender-Object-Launcher/util"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
)

const progressBarWidth = 50

// progressMsg carries a fetch progress snapshot into the update loop.
type progressMsg download.Progress

// fetchDoneMsg is sent when the download/extraction goroutine finishes.
type fetchDoneMsg struct {
	extractedDir string
	err          error
}

// FetchModel drives the download/extraction progress view.
type FetchModel struct {
	build     model.Build
	buildsDir string
	bar       progress.Model

	state        types.FetchState
	currentBytes int64
	totalBytes   int64
	speed        float64

	extractedDir string
	err          error

	progressCh chan download.Progress
	resultCh   chan fetchDoneMsg
	cancelCh   chan struct{}
	cancelled  bool
}

// NewFetchModel creates the progress view for downloading build into
// buildsDir.
func NewFetchModel(build model.Build, buildsDir string) *FetchModel {
	return &FetchModel{
		build:      build,
		buildsDir:  buildsDir,
		bar:        progress.New(progress.WithDefaultGradient(), progress.WithWidth(progressBarWidth)),
		state:      types.StateDownloading,
		totalBytes: build.Size,
		progressCh: make(chan download.Progress, 16),
		resultCh:   make(chan fetchDoneMsg, 1),
		cancelCh:   make(chan struct{}),
	}
}

// ExtractedDir returns the extracted build root once the program finished.
func (m *FetchModel) ExtractedDir() string {
	return m.extractedDir
}

// Err returns the fetch error, if any, once the program finished.
func (m *FetchModel) Err() error {
	return m.err
}

// Init starts the fetch goroutine and the message pump.
func (m *FetchModel) Init() tea.Cmd {
	go func() {
		cb := func(p download.Progress) {
			// Drop snapshots when the UI is behind; only the
			// latest one matters
			select {
			case m.progressCh <- p:
			default:
			}
		}
		dir, err := download.DownloadAndExtractBuild(m.build, m.buildsDir, cb, m.cancelCh)
		m.resultCh <- fetchDoneMsg{extractedDir: dir, err: err}
	}()

	return m.waitForUpdate()
}

// waitForUpdate blocks on the next progress snapshot or the final result.
func (m *FetchModel) waitForUpdate() tea.Cmd {
	return func() tea.Msg {
		select {
		case p := <-m.progressCh:
			return progressMsg(p)
		case done := <-m.resultCh:
			return done
		}
	}
}

// Update implements tea.Model.
func (m *FetchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if !m.cancelled {
				m.cancelled = true
				close(m.cancelCh)
			}
			return m, nil
		}

	case progressMsg:
		m.state = msg.State
		m.currentBytes = msg.CurrentBytes
		m.totalBytes = msg.TotalBytes
		m.speed = msg.Speed
		return m, m.waitForUpdate()

	case fetchDoneMsg:
		m.extractedDir = msg.extractedDir
		m.err = msg.err
		if msg.err != nil {
			m.state = types.StateFailed
		} else {
			m.state = types.StateDone
		}
		return m, tea.Quit
	}

	return m, nil
}

// View implements tea.Model.
func (m *FetchModel) View() string {
	title := titleStyle.Render(fmt.Sprintf("Fetching Blender %s (%s)", m.build.Version, m.build.ReleaseCycle))

	var body string
	switch m.state {
	case types.StateDone:
		body = successStyle.Render(fmt.Sprintf("Done: extracted to %s", m.extractedDir))
	case types.StateFailed:
		body = errorStyle.Render(fmt.Sprintf("Failed: %v", m.err))
	default:
		percent := 0.0
		if m.totalBytes > 0 {
			percent = float64(m.currentBytes) / float64(m.totalBytes)
		}
		line := fmt.Sprintf("%s  %s / %s", stateStyle.Render(m.state.String()),
			util.FormatSize(m.currentBytes), util.FormatSize(m.totalBytes))
		if m.state == types.StateDownloading && m.speed > 0 {
			line += fmt.Sprintf("  %s", util.FormatSpeed(m.speed))
		}
		body = line + "\n" + m.bar.ViewAs(percent)
	}

	footer := footerStyle.Render("press q to cancel")
	return fmt.Sprintf("%s\n\n%s\n%s\n", title, body, footer)
}

// RunFetch runs the interactive fetch program and returns the extracted
// build root.
func RunFetch(build model.Build, buildsDir string) (string, error) {
	m := NewFetchModel(build, buildsDir)
	p := tea.NewProgram(m)

	final, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("error running fetch UI: %w", err)
	}

	result, ok := final.(*FetchModel)
	if !ok {
		return "", fmt.Errorf("unexpected final model type %T", final)
	}
	if result.Err() != nil {
		return "", result.Err()
	}
	return result.ExtractedDir(), nil
}
