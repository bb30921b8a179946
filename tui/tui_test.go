package tui

import (
	"errors"
	"strings"
	"testing"

	"Blender-Object-Launcher/download"
	"Blender-Object-Launcher/model"
	"Blender-Object-Launcher/types"

	tea "github.com/charmbracelet/bubbletea"
)

func testBuild() model.Build {
	return model.Build{
		Version:      "4.2.1",
		ReleaseCycle: "daily",
		Size:         100 * 1024 * 1024,
	}
}

func TestFetchModelProgressUpdates(t *testing.T) {
	m := NewFetchModel(testBuild(), t.TempDir())

	updated, cmd := m.Update(progressMsg(download.Progress{
		State:        types.StateDownloading,
		CurrentBytes: 50 * 1024 * 1024,
		TotalBytes:   100 * 1024 * 1024,
		Speed:        2 * 1024 * 1024,
	}))
	if cmd == nil {
		t.Error("Expected a follow-up command to keep listening for progress")
	}

	fm := updated.(*FetchModel)
	view := fm.View()
	if !strings.Contains(view, "Downloading") {
		t.Errorf("Expected view to show the Downloading state, got:\n%s", view)
	}
	if !strings.Contains(view, "50.0 MB / 100.0 MB") {
		t.Errorf("Expected view to show byte counts, got:\n%s", view)
	}
	if !strings.Contains(view, "2.0 MB/s") {
		t.Errorf("Expected view to show the transfer speed, got:\n%s", view)
	}
}

func TestFetchModelExtractionHidesSpeed(t *testing.T) {
	m := NewFetchModel(testBuild(), t.TempDir())

	updated, _ := m.Update(progressMsg(download.Progress{
		State:        types.StateExtracting,
		CurrentBytes: 10,
		TotalBytes:   100,
	}))

	view := updated.(*FetchModel).View()
	if !strings.Contains(view, "Extracting") {
		t.Errorf("Expected view to show the Extracting state, got:\n%s", view)
	}
	if strings.Contains(view, "/s") {
		t.Errorf("Expected no speed during extraction, got:\n%s", view)
	}
}

func TestFetchModelDone(t *testing.T) {
	m := NewFetchModel(testBuild(), t.TempDir())

	updated, cmd := m.Update(fetchDoneMsg{extractedDir: "/builds/blender-4.2.1"})
	if cmd == nil {
		t.Fatal("Expected a quit command after completion")
	}

	fm := updated.(*FetchModel)
	if fm.Err() != nil {
		t.Errorf("Expected no error, got %v", fm.Err())
	}
	if fm.ExtractedDir() != "/builds/blender-4.2.1" {
		t.Errorf("Expected extracted dir to be recorded, got %s", fm.ExtractedDir())
	}
	if !strings.Contains(fm.View(), "Done") {
		t.Errorf("Expected view to show completion, got:\n%s", fm.View())
	}
}

func TestFetchModelFailure(t *testing.T) {
	m := NewFetchModel(testBuild(), t.TempDir())

	updated, _ := m.Update(fetchDoneMsg{err: errors.New("network down")})

	fm := updated.(*FetchModel)
	if fm.Err() == nil {
		t.Error("Expected the error to be recorded")
	}
	if !strings.Contains(fm.View(), "Failed") {
		t.Errorf("Expected view to show failure, got:\n%s", fm.View())
	}
}

func TestFetchModelCancelKey(t *testing.T) {
	m := NewFetchModel(testBuild(), t.TempDir())

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	fm := updated.(*FetchModel)

	select {
	case <-fm.cancelCh:
		// Cancel channel closed as expected
	default:
		t.Error("Expected q to close the cancel channel")
	}

	// A second press must not close the channel again
	if _, cmd := fm.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}); cmd != nil {
		t.Error("Expected no command after a repeated cancel")
	}
}
