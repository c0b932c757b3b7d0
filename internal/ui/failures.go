package ui

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"bletest/domain"
	"bletest/internal/storage"
)

// FailureViewer displays the failed tests of a persisted run in an
// interactive TUI: list on the left, message and captured logs on the right.
type FailureViewer struct{}

// NewFailureViewer creates a new FailureViewer
func NewFailureViewer() *FailureViewer {
	return &FailureViewer{}
}

// View displays the run's FAIL and ERROR results
func (fv *FailureViewer) View(output *storage.RunOutput) error {
	failures := output.Failures()
	if len(failures) == 0 {
		color.Green("✓ No test failures in the last run!")
		return nil
	}

	app := tview.NewApplication()

	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)

	for i, r := range failures {
		list.AddItem(fmt.Sprintf("[yellow]%d.[white] %s", i+1, r.Name), "", 0, nil)
	}

	list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan).
		SetSecondaryTextColor(tview.Styles.SecondaryTextColor)

	// Stats header: qualified name plus run timestamp
	statsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false).
		SetWordWrap(false)

	detailsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)

	detailsContainer := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(detailsView, 0, 1, false).
		AddItem(tview.NewBox(), 2, 0, false)

	rightSide := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(statsView, 3, 0, false).
		AddItem(detailsContainer, 0, 1, false)

	flex := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(list, 0, 1, true).
		AddItem(rightSide, 0, 2, false)

	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true)
	headerView.SetText(fmt.Sprintf(
		" Test Failures (%d of %d tests) | Use ↑↓ to navigate, → to view details, ← to go back, Ctrl+C to exit ",
		len(failures), output.Meta.Total))

	updateDetails := func() {
		index := list.GetCurrentItem()
		if index >= 0 && index < len(failures) {
			r := failures[index]
			statsView.SetText(fmt.Sprintf(
				"[cyan]test:[white] [yellow]%s[white]   [cyan]run:[white] %s\n",
				r.Name, output.Meta.Timestamp))
			detailsView.SetText(fv.formatDetails(r))
		}
	}

	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyUp, tcell.KeyDown:
			return event
		case tcell.KeyEnter, tcell.KeyRight:
			app.SetFocus(detailsView)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		}
		return event
	})

	detailsView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyLeft, tcell.KeyEsc:
			app.SetFocus(list)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		}
		return event
	})

	list.SetChangedFunc(func(index int, mainText string, secondaryText string, shortcut rune) {
		updateDetails()
	})
	updateDetails()

	mainLayout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(tview.NewBox(), 1, 0, false).
		AddItem(flex, 0, 1, true)

	if err := app.SetRoot(mainLayout, true).SetFocus(list).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	return nil
}

// formatDetails formats one failed result using tview color tags.
func (fv *FailureViewer) formatDetails(r *domain.TestResult) string {
	var builder strings.Builder

	fmt.Fprintf(&builder, "[red]✗ Test: %s[white]\n", r.Name)
	if r.Description != "" && r.Description != r.Name {
		fmt.Fprintf(&builder, "[cyan]%s[white]\n", r.Description)
	}
	fmt.Fprintf(&builder, "\n[cyan]Status: %s[white]   [cyan]Duration: %s[white]\n\n", r.Status, r.Duration)

	if r.Message != "" {
		fmt.Fprintf(&builder, "[yellow]Message:[white]\n%s\n\n", r.Message)
	}

	if len(r.Logs) > 0 {
		fmt.Fprintf(&builder, "[yellow]Captured log:[white]\n")
		for _, entry := range r.Logs {
			tag := "[white]"
			switch entry.Level {
			case "ERROR":
				tag = "[red]"
			case "WARNING":
				tag = "[yellow]"
			case "DEBUG":
				tag = "[gray]"
			}
			fmt.Fprintf(&builder, "  %s%-7s[white] %s\n", tag, entry.Level, entry.Message)
		}
	}

	return builder.String()
}
