package ui

import "bletest/internal/storage"

// Viewer displays a persisted run in an interactive TUI
type Viewer interface {
	View(output *storage.RunOutput) error
}
