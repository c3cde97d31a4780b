package tui_test

import (
	"strings"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/nikbrunner/marks/internal/tui"
)

func TestView_Overview(t *testing.T) {
	app := testApp(&recordingStore{})
	view := app.View()

	assert.Check(t, strings.Contains(view, "marks"), "expected app title")
	assert.Check(t, strings.Contains(view, "collections"), "expected breadcrumb")
	assert.Check(t, strings.Contains(view, "▪ Work"), "expected collection marker")
	assert.Check(t, strings.Contains(view, "▪ Personal"), "expected second collection")
	assert.Check(t, strings.Contains(view, "J/K reorder"), "expected help line")
}

func TestView_InsideCollection(t *testing.T) {
	app := testApp(&recordingStore{})
	app = press(t, app, 'l')
	view := app.View()

	assert.Check(t, strings.Contains(view, "Work"), "expected breadcrumb with collection name")
	assert.Check(t, strings.Contains(view, "▸ Development"), "expected folder marker")
	assert.Check(t, strings.Contains(view, "GitHub"), "expected root bookmark title")
	assert.Check(t, strings.Contains(view, "https://github.com"), "expected bookmark URL")
}

func TestView_Breadcrumb_NestedFolder(t *testing.T) {
	app := testApp(&recordingStore{})
	app = press(t, app, 'l', 'l') // Work → Development
	view := app.View()

	assert.Check(t, strings.Contains(view, "Work / Development"), "expected nested breadcrumb")
	assert.Check(t, strings.Contains(view, "Go Docs"), "expected folder bookmark")
}

func TestView_EmptyAndStatus(t *testing.T) {
	app := tui.NewApp(tui.AppParams{Store: &recordingStore{}})
	view := app.View()
	assert.Check(t, strings.Contains(view, "(empty)"), "expected empty placeholder")

	app = press(t, app, '/', 'x')
	view = app.View()
	assert.Check(t, strings.Contains(view, "/x"), "expected filter prompt")
}
