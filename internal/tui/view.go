package tui

import (
	"fmt"
	"strings"
)

// View implements tea.Model.
func (a App) View() string {
	var b strings.Builder

	b.WriteString(a.styles.Title.Render("marks"))
	b.WriteString("  ")
	b.WriteString(a.styles.Breadcrumb.Render(a.breadcrumb()))
	b.WriteString("\n\n")

	if a.filtering || a.filter != "" {
		prompt := "/" + a.filter
		if a.filtering {
			prompt += "█"
		}
		b.WriteString(a.styles.Status.Render(prompt))
		b.WriteString("\n")
	}

	if len(a.items) == 0 {
		b.WriteString(a.styles.Empty.Render("  (empty)"))
		b.WriteString("\n")
	}

	for i, item := range a.items {
		line := a.renderItem(item)
		if i == a.cursor {
			b.WriteString(a.styles.ItemSelected.Render(line))
		} else {
			b.WriteString(a.styles.Item.Render(line))
		}
		b.WriteString("\n")
	}

	if a.status != "" {
		b.WriteString("\n")
		b.WriteString(a.styles.Status.Render(a.status))
	}

	b.WriteString(a.styles.Help.Render("\nj/k move · J/K reorder · l enter · h back · Y yank · / filter · q quit"))

	return a.styles.App.Render(b.String())
}

// breadcrumb renders the current location path.
func (a App) breadcrumb() string {
	if a.currentCollection == nil {
		return "collections"
	}

	parts := []string{a.currentCollection.Name}
	for _, id := range a.folderStack {
		parts = append(parts, a.folderName(id))
	}
	if a.currentFolderID != nil {
		parts = append(parts, a.folderName(*a.currentFolderID))
	}
	return strings.Join(parts, " / ")
}

func (a App) folderName(id string) string {
	for _, f := range a.folders {
		if f.ID == id {
			return f.Name
		}
	}
	return "?"
}

// renderItem formats a single list line.
func (a App) renderItem(item Item) string {
	switch item.Kind {
	case ItemCollection:
		return fmt.Sprintf("▪ %s", item.Collection.Name)
	case ItemFolder:
		return fmt.Sprintf("▸ %s", item.Folder.Name)
	default:
		url := a.styles.URL.Render(item.Bookmark.URL)
		return fmt.Sprintf("  %s  %s", item.Bookmark.Title, url)
	}
}
