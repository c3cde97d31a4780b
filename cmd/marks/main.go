package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nikbrunner/marks/internal/model"
	"github.com/nikbrunner/marks/internal/storage"
	"github.com/nikbrunner/marks/internal/tui"
)

var dbPath string

var rootCmd = &cobra.Command{
	Use:           "marks",
	Short:         "Hierarchical bookmark collections with WebDAV backup",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runBrowse,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (default ~/.config/marks/marks.db)")
	rootCmd.AddCommand(addCmd, syncCmd, exportCmd, configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// openStore opens the database at --db or the default location.
func openStore() (*storage.Store, error) {
	path := dbPath
	if path == "" {
		var err error
		path, err = storage.DefaultDatabasePath()
		if err != nil {
			return nil, err
		}
	}
	return storage.Open(path)
}

// runBrowse starts the interactive collection browser.
func runBrowse(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	collections, err := store.ListCollections()
	if err != nil {
		return err
	}

	var folders []model.Folder
	var bookmarks []model.Bookmark
	for _, col := range collections {
		f, err := store.ListFolders(col.ID)
		if err != nil {
			return err
		}
		b, err := store.ListBookmarks(col.ID)
		if err != nil {
			return err
		}
		folders = append(folders, f...)
		bookmarks = append(bookmarks, b...)
	}

	app := tui.NewApp(tui.AppParams{
		Collections: collections,
		Folders:     folders,
		Bookmarks:   bookmarks,
		Store:       store,
	})
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running browser: %w", err)
	}
	return nil
}
