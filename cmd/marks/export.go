package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/marks/internal/exporter"
	"github.com/nikbrunner/marks/internal/snapshot"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all bookmarks as a Netscape HTML file",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		snap, err := snapshot.Export(store)
		if err != nil {
			return err
		}

		path, _ := cmd.Flags().GetString("output")
		if path == "" {
			path, err = exporter.DefaultExportPath()
			if err != nil {
				return err
			}
		}

		if err := os.WriteFile(path, []byte(exporter.ExportHTML(snap)), 0o644); err != nil {
			return fmt.Errorf("write export: %w", err)
		}

		fmt.Printf("Exported %d collections to %s\n", len(snap.Data), path)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("output", "o", "", "output file path (default ~/Downloads/marks-export-<date>.html)")
}
