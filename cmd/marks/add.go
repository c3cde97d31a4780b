package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/marks/internal/model"
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a collection, folder, or bookmark",
}

var addCollectionCmd = &cobra.Command{
	Use:   "collection <name>",
	Short: "Create a new collection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		public, _ := cmd.Flags().GetBool("public")
		col, err := store.CreateCollection(model.NewCollectionParams{
			Name:     args[0],
			IsPublic: public,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Created collection %q (slug %s)\n", col.Name, col.Slug)
		return nil
	},
}

var addFolderCmd = &cobra.Command{
	Use:   "folder <name>",
	Short: "Create a folder in a collection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		slug, _ := cmd.Flags().GetString("collection")
		col, err := store.GetCollectionBySlug(slug)
		if err != nil {
			return err
		}

		params := model.NewFolderParams{
			Name:         args[0],
			CollectionID: col.ID,
			IsPublic:     true,
		}
		if parent, _ := cmd.Flags().GetString("parent"); parent != "" {
			params.ParentID = &parent
		}

		folder, err := store.CreateFolder(params)
		if err != nil {
			return err
		}

		fmt.Printf("Created folder %q (id %s, position %d)\n", folder.Name, folder.ID, folder.SortOrder)
		return nil
	},
}

var addBookmarkCmd = &cobra.Command{
	Use:   "bookmark <url>",
	Short: "Create a bookmark in a collection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		slug, _ := cmd.Flags().GetString("collection")
		col, err := store.GetCollectionBySlug(slug)
		if err != nil {
			return err
		}

		title, _ := cmd.Flags().GetString("title")
		if title == "" {
			title = args[0]
		}

		params := model.NewBookmarkParams{
			Title:        title,
			URL:          args[0],
			CollectionID: col.ID,
		}
		if folder, _ := cmd.Flags().GetString("folder"); folder != "" {
			params.FolderID = &folder
		}
		if desc, _ := cmd.Flags().GetString("description"); desc != "" {
			params.Description = &desc
		}

		bookmark, err := store.CreateBookmark(params)
		if err != nil {
			return err
		}

		fmt.Printf("Created bookmark %q (position %d)\n", bookmark.Title, bookmark.SortOrder)
		return nil
	},
}

func init() {
	addCollectionCmd.Flags().Bool("public", false, "make the collection publicly visible")

	addFolderCmd.Flags().StringP("collection", "c", "", "collection slug (required)")
	addFolderCmd.Flags().StringP("parent", "p", "", "parent folder id")
	addFolderCmd.MarkFlagRequired("collection")

	addBookmarkCmd.Flags().StringP("collection", "c", "", "collection slug (required)")
	addBookmarkCmd.Flags().StringP("folder", "f", "", "folder id")
	addBookmarkCmd.Flags().StringP("title", "t", "", "bookmark title (defaults to the URL)")
	addBookmarkCmd.Flags().StringP("description", "d", "", "bookmark description")
	addBookmarkCmd.MarkFlagRequired("collection")

	addCmd.AddCommand(addCollectionCmd, addFolderCmd, addBookmarkCmd)
}
