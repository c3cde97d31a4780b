package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/marks/internal/storage"
	"github.com/nikbrunner/marks/internal/sync"
	"github.com/nikbrunner/marks/internal/webdav"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Back up to or restore from the WebDAV server",
}

var syncUploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Export all collections to the WebDAV server",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, engine, err := openEngine()
		if err != nil {
			return err
		}
		defer store.Close()

		result, err := engine.Upload(overrideConfig(cmd))
		if err != nil {
			return err
		}

		fmt.Printf("Backed up %d collections (%s)\n", result.Collections, result.Backup)
		return nil
	},
}

var syncDownloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Restore all collections from the WebDAV server",
	Long: `Restore all collections from the latest backup on the WebDAV server.

This is destructive: every local collection, folder and bookmark is
replaced by the backup's contents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			if !confirm("This will overwrite all local data with the remote backup. Continue?") {
				fmt.Println("Aborted.")
				return nil
			}
		}

		store, engine, err := openEngine()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := engine.Download(overrideConfig(cmd)); err != nil {
			return err
		}

		fmt.Println("Restore complete.")
		return nil
	},
}

var syncTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Verify the WebDAV connection and prepare the backup directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, engine, err := openEngine()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := engine.Test(overrideConfig(cmd)); err != nil {
			return err
		}

		fmt.Println("Connection OK, backup directory ready.")
		return nil
	},
}

var syncAutoCmd = &cobra.Command{
	Use:   "auto",
	Short: "Upload if auto-sync is enabled (for cron or timers)",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, engine, err := openEngine()
		if err != nil {
			return err
		}
		defer store.Close()

		result, ran, err := engine.AutoUpload()
		if err != nil {
			return err
		}
		if !ran {
			fmt.Println("Auto-sync is disabled, nothing to do.")
			return nil
		}

		fmt.Printf("Backed up %d collections (%s)\n", result.Collections, result.Backup)
		return nil
	},
}

func init() {
	for _, cmd := range []*cobra.Command{syncUploadCmd, syncDownloadCmd, syncTestCmd} {
		cmd.Flags().String("url", "", "WebDAV server URL (overrides saved setting)")
		cmd.Flags().String("username", "", "WebDAV username (overrides saved setting)")
		cmd.Flags().String("password", "", "WebDAV password (overrides saved setting)")
		cmd.Flags().String("remote-path", "", "remote backup directory (overrides saved setting)")
	}
	syncDownloadCmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")

	syncCmd.AddCommand(syncUploadCmd, syncDownloadCmd, syncTestCmd, syncAutoCmd)
}

func openEngine() (*storage.Store, *sync.Engine, error) {
	store, err := openStore()
	if err != nil {
		return nil, nil, err
	}
	return store, sync.New(sync.Params{Store: store}), nil
}

// overrideConfig collects inline connection parameters; empty fields fall
// back to the persisted settings.
func overrideConfig(cmd *cobra.Command) webdav.Config {
	url, _ := cmd.Flags().GetString("url")
	username, _ := cmd.Flags().GetString("username")
	password, _ := cmd.Flags().GetString("password")
	remotePath, _ := cmd.Flags().GetString("remote-path")
	return webdav.Config{URL: url, Username: username, Password: password, RemotePath: remotePath}
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N] ", prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
