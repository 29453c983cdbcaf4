package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"voltrack/config"
	"voltrack/storage"
)

var deleteKeepFile bool

var (
	deletePromptInput  io.Reader = os.Stdin
	deletePromptOutput io.Writer = os.Stdout
)

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the complete SQLite database file",
	Long: `Destructive database cleanup command.

By default this command deletes the complete SQLite database file. With --keep-file,
the file stays and only its volunteers, hours and shifts are removed.
Before deletion, an interactive security prompt requires typing exactly "Y".`,
	Example: `
  # Delete the complete SQLite file (requires interactive confirmation)
  voltrack delete --db ./voltrack.db

  # Empty the tables but keep the file
  voltrack delete --keep-file
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}
		deleteDBPath := resolveDBPath(dbPath, cfg.Storage.DB)

		target := "Delete database file"
		if deleteKeepFile {
			target = "Empty database file"
		}
		prompt := fmt.Sprintf("%s %q%s? Type Y to confirm: ", target, deleteDBPath, describeDatabase(deleteDBPath))
		confirmed, err := confirmDeletePrompt(deletePromptInput, deletePromptOutput, prompt)
		if err != nil {
			return err
		}
		if !confirmed {
			return fmt.Errorf("delete aborted: confirmation was not 'Y'")
		}

		message, err := deleteDatabase(deleteDBPath, deleteKeepFile)
		if err != nil {
			return err
		}
		fmt.Println(message)
		return nil
	},
}

// describeDatabase reports what an existing database holds, or nothing when
// the file is missing or unreadable.
func describeDatabase(path string) string {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return ""
	}
	store, err := storage.OpenSQLite(path)
	if err != nil {
		return ""
	}
	defer store.Close()

	volunteers, hours, shifts, err := store.Counts()
	if err != nil {
		return ""
	}
	return fmt.Sprintf(" holding %d volunteers, %d hours entries and %d shifts", volunteers, hours, shifts)
}

// deleteDatabase removes the database file, or with keepFile empties its
// tables and leaves the schema in place.
func deleteDatabase(path string, keepFile bool) (string, error) {
	if !keepFile {
		if err := removeDatabaseFile(path); err != nil {
			return "", err
		}
		return fmt.Sprintf("Deleted database file: %s", path), nil
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("database file not found: %s", path)
		}
		return "", fmt.Errorf("stat database file: %w", err)
	}
	store, err := storage.OpenSQLite(path)
	if err != nil {
		return "", err
	}
	defer store.Close()

	removed, err := store.DeleteAll()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Deleted %d volunteers with their hours, and all shifts, from: %s", removed, path), nil
}

func init() {
	rootCmd.AddCommand(deleteCmd)

	deleteCmd.Flags().BoolVar(&deleteKeepFile, "keep-file", false, "Empty the tables instead of deleting the file")
}

// confirmDeletePrompt writes prompt and reports whether the answer is
// exactly "Y".
func confirmDeletePrompt(input io.Reader, output io.Writer, prompt string) (bool, error) {
	if input == nil {
		return false, fmt.Errorf("delete confirmation input is not available")
	}

	if output == nil {
		output = io.Discard
	}

	if _, err := io.WriteString(output, prompt); err != nil {
		return false, fmt.Errorf("write delete confirmation prompt: %w", err)
	}

	line, err := bufio.NewReader(input).ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			line = strings.TrimSpace(line)
			return line == "Y", nil
		}
		return false, fmt.Errorf("read delete confirmation: %w", err)
	}
	return strings.TrimSpace(line) == "Y", nil
}

func removeDatabaseFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("database file not found: %s", path)
		}
		return fmt.Errorf("stat database file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("database path is a directory: %s", path)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("delete database file: %w", err)
	}
	return nil
}
