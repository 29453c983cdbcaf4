package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"voltrack/config"
)

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the active config in an editor.",
	Long: `Open the active voltrack config file in your editor.

Editor selection order:
1) $VISUAL
2) $EDITOR
3) vi

If no config file exists yet, this command creates one with an example template first.
After the editor exits, the content is validated as voltrack YAML config. Problems are listed
per section (remote, storage, import, google, logging); on success the active remote, database,
import and column rule settings are summarized.`,
	Example: `
  # Edit active config
  voltrack config edit
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, err := resolveConfigEditPath(cfgFile, viper.ConfigFileUsed())
		if err != nil {
			return err
		}

		created, err := ensureConfigFile(configPath, config.ExampleYAML())
		if err != nil {
			return err
		}
		if created {
			fmt.Printf("No config file found. Created example config at: %s\n", configPath)
		}

		editor := resolveEditorValue(os.Getenv("VISUAL"), os.Getenv("EDITOR"))
		editorCommand, err := buildEditorCommand(editor, configPath)
		if err != nil {
			return err
		}
		editorCommand.Stdin = os.Stdin
		editorCommand.Stdout = os.Stdout
		editorCommand.Stderr = os.Stderr
		if err := editorCommand.Run(); err != nil {
			return fmt.Errorf("opening editor failed: %w", err)
		}

		content, err := os.ReadFile(configPath)
		if err != nil {
			return fmt.Errorf("reading edited config failed: %w", err)
		}
		cfg, err := config.ValidateYAMLContent(content)
		if err != nil {
			return fmt.Errorf("config validation failed in %s:\n%s", configPath, formatConfigProblems(err))
		}

		fmt.Printf("Configuration saved and validated: %s\n", configPath)
		for _, line := range describeConfig(cfg) {
			fmt.Printf("  %s\n", line)
		}
		return nil
	},
}

func resolveConfigEditPath(configFileFlag, configFileUsed string) (string, error) {
	if strings.TrimSpace(configFileFlag) != "" {
		return configFileFlag, nil
	}
	if strings.TrimSpace(configFileUsed) != "" {
		return configFileUsed, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".voltrack.yaml"), nil
}

func ensureConfigFile(path, content string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return false, nil
	}
	if !os.IsNotExist(err) {
		return false, fmt.Errorf("checking config file failed: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("creating config directory failed: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return false, fmt.Errorf("creating config file failed: %w", err)
	}

	return true, nil
}

var configSections = []string{"remote", "storage", "import", "google", "logging"}

// formatConfigProblems groups validation problems under their config
// section, sections in config file order.
func formatConfigProblems(err error) string {
	problems, ok := config.Problems(err)
	if !ok {
		return "  " + err.Error()
	}

	bySection := make(map[string][]config.Problem)
	for _, problem := range problems {
		bySection[problem.Section()] = append(bySection[problem.Section()], problem)
	}
	order := make([]string, 0, len(bySection))
	for _, section := range configSections {
		if _, ok := bySection[section]; ok {
			order = append(order, section)
		}
	}
	for _, problem := range problems {
		if !slices.Contains(order, problem.Section()) {
			order = append(order, problem.Section())
		}
	}

	var b strings.Builder
	for _, section := range order {
		fmt.Fprintf(&b, "  %s:\n", section)
		for _, problem := range bySection[section] {
			key := strings.TrimPrefix(problem.Key, section+".")
			fmt.Fprintf(&b, "    - %s %s\n", key, problem.Message)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// describeConfig summarizes what a validated config turns on.
func describeConfig(cfg *config.Config) []string {
	lines := make([]string, 0, 4+len(cfg.Import.Columns))

	if cfg.Remote.Enabled {
		key := "no API key"
		if strings.TrimSpace(cfg.Remote.APIKey) != "" {
			key = "API key set"
		}
		lines = append(lines, fmt.Sprintf("remote sync: on (%s, %s, timeout %s)", cfg.Remote.URL, key, cfg.RemoteTimeout()))
	} else {
		lines = append(lines, "remote sync: off")
	}

	lines = append(lines, fmt.Sprintf("database: %s", cfg.Storage.DB))

	pushAfterImport := "off"
	if cfg.Import.SyncAfterImport {
		pushAfterImport = "on"
	}
	lines = append(lines, fmt.Sprintf(
		"import: header scan %d rows, backup sheet %q (%d headers), push after import %s",
		cfg.Import.ScanRows,
		cfg.Import.BackupSheet,
		cfg.Import.BackupMinMatches,
		pushAfterImport,
	))

	fields := make([]string, 0, len(cfg.Import.Columns))
	for field := range cfg.Import.Columns {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		column := cfg.Import.Columns[field]
		lines = append(lines, fmt.Sprintf(
			"column rule %s: +%d synonyms, +%d exclusions",
			field,
			len(column.Synonyms),
			len(column.Exclusions),
		))
	}
	return lines
}

func resolveEditorValue(visual, editor string) string {
	if strings.TrimSpace(visual) != "" {
		return visual
	}
	if strings.TrimSpace(editor) != "" {
		return editor
	}
	return "vi"
}

func buildEditorCommand(editorValue, configPath string) (*exec.Cmd, error) {
	fields := strings.Fields(strings.TrimSpace(editorValue))
	if len(fields) == 0 {
		return nil, fmt.Errorf("editor command is empty")
	}

	args := append(fields[1:], configPath)
	return exec.Command(fields[0], args...), nil
}

func init() {
	configCmd.AddCommand(configEditCmd)
}
