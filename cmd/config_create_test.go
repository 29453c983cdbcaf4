package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"voltrack/config"
)

func useConfigFile(t *testing.T, path string) {
	t.Helper()

	t.Cleanup(func() {
		cfgFile = ""
		viper.Reset()
	})
	cfgFile = path
	viper.Reset()
}

func TestSaveConfigTemplateSeedsValues(t *testing.T) {
	tmpConfig := filepath.Join(t.TempDir(), "seeded.yaml")
	useConfigFile(t, tmpConfig)

	err := saveConfigTemplate(config.Template{
		RemoteURL:   "https://script.google.com/macros/s/abc/exec",
		APIKey:      "k-123",
		DBPath:      "./dropin.db",
		BackupSheet: "Hours Log",
	})
	if err != nil {
		t.Fatalf("unexpected error creating config: %v", err)
	}

	content, err := os.ReadFile(tmpConfig)
	if err != nil {
		t.Fatalf("expected config file to exist: %v", err)
	}
	cfg, err := config.ValidateYAMLContent(content)
	if err != nil {
		t.Fatalf("expected written config to validate: %v", err)
	}
	if !cfg.Remote.Enabled || cfg.Remote.APIKey != "k-123" {
		t.Fatalf("expected remote sync to be enabled with key, got %+v", cfg.Remote)
	}
	if cfg.Storage.DB != "./dropin.db" || cfg.Import.BackupSheet != "Hours Log" {
		t.Fatalf("unexpected seeded values: db=%q sheet=%q", cfg.Storage.DB, cfg.Import.BackupSheet)
	}
	if cfg.Import.SyncAfterImport {
		t.Fatalf("sync_after_import was not requested")
	}
}

func TestSaveConfigTemplateDefaults(t *testing.T) {
	tmpConfig := filepath.Join(t.TempDir(), "create-template.yaml")
	useConfigFile(t, tmpConfig)

	if err := saveConfigTemplate(config.DefaultTemplate()); err != nil {
		t.Fatalf("unexpected error creating config: %v", err)
	}

	content, err := os.ReadFile(tmpConfig)
	if err != nil {
		t.Fatalf("expected config file to exist: %v", err)
	}
	if string(content) != config.ExampleYAML() {
		t.Fatalf("expected the example template, got:\n%s", content)
	}
}

func TestSaveConfigTemplateRejectsBadSeeds(t *testing.T) {
	tests := []struct {
		name     string
		template config.Template
		want     string
	}{
		{name: "api key without url", template: config.Template{APIKey: "k"}, want: "--api-key needs --remote-url"},
		{name: "malformed url", template: config.Template{RemoteURL: "script host"}, want: "remote.url failed url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpConfig := filepath.Join(t.TempDir(), "rejected.yaml")
			useConfigFile(t, tmpConfig)

			err := saveConfigTemplate(tt.template)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
			if _, statErr := os.Stat(tmpConfig); !os.IsNotExist(statErr) {
				t.Fatalf("no file may be written for an invalid seed")
			}
		})
	}
}

func TestSaveConfigTemplateDoesNotOverwriteExistingFile(t *testing.T) {
	tmpConfig := filepath.Join(t.TempDir(), "existing.yaml")
	original := "remote:\n  enabled: true\n  url: \"https://script.google.com/macros/s/abc/exec\"\nimport:\n  sync_after_import: false\n"
	if err := os.WriteFile(tmpConfig, []byte(original), 0o644); err != nil {
		t.Fatalf("failed writing initial config: %v", err)
	}
	useConfigFile(t, tmpConfig)

	if err := saveConfigTemplate(config.Template{BackupSheet: "Other"}); err != nil {
		t.Fatalf("unexpected error creating config: %v", err)
	}

	content, err := os.ReadFile(tmpConfig)
	if err != nil {
		t.Fatalf("failed reading existing config after create: %v", err)
	}
	if string(content) != original {
		t.Fatalf("expected existing config to remain unchanged")
	}
}
