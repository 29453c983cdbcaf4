package config

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"voltrack/importer"
)

const (
	KeyRemoteURL               = "remote.url"
	KeyRemoteAPIKey            = "remote.api_key"
	KeyRemoteTimeout           = "remote.timeout"
	KeyRemoteEnabled           = "remote.enabled"
	KeyStorageDB               = "storage.db"
	KeyImportScanRows          = "import.scan_rows"
	KeyImportBackupSheet       = "import.backup_sheet"
	KeyImportBackupMinMatches  = "import.backup_min_matches"
	KeyImportSyncAfterImport   = "import.sync_after_import"
	KeyImportColumns           = "import.columns"
	KeyGoogleCredentialsFile   = "google.credentials_file"
	KeyLoggingLevel            = "logging.level"
	KeyLoggingFile             = "logging.file"
	DefaultDBPath              = "./voltrack.db"
	DefaultBackupSheet         = "Volunteer Hours"
	DefaultRemoteTimeout       = 30 * time.Second
	defaultLoggingLevel        = "info"
	defaultImportScanRows      = importer.DefaultHeaderScanRows
	defaultImportBackupMatches = importer.DefaultBackupMinMatches
)

type Config struct {
	Remote  RemoteConfig  `mapstructure:"remote"`
	Storage StorageConfig `mapstructure:"storage"`
	Import  ImportConfig  `mapstructure:"import"`
	Google  GoogleConfig  `mapstructure:"google"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type RemoteConfig struct {
	URL     string        `mapstructure:"url" validate:"omitempty,url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout" validate:"gte=0"`
	Enabled bool          `mapstructure:"enabled"`
}

type StorageConfig struct {
	DB string `mapstructure:"db" validate:"required"`
}

type ImportConfig struct {
	ScanRows         int                     `mapstructure:"scan_rows" validate:"min=1,max=100"`
	BackupSheet      string                  `mapstructure:"backup_sheet" validate:"required"`
	BackupMinMatches int                     `mapstructure:"backup_min_matches" validate:"min=1,max=10"`
	SyncAfterImport  bool                    `mapstructure:"sync_after_import"`
	Columns          map[string]ColumnConfig `mapstructure:"columns"`
}

// ColumnConfig adds header terms to the built-in rule of one field.
type ColumnConfig struct {
	Synonyms   []string `mapstructure:"synonyms"`
	Exclusions []string `mapstructure:"exclusions"`
}

type GoogleConfig struct {
	CredentialsFile string `mapstructure:"credentials_file"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	File  string `mapstructure:"file"`
}

// columnFields maps config keys to roster fields. Viper lower-cases keys, so
// the config uses snake case.
var columnFields = map[string]importer.Field{
	"full_name":         importer.FieldFullName,
	"first_name":        importer.FieldFirstName,
	"last_name":         importer.FieldLastName,
	"phone":             importer.FieldPhone,
	"email":             importer.FieldEmail,
	"address":           importer.FieldAddress,
	"suburb":            importer.FieldSuburb,
	"emergency_contact": importer.FieldEmergencyContact,
}

// SetDefaults sets default values if not provided
func SetDefaults() {
	setDefaults(viper.GetViper())
}

// LoadAndValidate loads config from Viper and validates it
func LoadAndValidate() (*Config, error) {
	return loadAndValidateFromViper(viper.GetViper())
}

// ValidateYAMLContent validates configuration from raw YAML content.
func ValidateYAMLContent(content []byte) (*Config, error) {
	local := viper.New()
	setDefaults(local)
	local.SetConfigType("yaml")
	if err := local.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("read config content: %w", err)
	}
	return loadAndValidateFromViper(local)
}

// Template holds the values seeded into a new config file.
type Template struct {
	RemoteURL       string
	APIKey          string
	DBPath          string
	BackupSheet     string
	SyncAfterImport bool
}

// DefaultTemplate returns the seed values of the example config.
func DefaultTemplate() Template {
	return Template{
		DBPath:          DefaultDBPath,
		BackupSheet:     DefaultBackupSheet,
		SyncAfterImport: true,
	}
}

// ExampleYAML returns the default configuration template.
func ExampleYAML() string {
	return RenderYAML(DefaultTemplate())
}

// RenderYAML renders the commented config template. Remote sync is enabled
// when a remote URL is given; empty DB path and backup sheet fall back to
// the defaults.
func RenderYAML(t Template) string {
	dbPath := strings.TrimSpace(t.DBPath)
	if dbPath == "" {
		dbPath = DefaultDBPath
	}
	backupSheet := strings.TrimSpace(t.BackupSheet)
	if backupSheet == "" {
		backupSheet = DefaultBackupSheet
	}
	remoteURL := strings.TrimSpace(t.RemoteURL)

	return fmt.Sprintf(`# voltrack configuration
remote:
  enabled: %t
  url: %s
  api_key: %s
  timeout: 30s

storage:
  db: %s

import:
  scan_rows: %d
  backup_sheet: %s
  backup_min_matches: %d
  sync_after_import: %t
  # Extra header terms per field, e.g.
  # columns:
  #   phone:
  #     synonyms: ["handy"]
  #     exclusions: ["fax"]
  columns: {}

google:
  credentials_file: ""

logging:
  level: info
  file: ""
`,
		remoteURL != "",
		strconv.Quote(remoteURL),
		strconv.Quote(strings.TrimSpace(t.APIKey)),
		strconv.Quote(dbPath),
		defaultImportScanRows,
		strconv.Quote(backupSheet),
		defaultImportBackupMatches,
		t.SyncAfterImport,
	)
}

// Problem is one failed check, keyed by its config path (e.g.
// "import.scan_rows").
type Problem struct {
	Key     string
	Message string
}

// Section is the top-level config block of the problem's key.
func (p Problem) Section() string {
	section, _, _ := strings.Cut(p.Key, ".")
	return section
}

func (p Problem) String() string {
	return p.Key + " " + p.Message
}

// ValidationError lists every problem found in a config.
type ValidationError struct {
	Problems []Problem
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Problems))
	for i, problem := range e.Problems {
		parts[i] = problem.String()
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Problems extracts the validation problems of err, if any.
func Problems(err error) ([]Problem, bool) {
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		return nil, false
	}
	return validationErr.Problems, true
}

// Rules returns the built-in column rules extended with configured terms.
func (c *Config) Rules() importer.RuleSet {
	rules := importer.DefaultRules()
	keys := make([]string, 0, len(c.Import.Columns))
	for key := range c.Import.Columns {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		column := c.Import.Columns[key]
		rules = rules.Extend(columnFields[key], column.Synonyms, column.Exclusions)
	}
	return rules
}

// RemoteTimeout is the configured timeout, falling back to the default.
func (c *Config) RemoteTimeout() time.Duration {
	if c.Remote.Timeout <= 0 {
		return DefaultRemoteTimeout
	}
	return c.Remote.Timeout
}

func loadAndValidateFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.Logging.Level = strings.ToLower(strings.TrimSpace(cfg.Logging.Level))

	problems := structProblems(cfg)
	if cfg.Remote.Enabled && strings.TrimSpace(cfg.Remote.URL) == "" {
		problems = append(problems, Problem{Key: KeyRemoteURL, Message: "is required when remote.enabled is true"})
	}
	problems = append(problems, columnProblems(cfg.Import.Columns)...)
	if len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}

	return &cfg, nil
}

func structProblems(cfg Config) []Problem {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("mapstructure"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})

	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []Problem{{Key: "config", Message: err.Error()}}
	}

	problems := make([]Problem, 0, len(fieldErrs))
	for _, fieldErr := range fieldErrs {
		_, key, _ := strings.Cut(fieldErr.Namespace(), ".")
		rule := fieldErr.Tag()
		if fieldErr.Param() != "" {
			rule += "=" + fieldErr.Param()
		}
		problems = append(problems, Problem{
			Key:     key,
			Message: fmt.Sprintf("failed %s (got %v)", rule, fieldErr.Value()),
		})
	}
	return problems
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyRemoteURL, "")
	v.SetDefault(KeyRemoteAPIKey, "")
	v.SetDefault(KeyRemoteTimeout, DefaultRemoteTimeout)
	v.SetDefault(KeyRemoteEnabled, false)
	v.SetDefault(KeyStorageDB, DefaultDBPath)
	v.SetDefault(KeyImportScanRows, defaultImportScanRows)
	v.SetDefault(KeyImportBackupSheet, DefaultBackupSheet)
	v.SetDefault(KeyImportBackupMinMatches, defaultImportBackupMatches)
	v.SetDefault(KeyImportSyncAfterImport, true)
	v.SetDefault(KeyImportColumns, map[string]any{})
	v.SetDefault(KeyGoogleCredentialsFile, "")
	v.SetDefault(KeyLoggingLevel, defaultLoggingLevel)
	v.SetDefault(KeyLoggingFile, "")
}

func columnProblems(columns map[string]ColumnConfig) []Problem {
	keys := make([]string, 0, len(columns))
	for key := range columns {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	problems := make([]Problem, 0)
	for _, key := range keys {
		columnKey := KeyImportColumns + "." + key
		if _, ok := columnFields[key]; !ok {
			problems = append(problems, Problem{
				Key:     columnKey,
				Message: fmt.Sprintf("is not a known field (valid: %s)", strings.Join(ColumnKeys(), ", ")),
			})
			continue
		}
		column := columns[key]
		for i, term := range column.Synonyms {
			if strings.TrimSpace(term) == "" {
				problems = append(problems, Problem{Key: columnKey + ".synonyms", Message: fmt.Sprintf("term %d is empty", i)})
			}
		}
		for i, term := range column.Exclusions {
			if strings.TrimSpace(term) == "" {
				problems = append(problems, Problem{Key: columnKey + ".exclusions", Message: fmt.Sprintf("term %d is empty", i)})
			}
		}
	}
	return problems
}

// ColumnKeys lists the field names accepted under import.columns.
func ColumnKeys() []string {
	keys := make([]string, 0, len(columnFields))
	for name := range columnFields {
		keys = append(keys, name)
	}
	sort.Strings(keys)
	return keys
}
