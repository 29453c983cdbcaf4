package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"voltrack/volunteer"
)

// Writer exports volunteers with their hours to a file.
type Writer interface {
	Write(path string, volunteers []volunteer.Volunteer) error
	Encode(w io.Writer, volunteers []volunteer.Volunteer) error
	// Extension is the file suffix used for downloads, without the dot.
	Extension() string
}

func WriterForFormat(format string) (Writer, error) {
	switch normalizeFormat(format) {
	case "csv":
		return &CSVWriter{}, nil
	case "excel", "xlsx":
		return &ExcelWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

func normalizeFormat(value string) string {
	return strings.TrimSpace(strings.ToLower(value))
}

func writeFile(path string, encode func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output %s: %w", path, err)
	}
	if err := encode(file); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close output %s: %w", path, err)
	}
	return nil
}
