package importer

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Reader loads a whole workbook from a source (file path or sheet reference).
type Reader interface {
	Read(ctx context.Context, source string) (*Workbook, error)
}

// Decoder loads a workbook from an already opened stream, e.g. an upload.
type Decoder interface {
	Decode(name string, r io.Reader) (*Workbook, error)
}

type ReaderOptions struct {
	// CredentialsFile is a Google service-account JSON key used for gsheet sources.
	CredentialsFile string
}

func ReaderForFormat(format string, options ReaderOptions) (Reader, error) {
	switch strings.TrimSpace(strings.ToLower(format)) {
	case "csv":
		return &CSVReader{}, nil
	case "excel", "xlsx", "xlsm":
		return &ExcelReader{}, nil
	case "gsheet", "sheets":
		return &SheetsReader{CredentialsFile: options.CredentialsFile}, nil
	default:
		return nil, fmt.Errorf("unsupported input format: %s", format)
	}
}

// DecoderForFormat returns a stream decoder for file-based formats.
func DecoderForFormat(format string) (Decoder, error) {
	switch strings.TrimSpace(strings.ToLower(format)) {
	case "csv":
		return &CSVReader{}, nil
	case "excel", "xlsx", "xlsm":
		return &ExcelReader{}, nil
	default:
		return nil, fmt.Errorf("unsupported upload format: %s", format)
	}
}

// InferFormat returns format when set, otherwise derives it from source.
func InferFormat(source string, format string) (string, error) {
	if strings.TrimSpace(format) != "" {
		return strings.ToLower(strings.TrimSpace(format)), nil
	}
	if isSheetsSource(source) {
		return "gsheet", nil
	}

	extension := strings.ToLower(strings.TrimPrefix(filepath.Ext(source), "."))
	switch extension {
	case "csv":
		return "csv", nil
	case "xlsx", "xlsm":
		return "excel", nil
	default:
		return "", fmt.Errorf("unsupported file extension for %s", source)
	}
}

// Load infers the format of source, picks a reader and reads the workbook.
func Load(ctx context.Context, source, format string, options ReaderOptions) (*Workbook, error) {
	resolved, err := InferFormat(source, format)
	if err != nil {
		return nil, err
	}
	reader, err := ReaderForFormat(resolved, options)
	if err != nil {
		return nil, err
	}
	return reader.Read(ctx, source)
}
