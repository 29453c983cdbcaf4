package importer

import "errors"

var (
	// ErrMalformedInput: the source is unreadable or holds no usable sheet.
	ErrMalformedInput = errors.New("malformed input")
	// ErrNoHeaderFound: no scanned row carries a name column.
	ErrNoHeaderFound = errors.New("no header row found")
	// ErrBackupFile: a backup export was handed to the roster import.
	ErrBackupFile = errors.New("file is a backup export; use restore instead of import")
	// ErrNotBackupFile: restore was asked to read a file without a name column.
	ErrNotBackupFile = errors.New("file does not look like a backup export")
)
