package importer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"

	"voltrack/internal/cell"
)

func TestCSVReaderReadsFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "roster.csv")
	content := "\ufeffName,Phone\nAnn Lee,0400 111 222\nBo\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	wb, err := (&CSVReader{}).Read(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, wb.Sheets, 1)

	sheet := wb.Sheets[0]
	assert.Equal(t, "roster", sheet.Name)
	assert.Equal(t, []string{"name", "phone"}, sheet.Header(), "byte order mark must be stripped")
	require.Len(t, sheet.Rows, 3)
	assert.Equal(t, []string{"Ann Lee", "0400 111 222"}, cell.Strings(sheet.Rows[1]))
	assert.Len(t, sheet.Rows[2], 1)
	assert.Equal(t, cell.KindText, sheet.Rows[1][1].Kind())
}

func TestCSVReaderDecodesUTF16(t *testing.T) {
	t.Parallel()

	encoder := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	encoded, err := encoder.String("Name,Email\r\nZoë Müller,zoe@example.com\r\n")
	require.NoError(t, err)

	wb, err := (&CSVReader{}).Decode("uploads/export.csv", strings.NewReader(encoded))
	require.NoError(t, err)

	sheet := wb.Sheets[0]
	assert.Equal(t, "export", sheet.Name)
	assert.Equal(t, []string{"Zoë Müller", "zoe@example.com"}, cell.Strings(sheet.Rows[1]))
}

func TestCSVReaderEmptyCellsAreEmpty(t *testing.T) {
	t.Parallel()

	wb, err := (&CSVReader{}).Decode("r.csv", strings.NewReader("Name,Phone\nAnn,\n"))
	require.NoError(t, err)
	assert.True(t, wb.Sheets[0].Rows[1][1].IsEmpty())
}

func TestCSVReaderMissingFile(t *testing.T) {
	t.Parallel()

	_, err := (&CSVReader{}).Read(context.Background(), filepath.Join(t.TempDir(), "nope.csv"))
	require.ErrorIs(t, err, ErrMalformedInput)
}
