package files

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribeClassifiesByExtension(t *testing.T) {
	tests := []struct {
		filename string
		kind     string
	}{
		{"photo.jpg", KindImage},
		{"photo.JPEG", KindImage},
		{"diagram.png", KindImage},
		{"anim.gif", KindImage},
		{"report.pdf", KindDocument},
		{"notes.txt", KindDocument},
		{"README.md", KindDocument},
		{"data.csv", KindSpreadsheet},
		{"script.py", KindCode},
		{"main.go", KindCode},
		{"app.js", KindCode},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			desc, err := Describe(tt.filename, 10, []byte("x"))
			require.NoError(t, err)
			assert.Equal(t, tt.kind, desc.Kind)
			assert.Equal(t, tt.filename, desc.Filename)
			assert.EqualValues(t, 10, desc.SizeBytes)
		})
	}
}

func TestDescribeUnsupportedExtension(t *testing.T) {
	for _, name := range []string{"archive.zip", "binary.exe", "noext"} {
		_, err := Describe(name, 1, []byte("x"))
		assert.Error(t, err, name)
	}
}

func TestDescribeImageDimensions(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 12, 7))))

	desc, err := Describe("pic.png", int64(buf.Len()), buf.Bytes())
	require.NoError(t, err)

	meta := decodeMeta(t, desc.Metadata)
	assert.EqualValues(t, 12, meta["width"])
	assert.EqualValues(t, 7, meta["height"])
	assert.Equal(t, "png", meta["format"])
}

func TestDescribeCorruptImageDegradesToNoMetadata(t *testing.T) {
	desc, err := Describe("pic.png", 3, []byte("not a png"))
	require.NoError(t, err, "bad content must not fail the upload")
	assert.Nil(t, desc.Metadata)
}

func TestDescribeSpreadsheet(t *testing.T) {
	content := []byte("name,age,city\nann,30,oslo\nben,25,bergen\n")

	desc, err := Describe("people.csv", int64(len(content)), content)
	require.NoError(t, err)

	meta := decodeMeta(t, desc.Metadata)
	assert.EqualValues(t, 2, meta["rows"], "header row excluded from the count")
	assert.EqualValues(t, 3, meta["columns"])
	assert.Equal(t, []any{"name", "age", "city"}, meta["header"])
}

func TestDescribeCode(t *testing.T) {
	content := []byte("def alpha():\n    pass\n\ndef beta(x):\n    return x\n")

	desc, err := Describe("lib.py", int64(len(content)), content)
	require.NoError(t, err)

	meta := decodeMeta(t, desc.Metadata)
	assert.Equal(t, []any{"alpha", "beta"}, meta["functions"])
	assert.EqualValues(t, 6, meta["lines"])
}

func TestDescribeDocument(t *testing.T) {
	content := []byte("first line here\nsecond line\n")

	desc, err := Describe("notes.txt", int64(len(content)), content)
	require.NoError(t, err)

	meta := decodeMeta(t, desc.Metadata)
	assert.EqualValues(t, 3, meta["lines"])
	assert.EqualValues(t, 5, meta["words"])
}

func decodeMeta(t *testing.T, raw json.RawMessage) map[string]any {
	t.Helper()
	require.NotNil(t, raw)
	var meta map[string]any
	require.NoError(t, json.Unmarshal(raw, &meta))
	return meta
}
