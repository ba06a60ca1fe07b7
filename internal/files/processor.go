// Package files is the file-processing collaborator: pure functions
// that classify an upload and derive cheap descriptive metadata. The
// resulting descriptor is attached to a history entry as-is; nothing
// downstream depends on its internal shape.
package files

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"image"
	_ "image/gif"  // register decoders for dimension probing
	_ "image/jpeg" //
	_ "image/png"  //
	"path/filepath"
	"regexp"
	"strings"

	"github.com/iliyamo/ai-assistant-api/internal/model"
)

// File kinds produced by Describe.
const (
	KindImage       = "image"
	KindDocument    = "document"
	KindSpreadsheet = "spreadsheet"
	KindCode        = "code"
)

var kindByExt = map[string]string{
	".jpg": KindImage, ".jpeg": KindImage, ".png": KindImage, ".gif": KindImage,
	".pdf": KindDocument, ".txt": KindDocument, ".md": KindDocument,
	".csv": KindSpreadsheet,
	".py":  KindCode, ".go": KindCode, ".js": KindCode,
}

var funcPattern = regexp.MustCompile(`(?m)^\s*(?:def|func|function)\s+(\w+)`)

// Describe classifies the upload by extension and derives metadata
// from its content. Unsupported extensions are an error; problems
// reading the content degrade to a descriptor without metadata rather
// than failing the upload.
func Describe(filename string, size int64, content []byte) (model.FileDescriptor, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	kind, ok := kindByExt[ext]
	if !ok {
		return model.FileDescriptor{}, fmt.Errorf("unsupported file type: %s", ext)
	}

	desc := model.FileDescriptor{
		Filename:  filename,
		Kind:      kind,
		SizeBytes: size,
	}

	var meta any
	switch kind {
	case KindImage:
		meta = imageMeta(content)
	case KindSpreadsheet:
		meta = spreadsheetMeta(content)
	case KindCode:
		meta = codeMeta(content)
	case KindDocument:
		meta = documentMeta(content)
	}
	if meta != nil {
		if raw, err := json.Marshal(meta); err == nil {
			desc.Metadata = raw
		}
	}
	return desc, nil
}

func imageMeta(content []byte) any {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(content))
	if err != nil {
		return nil
	}
	return map[string]any{"width": cfg.Width, "height": cfg.Height, "format": format}
}

func spreadsheetMeta(content []byte) any {
	r := csv.NewReader(bytes.NewReader(content))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil || len(records) == 0 {
		return nil
	}
	return map[string]any{
		"rows":    len(records) - 1, // header excluded
		"columns": len(records[0]),
		"header":  records[0],
	}
}

func codeMeta(content []byte) any {
	text := string(content)
	var funcs []string
	for _, m := range funcPattern.FindAllStringSubmatch(text, -1) {
		funcs = append(funcs, m[1])
	}
	return map[string]any{
		"lines":     strings.Count(text, "\n") + 1,
		"functions": funcs,
	}
}

func documentMeta(content []byte) any {
	text := string(content)
	return map[string]any{
		"lines": strings.Count(text, "\n") + 1,
		"words": len(strings.Fields(text)),
	}
}
