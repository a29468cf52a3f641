package converter

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nconklindev/clientline/internal/client"
)

// DefaultOutputExt is the extension given to converted files.
const DefaultOutputExt = ".jsonl"

// OutputPath replaces the extension of inputFile with ext.
func OutputPath(inputFile, ext string) string {
	if ext == "" {
		ext = DefaultOutputExt
	}
	return strings.TrimSuffix(inputFile, filepath.Ext(inputFile)) + ext
}

// WriteJSONL writes one JSON object per line, each line newline-terminated.
func WriteJSONL(w io.Writer, records []client.Record) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)

	for i := range records {
		if err := enc.Encode(records[i]); err != nil {
			return fmt.Errorf("encode record %d: %w", i+1, err)
		}
	}
	return bw.Flush()
}

// WriteFile writes records to path through a temporary file in the same
// directory, so a failed run never leaves a partial output behind.
func WriteFile(path string, records []client.Record) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	if err := WriteJSONL(tmp, records); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
