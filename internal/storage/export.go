package storage

import (
	"encoding/json"
	"io"
	"os"
)

// ExportJSON writes rec, controls included, as indented JSON.
func ExportJSON(w io.Writer, rec *Record) error {
	sr := storedRecord{Record: rec, Controls: make([][]Control, len(rec.Results))}
	for i, res := range rec.Results {
		sr.Controls[i] = res.Controls
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(sr)
}

func ExportJSONFile(path string, rec *Record) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return ExportJSON(file, rec)
}
