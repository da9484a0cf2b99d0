package storage

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// FileStore keeps one directory per run holding metadata.json and
// controls.csv.
type FileStore struct {
	baseDir string
}

func NewFileStore(baseDir string) *FileStore {
	return &FileStore{baseDir: baseDir}
}

func (s *FileStore) Init(_ context.Context) error {
	if s.baseDir == "" {
		return errors.New("file store path is required")
	}
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *FileStore) Save(_ context.Context, rec *Record) (string, error) {
	prepare(rec)
	runDir := filepath.Join(s.baseDir, rec.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rec); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "controls.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write([]string{"result", "num", "index", "value"}); err != nil {
		return "", err
	}
	for i, res := range rec.Results {
		for j, c := range res.Controls {
			row := []string{
				strconv.Itoa(i),
				strconv.Itoa(c.Num),
				strconv.Itoa(j),
				strconv.FormatFloat(c.Value, 'g', -1, 64),
			}
			if err := w.Write(row); err != nil {
				return "", err
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return rec.ID, nil
}

func (s *FileStore) Load(_ context.Context, id string) (*Record, error) {
	rec, err := s.loadMetadata(id)
	if err != nil {
		return nil, err
	}
	if err := s.loadControls(id, rec); err != nil {
		return nil, fmt.Errorf("load controls of %s: %w", id, err)
	}
	return rec, nil
}

func (s *FileStore) loadMetadata(id string) (*Record, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, "metadata.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *FileStore) loadControls(id string, rec *Record) error {
	file, err := os.Open(filepath.Join(s.baseDir, id, "controls.csv"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return err
	}

	for _, row := range records[min(1, len(records)):] {
		if len(row) != 4 {
			return fmt.Errorf("malformed row %v", row)
		}
		i, err := strconv.Atoi(row[0])
		if err != nil {
			return err
		}
		num, err := strconv.Atoi(row[1])
		if err != nil {
			return err
		}
		v, err := strconv.ParseFloat(row[3], 64)
		if err != nil {
			return err
		}
		if i < 0 || i >= len(rec.Results) {
			return fmt.Errorf("result index %d out of range", i)
		}
		rec.Results[i].Controls = append(rec.Results[i].Controls, Control{Num: num, Value: v})
	}
	return nil
}

// List returns the metadata of every run; controls are not loaded.
func (s *FileStore) List(_ context.Context) ([]*Record, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []*Record{}, nil
		}
		return nil, err
	}

	recs := make([]*Record, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		rec, err := s.loadMetadata(entry.Name())
		if err != nil {
			continue
		}
		recs = append(recs, rec)
	}

	sortRecords(recs)
	return recs, nil
}

func (s *FileStore) Close() error { return nil }
