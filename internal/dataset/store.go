package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dividendlab/highyield/internal/market"
)

// Store is the read side of the artifact directory.
type Store struct {
	dir string
}

// NewStore creates a store reading from dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Securities loads one category's list artifact.
func (s *Store) Securities(cat market.Category) ([]market.Security, error) {
	name := FileREITs
	if cat == market.CategoryETF {
		name = FileETFs
	}

	var list []market.Security
	if err := s.read(name, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// Histories loads one category's histories artifact.
func (s *Store) Histories(cat market.Category) (map[string]market.History, error) {
	name := FileREITHistories
	if cat == market.CategoryETF {
		name = FileETFHistories
	}

	var histories map[string]market.History
	if err := s.read(name, &histories); err != nil {
		return nil, err
	}
	return histories, nil
}

// Meta loads the update metadata artifact.
func (s *Store) Meta() (*UpdateMeta, error) {
	var meta UpdateMeta
	if err := s.read(FileLastUpdate, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) read(name string, out interface{}) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}

	return nil
}
