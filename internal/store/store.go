// Package store persists categorization data: the YAML rule table and the
// CSV file of user corrections.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"fjacquet/bankstmt/internal/logging"
	"fjacquet/bankstmt/internal/models"
	"fjacquet/bankstmt/internal/parsererror"

	"github.com/gocarina/gocsv"
	"gopkg.in/yaml.v3"
)

// FindConfigFile looks for filename as given, then under ./config and
// $HOME/.bankstmt. It returns os.ErrNotExist when none exists.
func FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err != nil {
			return "", os.ErrNotExist
		}
		return filename, nil
	}

	locations := []string{filename, filepath.Join("config", filename)}
	if home, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(home, ".bankstmt", filename))
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}
	return "", os.ErrNotExist
}

// RuleStore loads the category rule table.
type RuleStore struct {
	File   string
	logger logging.Logger
}

// NewRuleStore creates a RuleStore for file.
func NewRuleStore(file string, logger logging.Logger) *RuleStore {
	if logger == nil {
		logger = logging.Nop()
	}
	return &RuleStore{File: file, logger: logger}
}

// LoadRules reads the rule table. A missing file yields no rules and no error;
// callers fall back to the built-in table.
func (s *RuleStore) LoadRules() ([]models.CategoryRule, error) {
	path, err := FindConfigFile(s.File)
	if err != nil {
		s.logger.Debug("Rules file not found", logging.F(logging.FieldFile, s.File))
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &parsererror.StoreError{Path: path, Op: "read", Err: err}
	}

	var cfg models.CategoriesConfig
	if err := yaml.Unmarshal(data, &cfg); err == nil && len(cfg.Categories) > 0 {
		s.logger.Debug("Loaded category rules",
			logging.F(logging.FieldFile, path),
			logging.F(logging.FieldCount, len(cfg.Categories)))
		return cfg.Categories, nil
	}

	// a bare list without the top-level key
	var rules []models.CategoryRule
	if err := yaml.Unmarshal(data, &rules); err == nil && len(rules) > 0 {
		return rules, nil
	}

	// name: [keyword, ...]
	var byName yaml.Node
	if err := yaml.Unmarshal(data, &byName); err != nil {
		return nil, &parsererror.StoreError{Path: path, Op: "parse", Err: err}
	}
	return rulesFromMapping(&byName, path)
}

// rulesFromMapping reads a "name: [keywords]" document keeping file order.
func rulesFromMapping(doc *yaml.Node, path string) ([]models.CategoryRule, error) {
	if len(doc.Content) == 0 {
		return nil, nil
	}
	m := doc.Content[0]
	if m.Kind != yaml.MappingNode {
		return nil, &parsererror.StoreError{Path: path, Op: "parse", Err: errors.New("expected a list of categories or a mapping")}
	}

	rules := make([]models.CategoryRule, 0, len(m.Content)/2)
	for i := 0; i+1 < len(m.Content); i += 2 {
		var keywords []string
		if err := m.Content[i+1].Decode(&keywords); err != nil {
			return nil, &parsererror.StoreError{Path: path, Op: "parse", Err: fmt.Errorf("category %q: %w", m.Content[i].Value, err)}
		}
		rules = append(rules, models.CategoryRule{Name: m.Content[i].Value, Keywords: keywords})
	}
	return rules, nil
}

// SaveRules writes rules under the top-level "categories" key.
func (s *RuleStore) SaveRules(rules []models.CategoryRule) error {
	data, err := yaml.Marshal(models.CategoriesConfig{Categories: rules})
	if err != nil {
		return &parsererror.StoreError{Path: s.File, Op: "marshal", Err: err}
	}
	if dir := filepath.Dir(s.File); dir != "." {
		if err := os.MkdirAll(dir, models.PermissionDirectory); err != nil {
			return &parsererror.StoreError{Path: s.File, Op: "mkdir", Err: err}
		}
	}
	if err := os.WriteFile(s.File, data, models.PermissionConfigFile); err != nil {
		return &parsererror.StoreError{Path: s.File, Op: "write", Err: err}
	}
	return nil
}

// CorrectionStore reads and appends user corrections. Appends are serialized
// within the process.
type CorrectionStore struct {
	File   string
	logger logging.Logger
	mu     sync.Mutex
}

// NewCorrectionStore creates a CorrectionStore for file.
func NewCorrectionStore(file string, logger logging.Logger) *CorrectionStore {
	if logger == nil {
		logger = logging.Nop()
	}
	return &CorrectionStore{File: file, logger: logger}
}

// LoadCorrections reads every correction in file order. A missing file yields none.
func (s *CorrectionStore) LoadCorrections() ([]models.Correction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *CorrectionStore) load() ([]models.Correction, error) {
	file, err := os.Open(s.File)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, &parsererror.StoreError{Path: s.File, Op: "open", Err: err}
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			s.logger.WithError(cerr).Warn("Failed to close corrections file")
		}
	}()

	var corrections []models.Correction
	if err := gocsv.UnmarshalFile(file, &corrections); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return nil, nil
		}
		return nil, &parsererror.StoreError{Path: s.File, Op: "parse", Err: err}
	}
	return corrections, nil
}

// Append adds a correction and rewrites the file.
func (s *CorrectionStore) Append(c models.Correction) error {
	if strings.TrimSpace(c.Description) == "" || strings.TrimSpace(c.CorrectedCategory) == "" {
		return &parsererror.StoreError{Path: s.File, Op: "append", Err: errors.New("description and corrected category are required")}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	corrections, err := s.load()
	if err != nil {
		return err
	}
	corrections = append(corrections, c)

	if dir := filepath.Dir(s.File); dir != "." {
		if err := os.MkdirAll(dir, models.PermissionDirectory); err != nil {
			return &parsererror.StoreError{Path: s.File, Op: "mkdir", Err: err}
		}
	}
	file, err := os.OpenFile(s.File, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, models.PermissionFile)
	if err != nil {
		return &parsererror.StoreError{Path: s.File, Op: "create", Err: err}
	}
	if err := gocsv.MarshalFile(&corrections, file); err != nil {
		_ = file.Close()
		return &parsererror.StoreError{Path: s.File, Op: "write", Err: err}
	}
	if err := file.Close(); err != nil {
		return &parsererror.StoreError{Path: s.File, Op: "close", Err: err}
	}

	s.logger.Info("Correction saved",
		logging.F(logging.FieldFile, s.File),
		logging.F(logging.FieldCategory, c.CorrectedCategory),
		logging.F(logging.FieldCount, len(corrections)))
	return nil
}
