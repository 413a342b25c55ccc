package models

import (
	"fmt"
	"strings"
	"time"
)

// CategoryRule is one category of the rule table with its keywords or patterns.
type CategoryRule struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// CategoriesConfig is the layout of the rules YAML file.
type CategoriesConfig struct {
	Categories []CategoryRule `yaml:"categories"`
}

// Correction is a user-confirmed category for a description.
type Correction struct {
	Description       string    `csv:"Description"`
	OriginalCategory  string    `csv:"Original_Category"`
	CorrectedCategory string    `csv:"Corrected_Category"`
	Timestamp         Timestamp `csv:"Timestamp"`
}

// TimestampLayout is how correction timestamps are written.
const TimestampLayout = "2006-01-02 15:04:05"

// Timestamp is a time that reads both TimestampLayout and RFC 3339 from CSV.
type Timestamp struct {
	time.Time
}

// MarshalCSV implements gocsv.TypeMarshaller.
func (t Timestamp) MarshalCSV() (string, error) {
	if t.IsZero() {
		return "", nil
	}
	return t.Format(TimestampLayout), nil
}

// UnmarshalCSV implements gocsv.TypeUnmarshaller.
func (t *Timestamp) UnmarshalCSV(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{TimestampLayout, time.RFC3339, "2006-01-02T15:04:05.999999"} {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp %q", s)
}
