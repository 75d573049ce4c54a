package importhelpers

import (
	"sort"
	"strings"
)

// ImportSet collects records, collapsing equal import lines
type ImportSet struct {
	records map[string]ImportRecord
}

// NewImportSet creates a set from records
func NewImportSet(records ...ImportRecord) *ImportSet {
	s := &ImportSet{records: make(map[string]ImportRecord)}
	s.Add(records...)
	return s
}

// Add inserts records, skipping empty and builtins ones
func (s *ImportSet) Add(records ...ImportRecord) {
	for _, record := range records {
		if record.IsEmpty() || record.Source.IsBuiltins() {
			continue
		}
		s.records[record.Key()] = record
	}
}

// Merge adds every record of other
func (s *ImportSet) Merge(other *ImportSet) {
	if other == nil {
		return
	}
	for _, record := range other.records {
		s.Add(record)
	}
}

// Filter returns a new set with the records keep accepts
func (s *ImportSet) Filter(keep func(ImportRecord) bool) *ImportSet {
	result := NewImportSet()
	for _, record := range s.records {
		if keep(record) {
			result.Add(record)
		}
	}
	return result
}

// Len returns the number of distinct records
func (s *ImportSet) Len() int {
	return len(s.records)
}

// Contains reports whether an equal record was added
func (s *ImportSet) Contains(record ImportRecord) bool {
	_, ok := s.records[record.Key()]
	return ok
}

// Records returns the sorted records. A sys import is added when a
// version-guarded record needs it.
func (s *ImportSet) Records() []ImportRecord {
	result := make([]ImportRecord, 0, len(s.records)+1)
	needsSys := false
	for _, record := range s.records {
		result = append(result, record)
		if record.NeedsSysImport() {
			needsSys = true
		}
	}
	sysRecord := NewImportRecord(Sys, "", "")
	if needsSys && !s.Contains(sysRecord) {
		result = append(result, sysRecord)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Less(result[j])
	})
	return result
}

// Render produces the import block: plain imports grouped stdlib,
// third-party, local with a blank line between groups, then guarded imports.
func (s *ImportSet) Render() string {
	var blocks []string
	var current []string
	currentGroup := ImportGroup(-1)
	var guarded []string

	for _, record := range s.Records() {
		if record.NeedsSysImport() {
			guarded = append(guarded, record.RenderBlock())
			continue
		}
		group := record.Source.Group()
		if group != currentGroup && len(current) > 0 {
			blocks = append(blocks, strings.Join(current, "\n"))
			current = nil
		}
		currentGroup = group
		current = append(current, record.Render())
	}
	if len(current) > 0 {
		blocks = append(blocks, strings.Join(current, "\n"))
	}
	blocks = append(blocks, guarded...)
	return strings.Join(blocks, "\n\n")
}
