// Package slot holds the two user-supplied input files. A FileSlot accepts
// only spreadsheet workbooks and keeps its previous selection when a new
// candidate is rejected.
package slot

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"

	apperrors "github.com/agbru/secretsanta/internal/errors"
)

// SpreadsheetMediaType is the only media type a FileSlot accepts.
const SpreadsheetMediaType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Slot identifiers. They double as the multipart part names expected by the
// generation service.
const (
	Employees = "employeeList"
	LastYear  = "lastYearList"
)

// Candidate is a file the user picked, before validation. A nil *Candidate
// means the picker was cancelled.
type Candidate struct {
	Name      string
	Data      []byte
	MediaType string
}

// FileSelection is an accepted file. It is either the zero value (empty slot)
// or fully populated.
type FileSelection struct {
	Name      string
	Data      []byte
	MediaType string
}

// IsZero reports whether the selection is empty.
func (s FileSelection) IsZero() bool {
	return s.Name == "" && s.Data == nil && s.MediaType == ""
}

// FileSlot holds at most one FileSelection. It is safe for concurrent use.
type FileSlot struct {
	id string

	mu        sync.RWMutex
	selection FileSelection
	populated bool
}

// New creates an empty slot identified by id.
func New(id string) *FileSlot {
	return &FileSlot{id: id}
}

// ID returns the slot identifier.
func (s *FileSlot) ID() string { return s.id }

// Select validates candidate and, if it is a named spreadsheet, replaces the
// current selection with it. A rejected candidate leaves the slot untouched
// and yields an UnsupportedType validation error. A populated slot therefore
// always has a non-empty Name.
func (s *FileSlot) Select(candidate *Candidate) (FileSelection, error) {
	if candidate == nil || candidate.Name == "" || candidate.MediaType != SpreadsheetMediaType {
		return FileSelection{}, apperrors.NewUnsupportedTypeError(s.id)
	}

	sel := FileSelection{
		Name:      candidate.Name,
		Data:      candidate.Data,
		MediaType: candidate.MediaType,
	}

	s.mu.Lock()
	s.selection = sel
	s.populated = true
	s.mu.Unlock()
	return sel, nil
}

// Clear empties the slot unconditionally.
func (s *FileSlot) Clear() {
	s.mu.Lock()
	s.selection = FileSelection{}
	s.populated = false
	s.mu.Unlock()
}

// Selection returns the current selection and whether the slot is populated.
func (s *FileSlot) Selection() (FileSelection, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selection, s.populated
}

// Name returns the selected file name, or "" when the slot is empty.
func (s *FileSlot) Name() string {
	sel, _ := s.Selection()
	return sel.Name
}

// CandidateFromFile reads path and builds a Candidate whose media type is
// detected from the file content rather than its extension.
func CandidateFromFile(path string) (*Candidate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.WrapError(err, "reading %s", path)
	}
	return &Candidate{
		Name:      filepath.Base(path),
		Data:      data,
		MediaType: DetectMediaType(data),
	}, nil
}

// DetectMediaType sniffs the media type of data, without parameters.
func DetectMediaType(data []byte) string {
	mt := mimetype.Detect(data)
	if mt.Is(SpreadsheetMediaType) {
		return SpreadsheetMediaType
	}
	// Text formats carry a charset parameter.
	base, _, _ := strings.Cut(mt.String(), ";")
	return base
}
