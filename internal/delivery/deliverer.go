// Package delivery saves a generated spreadsheet to the user's output
// directory. The payload is first written to a uniquely named transient file
// which is then renamed to the suggested name; the transient file never
// outlives a Deliver call.
package delivery

import (
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	apperrors "github.com/agbru/secretsanta/internal/errors"
	"github.com/agbru/secretsanta/internal/logging"
)

// Defaults for the saved artifact.
const (
	DefaultFileName = "secret_santa_assignments.xlsx"
	SuccessMessage  = "Assignments downloaded successfully"

	partialSuffix = ".partial"
)

// Payload is a successful generation result ready to be saved.
type Payload struct {
	Data       []byte
	FileName   string
	HasMatches bool
	RequestID  string
}

// GenerationOutcome describes a delivered result.
type GenerationOutcome struct {
	DeliveredFileName string
	Path              string
	Message           string
	HasMatches        bool
	Size              int64
	RequestID         string
}

// Deliverer writes payloads into a directory.
type Deliverer struct {
	dir    string
	name   string
	logger logging.Logger

	// create opens the transient file exclusively.
	create func(path string) (transientFile, error)
	// save moves the transient file to its final path.
	save func(tmp, dst string) error
}

// transientFile is the write side of the staged payload.
type transientFile interface {
	io.Writer
	Close() error
}

func createExclusive(path string) (transientFile, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Option configures a Deliverer.
type Option func(*Deliverer)

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(d *Deliverer) { d.logger = l }
}

// WithSaveFunc replaces the function that moves the transient file into place.
func WithSaveFunc(fn func(tmp, dst string) error) Option {
	return func(d *Deliverer) { d.save = fn }
}

// New creates a Deliverer saving into dir under name. Empty values fall back
// to the working directory and DefaultFileName.
func New(dir, name string, opts ...Option) *Deliverer {
	if dir == "" {
		dir = "."
	}
	if name == "" {
		name = DefaultFileName
	}
	d := &Deliverer{dir: dir, name: name, logger: logging.Nop(), create: createExclusive, save: os.Rename}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dir returns the output directory.
func (d *Deliverer) Dir() string { return d.dir }

// release removes the transient file. After a successful save it no longer
// exists.
func (d *Deliverer) release(tmp string) {
	if err := os.Remove(tmp); err != nil && !os.IsNotExist(err) {
		d.logger.Error("failed to release transient file", err, logging.String("path", tmp))
	}
}

// Deliver saves payload and reports where it went. payload.FileName overrides
// the configured name when set. The transient file is removed on every exit
// path, including a failed save or a panic.
func (d *Deliverer) Deliver(payload Payload) (GenerationOutcome, error) {
	name := payload.FileName
	if name == "" {
		name = d.name
	}
	dst := filepath.Join(d.dir, name)

	tmp := filepath.Join(d.dir, "."+uuid.NewString()+partialSuffix)
	f, err := d.create(tmp)
	if err != nil {
		return GenerationOutcome{}, apperrors.DeliveryError{Path: dst, Cause: err}
	}
	// Registered before the first write: a short write still leaves a file.
	defer d.release(tmp)

	if _, err := f.Write(payload.Data); err != nil {
		_ = f.Close()
		return GenerationOutcome{}, apperrors.DeliveryError{Path: dst, Cause: apperrors.WrapError(err, "writing")}
	}
	if err := f.Close(); err != nil {
		return GenerationOutcome{}, apperrors.DeliveryError{Path: dst, Cause: apperrors.WrapError(err, "writing")}
	}

	if err := d.save(tmp, dst); err != nil {
		return GenerationOutcome{}, apperrors.DeliveryError{Path: dst, Cause: apperrors.WrapError(err, "saving")}
	}

	d.logger.Info("assignments saved",
		logging.String("path", dst),
		logging.Int("bytes", len(payload.Data)),
		logging.Bool("has_matches", payload.HasMatches),
		logging.String("request_id", payload.RequestID),
	)
	return GenerationOutcome{
		DeliveredFileName: name,
		Path:              dst,
		Message:           SuccessMessage,
		HasMatches:        payload.HasMatches,
		Size:              int64(len(payload.Data)),
		RequestID:         payload.RequestID,
	}, nil
}
