// Package manifest describes the artifacts one pipeline stage produced so the
// next stage can consume exactly those files.
package manifest

import (
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rxtech-lab/argo-medallion/internal/types"
	"github.com/rxtech-lab/argo-medallion/pkg/errors"
)

// Stage names a medallion layer.
type Stage string

const (
	StageBronze Stage = "bronze"
	StageSilver Stage = "silver"
	StageGold   Stage = "gold"
)

// Artifact is one file written by a stage.
type Artifact struct {
	Path   string
	Symbol string
	Source types.Source
	Rows   int
	// Input is the upstream file the artifact was derived from, if any.
	Input string
}

// Failure is one item a stage could not process.
type Failure struct {
	// Item is the symbol or input path that failed.
	Item string
	Err  error
}

// Manifest is the multi-status result of a stage run.
type Manifest struct {
	RunID     string
	Stage     Stage
	CreatedAt time.Time
	Artifacts []Artifact
	Failures  []Failure
}

// New creates an empty manifest with a fresh run id.
func New(stage Stage, createdAt time.Time) *Manifest {
	return &Manifest{
		RunID:     uuid.NewString(),
		Stage:     stage,
		CreatedAt: createdAt,
	}
}

// Add records a written artifact.
func (m *Manifest) Add(a Artifact) {
	m.Artifacts = append(m.Artifacts, a)
}

// Fail records a failed item.
func (m *Manifest) Fail(item string, err error) {
	m.Failures = append(m.Failures, Failure{Item: item, Err: err})
}

// OK reports whether every attempted item succeeded.
func (m *Manifest) OK() bool {
	return len(m.Failures) == 0
}

// Attempted is the number of items the stage tried.
func (m *Manifest) Attempted() int {
	return len(m.Artifacts) + len(m.Failures)
}

// Paths returns artifact paths in the order they were written.
func (m *Manifest) Paths() []string {
	paths := make([]string, 0, len(m.Artifacts))
	for _, a := range m.Artifacts {
		paths = append(paths, a.Path)
	}

	return paths
}

// Rows is the total row count across artifacts.
func (m *Manifest) Rows() int {
	total := 0
	for _, a := range m.Artifacts {
		total += a.Rows
	}

	return total
}

// Summary is a one-line "N of M succeeded" description.
func (m *Manifest) Summary() string {
	return fmt.Sprintf("%s: %d of %d succeeded", m.Stage, len(m.Artifacts), m.Attempted())
}

// Err returns nil when the stage fully succeeded, otherwise an
// ErrCodeStageFailed error joining every item failure.
func (m *Manifest) Err() error {
	if m.OK() {
		return nil
	}

	errs := make([]error, 0, len(m.Failures))
	for _, f := range m.Failures {
		errs = append(errs, fmt.Errorf("%s: %w", f.Item, f.Err))
	}

	return errors.Wrap(errors.ErrCodeStageFailed, m.Summary(), stderrors.Join(errs...))
}
