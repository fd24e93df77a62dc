package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/descbench/internal/bridge"
	"github.com/phrazzld/descbench/internal/experiment"
)

// Run records the configuration one descriptor of an experiment was run
// with. Parameters holds the JSON encoding of the flat legacy projection.
type Run struct {
	ID              uuid.UUID
	ExperimentName  string
	DescriptorName  string
	DescriptorType  string
	DatasetPath     string
	PoolingStrategy string
	MatchThreshold  float64
	MaxFeatures     int
	ConfigHash      string
	Parameters      json.RawMessage
	CreatedAt       time.Time
}

// NewRun builds the record for descriptor index of cfg. fingerprint is the
// experiment.Fingerprint of cfg, computed once per experiment by the caller.
func NewRun(cfg *experiment.Config, index int, fingerprint string) (*Run, error) {
	flat, err := bridge.ToLegacyAt(cfg, index)
	if err != nil {
		return nil, err
	}
	params, err := json.Marshal(flat)
	if err != nil {
		return nil, fmt.Errorf("encode run parameters: %w", err)
	}

	d := cfg.Descriptors[index]
	run := &Run{
		ID:              uuid.New(),
		ExperimentName:  cfg.Experiment.Name,
		DescriptorName:  d.Name,
		DescriptorType:  d.Type.String(),
		DatasetPath:     cfg.Dataset.Path,
		PoolingStrategy: d.Params.Pooling.String(),
		MatchThreshold:  flat.MatchThreshold,
		MaxFeatures:     flat.MaxFeatures,
		ConfigHash:      fingerprint,
		Parameters:      params,
		CreatedAt:       time.Now().UTC(),
	}
	if err := run.Validate(); err != nil {
		return nil, err
	}
	return run, nil
}

// Validate checks that the run carries the fields every store requires.
func (r *Run) Validate() error {
	var errs []error
	if r.ID == uuid.Nil {
		errs = append(errs, errors.New("id is required"))
	}
	if r.DescriptorName == "" {
		errs = append(errs, errors.New("descriptor name is required"))
	}
	if r.DescriptorType == "" {
		errs = append(errs, errors.New("descriptor type is required"))
	}
	if r.ConfigHash == "" {
		errs = append(errs, errors.New("config hash is required"))
	}
	if len(r.Parameters) > 0 && !json.Valid(r.Parameters) {
		errs = append(errs, errors.New("parameters must be valid JSON"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidEntity, errors.Join(errs...))
	}
	return nil
}

// RunStore defines the interface for run record persistence.
type RunStore interface {
	// Record saves a new run. Returns ErrInvalidEntity if the run fails
	// validation and ErrDuplicate if its ID is already stored.
	Record(ctx context.Context, run *Run) error

	// Get retrieves a run by ID. Returns ErrRunNotFound if it does not exist.
	Get(ctx context.Context, id uuid.UUID) (*Run, error)

	// ListByExperiment returns all runs of the named experiment, oldest first.
	// Returns an empty slice when there are none.
	ListByExperiment(ctx context.Context, experimentName string) ([]*Run, error)

	// WithTx returns a RunStore that executes against tx.
	WithTx(tx *sql.Tx) RunStore
}
