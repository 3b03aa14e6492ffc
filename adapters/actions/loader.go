// Package actions loads usage events from JSON documents.
//
// A document is an array of records:
//
//	[{"id": "a1", "type": "server_traf", "target": "srv-1", "customer": "acme",
//	  "quantity": "100 GB", "time": "2024-01-01T00:00:00Z"}]
//
// Records without an id get a random UUID so that charges and skipped
// actions can always be traced back.
package actions

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"metered-billing/core/registry"
	"metered-billing/core/types"
	"metered-billing/core/units"
	"metered-billing/internal/errors"
	"metered-billing/internal/logging"
)

type record struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	TypeID     string         `json:"type_id"`
	Target     string         `json:"target"`
	TargetKind string         `json:"target_kind"`
	Customer   string         `json:"customer"`
	Seller     string         `json:"seller"`
	Quantity   units.Quantity `json:"quantity"`
	Time       time.Time      `json:"time"`
}

// Loader decodes action documents
type Loader struct {
	registry *registry.Registry
	newID    func() string
	logger   *zap.Logger
}

// NewLoader creates a loader resolving records through reg
func NewLoader(reg *registry.Registry, logger *zap.Logger) *Loader {
	return &Loader{registry: reg, newID: uuid.NewString, logger: logging.OrNop(logger)}
}

// LoadFile reads the actions in path
func (l *Loader) LoadFile(path string) ([]*types.Action, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.TypeInput, "failed to open actions file", err).
			WithContext("path", path)
	}
	defer f.Close()
	return l.Load(f)
}

// Load decodes the actions in r, in document order
func (l *Loader) Load(r io.Reader) ([]*types.Action, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var records []record
	if err := dec.Decode(&records); err != nil {
		return nil, errors.Parsing("invalid actions document", err)
	}

	out := make([]*types.Action, 0, len(records))
	for i, rec := range records {
		a, err := l.build(rec)
		if err != nil {
			return nil, errors.Wrapf(errors.TypeInput, err, "action %d", i)
		}
		out = append(out, a)
	}

	l.logger.Debug("actions loaded", zap.Int("count", len(out)))
	return out, nil
}

func (l *Loader) build(rec record) (*types.Action, error) {
	switch {
	case rec.Type == "" && rec.TypeID == "":
		return nil, errors.New(errors.TypeInput, "type is required")
	case rec.Customer == "":
		return nil, errors.New(errors.TypeInput, "customer is required")
	case rec.Quantity.Unit().IsZero():
		return nil, errors.New(errors.TypeInput, "quantity is required")
	case rec.Quantity.Value().IsNegative():
		return nil, errors.Newf(errors.TypeInput, "quantity %s is negative", rec.Quantity)
	case rec.Time.IsZero():
		return nil, errors.New(errors.TypeInput, "time is required")
	}

	id := rec.ID
	if id == "" {
		id = l.newID()
	}

	var target *types.Target
	if rec.Target != "" {
		target = l.registry.Target(rec.Target, "", rec.TargetKind)
	}

	return &types.Action{
		ID:       id,
		Type:     l.registry.Type(rec.TypeID, rec.Type),
		Target:   target,
		Customer: l.registry.Customer(rec.Customer, rec.Seller),
		Quantity: rec.Quantity,
		Time:     rec.Time,
	}, nil
}
