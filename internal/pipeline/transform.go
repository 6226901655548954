package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/couchcryptid/plate-kinematics-etl/internal/domain"
	"github.com/couchcryptid/plate-kinematics-etl/internal/recon"
)

// exportedRow is the JSON payload published for one convergence sample.
type exportedRow struct {
	recon.ConvergenceRow

	Model      string    `json:"model"`
	RunID      string    `json:"run_id"`
	ExportedAt time.Time `json:"exported_at"`
}

// ConvergenceTransformer serializes convergence batches into sink rows. Row
// keys are deterministic hashes of the sample's identifying fields, so
// re-running an export window produces the same keys and downstream upserts
// stay idempotent.
type ConvergenceTransformer struct {
	model domain.Model
	runID string
}

// NewTransformer creates a ConvergenceTransformer with a fresh run ID.
func NewTransformer(model domain.Model) *ConvergenceTransformer {
	return &ConvergenceTransformer{
		model: model,
		runID: uuid.NewString(),
	}
}

// RunID identifies this export run in row payloads.
func (t *ConvergenceTransformer) RunID() string { return t.runID }

// Transform converts one time-step batch into serialized output rows.
func (t *ConvergenceTransformer) Transform(_ context.Context, batch Batch) ([]domain.OutputRow, error) {
	table := recon.NewConvergenceTable(batch.Samples, batch.TimeMa)
	exportedAt := domain.Now()

	rows := make([]domain.OutputRow, len(table.Rows))
	for i, r := range table.Rows {
		payload, err := json.Marshal(exportedRow{
			ConvergenceRow: r,
			Model:          t.model.EngineTag,
			RunID:          t.runID,
			ExportedAt:     exportedAt,
		})
		if err != nil {
			return nil, fmt.Errorf("serialize convergence row: %w", err)
		}
		rows[i] = domain.OutputRow{
			Key:   []byte(rowID(t.model.EngineTag, r)),
			Value: payload,
			Headers: map[string]string{
				"model":               t.model.EngineTag,
				"reconstruction_time": strconv.FormatFloat(batch.TimeMa, 'f', -1, 64),
			},
		}
	}
	return rows, nil
}

// rowID produces a deterministic ID from a row's identifying fields.
func rowID(model string, r recon.ConvergenceRow) string {
	input := fmt.Sprintf("%s|%.4f|%.4f|%.4f|%d|%d", model, r.TimeMa, r.Lon, r.Lat, r.SubductingPlate, r.OverridingPlate)
	hash := sha256.Sum256([]byte(input))
	return "conv-" + hex.EncodeToString(hash[:8])
}
