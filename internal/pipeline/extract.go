package pipeline

import (
	"context"
	"fmt"

	"github.com/couchcryptid/plate-kinematics-etl/internal/domain"
)

// Window describes the reconstruction times to export: from StartMa (older)
// down to EndMa (younger) in StepMa decrements, both ends inclusive.
type Window struct {
	StartMa float64
	EndMa   float64
	StepMa  float64
}

// EngineExtractor walks the export window, asking the reconstruction engine
// for subduction convergence samples at each time step. The cursor only
// advances on success, so failed steps are retried.
type EngineExtractor struct {
	engine domain.ReconstructionEngine
	model  domain.Model
	window Window

	anchorPlateID int
	deltaTime     float64
	samplingDeg   float64

	next float64
	done bool
}

// NewEngineExtractor creates an extractor over the given export window.
func NewEngineExtractor(engine domain.ReconstructionEngine, model domain.Model, window Window, anchorPlateID int, deltaTime, samplingDeg float64) *EngineExtractor {
	return &EngineExtractor{
		engine:        engine,
		model:         model,
		window:        window,
		anchorPlateID: anchorPlateID,
		deltaTime:     deltaTime,
		samplingDeg:   samplingDeg,
		next:          window.StartMa,
	}
}

// Extract computes the convergence samples for the current time step and
// advances to the next one.
func (e *EngineExtractor) Extract(ctx context.Context) (Batch, bool, error) {
	if e.done {
		return Batch{}, true, nil
	}

	timeMa := e.next
	samples, err := e.engine.SubductionZones(ctx, domain.SubductionQuery{
		Model:             e.model.EngineTag,
		TimeMa:            timeMa,
		VelocityDeltaTime: e.deltaTime,
		SamplingDeg:       e.samplingDeg,
		AnchorPlateID:     e.anchorPlateID,
	})
	if err != nil {
		return Batch{}, false, fmt.Errorf("extract convergence at %g Ma: %w", timeMa, err)
	}

	e.next -= e.window.StepMa
	// Epsilon guards against float drift dropping the final (EndMa) step.
	if e.next < e.window.EndMa-1e-9 {
		e.done = true
	}
	return Batch{TimeMa: timeMa, Samples: samples}, false, nil
}
