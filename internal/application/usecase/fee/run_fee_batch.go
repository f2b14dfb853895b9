package fee

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/building-ledger/backend/internal/application/adapter"
)

// RunFeeBatchInput identifies the period to charge across all buildings.
type RunFeeBatchInput struct {
	Period string // YYYY-MM
}

// BuildingFailure records one building whose fee run failed.
type BuildingFailure struct {
	BuildingID uuid.UUID
	Err        error
}

// RunFeeBatchOutput reports the outcome of a batch run.
type RunFeeBatchOutput struct {
	Processed int
	Skipped   int
	Failed    []BuildingFailure
}

// RunFeeBatchUseCase generates monthly fees for every building. Buildings
// are processed concurrently by a small worker pool; each building is its
// own isolated run, so one failure never blocks the others.
type RunFeeBatchUseCase struct {
	buildingRepo adapter.BuildingRepository
	generate     *GenerateMonthlyFeesUseCase
	workerCount  int
}

// NewRunFeeBatchUseCase creates a new RunFeeBatchUseCase instance.
func NewRunFeeBatchUseCase(
	buildingRepo adapter.BuildingRepository,
	generate *GenerateMonthlyFeesUseCase,
	workerCount int,
) *RunFeeBatchUseCase {
	if workerCount < 1 {
		workerCount = 1
	}
	return &RunFeeBatchUseCase{
		buildingRepo: buildingRepo,
		generate:     generate,
		workerCount:  workerCount,
	}
}

// Execute runs the batch for all buildings.
func (uc *RunFeeBatchUseCase) Execute(ctx context.Context, input RunFeeBatchInput) (*RunFeeBatchOutput, error) {
	buildings, err := uc.buildingRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list buildings: %w", err)
	}

	type result struct {
		buildingID uuid.UUID
		skipped    bool
		err        error
	}

	jobs := make(chan uuid.UUID)
	results := make(chan result, len(buildings))

	var wg sync.WaitGroup
	for i := 0; i < uc.workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for buildingID := range jobs {
				out, err := uc.generate.Execute(ctx, GenerateMonthlyFeesInput{
					BuildingID: buildingID,
					Period:     input.Period,
				})
				if err != nil {
					results <- result{buildingID: buildingID, err: err}
					continue
				}
				results <- result{buildingID: buildingID, skipped: out.Skipped}
			}
		}()
	}

	for _, building := range buildings {
		jobs <- building.ID
	}
	close(jobs)
	wg.Wait()
	close(results)

	output := &RunFeeBatchOutput{}
	for r := range results {
		switch {
		case r.err != nil:
			slog.Error("Fee run failed for building",
				"building_id", r.buildingID, "period", input.Period, "error", r.err)
			output.Failed = append(output.Failed, BuildingFailure{BuildingID: r.buildingID, Err: r.err})
		case r.skipped:
			output.Skipped++
		default:
			output.Processed++
		}
	}

	slog.Info("Monthly fee batch finished",
		"period", input.Period,
		"processed", output.Processed,
		"skipped", output.Skipped,
		"failed", len(output.Failed))

	return output, nil
}
