package service

import (
	"fmt"
	"math"
	"time"

	"github.com/GoSim-25-26J-441/go-optimization-backend/internal/optimization/domain"
	"github.com/GoSim-25-26J-441/go-optimization-backend/internal/optimization/normalize"
	"github.com/GoSim-25-26J-441/go-optimization-backend/internal/optimization/synthesis"
)

// deriveCapture turns a normalized, successful result into the module's capture.
// declaredCapacity is the transport supply total of the submitted request.
func deriveCapture(result *normalize.Result, declaredCapacity float64, now time.Time) (*domain.ModuleCapture, error) {
	module := result.Module()
	objective, ok := result.ObjectiveValue()
	if !ok {
		return nil, &domain.SolverStatusError{
			Module:  module,
			Status:  domain.StatusError,
			Message: domain.ErrMissingObjective.Error(),
		}
	}

	c := &domain.ModuleCapture{
		ModuleID:   module,
		Raw:        result.Raw(),
		CapturedAt: now,
	}
	switch module {
	case domain.ModuleLinear:
		c.ObjectiveOrCost = objective
		c.TotalUnitsOrCapacity = result.VariableTotal()
		c.SummaryText = fmt.Sprintf("Optimal objective Z = %s with %s total units produced.",
			normalize.FormatScalar(objective), synthesis.FormatAmount(c.TotalUnitsOrCapacity))
	case domain.ModuleTransport:
		c.ObjectiveOrCost = objective
		c.TotalUnitsOrCapacity = declaredCapacity
		c.SummaryText = fmt.Sprintf("Total transport cost $%s for a declared capacity of %s units.",
			synthesis.FormatAmount(objective), synthesis.FormatAmount(declaredCapacity))
	case domain.ModuleNetwork:
		c.TotalUnitsOrCapacity = objective
		if cost, ok := result.NetworkValue(normalize.NetworkMinCostFlow); ok {
			c.ObjectiveOrCost = cost
		} else if weight, ok := result.NetworkValue(normalize.NetworkShortestPath); ok {
			c.ObjectiveOrCost = weight
		}
		c.SummaryText = fmt.Sprintf("Maximum network flow of %s units at a cost of %s.",
			synthesis.FormatAmount(objective), synthesis.FormatAmount(c.ObjectiveOrCost))
	}
	if !finite(c.ObjectiveOrCost) || !finite(c.TotalUnitsOrCapacity) {
		return nil, &domain.SolverStatusError{
			Module:  module,
			Status:  domain.StatusError,
			Message: "solver result totals are out of range",
		}
	}
	if narrative := result.Narrative(); narrative != "" {
		c.SummaryText = narrative
	}
	return c, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
