package normalize

import (
	"fmt"

	"github.com/GoSim-25-26J-441/go-optimization-backend/internal/optimization/domain"
)

// ClassifyStatus maps the solver's top-level status string onto the status enum.
//
// Only the exact literals "error", "Unbounded" and "infeasible" are failures. Anything else,
// including a missing status or "Infeasible", is treated as success. This mirrors what the
// dashboard has always accepted.
// TODO: tighten to case-insensitive matching once the solver settles on one casing.
func ClassifyStatus(resp domain.SolverResponse) domain.Status {
	raw, _ := resp["status"].(string)
	switch raw {
	case "error":
		return domain.StatusError
	case "Unbounded":
		return domain.StatusUnbounded
	case "infeasible":
		return domain.StatusInfeasible
	default:
		return domain.StatusOK
	}
}

// StatusError converts a failure status into a SolverStatusError carrying the solver's message
func StatusError(module domain.ModuleID, resp domain.SolverResponse) error {
	status := ClassifyStatus(resp)
	if status == domain.StatusOK {
		return nil
	}
	msg, _ := resp["message"].(string)
	if msg == "" {
		raw, _ := resp["status"].(string)
		msg = fmt.Sprintf("Error: %s", raw)
	}
	return &domain.SolverStatusError{Module: module, Status: status, Message: msg}
}
