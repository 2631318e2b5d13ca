package http

import (
	"errors"
	"net/http"

	"github.com/GoSim-25-26J-441/go-optimization-backend/internal/optimization/domain"
	"github.com/gin-gonic/gin"
)

// Error codes returned in the "code" field
const (
	CodeValidation      = "validation_error"
	CodeNotFound        = "not_found"
	CodeSolveInProgress = "solve_in_progress"
	CodeStaleResult     = "stale_result"
	CodeSolverStatus    = "solver_status"
	CodeSolverUnavail   = "solver_unavailable"
	CodeInternal        = "internal_error"
)

// writeError maps a service error onto a status code and error body
func writeError(c *gin.Context, err error) {
	var (
		verr *domain.ValidationError
		serr *domain.SolverStatusError
		terr *domain.TransportError
	)
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "code": CodeValidation, "fields": verr.Fields})
	case errors.Is(err, domain.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found", "code": CodeNotFound})
	case errors.Is(err, domain.ErrUnknownModule):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "code": CodeNotFound})
	case errors.Is(err, domain.ErrSolveInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "code": CodeSolveInProgress})
	case errors.Is(err, domain.ErrStaleResult):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "code": CodeStaleResult})
	case errors.As(err, &serr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": serr.Error(), "code": CodeSolverStatus, "status": serr.Status})
	case errors.As(err, &terr):
		c.JSON(http.StatusBadGateway, gin.H{"error": terr.Error(), "code": CodeSolverUnavail})
	case errors.Is(err, domain.ErrEdgeIndexOutOfRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": CodeValidation})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error", "code": CodeInternal})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg, "code": CodeValidation})
}
