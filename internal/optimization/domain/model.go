package domain

import "time"

// ModuleID identifies one of the three solver modules of the dashboard
type ModuleID string

const (
	ModuleLinear    ModuleID = "linear"
	ModuleTransport ModuleID = "transport"
	ModuleNetwork   ModuleID = "network"
)

// Modules lists the modules in display order
var Modules = []ModuleID{ModuleLinear, ModuleTransport, ModuleNetwork}

// Valid reports whether m is a known module
func (m ModuleID) Valid() bool {
	switch m {
	case ModuleLinear, ModuleTransport, ModuleNetwork:
		return true
	}
	return false
}

// Status is the normalized outcome reported by a solver
type Status string

const (
	StatusOK         Status = "ok"
	StatusInfeasible Status = "infeasible"
	StatusUnbounded  Status = "unbounded"
	StatusError      Status = "error"
)

// CaptureState is the lifecycle position of a module capture
type CaptureState string

const (
	StateAbsent   CaptureState = "absent"
	StateSolving  CaptureState = "solving"
	StateCaptured CaptureState = "captured"
)

// SolverResponse is the untyped payload returned by the external solver
type SolverResponse map[string]interface{}

// NodeID is a case-normalized graph node identifier
type NodeID string

// GraphEdge is one directed edge of the network model
type GraphEdge struct {
	From     NodeID  `json:"from"`
	To       NodeID  `json:"to"`
	Weight   float64 `json:"weight"`
	Capacity float64 `json:"capacity"`
}

// ModuleCapture is the retained summary of one module's successful solve
type ModuleCapture struct {
	ModuleID             ModuleID       `json:"module_id"`
	ObjectiveOrCost      float64        `json:"objective_or_cost"`
	TotalUnitsOrCapacity float64        `json:"total_units_or_capacity"`
	SummaryText          string         `json:"summary_text"`
	Raw                  SolverResponse `json:"raw"`
	CapturedAt           time.Time      `json:"captured_at"`
}

// LinearConstraint is one typed constraint row sent to the solver
type LinearConstraint struct {
	Coeffs []float64 `json:"coeffs"`
	Sign   string    `json:"sign"`
	RHS    float64   `json:"rhs"`
}

// LinearRequest is the outbound payload for the linear programming solver
type LinearRequest struct {
	Objective       string             `json:"objective"`
	Variables       []string           `json:"variables"`
	ObjectiveCoeffs []float64          `json:"objective_coeffs"`
	Constraints     []LinearConstraint `json:"constraints"`
	Method          string             `json:"method"`
}

// TransportRequest is the outbound payload for the transportation solver
type TransportRequest struct {
	Supply []float64   `json:"supply"`
	Demand []float64   `json:"demand"`
	Costs  [][]float64 `json:"costs"`
	Method string      `json:"method"`
}

// NetworkRequest is the outbound payload for the network solver.
// Each tuple is from, to, weight, capacity.
type NetworkRequest struct {
	Graph [][4]interface{} `json:"graph"`
}

// NewNetworkRequest converts edges into the solver's tuple encoding
func NewNetworkRequest(edges []GraphEdge) NetworkRequest {
	graph := make([][4]interface{}, 0, len(edges))
	for _, e := range edges {
		graph = append(graph, [4]interface{}{string(e.From), string(e.To), e.Weight, e.Capacity})
	}
	return NetworkRequest{Graph: graph}
}

// Linear methods accepted by the solver
const (
	MethodSimplex   = "simplex"
	MethodTwoPhase  = "two_phase"
	MethodBigM      = "m_big"
	MethodDual      = "dual"
	MethodGraphical = "graphical"
)

// Transport methods accepted by the solver
const (
	MethodNorthwest   = "northwest"
	MethodMinimumCost = "minimum_cost"
	MethodVogel       = "vogel"
)
