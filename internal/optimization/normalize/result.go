package normalize

import (
	"fmt"
	"sort"

	"github.com/GoSim-25-26J-441/go-optimization-backend/internal/optimization/domain"
)

// Fields the solver endpoints are known to use
const (
	FieldObjectiveValue      = "objective_value"
	FieldVariableValues      = "variable_values"
	FieldTotalCost           = "total_cost"
	FieldInitialCost         = "initial_cost"
	FieldOptimalSolution     = "optimal_solution"
	FieldSteps               = "steps"
	FieldSensitivityAnalysis = "sensitivity_analysis"
	FieldSensitivity         = "sensitivity"
	FieldIntelligentAnalysis = "intelligent_analysis"
	FieldGraphImage          = "graph_image"
	FieldGraph               = "graph"
	FieldNetworkNarrative    = "sensitivity_analysis_gemini"
)

// Network methods, in display order
const (
	NetworkShortestPath = "shortest_path"
	NetworkMST          = "mst"
	NetworkMaxFlow      = "max_flow"
	NetworkMinCostFlow  = "min_cost_flow"
)

// NetworkMethods lists the network sub-results in display order
var NetworkMethods = []string{NetworkShortestPath, NetworkMST, NetworkMaxFlow, NetworkMinCostFlow}

var networkHeadline = map[string]string{
	NetworkShortestPath: "total_weight",
	NetworkMST:          "total_weight",
	NetworkMaxFlow:      "max_flow",
	NetworkMinCostFlow:  "min_cost",
}

// TableauStep is one iteration snapshot of a simplex-style solve
type TableauStep struct {
	Description string      `json:"description"`
	Headers     []string    `json:"headers"`
	Tableau     [][]float64 `json:"tableau"`
	BasicVars   []string    `json:"basic_vars"`
	Pivot       *[2]int     `json:"pivot"`
}

// NetworkMethodResult is one algorithm's output inside a network response
type NetworkMethodResult struct {
	Method     string      `json:"method"`
	Value      *float64    `json:"value"`
	NodeOrder  []string    `json:"node_order,omitempty"`
	GraphImage *GraphImage `json:"graph_image,omitempty"`
}

// Result is a normalized solver response. Its resolved values are fixed at construction.
type Result struct {
	module      domain.ModuleID
	status      domain.Status
	objective   *float64
	variables   map[string]float64
	order       []string
	steps       []TableauStep
	sensitivity interface{}
	narrative   string
	image       *GraphImage
	initialCost *float64
	allocation  [][]float64
	network     []NetworkMethodResult
	raw         domain.SolverResponse
}

// Normalize resolves every known field of resp for the given module
func Normalize(module domain.ModuleID, resp domain.SolverResponse) (*Result, error) {
	if !module.Valid() {
		return nil, domain.ErrUnknownModule
	}
	r := &Result{
		module: module,
		status: ClassifyStatus(resp),
		raw:    resp,
	}

	switch module {
	case domain.ModuleLinear:
		r.objective = optionalNumber(resp, FieldObjectiveValue)
		if vars, ok := numberMap(Resolve(resp, FieldVariableValues)); ok {
			r.variables = vars
			for name := range vars {
				r.order = append(r.order, name)
			}
			sort.Slice(r.order, func(i, j int) bool {
				a, b := r.order[i], r.order[j]
				if len(a) != len(b) {
					return len(a) < len(b)
				}
				return a < b
			})
		}
	case domain.ModuleTransport:
		r.objective = optionalNumber(resp, FieldTotalCost)
		r.initialCost = optionalNumber(resp, FieldInitialCost)
		r.allocation = numberMatrix(Resolve(resp, FieldOptimalSolution))
		if r.allocation != nil {
			r.variables = make(map[string]float64)
			for i, row := range r.allocation {
				for j, cell := range row {
					name := fmt.Sprintf("O%d-D%d", i+1, j+1)
					r.variables[name] = cell
					r.order = append(r.order, name)
				}
			}
		}
	case domain.ModuleNetwork:
		r.normalizeNetwork(resp)
	}

	r.steps = parseSteps(Resolve(resp, FieldSteps))
	r.sensitivity = Resolve(resp, FieldSensitivityAnalysis)
	if r.sensitivity == nil {
		r.sensitivity = Resolve(resp, FieldSensitivity)
	}
	r.narrative = r.resolveNarrative(resp)
	r.image = ParseGraphImage(Resolve(resp, FieldGraphImage))
	if r.image == nil {
		r.image = ParseGraphImage(Resolve(resp, FieldGraph))
	}
	return r, nil
}

func (r *Result) normalizeNetwork(resp domain.SolverResponse) {
	for _, method := range NetworkMethods {
		sub, ok := ResolveObject(resp, method)
		if !ok {
			continue
		}
		m := NetworkMethodResult{
			Method:     method,
			Value:      optionalNumber(sub, networkHeadline[method]),
			GraphImage: ParseGraphImage(sub[FieldGraphImage]),
		}
		if order, ok := sub["node_order"].([]interface{}); ok {
			for _, n := range order {
				m.NodeOrder = append(m.NodeOrder, fmt.Sprint(n))
			}
		}
		r.network = append(r.network, m)
		if m.Value != nil {
			if r.variables == nil {
				r.variables = make(map[string]float64)
			}
			r.variables[method] = *m.Value
			r.order = append(r.order, method)
		}
		if method == NetworkMaxFlow {
			r.objective = m.Value
		}
	}
}

func (r *Result) resolveNarrative(resp domain.SolverResponse) string {
	if s, ok := ResolveString(resp, FieldIntelligentAnalysis); ok && s != "" {
		return s
	}
	if s, ok := ResolveString(resp, FieldSensitivityAnalysis); ok && s != "" {
		return s
	}
	if sp, ok := ResolveObject(resp, NetworkShortestPath); ok {
		if s, ok := sp[FieldNetworkNarrative].(string); ok {
			return s
		}
	}
	return ""
}

func optionalNumber(resp domain.SolverResponse, field string) *float64 {
	f, ok := ResolveNumber(resp, field)
	if !ok {
		return nil
	}
	return &f
}

// numberMatrix decodes a rectangular or ragged matrix. A non-numeric cell makes the
// whole matrix absent rather than reading as zero.
func numberMatrix(v interface{}) [][]float64 {
	rows, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([][]float64, 0, len(rows))
	for _, raw := range rows {
		cells, ok := raw.([]interface{})
		if !ok {
			return nil
		}
		row := make([]float64, len(cells))
		for j, c := range cells {
			n, ok := toNumber(c)
			if !ok {
				return nil
			}
			row[j] = n
		}
		out = append(out, row)
	}
	return out
}

func parseSteps(v interface{}) []TableauStep {
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	steps := make([]TableauStep, 0, len(items))
	for _, item := range items {
		obj, ok := asObject(item)
		if !ok {
			continue
		}
		var step struct {
			Description string   `json:"description"`
			Headers     []string `json:"headers"`
			BasicVars   []string `json:"basic_vars"`
			Pivot       []int    `json:"pivot"`
		}
		if err := decodeInto(obj, &step); err != nil {
			continue
		}
		ts := TableauStep{
			Description: step.Description,
			Headers:     step.Headers,
			BasicVars:   step.BasicVars,
			Tableau:     numberMatrix(obj["tableau"]),
		}
		if len(step.Pivot) == 2 {
			ts.Pivot = &[2]int{step.Pivot[0], step.Pivot[1]}
		}
		steps = append(steps, ts)
	}
	return steps
}

// Module is the module the result belongs to
func (r *Result) Module() domain.ModuleID { return r.module }

// Status is the classified solver status
func (r *Result) Status() domain.Status { return r.status }

// Raw is the untouched solver payload
func (r *Result) Raw() domain.SolverResponse { return r.raw }

// ObjectiveValue is the module's headline value, if the solver returned one
func (r *Result) ObjectiveValue() (float64, bool) {
	if r.objective == nil {
		return 0, false
	}
	return *r.objective, true
}

// VariableValues returns a copy of the per-variable values, or nil when absent
func (r *Result) VariableValues() map[string]float64 {
	if r.variables == nil {
		return nil
	}
	out := make(map[string]float64, len(r.variables))
	for k, v := range r.variables {
		out[k] = v
	}
	return out
}

// VariableTotal sums all variable values
func (r *Result) VariableTotal() float64 {
	var total float64
	for _, v := range r.variables {
		total += v
	}
	return total
}

// Narrative is the free-text analysis attached to the response, if any
func (r *Result) Narrative() string { return r.narrative }

// Steps are the tableau snapshots, if the solver returned them
func (r *Result) Steps() []TableauStep { return r.steps }

// Sensitivity is the raw sensitivity payload (object or text)
func (r *Result) Sensitivity() interface{} { return r.sensitivity }

// GraphImage is the attached image, if any
func (r *Result) GraphImage() *GraphImage { return r.image }

// InitialCost is the transport starting-solution cost
func (r *Result) InitialCost() (float64, bool) {
	if r.initialCost == nil {
		return 0, false
	}
	return *r.initialCost, true
}

// Allocation is the transport shipment matrix
func (r *Result) Allocation() [][]float64 { return r.allocation }

// NetworkMethods are the per-algorithm network results in display order
func (r *Result) NetworkMethods() []NetworkMethodResult { return r.network }

// NetworkValue returns the headline value of one network algorithm
func (r *Result) NetworkValue(method string) (float64, bool) {
	for _, m := range r.network {
		if m.Method == method && m.Value != nil {
			return *m.Value, true
		}
	}
	return 0, false
}

// Variable is one displayed decision variable
type Variable struct {
	Name    string  `json:"name"`
	Value   float64 `json:"value"`
	Display string  `json:"display"`
}

// View is the display-ready rendering of a result
type View struct {
	Module           domain.ModuleID       `json:"module"`
	Status           domain.Status         `json:"status"`
	ObjectiveValue   *float64              `json:"objective_value"`
	ObjectiveDisplay string                `json:"objective_display"`
	Variables        []Variable            `json:"variables,omitempty"`
	InitialCost      *float64              `json:"initial_cost,omitempty"`
	Allocation       [][]float64           `json:"allocation,omitempty"`
	Network          []NetworkMethodResult `json:"network,omitempty"`
	Steps            []TableauStep         `json:"steps,omitempty"`
	Sensitivity      interface{}           `json:"sensitivity,omitempty"`
	Narrative        string                `json:"narrative,omitempty"`
	GraphImage       string                `json:"graph_image,omitempty"`
}

// View renders the result for display
func (r *Result) View() View {
	v := View{
		Module:           r.module,
		Status:           r.status,
		ObjectiveValue:   r.objective,
		ObjectiveDisplay: FormatScalar(r.objective),
		InitialCost:      r.initialCost,
		Allocation:       r.allocation,
		Network:          r.network,
		Steps:            r.steps,
		Sensitivity:      r.sensitivity,
		Narrative:        r.narrative,
		GraphImage:       r.image.Src(),
	}
	for _, name := range r.order {
		val := r.variables[name]
		v.Variables = append(v.Variables, Variable{Name: name, Value: val, Display: FormatVariable(val)})
	}
	return v
}
