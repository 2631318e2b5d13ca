package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// OptionalFloat is a numeric form field. An empty string is unset, never zero.
type OptionalFloat struct {
	Value float64
	Set   bool
}

// ParseOptionalFloat converts a raw form value. Empty input yields an unset value.
func ParseOptionalFloat(raw string) (OptionalFloat, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return OptionalFloat{}, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return OptionalFloat{}, fmt.Errorf("%w: %q", ErrInvalidNumber, raw)
	}
	return OptionalFloat{Value: v, Set: true}, nil
}

// requiredNumber parses a mandatory field and records a field error when it is unset or invalid
func requiredNumber(verr *ValidationError, field, raw string, nonNegative bool) float64 {
	v, err := ParseOptionalFloat(raw)
	switch {
	case err != nil:
		verr.Add(field, "must be a number")
	case !v.Set:
		verr.Add(field, "is required")
	case nonNegative && v.Value < 0:
		verr.Add(field, "must not be negative")
	}
	return v.Value
}

// DraftConstraint is one constraint row as entered by the user
type DraftConstraint struct {
	Coeffs []string `json:"coeffs"`
	Sign   string   `json:"sign"`
	RHS    string   `json:"rhs"`
}

// LinearDraft is the linear model as entered, every number still a string
type LinearDraft struct {
	Objective       string            `json:"objective"`
	Method          string            `json:"method"`
	ObjectiveCoeffs []string          `json:"objective_coeffs"`
	Constraints     []DraftConstraint `json:"constraints"`
}

// GenerateLinearDraft returns an empty model with the given dimensions
func GenerateLinearDraft(objective, method string, variables, constraints int) (LinearDraft, error) {
	if variables < 1 {
		return LinearDraft{}, NewValidationError("variables", "must be at least 1")
	}
	if constraints < 1 {
		return LinearDraft{}, NewValidationError("constraints", "must be at least 1")
	}
	d := LinearDraft{
		Objective:       objective,
		Method:          method,
		ObjectiveCoeffs: make([]string, variables),
		Constraints:     make([]DraftConstraint, constraints),
	}
	for i := range d.Constraints {
		d.Constraints[i] = DraftConstraint{Coeffs: make([]string, variables), Sign: "<="}
	}
	return d, nil
}

func validLinearMethod(m string) bool {
	switch m {
	case MethodSimplex, MethodTwoPhase, MethodBigM, MethodDual, MethodGraphical:
		return true
	}
	return false
}

// ToRequest converts the draft into a solver request, rejecting any unset or malformed field
func (d LinearDraft) ToRequest() (LinearRequest, error) {
	verr := &ValidationError{}

	objective := d.Objective
	if objective == "" {
		objective = "max"
	}
	if objective != "max" && objective != "min" {
		verr.Add("objective", `must be "max" or "min"`)
	}
	method := d.Method
	if method == "" {
		method = MethodSimplex
	}
	if !validLinearMethod(method) {
		verr.Add("method", fmt.Sprintf("unsupported method %q", method))
	}

	n := len(d.ObjectiveCoeffs)
	if n == 0 {
		verr.Add("objective_coeffs", "at least one variable is required")
	}
	if len(d.Constraints) == 0 {
		verr.Add("constraints", "at least one constraint is required")
	}
	if method == MethodGraphical && n != 2 {
		verr.Add("method", "graphical method requires exactly 2 variables")
	}

	req := LinearRequest{
		Objective:       objective,
		Method:          method,
		Variables:       make([]string, n),
		ObjectiveCoeffs: make([]float64, n),
		Constraints:     make([]LinearConstraint, len(d.Constraints)),
	}
	for i, raw := range d.ObjectiveCoeffs {
		req.Variables[i] = fmt.Sprintf("x%d", i+1)
		req.ObjectiveCoeffs[i] = requiredNumber(verr, fmt.Sprintf("objective_coeffs[%d]", i), raw, false)
	}
	for i, c := range d.Constraints {
		field := fmt.Sprintf("constraints[%d]", i)
		if len(c.Coeffs) != n {
			verr.Add(field+".coeffs", fmt.Sprintf("expected %d coefficients, got %d", n, len(c.Coeffs)))
		}
		row := LinearConstraint{Coeffs: make([]float64, len(c.Coeffs)), Sign: c.Sign}
		for j, raw := range c.Coeffs {
			row.Coeffs[j] = requiredNumber(verr, fmt.Sprintf("%s.coeffs[%d]", field, j), raw, false)
		}
		if row.Sign == "" {
			row.Sign = "<="
		}
		if row.Sign != "<=" && row.Sign != ">=" && row.Sign != "=" {
			verr.Add(field+".sign", fmt.Sprintf("unsupported sign %q", c.Sign))
		}
		row.RHS = requiredNumber(verr, field+".rhs", c.RHS, false)
		req.Constraints[i] = row
	}

	if err := verr.OrNil(); err != nil {
		return LinearRequest{}, err
	}
	return req, nil
}

// TransportDraft is the transportation model as entered
type TransportDraft struct {
	Supply []string   `json:"supply"`
	Demand []string   `json:"demand"`
	Costs  [][]string `json:"costs"`
	Method string     `json:"method"`
}

func validTransportMethod(m string) bool {
	switch m {
	case MethodNorthwest, MethodMinimumCost, MethodVogel:
		return true
	}
	return false
}

// ToRequest converts the draft into a solver request
func (d TransportDraft) ToRequest() (TransportRequest, error) {
	verr := &ValidationError{}

	method := d.Method
	if method == "" {
		method = MethodNorthwest
	}
	if !validTransportMethod(method) {
		verr.Add("method", fmt.Sprintf("unsupported method %q", method))
	}
	if len(d.Supply) == 0 {
		verr.Add("supply", "at least one origin is required")
	}
	if len(d.Demand) == 0 {
		verr.Add("demand", "at least one destination is required")
	}

	req := TransportRequest{
		Supply: make([]float64, len(d.Supply)),
		Demand: make([]float64, len(d.Demand)),
		Costs:  make([][]float64, len(d.Costs)),
		Method: method,
	}
	for i, raw := range d.Supply {
		req.Supply[i] = requiredNumber(verr, fmt.Sprintf("supply[%d]", i), raw, true)
	}
	for j, raw := range d.Demand {
		req.Demand[j] = requiredNumber(verr, fmt.Sprintf("demand[%d]", j), raw, true)
	}
	if len(d.Costs) != len(d.Supply) {
		verr.Add("costs", fmt.Sprintf("expected %d rows, got %d", len(d.Supply), len(d.Costs)))
	}
	for i, row := range d.Costs {
		if len(row) != len(d.Demand) {
			verr.Add(fmt.Sprintf("costs[%d]", i), fmt.Sprintf("expected %d columns, got %d", len(d.Demand), len(row)))
		}
		req.Costs[i] = make([]float64, len(row))
		for j, raw := range row {
			req.Costs[i][j] = requiredNumber(verr, fmt.Sprintf("costs[%d][%d]", i, j), raw, true)
		}
	}

	if err := verr.OrNil(); err != nil {
		return TransportRequest{}, err
	}
	return req, nil
}

// DeclaredCapacity is the total supply offered by the transport model
func (r TransportRequest) DeclaredCapacity() float64 {
	var total float64
	for _, s := range r.Supply {
		total += s
	}
	return total
}
