package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOptionalFloat(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    OptionalFloat
		wantErr bool
	}{
		{name: "empty is unset", raw: "", want: OptionalFloat{}},
		{name: "blank is unset", raw: "   ", want: OptionalFloat{}},
		{name: "zero is set", raw: "0", want: OptionalFloat{Value: 0, Set: true}},
		{name: "trims whitespace", raw: " 3 ", want: OptionalFloat{Value: 3, Set: true}},
		{name: "negative", raw: "-2.5", want: OptionalFloat{Value: -2.5, Set: true}},
		{name: "garbage", raw: "abc", wantErr: true},
		{name: "NaN", raw: "NaN", wantErr: true},
		{name: "infinity", raw: "Inf", wantErr: true},
		{name: "negative infinity", raw: "-infinity", wantErr: true},
		{name: "overflow", raw: "1e400", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOptionalFloat(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidNumber)
				assert.False(t, got.Set)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGenerateLinearDraft(t *testing.T) {
	d, err := GenerateLinearDraft("min", MethodDual, 3, 2)
	require.NoError(t, err)
	assert.Len(t, d.ObjectiveCoeffs, 3)
	require.Len(t, d.Constraints, 2)
	assert.Len(t, d.Constraints[1].Coeffs, 3)
	assert.Equal(t, "<=", d.Constraints[0].Sign)

	_, err = GenerateLinearDraft("max", "", 0, 2)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "variables", verr.Fields[0].Field)

	_, err = GenerateLinearDraft("max", "", 2, 0)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "constraints", verr.Fields[0].Field)
}

func validLinearDraft() LinearDraft {
	return LinearDraft{
		Objective:       "max",
		Method:          MethodSimplex,
		ObjectiveCoeffs: []string{"3", "5"},
		Constraints: []DraftConstraint{
			{Coeffs: []string{"1", "0"}, Sign: "<=", RHS: "4"},
			{Coeffs: []string{"3", "2"}, Sign: "<=", RHS: "18"},
		},
	}
}

func TestLinearDraft_ToRequest(t *testing.T) {
	t.Run("valid draft", func(t *testing.T) {
		req, err := validLinearDraft().ToRequest()
		require.NoError(t, err)
		assert.Equal(t, []string{"x1", "x2"}, req.Variables)
		assert.Equal(t, []float64{3, 5}, req.ObjectiveCoeffs)
		assert.Equal(t, 18.0, req.Constraints[1].RHS)
	})

	t.Run("defaults objective, method and sign", func(t *testing.T) {
		d := validLinearDraft()
		d.Objective = ""
		d.Method = ""
		d.Constraints[0].Sign = ""
		req, err := d.ToRequest()
		require.NoError(t, err)
		assert.Equal(t, "max", req.Objective)
		assert.Equal(t, MethodSimplex, req.Method)
		assert.Equal(t, "<=", req.Constraints[0].Sign)
	})

	tests := []struct {
		name   string
		mutate func(d *LinearDraft)
		field  string
	}{
		{"empty coefficient is unset, not zero", func(d *LinearDraft) { d.ObjectiveCoeffs[1] = "" }, "objective_coeffs[1]"},
		{"malformed coefficient", func(d *LinearDraft) { d.Constraints[0].Coeffs[0] = "x" }, "constraints[0].coeffs[0]"},
		{"infinite coefficient", func(d *LinearDraft) { d.Constraints[1].Coeffs[1] = "Inf" }, "constraints[1].coeffs[1]"},
		{"NaN rhs", func(d *LinearDraft) { d.Constraints[0].RHS = "NaN" }, "constraints[0].rhs"},
		{"missing rhs", func(d *LinearDraft) { d.Constraints[1].RHS = "" }, "constraints[1].rhs"},
		{"invalid sign", func(d *LinearDraft) { d.Constraints[0].Sign = "<" }, "constraints[0].sign"},
		{"invalid objective", func(d *LinearDraft) { d.Objective = "maximize" }, "objective"},
		{"invalid method", func(d *LinearDraft) { d.Method = "interior_point" }, "method"},
		{"coefficient count mismatch", func(d *LinearDraft) { d.Constraints[1].Coeffs = []string{"1"} }, "constraints[1].coeffs"},
		{"no constraints", func(d *LinearDraft) { d.Constraints = nil }, "constraints"},
		{"graphical needs two variables", func(d *LinearDraft) {
			d.Method = MethodGraphical
			d.ObjectiveCoeffs = append(d.ObjectiveCoeffs, "1")
			for i := range d.Constraints {
				d.Constraints[i].Coeffs = append(d.Constraints[i].Coeffs, "1")
			}
		}, "method"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validLinearDraft()
			tt.mutate(&d)
			_, err := d.ToRequest()
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, fieldNames(verr), tt.field)
		})
	}

	t.Run("graphical with two variables is accepted", func(t *testing.T) {
		d := validLinearDraft()
		d.Method = MethodGraphical
		_, err := d.ToRequest()
		assert.NoError(t, err)
	})
}

func validTransportDraft() TransportDraft {
	return TransportDraft{
		Supply: []string{"20", "30"},
		Demand: []string{"10", "25", "15"},
		Costs: [][]string{
			{"8", "6", "10"},
			{"9", "12", "13"},
		},
	}
}

func TestTransportDraft_ToRequest(t *testing.T) {
	t.Run("valid draft", func(t *testing.T) {
		req, err := validTransportDraft().ToRequest()
		require.NoError(t, err)
		assert.Equal(t, MethodNorthwest, req.Method)
		assert.Equal(t, []float64{20, 30}, req.Supply)
		assert.Equal(t, 13.0, req.Costs[1][2])
		assert.Equal(t, 50.0, req.DeclaredCapacity())
	})

	tests := []struct {
		name   string
		mutate func(d *TransportDraft)
		field  string
	}{
		{"negative supply", func(d *TransportDraft) { d.Supply[0] = "-1" }, "supply[0]"},
		{"negative demand", func(d *TransportDraft) { d.Demand[2] = "-5" }, "demand[2]"},
		{"negative cost", func(d *TransportDraft) { d.Costs[1][0] = "-0.5" }, "costs[1][0]"},
		{"empty cost is unset", func(d *TransportDraft) { d.Costs[0][1] = "" }, "costs[0][1]"},
		{"infinite supply", func(d *TransportDraft) { d.Supply[1] = "+Inf" }, "supply[1]"},
		{"missing cost row", func(d *TransportDraft) { d.Costs = d.Costs[:1] }, "costs"},
		{"short cost row", func(d *TransportDraft) { d.Costs[1] = []string{"1", "2"} }, "costs[1]"},
		{"no origins", func(d *TransportDraft) { d.Supply = nil; d.Costs = nil }, "supply"},
		{"no destinations", func(d *TransportDraft) { d.Demand = nil }, "demand"},
		{"invalid method", func(d *TransportDraft) { d.Method = "hungarian" }, "method"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validTransportDraft()
			tt.mutate(&d)
			_, err := d.ToRequest()
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, fieldNames(verr), tt.field)
		})
	}
}

func fieldNames(verr *ValidationError) []string {
	out := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		out = append(out, f.Field)
	}
	return out
}
