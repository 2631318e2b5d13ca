// Package normalize reconciles the inconsistent solver response shapes into one result model.
//
// The solver sometimes returns fields at the top level and sometimes nests them under a
// "solution" object. Every lookup goes through Resolve so call sites never branch on shape.
package normalize

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/GoSim-25-26J-441/go-optimization-backend/internal/optimization/domain"
)

// SolutionKey is the wrapper some solver endpoints nest their results under
const SolutionKey = "solution"

// Resolve returns resp[field], then resp.solution[field], then nil.
// A nil value at either location counts as absent. resp is never modified.
func Resolve(resp domain.SolverResponse, field string) interface{} {
	if resp == nil {
		return nil
	}
	if v, ok := resp[field]; ok && v != nil {
		return v
	}
	nested, ok := asObject(resp[SolutionKey])
	if !ok {
		return nil
	}
	if v, ok := nested[field]; ok && v != nil {
		return v
	}
	return nil
}

// ResolveNumber resolves field and converts it to a finite float64
func ResolveNumber(resp domain.SolverResponse, field string) (float64, bool) {
	return toNumber(Resolve(resp, field))
}

// ResolveString resolves field when it holds a string
func ResolveString(resp domain.SolverResponse, field string) (string, bool) {
	s, ok := Resolve(resp, field).(string)
	return s, ok
}

// ResolveObject resolves field when it holds a JSON object
func ResolveObject(resp domain.SolverResponse, field string) (domain.SolverResponse, bool) {
	obj, ok := asObject(Resolve(resp, field))
	if !ok {
		return nil, false
	}
	return domain.SolverResponse(obj), true
}

func asObject(v interface{}) (map[string]interface{}, bool) {
	switch o := v.(type) {
	case map[string]interface{}:
		return o, true
	case domain.SolverResponse:
		return o, true
	}
	return nil, false
}

func toNumber(v interface{}) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// numberMap converts a JSON object of numbers; non-numeric entries are skipped
func numberMap(v interface{}) (map[string]float64, bool) {
	obj, ok := asObject(v)
	if !ok {
		return nil, false
	}
	out := make(map[string]float64, len(obj))
	for k, raw := range obj {
		if f, ok := toNumber(raw); ok {
			out[k] = f
		}
	}
	return out, true
}

// decodeInto re-encodes an untyped value into a typed target
func decodeInto(v interface{}, target interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, target)
}
