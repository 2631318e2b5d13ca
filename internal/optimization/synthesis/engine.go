// Package synthesis derives the integrated cross-module report from settled captures.
//
// Build is a pure projection: it keeps no state between calls and never mutates its input.
package synthesis

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/GoSim-25-26J-441/go-optimization-backend/internal/optimization/analysis"
	"github.com/GoSim-25-26J-441/go-optimization-backend/internal/optimization/domain"
	"github.com/GoSim-25-26J-441/go-optimization-backend/internal/optimization/normalize"
)

// Undefined is shown in place of a ratio whose denominator is zero
const Undefined = "undefined"

const (
	msgNoCaptures         = "The modules must be solved before the joint technical diagnosis can be generated."
	msgModulePending      = "Solve this module to view its detailed analysis."
	msgFeasibilityPending = "Pending linear programming and transport data."
	msgMarginPending      = "Pending data for the integrated margin calculation."
	msgStabilityPending   = "Complete every module to obtain the full-system stability recommendation."
	msgFeasible           = "Logistics feasibility: the current distribution network can absorb 100% of the optimal production without expansion."
	msgBottleneck         = "Capacity constraint: production exceeds shipping capacity, creating a logistics bottleneck. Review the supply nodes or enable additional routes."
)

// ModuleSection is the individual sensitivity panel of one module
type ModuleSection struct {
	Module      domain.ModuleID  `json:"module"`
	Captured    bool             `json:"captured"`
	Blocks      []analysis.Block `json:"blocks,omitempty"`
	Placeholder string           `json:"placeholder,omitempty"`
}

// Feasibility compares logistics capacity with optimal production
type Feasibility struct {
	Available         bool    `json:"available"`
	Feasible          bool    `json:"feasible"`
	Production        float64 `json:"production"`
	Capacity          float64 `json:"capacity"`
	ProductionDisplay string  `json:"production_display,omitempty"`
	CapacityDisplay   string  `json:"capacity_display,omitempty"`
	Message           string  `json:"message"`
}

// Margin is the economic impact of logistics on the production profit
type Margin struct {
	Available            bool     `json:"available"`
	GrossProfit          float64  `json:"gross_profit"`
	LogisticsCost        float64  `json:"logistics_cost"`
	NetMargin            float64  `json:"net_margin"`
	LogisticShare        *float64 `json:"logistic_share"`
	LogisticShareDisplay string   `json:"logistic_share_display,omitempty"`
	NetworkMaxFlow       *float64 `json:"network_max_flow,omitempty"`
	Message              string   `json:"message"`
}

// Stability is the full-system recommendation; it needs every module
type Stability struct {
	Available bool   `json:"available"`
	Message   string `json:"message"`
}

// Report is the integrated dashboard report
type Report struct {
	Modules     []ModuleSection `json:"modules"`
	Empty       bool            `json:"empty"`
	Message     string          `json:"message,omitempty"`
	Feasibility Feasibility     `json:"feasibility"`
	Margin      Margin          `json:"margin"`
	Stability   Stability       `json:"stability"`
}

// Build computes the report from the current capture set
func Build(captures map[domain.ModuleID]domain.ModuleCapture) Report {
	linear, hasLinear := captures[domain.ModuleLinear]
	transport, hasTransport := captures[domain.ModuleTransport]
	network, hasNetwork := captures[domain.ModuleNetwork]

	report := Report{Modules: moduleSections(captures)}
	if !hasLinear && !hasTransport && !hasNetwork {
		report.Empty = true
		report.Message = msgNoCaptures
	}

	if hasLinear && hasTransport {
		report.Feasibility = CheckFeasibility(linear, transport)
		var net *domain.ModuleCapture
		if hasNetwork {
			net = &network
		}
		report.Margin = ComputeMargin(linear, transport, net)
	} else {
		report.Feasibility = Feasibility{Message: msgFeasibilityPending}
		report.Margin = Margin{Message: msgMarginPending}
	}

	if hasLinear && hasTransport && hasNetwork {
		report.Stability = StabilityNarrative(linear, network)
	} else {
		report.Stability = Stability{Message: msgStabilityPending}
	}
	return report
}

// CheckFeasibility reports whether transport capacity covers linear production.
// Equal capacity and production is feasible.
func CheckFeasibility(linear, transport domain.ModuleCapture) Feasibility {
	f := Feasibility{
		Available:         true,
		Production:        linear.TotalUnitsOrCapacity,
		Capacity:          transport.TotalUnitsOrCapacity,
		ProductionDisplay: strconv.FormatFloat(linear.TotalUnitsOrCapacity, 'f', 2, 64),
		CapacityDisplay:   strconv.FormatFloat(transport.TotalUnitsOrCapacity, 'f', 2, 64),
	}
	f.Feasible = f.Capacity >= f.Production
	intro := fmt.Sprintf("The linear model sets an optimal production of %s units. The transport infrastructure has an installed capacity of %s units. ",
		f.ProductionDisplay, f.CapacityDisplay)
	if f.Feasible {
		f.Message = intro + msgFeasible
	} else {
		f.Message = intro + msgBottleneck
	}
	return f
}

// ComputeMargin derives the net margin and the share of profit consumed by logistics.
// A zero profit leaves the share undefined instead of producing NaN or Inf.
func ComputeMargin(linear, transport domain.ModuleCapture, network *domain.ModuleCapture) Margin {
	m := Margin{
		Available:     true,
		GrossProfit:   linear.ObjectiveOrCost,
		LogisticsCost: transport.ObjectiveOrCost,
		NetMargin:     linear.ObjectiveOrCost - transport.ObjectiveOrCost,
	}
	m.LogisticShareDisplay = Undefined
	if share, ok := LogisticShare(linear.ObjectiveOrCost, transport.ObjectiveOrCost); ok {
		m.LogisticShare = &share
		m.LogisticShareDisplay = strconv.FormatFloat(share, 'f', 2, 64) + "%"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Gross profit (Z) is $%s while transport costs amount to $%s. The resulting net margin is $%s.",
		FormatAmount(m.GrossProfit), FormatAmount(m.LogisticsCost), FormatAmount(m.NetMargin))
	if m.LogisticShare != nil {
		fmt.Fprintf(&b, " Logistics consumes %s of the total profit.", m.LogisticShareDisplay)
	} else {
		b.WriteString(" The logistics share of profit is undefined because the profit is zero.")
	}
	if network != nil {
		flow := network.TotalUnitsOrCapacity
		m.NetworkMaxFlow = &flow
		fmt.Fprintf(&b, " In flow terms, the network supports a maximum load of %s units, the physical limit of the system.", FormatAmount(flow))
	}
	m.Message = b.String()
	return m
}

// LogisticShare is cost / profit * 100 rounded to 2 decimals; ok is false when it is undefined
func LogisticShare(profit, cost float64) (float64, bool) {
	if profit == 0 {
		return 0, false
	}
	share := cost / profit * 100
	if math.IsNaN(share) || math.IsInf(share, 0) {
		return 0, false
	}
	return math.Round(share*100) / 100, true
}

// StabilityNarrative references the network max flow and the linear objective
func StabilityNarrative(linear, network domain.ModuleCapture) Stability {
	return Stability{
		Available: true,
		Message: fmt.Sprintf("To optimize the global system, watch the shadow prices of the linear model together with the minimum-cost routes. "+
			"If demand at the transport nodes varies by 5%%, the maximum flow detected in the network (%s) could be compromised, affecting the final profit of $%s.",
			FormatAmount(network.TotalUnitsOrCapacity), FormatAmount(linear.ObjectiveOrCost)),
	}
}

func moduleSections(captures map[domain.ModuleID]domain.ModuleCapture) []ModuleSection {
	sections := make([]ModuleSection, 0, len(domain.Modules))
	for _, id := range domain.Modules {
		c, ok := captures[id]
		if !ok {
			sections = append(sections, ModuleSection{Module: id, Placeholder: msgModulePending})
			continue
		}
		sections = append(sections, ModuleSection{
			Module:   id,
			Captured: true,
			Blocks:   analysis.Parse(moduleNarrative(c)),
		})
	}
	return sections
}

func moduleNarrative(c domain.ModuleCapture) string {
	if r, err := normalize.Normalize(c.ModuleID, c.Raw); err == nil && r.Narrative() != "" {
		return r.Narrative()
	}
	return c.SummaryText
}

// FormatAmount renders a value with thousands separators and at most 2 decimals
func FormatAmount(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Undefined
	}
	s := strconv.FormatFloat(math.Abs(v), 'f', 2, 64)
	intPart, frac := s[:len(s)-3], s[len(s)-2:]

	var b strings.Builder
	if v < 0 && s != "0.00" {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	frac = strings.TrimRight(frac, "0")
	if frac != "" {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}
