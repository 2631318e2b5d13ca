// Package analysis turns tagged solver narrative into styleable blocks.
package analysis

import (
	"regexp"
	"strings"
)

// Icon classifies a block of guidance
type Icon string

const (
	IconNone           Icon = "none"
	IconCritical       Icon = "critical"
	IconRecommendation Icon = "recommendation"
	IconRisk           Icon = "risk"
)

// Markers recognized in narrative lines
const (
	MarkerCritical       = "[CRÍTICO]"
	MarkerRecommendation = "[RECOMENDACIÓN]"
	MarkerRisk           = "[RIESGO]"
)

// markers in classification priority order
var markers = []struct {
	token string
	icon  Icon
}{
	{MarkerCritical, IconCritical},
	{MarkerRecommendation, IconRecommendation},
	{MarkerRisk, IconRisk},
}

var markerPattern = regexp.MustCompile(`\[(CRÍTICO|RECOMENDACIÓN|RIESGO)\]`)

// Block is one line of parsed guidance
type Block struct {
	Icon Icon   `json:"icon"`
	Text string `json:"text"`
}

// Parse splits text into blocks, one per non-blank line, in input order.
// The first marker found in priority order decides the icon; every marker token is
// removed from the emitted text.
func Parse(text string) []Block {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	blocks := make([]Block, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		blocks = append(blocks, Block{
			Icon: classify(line),
			Text: markerPattern.ReplaceAllString(line, ""),
		})
	}
	return blocks
}

func classify(line string) Icon {
	for _, m := range markers {
		if strings.Contains(line, m.token) {
			return m.icon
		}
	}
	return IconNone
}
