package normalize

import (
	"fmt"
	"strings"
)

// EmptyScalar is what an absent value renders as
const EmptyScalar = "0.0000"

// FormatScalar renders a resolved value with 4 decimals
func FormatScalar(v interface{}) string {
	return format(v, 4)
}

// FormatVariable renders a per-variable value with 2 decimals
func FormatVariable(v interface{}) string {
	return format(v, 2)
}

func format(v interface{}, decimals int) string {
	if v == nil {
		return EmptyScalar
	}
	if p, ok := v.(*float64); ok {
		if p == nil {
			return EmptyScalar
		}
		v = *p
	}
	f, ok := toNumber(v)
	if !ok {
		return EmptyScalar
	}
	return fmt.Sprintf("%.*f", decimals, f)
}

// GraphImage is an opaque image payload: either a URL or a bare base64 body
type GraphImage struct {
	URL    string `json:"url,omitempty"`
	Base64 string `json:"base64,omitempty"`
}

// ParseGraphImage classifies an image value. Empty input yields nil.
func ParseGraphImage(v interface{}) *GraphImage {
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return nil
	}
	for _, prefix := range []string{"http://", "https://", "/", "data:"} {
		if strings.HasPrefix(s, prefix) {
			return &GraphImage{URL: s}
		}
	}
	return &GraphImage{Base64: s}
}

// Src is a value usable directly as an image source
func (g *GraphImage) Src() string {
	if g == nil {
		return ""
	}
	if g.URL != "" {
		return g.URL
	}
	return "data:image/png;base64," + g.Base64
}
