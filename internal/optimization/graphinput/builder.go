// Package graphinput accumulates validated network edges before they are submitted to the solver.
package graphinput

import (
	"fmt"
	"sort"
	"strings"

	"github.com/GoSim-25-26J-441/go-optimization-backend/internal/optimization/domain"
)

type edgeKey struct {
	from domain.NodeID
	to   domain.NodeID
}

// Option configures a Builder
type Option func(*Builder)

// WithPermissiveNumbers makes empty weight and capacity default to 0 instead of failing
func WithPermissiveNumbers() Option {
	return func(b *Builder) { b.permissive = true }
}

// WithInvalidation registers a hook run after every mutation of the edge set
func WithInvalidation(fn func()) Option {
	return func(b *Builder) { b.onChange = fn }
}

// Builder keeps an insertion-ordered edge list with unique directed pairs and no self-loops
type Builder struct {
	edges      []domain.GraphEdge
	index      map[edgeKey]struct{}
	permissive bool
	onChange   func()
}

// NewBuilder returns an empty builder
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{index: make(map[edgeKey]struct{})}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// FromEdges rehydrates a builder from a stored edge list, re-checking every invariant.
// The invalidation hook is not run while loading.
func FromEdges(edges []domain.GraphEdge, opts ...Option) (*Builder, error) {
	b := NewBuilder(opts...)
	for i, e := range edges {
		if err := b.insert(e); err != nil {
			return nil, fmt.Errorf("edge %d: %w", i, err)
		}
	}
	return b, nil
}

// NormalizeNode trims and uppercases a node identifier
func NormalizeNode(raw string) domain.NodeID {
	return domain.NodeID(strings.ToUpper(strings.TrimSpace(raw)))
}

// AddEdge validates raw form values and appends the edge
func (b *Builder) AddEdge(from, to, weight, capacity string) (domain.GraphEdge, error) {
	verr := &domain.ValidationError{}
	edge := domain.GraphEdge{From: NormalizeNode(from), To: NormalizeNode(to)}

	if edge.From == "" {
		verr.Add("from", domain.ErrEmptyNode.Error())
	}
	if edge.To == "" {
		verr.Add("to", domain.ErrEmptyNode.Error())
	}
	edge.Weight = b.number(verr, "weight", weight)
	edge.Capacity = b.number(verr, "capacity", capacity)
	if err := verr.OrNil(); err != nil {
		return domain.GraphEdge{}, err
	}

	if err := b.Add(edge); err != nil {
		return domain.GraphEdge{}, err
	}
	return edge, nil
}

func (b *Builder) number(verr *domain.ValidationError, field, raw string) float64 {
	v, err := domain.ParseOptionalFloat(raw)
	if err != nil {
		verr.Add(field, "must be a number")
		return 0
	}
	if !v.Set && !b.permissive {
		verr.Add(field, "is required")
	}
	return v.Value
}

// Add appends an already typed edge after normalizing its endpoints
func (b *Builder) Add(edge domain.GraphEdge) error {
	if err := b.insert(edge); err != nil {
		return err
	}
	b.changed()
	return nil
}

func (b *Builder) insert(edge domain.GraphEdge) error {
	edge.From = NormalizeNode(string(edge.From))
	edge.To = NormalizeNode(string(edge.To))
	if edge.From == "" {
		return domain.WrapValidation("from", domain.ErrEmptyNode)
	}
	if edge.To == "" {
		return domain.WrapValidation("to", domain.ErrEmptyNode)
	}
	if edge.From == edge.To {
		return domain.WrapValidation("to", domain.ErrSelfLoop)
	}
	key := edgeKey{from: edge.From, to: edge.To}
	if _, exists := b.index[key]; exists {
		return domain.WrapValidation("to", domain.ErrDuplicateEdge)
	}
	b.index[key] = struct{}{}
	b.edges = append(b.edges, edge)
	return nil
}

// RemoveEdge deletes the edge at position index
func (b *Builder) RemoveEdge(index int) (domain.GraphEdge, error) {
	if index < 0 || index >= len(b.edges) {
		return domain.GraphEdge{}, domain.ErrEdgeIndexOutOfRange
	}
	removed := b.edges[index]
	b.edges = append(b.edges[:index], b.edges[index+1:]...)
	delete(b.index, edgeKey{from: removed.From, to: removed.To})
	b.changed()
	return removed, nil
}

func (b *Builder) changed() {
	if b.onChange != nil {
		b.onChange()
	}
}

// Edges returns a copy of the edges in insertion order
func (b *Builder) Edges() []domain.GraphEdge {
	out := make([]domain.GraphEdge, len(b.edges))
	copy(out, b.edges)
	return out
}

// Len is the number of edges
func (b *Builder) Len() int {
	return len(b.edges)
}

// Nodes returns the distinct endpoints, sorted
func (b *Builder) Nodes() []domain.NodeID {
	seen := make(map[domain.NodeID]struct{}, len(b.edges)*2)
	for _, e := range b.edges {
		seen[e.From] = struct{}{}
		seen[e.To] = struct{}{}
	}
	nodes := make([]domain.NodeID, 0, len(seen))
	for n := range seen {
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i] < nodes[j] })
	return nodes
}

// NodeCount is the number of distinct endpoints across all edges
func (b *Builder) NodeCount() int {
	return len(b.Nodes())
}

// Validate is the pre-submission completeness check
func (b *Builder) Validate() error {
	if len(b.edges) == 0 {
		return domain.NewValidationError("graph", "add at least one edge")
	}
	if b.NodeCount() < 2 {
		return domain.NewValidationError("graph", "at least 2 distinct nodes are required")
	}
	return nil
}

// Request validates the graph and encodes it for the solver
func (b *Builder) Request() (domain.NetworkRequest, error) {
	if err := b.Validate(); err != nil {
		return domain.NetworkRequest{}, err
	}
	return domain.NewNetworkRequest(b.edges), nil
}
