package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/GoSim-25-26J-441/go-optimization-backend/internal/optimization/domain"
	"github.com/GoSim-25-26J-441/go-optimization-backend/internal/optimization/graphinput"
	"github.com/GoSim-25-26J-441/go-optimization-backend/internal/optimization/normalize"
	"github.com/GoSim-25-26J-441/go-optimization-backend/internal/optimization/synthesis"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultSolveTimeout = 90 * time.Second
	defaultBusyGrace    = 10 * time.Second
)

// Options tunes the solve lifecycle
type Options struct {
	// SolveTimeout bounds one call to the solver
	SolveTimeout time.Duration
	// BusyGrace is added to SolveTimeout before a busy flag is treated as abandoned
	BusyGrace time.Duration
}

// DashboardService coordinates sessions, module inputs, solves and the integrated report
type DashboardService struct {
	store        SessionStore
	solver       SolverClient
	logger       *zap.Logger
	solveTimeout time.Duration
	staleAfter   time.Duration
	now          func() time.Time
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(store SessionStore, solver SolverClient, logger *zap.Logger, opts Options) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.SolveTimeout <= 0 {
		opts.SolveTimeout = defaultSolveTimeout
	}
	if opts.BusyGrace <= 0 {
		opts.BusyGrace = defaultBusyGrace
	}
	return &DashboardService{
		store:        store,
		solver:       solver,
		logger:       logger,
		solveTimeout: opts.SolveTimeout,
		staleAfter:   opts.SolveTimeout + opts.BusyGrace,
		now:          time.Now,
	}
}

// GraphSummary is the network input as shown to the user
type GraphSummary struct {
	Edges     []domain.GraphEdge `json:"edges"`
	Nodes     []domain.NodeID    `json:"nodes"`
	NodeCount int                `json:"node_count"`
	Ready     bool               `json:"ready"`
}

// ModuleStatus is the lifecycle position of one module
type ModuleStatus struct {
	Module   domain.ModuleID       `json:"module"`
	State    domain.CaptureState   `json:"state"`
	Revision uint64                `json:"revision"`
	Capture  *domain.ModuleCapture `json:"capture,omitempty"`
}

// SolveOutcome is the normalized result of a successful solve plus the capture it produced
type SolveOutcome struct {
	Result  *normalize.Result
	Capture *domain.ModuleCapture
}

// CreateSession starts an empty dashboard session
func (s *DashboardService) CreateSession(ctx context.Context) (*domain.Session, error) {
	session := domain.NewSession(uuid.NewString(), s.now())
	if err := s.store.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	s.requestLogger(ctx, "create_session", session.ID).Info("session created")
	return session, nil
}

// GetSession loads a session
func (s *DashboardService) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	return s.store.Get(ctx, id)
}

// DeleteSession removes a session and every capture in it
func (s *DashboardService) DeleteSession(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.requestLogger(ctx, "delete_session", id).Info("session deleted")
	return nil
}

// update stamps UpdatedAt on every successful mutation
func (s *DashboardService) update(ctx context.Context, id string, fn func(*domain.Session) error) (*domain.Session, error) {
	return s.store.Update(ctx, id, func(session *domain.Session) error {
		if err := fn(session); err != nil {
			return err
		}
		session.UpdatedAt = s.now()
		return nil
	})
}

// GenerateLinearModel replaces the linear draft with an empty model of the given size
func (s *DashboardService) GenerateLinearModel(ctx context.Context, id, objective, method string, variables, constraints int) (*domain.Session, error) {
	draft, err := domain.GenerateLinearDraft(objective, method, variables, constraints)
	if err != nil {
		return nil, err
	}
	return s.SetLinearDraft(ctx, id, draft)
}

// SetLinearDraft stores the linear draft and invalidates the linear capture
func (s *DashboardService) SetLinearDraft(ctx context.Context, id string, draft domain.LinearDraft) (*domain.Session, error) {
	return s.update(ctx, id, func(session *domain.Session) error {
		session.Linear = draft
		session.InvalidateInput(domain.ModuleLinear)
		return nil
	})
}

// SetTransportDraft stores the transport draft and invalidates the transport capture
func (s *DashboardService) SetTransportDraft(ctx context.Context, id string, draft domain.TransportDraft) (*domain.Session, error) {
	return s.update(ctx, id, func(session *domain.Session) error {
		session.Transport = draft
		session.InvalidateInput(domain.ModuleTransport)
		return nil
	})
}

// Graph returns the session's edge list and derived node set
func (s *DashboardService) Graph(ctx context.Context, id string) (GraphSummary, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return GraphSummary{}, err
	}
	b, err := graphinput.FromEdges(session.Graph)
	if err != nil {
		return GraphSummary{}, err
	}
	return summarize(b), nil
}

func summarize(b *graphinput.Builder) GraphSummary {
	return GraphSummary{
		Edges:     b.Edges(),
		Nodes:     b.Nodes(),
		NodeCount: b.NodeCount(),
		Ready:     b.Validate() == nil,
	}
}

// AddEdge validates and appends one edge. A rejected edge leaves the graph and the
// network capture untouched.
func (s *DashboardService) AddEdge(ctx context.Context, id, from, to, weight, capacity string) (GraphSummary, error) {
	var summary GraphSummary
	_, err := s.update(ctx, id, func(session *domain.Session) error {
		b, err := s.editableGraph(session)
		if err != nil {
			return err
		}
		if _, err := b.AddEdge(from, to, weight, capacity); err != nil {
			return err
		}
		session.Graph = b.Edges()
		summary = summarize(b)
		return nil
	})
	recordGraphMutation("add", err)
	if err != nil {
		return GraphSummary{}, err
	}
	return summary, nil
}

// RemoveEdge deletes the edge at index
func (s *DashboardService) RemoveEdge(ctx context.Context, id string, index int) (GraphSummary, error) {
	var summary GraphSummary
	_, err := s.update(ctx, id, func(session *domain.Session) error {
		b, err := s.editableGraph(session)
		if err != nil {
			return err
		}
		if _, err := b.RemoveEdge(index); err != nil {
			return err
		}
		session.Graph = b.Edges()
		summary = summarize(b)
		return nil
	})
	recordGraphMutation("remove", err)
	if err != nil {
		return GraphSummary{}, err
	}
	return summary, nil
}

// editableGraph rehydrates the session graph with the network capture wired to every change
func (s *DashboardService) editableGraph(session *domain.Session) (*graphinput.Builder, error) {
	return graphinput.FromEdges(session.Graph, graphinput.WithInvalidation(func() {
		session.InvalidateInput(domain.ModuleNetwork)
	}))
}

// solveCall is the prepared request of one module, bound to the solver
type solveCall struct {
	call             func(ctx context.Context) (domain.SolverResponse, error)
	declaredCapacity float64
}

func (s *DashboardService) prepare(session *domain.Session, module domain.ModuleID) (solveCall, error) {
	switch module {
	case domain.ModuleLinear:
		req, err := session.Linear.ToRequest()
		if err != nil {
			return solveCall{}, err
		}
		return solveCall{call: func(ctx context.Context) (domain.SolverResponse, error) {
			return s.solver.SolveLinear(ctx, req)
		}}, nil
	case domain.ModuleTransport:
		req, err := session.Transport.ToRequest()
		if err != nil {
			return solveCall{}, err
		}
		return solveCall{
			call: func(ctx context.Context) (domain.SolverResponse, error) {
				return s.solver.SolveTransport(ctx, req)
			},
			declaredCapacity: req.DeclaredCapacity(),
		}, nil
	case domain.ModuleNetwork:
		b, err := graphinput.FromEdges(session.Graph)
		if err != nil {
			return solveCall{}, err
		}
		req, err := b.Request()
		if err != nil {
			return solveCall{}, err
		}
		return solveCall{call: func(ctx context.Context) (domain.SolverResponse, error) {
			return s.solver.SolveNetwork(ctx, req)
		}}, nil
	}
	return solveCall{}, domain.ErrUnknownModule
}

// Solve runs one module against the solver and records its capture.
//
// The module is marked busy for the duration of the call so a second solve of the same
// module is rejected with ErrSolveInProgress. A result whose input changed while the
// call was in flight is discarded with ErrStaleResult. Any failure leaves the module
// without a capture.
func (s *DashboardService) Solve(ctx context.Context, id string, module domain.ModuleID) (*SolveOutcome, error) {
	if !module.Valid() {
		return nil, domain.ErrUnknownModule
	}
	log := s.requestLogger(ctx, "solve", id).With(zap.String("module", string(module)))

	var (
		prepared solveCall
		revision uint64
	)
	_, err := s.update(ctx, id, func(session *domain.Session) error {
		p, err := s.prepare(session, module)
		if err != nil {
			return err
		}
		rev, err := session.BeginSolve(module, s.now(), s.staleAfter)
		if err != nil {
			return err
		}
		prepared, revision = p, rev
		return nil
	})
	if err != nil {
		var verr *domain.ValidationError
		switch {
		case errors.As(err, &verr):
			recordSolve(string(module), OutcomeValidation)
		case errors.Is(err, domain.ErrSolveInProgress):
			recordSolve(string(module), OutcomeBusy)
		}
		log.Info("solve rejected", zap.Error(err))
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, s.solveTimeout)
	start := time.Now()
	resp, err := prepared.call(callCtx)
	cancel()
	recordSolverCall(string(module), time.Since(start))
	if err != nil {
		s.abandon(ctx, id, module, revision, log)
		recordSolve(string(module), OutcomeTransportError)
		log.Warn("solver call failed", zap.Error(err))
		return nil, &domain.TransportError{Module: module, Err: err}
	}

	capture, result, err := s.settle(module, resp, prepared.declaredCapacity)
	if err != nil {
		s.abandon(ctx, id, module, revision, log)
		recordSolve(string(module), OutcomeSolverStatus)
		log.Info("solver reported failure", zap.Error(err))
		return nil, err
	}

	if err := s.finish(ctx, id, module, revision, capture); err != nil {
		if errors.Is(err, domain.ErrStaleResult) {
			recordSolve(string(module), OutcomeStale)
			log.Info("discarding stale result", zap.Uint64("revision", revision))
			return nil, err
		}
		// the capture was not written, so the busy flag is still set
		s.abandon(ctx, id, module, revision, log)
		log.Error("failed to record capture", zap.Error(err))
		return nil, err
	}
	recordSolve(string(module), OutcomeCaptured)
	log.Info("capture recorded",
		zap.Float64("objective_or_cost", capture.ObjectiveOrCost),
		zap.Float64("total_units_or_capacity", capture.TotalUnitsOrCapacity),
	)
	return &SolveOutcome{Result: result, Capture: capture}, nil
}

// settle classifies and normalizes a raw response into a capture
func (s *DashboardService) settle(module domain.ModuleID, resp domain.SolverResponse, declaredCapacity float64) (*domain.ModuleCapture, *normalize.Result, error) {
	if err := normalize.StatusError(module, resp); err != nil {
		return nil, nil, err
	}
	result, err := normalize.Normalize(module, resp)
	if err != nil {
		return nil, nil, err
	}
	capture, err := deriveCapture(result, declaredCapacity, s.now())
	if err != nil {
		return nil, nil, err
	}
	return capture, result, nil
}

// finish records the capture, or clears the busy flag when capture is nil.
// It runs detached from ctx so a cancelled request still releases the module.
func (s *DashboardService) finish(ctx context.Context, id string, module domain.ModuleID, revision uint64, capture *domain.ModuleCapture) error {
	var recordErr error
	_, err := s.store.Update(context.WithoutCancel(ctx), id, func(session *domain.Session) error {
		recordErr = session.FinishSolve(module, revision, capture)
		session.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return err
	}
	return recordErr
}

func (s *DashboardService) abandon(ctx context.Context, id string, module domain.ModuleID, revision uint64, log *zap.Logger) {
	if err := s.finish(ctx, id, module, revision, nil); err != nil {
		log.Warn("failed to release module", zap.Error(err))
	}
}

// Status returns the lifecycle position of every module in display order
func (s *DashboardService) Status(ctx context.Context, id string) ([]ModuleStatus, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]ModuleStatus, 0, len(domain.Modules))
	for _, m := range domain.Modules {
		st := session.Module(m)
		out = append(out, ModuleStatus{
			Module:   m,
			State:    st.State(),
			Revision: st.Revision,
			Capture:  st.Capture,
		})
	}
	return out, nil
}

// Report builds the integrated report from the session's current captures
func (s *DashboardService) Report(ctx context.Context, id string) (synthesis.Report, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return synthesis.Report{}, err
	}
	return synthesis.Build(session.Captures()), nil
}
