package application

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/dmehra2102/pos-terminal/internal/action"
	"github.com/dmehra2102/pos-terminal/internal/catalog/domain"
	"github.com/dmehra2102/pos-terminal/pkg/metrics"
)

const (
	ResourceMembers          = "members"
	ResourceProducts         = "products"
	ResourceBoardMembers     = "board_members"
	ResourceCommitteeMembers = "committee_members"
)

// Service fetches catalog resources and reports each fetch as a REQUEST
// action followed by exactly one SUCCESS or FAILURE action.
type Service struct {
	log      *slog.Logger
	api      BackendAPI
	dispatch action.Dispatcher
	metrics  *metrics.Metrics
	now      func() time.Time
	tracer   trace.Tracer
}

func NewService(log *slog.Logger, api BackendAPI, dispatch action.Dispatcher, m *metrics.Metrics) *Service {
	return &Service{
		log:      log,
		api:      api,
		dispatch: dispatch,
		metrics:  m,
		now:      time.Now,
		tracer:   otel.Tracer("catalog"),
	}
}

// WithClock replaces the clock used to compute member ages.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// fetch is a started resource fetch: its REQUEST action has been dispatched
// and run performs the network call.
type fetch struct {
	run func(ctx context.Context) error
}

func (s *Service) FetchMembers(ctx context.Context) error {
	return s.startMembers().run(ctx)
}

func (s *Service) FetchProducts(ctx context.Context) error {
	return s.startProducts().run(ctx)
}

func (s *Service) FetchBoardMembers(ctx context.Context) error {
	return s.startBoardMembers().run(ctx)
}

func (s *Service) FetchCommitteeMembers(ctx context.Context) error {
	return s.startCommitteeMembers().run(ctx)
}

// FetchInitialData dispatches all four REQUEST actions, then fetches the
// resources concurrently. It returns once every fetch has resolved; a failed
// fetch does not cancel the others. The first error is returned.
func (s *Service) FetchInitialData(ctx context.Context) error {
	fetches := []fetch{
		s.startMembers(),
		s.startProducts(),
		s.startBoardMembers(),
		s.startCommitteeMembers(),
	}

	var g errgroup.Group
	for _, f := range fetches {
		f := f // per-iteration copy; go.mod targets go1.21 loop semantics
		g.Go(func() error {
			return f.run(ctx)
		})
	}
	return g.Wait()
}

func (s *Service) startMembers() fetch {
	s.dispatch.Dispatch(action.Plain{Kind: action.FetchMembersRequest})
	return fetch{run: func(ctx context.Context) error {
		ctx, span := s.tracer.Start(ctx, "FetchMembers")
		defer span.End()

		raw, err := s.api.Members(ctx)
		if err != nil {
			return s.fail(ResourceMembers, action.FetchMembersFailure, err)
		}
		members := domain.NormalizeMembers(raw, s.now())
		s.succeed(ResourceMembers, len(members))
		s.dispatch.Dispatch(action.MembersFetched{Members: members})
		return nil
	}}
}

func (s *Service) startProducts() fetch {
	s.dispatch.Dispatch(action.Plain{Kind: action.FetchProductsRequest})
	return fetch{run: func(ctx context.Context) error {
		ctx, span := s.tracer.Start(ctx, "FetchProducts")
		defer span.End()

		raw, err := s.api.Products(ctx)
		if err != nil {
			return s.fail(ResourceProducts, action.FetchProductsFailure, err)
		}
		products := domain.NormalizeProducts(raw)
		for _, p := range products {
			if !p.PriceValid {
				s.log.Warn("product price unparseable", "product_id", p.ID)
			}
		}
		s.succeed(ResourceProducts, len(products))
		s.dispatch.Dispatch(action.ProductsFetched{Products: products})
		return nil
	}}
}

func (s *Service) startBoardMembers() fetch {
	s.dispatch.Dispatch(action.Plain{Kind: action.FetchBoardMembersRequest})
	return fetch{run: func(ctx context.Context) error {
		ctx, span := s.tracer.Start(ctx, "FetchBoardMembers")
		defer span.End()

		raw, err := s.api.BoardMembers(ctx)
		if err != nil {
			return s.fail(ResourceBoardMembers, action.FetchBoardMembersFailure, err)
		}
		board := domain.NormalizeBoardMembers(raw)
		s.succeed(ResourceBoardMembers, len(board))
		s.dispatch.Dispatch(action.BoardMembersFetched{BoardMembers: board})
		return nil
	}}
}

func (s *Service) startCommitteeMembers() fetch {
	s.dispatch.Dispatch(action.Plain{Kind: action.FetchCommitteeMembersRequest})
	return fetch{run: func(ctx context.Context) error {
		ctx, span := s.tracer.Start(ctx, "FetchCommitteeMembers")
		defer span.End()

		raw, err := s.api.CommitteeMembers(ctx)
		if err != nil {
			return s.fail(ResourceCommitteeMembers, action.FetchCommitteeMembersFailure, err)
		}
		committees := domain.NormalizeCommitteeMembers(raw)
		s.succeed(ResourceCommitteeMembers, len(committees))
		s.dispatch.Dispatch(action.CommitteeMembersFetched{Committees: committees})
		return nil
	}}
}

func (s *Service) succeed(resource string, n int) {
	s.metrics.Fetch(resource, nil)
	s.log.Info("fetched", "resource", resource, "count", n)
}

func (s *Service) fail(resource string, kind action.Type, err error) error {
	s.metrics.Fetch(resource, err)
	s.log.Error("fetch failed", "resource", resource, "err", err)
	s.dispatch.Dispatch(action.Plain{Kind: kind})
	return err
}
