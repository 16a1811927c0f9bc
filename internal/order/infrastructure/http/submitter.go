package http

import (
	"context"

	"github.com/dmehra2102/pos-terminal/internal/order/domain"
	"github.com/dmehra2102/pos-terminal/pkg/apiclient"
)

const PathOrders = "/orders"

// Submitter posts orders to the backend. The response body is ignored.
type Submitter struct {
	api *apiclient.Client
}

func NewSubmitter(api *apiclient.Client) *Submitter {
	return &Submitter{api: api}
}

func (s *Submitter) SubmitOrder(ctx context.Context, sub domain.Submission) error {
	return s.api.PostJSON(ctx, PathOrders, sub, nil)
}
