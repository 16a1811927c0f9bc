package http

import (
	"context"

	"github.com/dmehra2102/pos-terminal/internal/catalog/domain"
	"github.com/dmehra2102/pos-terminal/pkg/apiclient"
)

const (
	PathMembers    = "/members"
	PathProducts   = "/products"
	PathBoards     = "/boards"
	PathCommittees = "/committees"
)

type CatalogClient struct {
	api *apiclient.Client
}

func NewCatalogClient(api *apiclient.Client) *CatalogClient {
	return &CatalogClient{api: api}
}

func (c *CatalogClient) Members(ctx context.Context) ([]domain.RawMember, error) {
	var resp domain.MembersResponse
	if err := c.api.GetJSON(ctx, PathMembers, &resp); err != nil {
		return nil, err
	}
	return resp.Members, nil
}

func (c *CatalogClient) Products(ctx context.Context) ([]domain.RawProduct, error) {
	var resp domain.ProductsResponse
	if err := c.api.GetJSON(ctx, PathProducts, &resp); err != nil {
		return nil, err
	}
	return resp.Products, nil
}

func (c *CatalogClient) BoardMembers(ctx context.Context) ([]domain.RawBoardMember, error) {
	var resp domain.BoardsResponse
	if err := c.api.GetJSON(ctx, PathBoards, &resp); err != nil {
		return nil, err
	}
	return resp.BoardMembers, nil
}

func (c *CatalogClient) CommitteeMembers(ctx context.Context) ([]domain.RawCommitteeMember, error) {
	var resp domain.CommitteesResponse
	if err := c.api.GetJSON(ctx, PathCommittees, &resp); err != nil {
		return nil, err
	}
	return resp.Committees, nil
}
