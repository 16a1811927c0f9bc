package application

import (
	"context"

	"github.com/dmehra2102/pos-terminal/internal/catalog/domain"
)

// BackendAPI serves the raw catalog resources.
type BackendAPI interface {
	Members(ctx context.Context) ([]domain.RawMember, error)
	Products(ctx context.Context) ([]domain.RawProduct, error)
	BoardMembers(ctx context.Context) ([]domain.RawBoardMember, error)
	CommitteeMembers(ctx context.Context) ([]domain.RawCommitteeMember, error)
}
