package services

import (
	"context"

	"github.com/SscSPs/sales_dashboard/internal/core/domain"
)

// LoaderSvcFacade loads validated transaction tables and memoizes them per source.
type LoaderSvcFacade interface {
	// GetOrLoad returns the table for sourceID, reusing the cached one while the
	// source content is unchanged.
	GetOrLoad(ctx context.Context, sourceID string) (*domain.TransactionTable, error)

	// Invalidate drops the cached table of sourceID, if any.
	Invalidate(sourceID string)
}
