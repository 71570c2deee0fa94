package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/sales_dashboard/internal/adapters/csvframe"
	"github.com/SscSPs/sales_dashboard/internal/apperrors"
	"github.com/SscSPs/sales_dashboard/internal/core/domain"
	portsrepo "github.com/SscSPs/sales_dashboard/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/sales_dashboard/internal/core/ports/services"
	"github.com/SscSPs/sales_dashboard/internal/core/validation"
	"golang.org/x/sync/singleflight"
)

// cacheEntry is the memoized table of one source together with the
// fingerprint of the content it was built from.
type cacheEntry struct {
	fingerprint string
	table       *domain.TransactionTable
	// seq orders loads by start time; a slower, older load never replaces a newer entry.
	seq uint64
}

// loaderService implements the LoaderSvcFacade interface.
// It keeps one entry per source identity, with no eviction.
type loaderService struct {
	BaseService
	source         portsrepo.TransactionSource
	validationOpts []validation.Option
	now            func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
	nextSeq uint64
	loads   singleflight.Group
}

// LoaderServiceOption is a functional option for configuring the loader service
type LoaderServiceOption func(*loaderService)

// WithStrictIntegrity makes the loader reject non-positive unit prices and
// totals that do not match quantity times unit price.
func WithStrictIntegrity() LoaderServiceOption {
	return func(s *loaderService) {
		s.validationOpts = append(s.validationOpts, validation.WithStrictIntegrity())
	}
}

// WithClock overrides the time source used to stamp loaded tables.
func WithClock(now func() time.Time) LoaderServiceOption {
	return func(s *loaderService) {
		s.now = now
	}
}

// NewLoaderService creates a new loader service reading from source.
func NewLoaderService(source portsrepo.TransactionSource, options ...LoaderServiceOption) portssvc.LoaderSvcFacade {
	svc := &loaderService{
		source:  source,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure loaderService implements the LoaderSvcFacade interface
var _ portssvc.LoaderSvcFacade = (*loaderService)(nil)

// GetOrLoad returns the cached table of sourceID while its fingerprint is unchanged,
// and otherwise reads, parses and validates the source again. A failed reload keeps
// the previous entry so that a later call retries.
func (s *loaderService) GetOrLoad(ctx context.Context, sourceID string) (*domain.TransactionTable, error) {
	fingerprint, err := s.source.Fingerprint(ctx, sourceID)
	if err != nil {
		s.LogError(ctx, err, "Failed to fingerprint data source", slog.String("source", sourceID))
		return nil, err
	}

	if table, ok := s.lookup(sourceID, fingerprint); ok {
		s.LogDebug(ctx, "Data source unchanged, using cached table",
			slog.String("source", sourceID),
			slog.String("fingerprint", fingerprint))
		return table, nil
	}

	// Concurrent first loads of the same content share one read.
	v, err, shared := s.loads.Do(sourceID+"\x00"+fingerprint, func() (any, error) {
		if table, ok := s.lookup(sourceID, fingerprint); ok {
			return table, nil
		}
		seq := s.beginLoad()
		table, err := s.load(ctx, sourceID, fingerprint)
		if err != nil {
			return nil, err
		}
		if !s.store(sourceID, cacheEntry{fingerprint: fingerprint, table: table, seq: seq}) {
			s.LogDebug(ctx, "Newer load already cached, keeping it",
				slog.String("source", sourceID),
				slog.String("fingerprint", fingerprint))
		}
		return table, nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to load data source",
			slog.String("source", sourceID),
			slog.String("kind", kindAttr(err)))
		return nil, err
	}

	table := v.(*domain.TransactionTable)
	s.LogInfo(ctx, "Data source loaded",
		slog.String("source", sourceID),
		slog.String("fingerprint", fingerprint),
		slog.Int("row_count", table.Len()),
		slog.Bool("shared", shared))
	return table, nil
}

// Invalidate drops the cached table of sourceID.
func (s *loaderService) Invalidate(sourceID string) {
	s.mu.Lock()
	delete(s.entries, sourceID)
	s.mu.Unlock()
}

func (s *loaderService) lookup(sourceID, fingerprint string) (*domain.TransactionTable, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[sourceID]
	if !ok || entry.fingerprint != fingerprint {
		return nil, false
	}
	return entry.table, true
}

func (s *loaderService) beginLoad() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSeq++
	return s.nextSeq
}

// store saves entry unless a load that started later has already been stored.
func (s *loaderService) store(sourceID string, entry cacheEntry) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if current, ok := s.entries[sourceID]; ok && current.seq > entry.seq {
		return false
	}
	s.entries[sourceID] = entry
	return true
}

// load runs one read, date parse, validate and convert cycle.
func (s *loaderService) load(ctx context.Context, sourceID, fingerprint string) (*domain.TransactionTable, error) {
	rc, err := s.source.Open(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	frame, err := csvframe.Decode(rc, sourceID)
	if err != nil {
		return nil, err
	}

	dates, err := parseDates(frame)
	if err != nil {
		return nil, err
	}

	if err := validation.Validate(frame, s.validationOpts...); err != nil {
		return nil, err
	}

	rows, err := buildRows(frame, dates)
	if err != nil {
		return nil, err
	}

	return domain.NewTransactionTable(sourceID, fingerprint, s.now(), rows), nil
}

// parseDates parses the date column. A frame without one is left to the
// validator, which reports it among the missing columns.
func parseDates(frame *domain.Frame) ([]time.Time, error) {
	if !frame.HasColumn(domain.ColumnDate) {
		return nil, nil
	}
	dates := make([]time.Time, frame.Len())
	for i := range dates {
		raw := frame.Cell(i, domain.ColumnDate)
		d, err := time.Parse(domain.DateLayout, raw)
		if err != nil {
			de := apperrors.NewDataError(apperrors.KindDateParseError,
				"The date %q on row %d is not a valid date (expected YYYY-MM-DD)", raw, i+1)
			de.Values = []string{raw}
			de.Row = i + 1
			de.Err = err
			return nil, de
		}
		dates[i] = d
	}
	return dates, nil
}

// buildRows converts a validated frame into typed rows.
func buildRows(frame *domain.Frame, dates []time.Time) ([]domain.Transaction, error) {
	rows := make([]domain.Transaction, frame.Len())
	for i := range rows {
		qty, err := validation.ParseQuantity(frame, i)
		if err != nil {
			return nil, err
		}
		price, err := validation.ParseDecimal(frame, i, domain.ColumnUnitPrice)
		if err != nil {
			return nil, err
		}
		total, err := validation.ParseDecimal(frame, i, domain.ColumnTotalAmount)
		if err != nil {
			return nil, err
		}
		rows[i] = domain.Transaction{
			Date:        dates[i],
			OrderID:     frame.Cell(i, domain.ColumnOrderID),
			Product:     frame.Cell(i, domain.ColumnProduct),
			Category:    domain.Category(frame.Cell(i, domain.ColumnCategory)),
			Region:      domain.Region(frame.Cell(i, domain.ColumnRegion)),
			Quantity:    qty,
			UnitPrice:   price,
			TotalAmount: total,
		}
	}
	return rows, nil
}

func kindAttr(err error) string {
	if kind, ok := apperrors.KindOf(err); ok {
		return string(kind)
	}
	return fmt.Sprintf("%T", err)
}
