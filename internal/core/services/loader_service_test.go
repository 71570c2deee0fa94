package services_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/sales_dashboard/internal/apperrors"
	"github.com/SscSPs/sales_dashboard/internal/core/services"
	portssvc "github.com/SscSPs/sales_dashboard/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const sourceID = "data/sales-data.csv"

const validCSV = `date,order_id,product,category,region,quantity,unit_price,total_amount
2024-01-15,ORD-001234,Wireless Headphones,Electronics,North,2,49.99,99.98
2024-01-15,ORD-001235,Phone Case,Accessories,South,1,15.99,15.99
2024-01-16,ORD-001236,Video Doorbell,Smart Home,East,1,89.99,89.99
`

// MockTransactionSource is a mock type for the TransactionSource interface.
// Open returns a fresh reader over the configured string on every call.
type MockTransactionSource struct {
	mock.Mock
}

func (m *MockTransactionSource) Fingerprint(ctx context.Context, sourceID string) (string, error) {
	args := m.Called(ctx, sourceID)
	return args.String(0), args.Error(1)
}

func (m *MockTransactionSource) Open(ctx context.Context, sourceID string) (io.ReadCloser, error) {
	args := m.Called(ctx, sourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return io.NopCloser(strings.NewReader(args.String(0))), args.Error(1)
}

// --- Test Suite Setup ---

type LoaderServiceTestSuite struct {
	suite.Suite
	mockSource *MockTransactionSource
	loader     portssvc.LoaderSvcFacade
	ctx        context.Context
	loadedAt   time.Time
}

func (suite *LoaderServiceTestSuite) SetupTest() {
	suite.mockSource = new(MockTransactionSource)
	suite.loadedAt = time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
	suite.loader = services.NewLoaderService(suite.mockSource,
		services.WithClock(func() time.Time { return suite.loadedAt }))
	suite.ctx = context.Background()
}

func (suite *LoaderServiceTestSuite) expectContent(fingerprint, content string) {
	suite.mockSource.On("Fingerprint", mock.Anything, sourceID).Return(fingerprint, nil)
	suite.mockSource.On("Open", mock.Anything, sourceID).Return(content, nil)
}

// --- Test Cases ---

func (suite *LoaderServiceTestSuite) TestGetOrLoad_Success() {
	suite.expectContent("fp-1", validCSV)

	table, err := suite.loader.GetOrLoad(suite.ctx, sourceID)

	suite.Require().NoError(err)
	suite.Equal(3, table.Len())
	suite.Equal(sourceID, table.SourceID)
	suite.Equal("fp-1", table.Fingerprint)
	suite.Equal(suite.loadedAt, table.LoadedAt)

	first := table.Row(0)
	suite.Equal(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), first.Date)
	suite.Equal("ORD-001234", first.OrderID)
	suite.Equal(int64(2), first.Quantity)
	suite.True(first.UnitPrice.Equal(decimal.RequireFromString("49.99")))
	suite.True(first.TotalAmount.Equal(decimal.RequireFromString("99.98")))
	suite.Equal("Smart Home", string(table.Row(2).Category))
}

func (suite *LoaderServiceTestSuite) TestGetOrLoad_UnchangedFingerprintUsesCache() {
	suite.expectContent("fp-1", validCSV)

	first, err := suite.loader.GetOrLoad(suite.ctx, sourceID)
	suite.Require().NoError(err)
	second, err := suite.loader.GetOrLoad(suite.ctx, sourceID)
	suite.Require().NoError(err)

	suite.Same(first, second)
	suite.mockSource.AssertNumberOfCalls(suite.T(), "Fingerprint", 2)
	suite.mockSource.AssertNumberOfCalls(suite.T(), "Open", 1)
}

func (suite *LoaderServiceTestSuite) TestGetOrLoad_ChangedFingerprintReloads() {
	suite.mockSource.On("Fingerprint", mock.Anything, sourceID).Return("fp-1", nil).Once()
	suite.mockSource.On("Open", mock.Anything, sourceID).Return(validCSV, nil).Once()

	first, err := suite.loader.GetOrLoad(suite.ctx, sourceID)
	suite.Require().NoError(err)

	updated := validCSV + "2024-01-17,ORD-001237,Smart Watch,Wearables,West,1,199.00,199.00\n"
	suite.mockSource.On("Fingerprint", mock.Anything, sourceID).Return("fp-2", nil).Once()
	suite.mockSource.On("Open", mock.Anything, sourceID).Return(updated, nil).Once()

	second, err := suite.loader.GetOrLoad(suite.ctx, sourceID)
	suite.Require().NoError(err)

	suite.Equal(3, first.Len(), "earlier table is not mutated by the reload")
	suite.Equal(4, second.Len())
	suite.Equal("fp-2", second.Fingerprint)
	suite.mockSource.AssertExpectations(suite.T())
}

func (suite *LoaderServiceTestSuite) TestGetOrLoad_FailedReloadKeepsPreviousEntry() {
	suite.mockSource.On("Fingerprint", mock.Anything, sourceID).Return("fp-1", nil).Once()
	suite.mockSource.On("Open", mock.Anything, sourceID).Return(validCSV, nil).Once()
	first, err := suite.loader.GetOrLoad(suite.ctx, sourceID)
	suite.Require().NoError(err)

	broken := strings.Replace(validCSV, ",North,", ",Central,", 1)
	suite.mockSource.On("Fingerprint", mock.Anything, sourceID).Return("fp-2", nil).Once()
	suite.mockSource.On("Open", mock.Anything, sourceID).Return(broken, nil).Once()
	_, err = suite.loader.GetOrLoad(suite.ctx, sourceID)
	suite.ErrorIs(err, apperrors.ErrIntegrity)

	// Content reverted: the original entry is still valid and no read happens.
	suite.mockSource.On("Fingerprint", mock.Anything, sourceID).Return("fp-1", nil).Once()
	again, err := suite.loader.GetOrLoad(suite.ctx, sourceID)
	suite.Require().NoError(err)
	suite.Same(first, again)
	suite.mockSource.AssertNumberOfCalls(suite.T(), "Open", 2)
}

func (suite *LoaderServiceTestSuite) TestInvalidate_ForcesRead() {
	suite.expectContent("fp-1", validCSV)

	_, err := suite.loader.GetOrLoad(suite.ctx, sourceID)
	suite.Require().NoError(err)
	suite.loader.Invalidate(sourceID)
	_, err = suite.loader.GetOrLoad(suite.ctx, sourceID)
	suite.Require().NoError(err)

	suite.mockSource.AssertNumberOfCalls(suite.T(), "Open", 2)
}

func (suite *LoaderServiceTestSuite) TestGetOrLoad_SourceNotFound() {
	notFound := apperrors.NewDataError(apperrors.KindSourceNotFound, "The data file was not found")
	suite.mockSource.On("Fingerprint", mock.Anything, sourceID).Return("", notFound)

	table, err := suite.loader.GetOrLoad(suite.ctx, sourceID)

	suite.Nil(table)
	suite.ErrorIs(err, apperrors.ErrSource)
	suite.mockSource.AssertNotCalled(suite.T(), "Open", mock.Anything, mock.Anything)
}

func (suite *LoaderServiceTestSuite) TestGetOrLoad_OpenFailureIsReturned() {
	openErr := apperrors.NewDataError(apperrors.KindSourceNotFound, "The data file could not be read")
	suite.mockSource.On("Fingerprint", mock.Anything, sourceID).Return("fp-1", nil)
	suite.mockSource.On("Open", mock.Anything, sourceID).Return(nil, openErr)

	_, err := suite.loader.GetOrLoad(suite.ctx, sourceID)

	suite.ErrorIs(err, openErr)
}

func (suite *LoaderServiceTestSuite) TestGetOrLoad_DateParseError() {
	content := strings.Replace(validCSV, "2024-01-16", "16/01/2024", 1)
	suite.expectContent("fp-1", content)

	_, err := suite.loader.GetOrLoad(suite.ctx, sourceID)

	var de *apperrors.DataError
	suite.Require().ErrorAs(err, &de)
	suite.Equal(apperrors.KindDateParseError, de.Kind)
	suite.Equal(3, de.Row)
	suite.Equal([]string{"16/01/2024"}, de.Values)
	suite.ErrorIs(err, apperrors.ErrParse)
}

func (suite *LoaderServiceTestSuite) TestGetOrLoad_MissingDateColumnReportsSchema() {
	content := "order_id,product,category,region,quantity,unit_price,total_amount\nORD-1,Cable,Accessories,North,1,5.00,5.00\n"
	suite.expectContent("fp-1", content)

	_, err := suite.loader.GetOrLoad(suite.ctx, sourceID)

	var de *apperrors.DataError
	suite.Require().ErrorAs(err, &de)
	suite.Equal(apperrors.KindMissingColumns, de.Kind)
	suite.Equal([]string{"date"}, de.Values)
}

func (suite *LoaderServiceTestSuite) TestGetOrLoad_ValidationErrorsPropagate() {
	tests := []struct {
		name    string
		content string
		kind    apperrors.Kind
	}{
		{"null order id", strings.Replace(validCSV, "ORD-001235", "", 1), apperrors.KindNullCriticalField},
		{"zero amount", strings.Replace(validCSV, ",15.99,15.99", ",15.99,0", 1), apperrors.KindNonPositiveAmount},
		{"zero quantity", strings.Replace(validCSV, ",South,1,", ",South,0,", 1), apperrors.KindInvalidQuantity},
		{"unknown category", strings.Replace(validCSV, "Accessories", "Toys", 1), apperrors.KindInvalidCategory},
		{"malformed amount", strings.Replace(validCSV, ",89.99,89.99", ",89.99,lots", 1), apperrors.KindMalformedNumber},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			source := new(MockTransactionSource)
			source.On("Fingerprint", mock.Anything, sourceID).Return("fp", nil)
			source.On("Open", mock.Anything, sourceID).Return(tt.content, nil)
			loader := services.NewLoaderService(source)

			table, err := loader.GetOrLoad(suite.ctx, sourceID)

			suite.Nil(table)
			kind, ok := apperrors.KindOf(err)
			suite.Require().True(ok)
			suite.Equal(tt.kind, kind)
		})
	}
}

func (suite *LoaderServiceTestSuite) TestGetOrLoad_HeaderOnlyIsEmptyTable() {
	suite.expectContent("fp-1", "date,order_id,product,category,region,quantity,unit_price,total_amount\n")

	table, err := suite.loader.GetOrLoad(suite.ctx, sourceID)

	suite.Require().NoError(err)
	suite.Equal(0, table.Len())
}

func (suite *LoaderServiceTestSuite) TestGetOrLoad_StrictIntegrity() {
	content := strings.Replace(validCSV, ",2,49.99,99.98", ",2,49.99,120.00", 1)
	suite.expectContent("fp-1", content)

	_, err := suite.loader.GetOrLoad(suite.ctx, sourceID)
	suite.Require().NoError(err, "mismatch is accepted by default")

	strict := services.NewLoaderService(suite.mockSource, services.WithStrictIntegrity())
	_, err = strict.GetOrLoad(suite.ctx, sourceID)
	kind, ok := apperrors.KindOf(err)
	suite.Require().True(ok)
	suite.Equal(apperrors.KindAmountMismatch, kind)
}

func (suite *LoaderServiceTestSuite) TestGetOrLoad_ConcurrentCallersShareOneRead() {
	suite.expectContent("fp-1", validCSV)

	const callers = 16
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			table, err := suite.loader.GetOrLoad(suite.ctx, sourceID)
			if err == nil && table.Len() != 3 {
				err = errors.New("unexpected row count")
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		suite.NoError(err)
	}
	suite.mockSource.AssertNumberOfCalls(suite.T(), "Open", 1)
}

func (suite *LoaderServiceTestSuite) TestGetOrLoad_SlowOlderLoadDoesNotReplaceNewerEntry() {
	updated := validCSV + "2024-01-17,ORD-001237,Smart Watch,Wearables,West,1,199.00,199.00\n"
	started := make(chan struct{})
	release := make(chan struct{})

	suite.mockSource.On("Fingerprint", mock.Anything, sourceID).Return("fp-old", nil).Once()
	suite.mockSource.On("Fingerprint", mock.Anything, sourceID).Return("fp-new", nil)
	suite.mockSource.On("Open", mock.Anything, sourceID).Run(func(mock.Arguments) {
		close(started)
		<-release
	}).Return(validCSV, nil).Once()
	suite.mockSource.On("Open", mock.Anything, sourceID).Return(updated, nil).Once()

	oldDone := make(chan error, 1)
	go func() {
		_, err := suite.loader.GetOrLoad(suite.ctx, sourceID)
		oldDone <- err
	}()
	<-started

	newer, err := suite.loader.GetOrLoad(suite.ctx, sourceID)
	suite.Require().NoError(err)
	suite.Equal(4, newer.Len())

	close(release)
	suite.Require().NoError(<-oldDone)

	cached, err := suite.loader.GetOrLoad(suite.ctx, sourceID)
	suite.Require().NoError(err)
	suite.Same(newer, cached)
	suite.mockSource.AssertNumberOfCalls(suite.T(), "Open", 2)
}

func TestLoaderService(t *testing.T) {
	suite.Run(t, new(LoaderServiceTestSuite))
}
