package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"farmmart/internal/models"
	"farmmart/internal/repositories"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

// memoryCache is an in-process CacheService for tests.
type memoryCache struct {
	mu       sync.Mutex
	products map[uuid.UUID]*models.Product
	reports  map[uuid.UUID]*models.SalesReport
}

func newMemoryCache() *memoryCache {
	return &memoryCache{
		products: make(map[uuid.UUID]*models.Product),
		reports:  make(map[uuid.UUID]*models.SalesReport),
	}
}

func (m *memoryCache) GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.products[productID], nil
}

func (m *memoryCache) SetProduct(ctx context.Context, product *models.Product, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[product.ID] = product
	return nil
}

func (m *memoryCache) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.products, productID)
	return nil
}

func (m *memoryCache) GetSalesReport(ctx context.Context, farmerID uuid.UUID) (*models.SalesReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reports[farmerID], nil
}

func (m *memoryCache) SetSalesReport(ctx context.Context, report *models.SalesReport, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports[report.FarmerID] = report
	return nil
}

func (m *memoryCache) DeleteSalesReport(ctx context.Context, farmerID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.reports, farmerID)
	return nil
}

func (m *memoryCache) Ping(ctx context.Context) error { return nil }

type ReportServiceTestSuite struct {
	suite.Suite
	mock     pgxmock.PgxPoolIface
	cache    *memoryCache
	svc      ReportService
	farmerID uuid.UUID
	context  context.Context
}

func (suite *ReportServiceTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock
	suite.cache = newMemoryCache()

	suite.svc = NewReportService(repositories.NewOrderRepo(mock), suite.cache)
	suite.farmerID = uuid.New()
	suite.context = context.Background()
}

func (suite *ReportServiceTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestReportServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportServiceTestSuite))
}

func (suite *ReportServiceTestSuite) TestGetSalesReport_BuildsFromOrders() {
	now := time.Now()
	orderRows := pgxmock.NewRows([]string{"id", "buyer_id", "status", "total_amount", "created_at", "updated_at"}).
		AddRow(uuid.New(), uuid.New(), models.OrderStatusCompleted, 63.00, now, now).
		AddRow(uuid.New(), uuid.New(), models.OrderStatusPending, 36.00, now, now)
	salesRows := pgxmock.NewRows([]string{"product_id", "product_name", "sum", "sum"}).
		AddRow(uuid.New(), "Heirloom Tomatoes", 14, 63.00).
		AddRow(uuid.New(), "Raw Honey", 3, 36.00)

	suite.mock.ExpectQuery(`SELECT DISTINCT o.id, o.buyer_id, o.status, o.total_amount`).
		WithArgs(suite.farmerID).
		WillReturnRows(orderRows)
	suite.mock.ExpectQuery(`SELECT ol.product_id, ol.product_name`).
		WithArgs(suite.farmerID).
		WillReturnRows(salesRows)

	report, err := suite.svc.GetSalesReportForFarmer(suite.context, suite.farmerID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), suite.farmerID, report.FarmerID)
	assert.Equal(suite.T(), 2, report.TotalOrders)
	assert.Equal(suite.T(), 99.00, report.TotalRevenue)
	assert.Len(suite.T(), report.ProductSales, 2)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *ReportServiceTestSuite) TestGetSalesReport_ServesCachedCopy() {
	cached := &models.SalesReport{
		FarmerID:     suite.farmerID,
		TotalOrders:  5,
		TotalRevenue: 250.00,
		ProductSales: []*models.ProductSales{},
		Orders:       []*models.Order{},
	}
	assert.NoError(suite.T(), suite.cache.SetSalesReport(suite.context, cached, time.Minute))

	// No query expectations: a cache hit must not touch the database.
	report, err := suite.svc.GetSalesReportForFarmer(suite.context, suite.farmerID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 5, report.TotalOrders)
	assert.Equal(suite.T(), 250.00, report.TotalRevenue)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *ReportServiceTestSuite) TestGetSalesReport_EmptyCatalog() {
	suite.mock.ExpectQuery(`SELECT DISTINCT o.id, o.buyer_id, o.status, o.total_amount`).
		WithArgs(suite.farmerID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "buyer_id", "status", "total_amount", "created_at", "updated_at"}))
	suite.mock.ExpectQuery(`SELECT ol.product_id, ol.product_name`).
		WithArgs(suite.farmerID).
		WillReturnRows(pgxmock.NewRows([]string{"product_id", "product_name", "sum", "sum"}))

	report, err := suite.svc.GetSalesReportForFarmer(suite.context, suite.farmerID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 0, report.TotalOrders)
	assert.Equal(suite.T(), 0.0, report.TotalRevenue)
	assert.NotNil(suite.T(), report.ProductSales)
	assert.NotNil(suite.T(), report.Orders)
}

func (suite *ReportServiceTestSuite) TestRefreshSalesReport_RewritesCache() {
	now := time.Now()
	suite.mock.ExpectQuery(`SELECT DISTINCT o.id, o.buyer_id, o.status, o.total_amount`).
		WithArgs(suite.farmerID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "buyer_id", "status", "total_amount", "created_at", "updated_at"}).
			AddRow(uuid.New(), uuid.New(), models.OrderStatusCompleted, 18.00, now, now))
	suite.mock.ExpectQuery(`SELECT ol.product_id, ol.product_name`).
		WithArgs(suite.farmerID).
		WillReturnRows(pgxmock.NewRows([]string{"product_id", "product_name", "sum", "sum"}).
			AddRow(uuid.New(), "Eggs", 3, 18.00))

	err := suite.svc.RefreshSalesReport(suite.context, suite.farmerID)
	assert.NoError(suite.T(), err)

	cached, err := suite.cache.GetSalesReport(suite.context, suite.farmerID)
	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), cached)
	assert.Equal(suite.T(), 18.00, cached.TotalRevenue)
}
