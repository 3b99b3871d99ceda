package repositories

import (
	"context"
	"testing"
	"time"

	"farmmart/internal/models"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type OrderRepoTestSuite struct {
	suite.Suite
	mock     pgxmock.PgxPoolIface
	repo     OrderRepository
	buyerID  uuid.UUID
	farmerID uuid.UUID
	orderID  uuid.UUID
	context  context.Context
}

func (suite *OrderRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewOrderRepo(mock)
	suite.buyerID = uuid.New()
	suite.farmerID = uuid.New()
	suite.orderID = uuid.New()
	suite.context = context.Background()
}

func (suite *OrderRepoTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestOrderRepoTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepoTestSuite))
}

func (suite *OrderRepoTestSuite) orderColumns() []string {
	return []string{"id", "buyer_id", "status", "total_amount", "created_at", "updated_at"}
}

func (suite *OrderRepoTestSuite) TestCreate_Success() {
	order := &models.Order{
		ID:          suite.orderID,
		BuyerID:     suite.buyerID,
		Status:      models.OrderStatusPending,
		TotalAmount: 30.00,
	}

	suite.mock.ExpectExec(`INSERT INTO orders`).
		WithArgs(order.ID, order.BuyerID, order.Status, order.TotalAmount).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Create(suite.context, order)
	assert.NoError(suite.T(), err)
}

func (suite *OrderRepoTestSuite) TestGetByID_NotFound() {
	suite.mock.ExpectQuery(`SELECT id, buyer_id, status, total_amount, created_at, updated_at`).
		WithArgs(suite.orderID).
		WillReturnError(pgx.ErrNoRows)

	order, err := suite.repo.GetByID(suite.context, suite.orderID)
	assert.ErrorIs(suite.T(), err, pgx.ErrNoRows)
	assert.Nil(suite.T(), order)
}

func (suite *OrderRepoTestSuite) TestUpdateStatusIf_Matched() {
	suite.mock.ExpectExec(`UPDATE orders`).
		WithArgs(suite.orderID, models.OrderStatusPending, models.OrderStatusCancelled).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	affected, err := suite.repo.UpdateStatusIf(suite.context, suite.orderID, models.OrderStatusPending, models.OrderStatusCancelled)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(1), affected)
}

func (suite *OrderRepoTestSuite) TestUpdateStatusIf_StatusMismatch() {
	// Order already left pending; the guarded update must match nothing.
	suite.mock.ExpectExec(`UPDATE orders`).
		WithArgs(suite.orderID, models.OrderStatusPending, models.OrderStatusCancelled).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	affected, err := suite.repo.UpdateStatusIf(suite.context, suite.orderID, models.OrderStatusPending, models.OrderStatusCancelled)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(0), affected)
}

func (suite *OrderRepoTestSuite) TestListByBuyer_Success() {
	now := time.Now()
	rows := pgxmock.NewRows(suite.orderColumns()).
		AddRow(uuid.New(), suite.buyerID, models.OrderStatusPending, 30.00, now, now).
		AddRow(uuid.New(), suite.buyerID, models.OrderStatusCompleted, 12.50, now.Add(-time.Hour), now)

	suite.mock.ExpectQuery(`SELECT id, buyer_id, status, total_amount, created_at, updated_at`).
		WithArgs(suite.buyerID, 20, 0).
		WillReturnRows(rows)

	orders, err := suite.repo.ListByBuyer(suite.context, suite.buyerID, 20, 0)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), orders, 2)
	assert.Equal(suite.T(), models.OrderStatusPending, orders[0].Status)
}

func (suite *OrderRepoTestSuite) TestListByFarmer_ExcludesCancelled() {
	now := time.Now()
	rows := pgxmock.NewRows(suite.orderColumns()).
		AddRow(suite.orderID, suite.buyerID, models.OrderStatusCompleted, 45.00, now, now)

	suite.mock.ExpectQuery(`SELECT DISTINCT o.id, o.buyer_id, o.status, o.total_amount`).
		WithArgs(suite.farmerID).
		WillReturnRows(rows)

	orders, err := suite.repo.ListByFarmer(suite.context, suite.farmerID)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), orders, 1)
	assert.Equal(suite.T(), models.OrderStatusCompleted, orders[0].Status)
}

func (suite *OrderRepoTestSuite) TestProductSalesByFarmer_Success() {
	productID := uuid.New()
	rows := pgxmock.NewRows([]string{"product_id", "product_name", "sum", "sum"}).
		AddRow(productID, "Heirloom Tomatoes", 14, 63.00).
		AddRow(uuid.New(), "Raw Honey", 3, 36.00)

	suite.mock.ExpectQuery(`SELECT ol.product_id, ol.product_name, SUM\(ol.quantity\), SUM\(ol.quantity \* ol.unit_price\)`).
		WithArgs(suite.farmerID).
		WillReturnRows(rows)

	sales, err := suite.repo.ProductSalesByFarmer(suite.context, suite.farmerID)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), sales, 2)
	assert.Equal(suite.T(), productID, sales[0].ProductID)
	assert.Equal(suite.T(), 14, sales[0].TotalQuantity)
	assert.Equal(suite.T(), 63.00, sales[0].Revenue)
}

func (suite *OrderRepoTestSuite) TestFarmerIDsForOrder_Distinct() {
	otherFarmerID := uuid.New()
	rows := pgxmock.NewRows([]string{"farmer_id"}).
		AddRow(suite.farmerID).
		AddRow(otherFarmerID)

	suite.mock.ExpectQuery(`SELECT DISTINCT p.farmer_id`).
		WithArgs(suite.orderID).
		WillReturnRows(rows)

	ids, err := suite.repo.FarmerIDsForOrder(suite.context, suite.orderID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), []uuid.UUID{suite.farmerID, otherFarmerID}, ids)
}

func (suite *OrderRepoTestSuite) TestFarmerIDsForOrder_NoSurvivingProducts() {
	suite.mock.ExpectQuery(`SELECT DISTINCT p.farmer_id`).
		WithArgs(suite.orderID).
		WillReturnRows(pgxmock.NewRows([]string{"farmer_id"}))

	ids, err := suite.repo.FarmerIDsForOrder(suite.context, suite.orderID)
	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), ids)
}

func (suite *OrderRepoTestSuite) TestProductSalesByFarmer_Empty() {
	suite.mock.ExpectQuery(`SELECT ol.product_id, ol.product_name`).
		WithArgs(suite.farmerID).
		WillReturnRows(pgxmock.NewRows([]string{"product_id", "product_name", "sum", "sum"}))

	sales, err := suite.repo.ProductSalesByFarmer(suite.context, suite.farmerID)
	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), sales)
}
