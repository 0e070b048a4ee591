package repositories

import (
	"context"
	"testing"
	"time"

	"tivastore/internal/models"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type ProductRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    ProductRepository
	storeID uuid.UUID
	ctx     context.Context
}

func (suite *ProductRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock
	suite.repo = NewProductRepo(mock)
	suite.storeID = uuid.New()
	suite.ctx = context.Background()
}

func (suite *ProductRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestProductRepoTestSuite(t *testing.T) {
	suite.Run(t, new(ProductRepoTestSuite))
}

func (suite *ProductRepoTestSuite) productRow(id uuid.UUID) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows([]string{
		"id", "store_id", "name", "description", "price", "stock",
		"image_urls", "tags", "status", "is_active", "created_by",
		"created_at", "updated_at",
	}).AddRow(id, suite.storeID, "Green Tea", "", 5000.0, 10,
		[]string{}, []string{"tea"}, "active", true, uuid.New(), now, now)
}

func (suite *ProductRepoTestSuite) TestGetByID_ScopedToStore() {
	id := uuid.New()
	suite.mock.ExpectQuery(`SELECT .+ FROM products WHERE id = \$1 AND store_id = \$2 AND is_active = true`).
		WithArgs(id, suite.storeID).
		WillReturnRows(suite.productRow(id))

	product, err := suite.repo.GetByID(suite.ctx, suite.storeID, id)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), id, product.ID)
	assert.Equal(suite.T(), suite.storeID, product.StoreID)
}

func (suite *ProductRepoTestSuite) TestGetByID_OtherTenantLooksAbsent() {
	id := uuid.New()
	otherStore := uuid.New()
	suite.mock.ExpectQuery(`SELECT .+ FROM products WHERE id = \$1 AND store_id = \$2 AND is_active = true`).
		WithArgs(id, otherStore).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	_, err := suite.repo.GetByID(suite.ctx, otherStore, id)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *ProductRepoTestSuite) TestSoftDelete_NotFoundWhenNoRows() {
	id := uuid.New()
	suite.mock.ExpectExec(`UPDATE products SET is_active = false`).
		WithArgs(id, suite.storeID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := suite.repo.SoftDelete(suite.ctx, suite.storeID, id)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *ProductRepoTestSuite) TestCountActiveByStore() {
	suite.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM products WHERE store_id = \$1 AND is_active = true AND status = 'active'`).
		WithArgs(suite.storeID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(7))

	count, err := suite.repo.CountActiveByStore(suite.ctx, suite.storeID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 7, count)
}

func (suite *ProductRepoTestSuite) TestList_FiltersByStatus() {
	suite.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM products WHERE store_id = \$1 AND is_active = true AND status = \$2`).
		WithArgs(suite.storeID, "archived").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))
	suite.mock.ExpectQuery(`SELECT .+ FROM products WHERE store_id = \$1 AND is_active = true AND status = \$2 ORDER BY created_at DESC LIMIT \$3 OFFSET \$4`).
		WithArgs(suite.storeID, "archived", 20, 0).
		WillReturnRows(suite.productRow(uuid.New()))

	products, total, err := suite.repo.List(suite.ctx, suite.storeID, models.ProductSearchFilter{
		Status: "archived",
		Page:   1,
		Limit:  20,
	})
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, total)
	assert.Len(suite.T(), products, 1)
}
