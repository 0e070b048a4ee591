package services

import (
	"context"
	"net/http"
	"testing"

	"tivastore/internal/models"
	"tivastore/internal/repositories"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type CatalogServiceTestSuite struct {
	suite.Suite
	storeRepo   *MockStoreRepository
	productRepo *MockProductRepository
	orderRepo   *MockOrderRepository
	service     *CatalogService
	store       *models.Store
	ctx         context.Context
}

func (suite *CatalogServiceTestSuite) SetupTest() {
	suite.storeRepo = &MockStoreRepository{}
	suite.productRepo = &MockProductRepository{}
	suite.orderRepo = &MockOrderRepository{}
	orderSvc := NewOrderService(suite.orderRepo, suite.productRepo, nil)
	suite.service = NewCatalogService(suite.storeRepo, suite.productRepo, orderSvc, nil)
	suite.ctx = context.Background()

	suite.store = &models.Store{
		ID:             uuid.New(),
		OwnerID:        uuid.New(),
		Name:           "Demo Store",
		WhatsappNumber: "+1 (555) 000-1234",
		Currency:       "USD",
		CatalogID:      "demo-store",
		IsActive:       true,
		Settings:       models.DefaultStoreSettings(),
	}

	suite.storeRepo.Test(suite.T())
	suite.productRepo.Test(suite.T())
	suite.orderRepo.Test(suite.T())
}

func TestCatalogServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CatalogServiceTestSuite))
}

func (suite *CatalogServiceTestSuite) TestGetStore_CountsVisit() {
	suite.storeRepo.On("GetByCatalogID", suite.ctx, "demo-store").Return(suite.store, nil)
	suite.storeRepo.On("IncrementViews", suite.ctx, suite.store.ID, 1).Return(nil)

	profile, err := suite.service.GetStore(suite.ctx, "demo-store")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Demo Store", profile["name"])
	suite.storeRepo.AssertExpectations(suite.T())
}

func (suite *CatalogServiceTestSuite) TestGetStore_UnknownSlugIs404() {
	suite.storeRepo.On("GetByCatalogID", suite.ctx, "nope").Return(nil, repositories.ErrNotFound)

	_, err := suite.service.GetStore(suite.ctx, "nope")
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), http.StatusNotFound, httpErr.Code)
	assert.Equal(suite.T(), "Catalog not found", httpErr.Message)
}

func (suite *CatalogServiceTestSuite) TestPlaceOrder_PendingWithWhatsappLink() {
	tea := &models.Product{
		ID: uuid.New(), StoreID: suite.store.ID, Name: "Green Tea",
		Price: 5000, Stock: 10, Status: models.ProductStatusActive, IsActive: true,
	}
	mug := &models.Product{
		ID: uuid.New(), StoreID: suite.store.ID, Name: "Mug",
		Price: 2500, Stock: 5, Status: models.ProductStatusActive, IsActive: true,
	}

	suite.storeRepo.On("GetByCatalogID", suite.ctx, "demo-store").Return(suite.store, nil)
	suite.productRepo.On("GetActiveByID", suite.ctx, suite.store.ID, tea.ID).Return(tea, nil)
	suite.productRepo.On("GetActiveByID", suite.ctx, suite.store.ID, mug.ID).Return(mug, nil)
	suite.orderRepo.On("CountByStore", suite.ctx, suite.store.ID).Return(0, nil)
	suite.orderRepo.On("Create", suite.ctx, mock.AnythingOfType("*models.Order")).Return(nil)

	order, err := suite.service.PlaceOrder(suite.ctx, "demo-store", OrderInput{
		Customer: models.OrderCustomer{Name: "Ada", Phone: "+1555000111"},
		Items: []CartLine{
			{ProductID: tea.ID, Quantity: 2},
			{ProductID: mug.ID, Quantity: 4},
		},
		// Anonymous shoppers cannot inflate the total.
		Shipping: 900,
		Tax:      100,
	})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.OrderStatusPending, order.Status)
	// Unspecified channel defaults to whatsapp on the storefront.
	assert.Equal(suite.T(), models.ChannelWhatsapp, order.Channel)
	assert.Equal(suite.T(), 20000.0, order.Totals.Total)
	assert.Equal(suite.T(), 0.0, order.Totals.Shipping)
	assert.Equal(suite.T(), 0.0, order.Totals.Tax)
	assert.Nil(suite.T(), order.CreatedBy)
	// Digits only in the wa.me link, message URL-encoded with the customer
	// phone and the persisted order id.
	assert.NotNil(suite.T(), order.WhatsappLink)
	assert.Contains(suite.T(), *order.WhatsappLink, "https://wa.me/15550001234?text=")
	assert.NotContains(suite.T(), *order.WhatsappLink, " ")
	assert.Contains(suite.T(), *order.WhatsappLink, "%2B1555000111")
	assert.Contains(suite.T(), *order.WhatsappLink, order.ID.String())
	// Store has no SMS number configured.
	assert.Nil(suite.T(), order.SMSLink)
	// Stock is checked but never reduced.
	for _, call := range suite.productRepo.Calls {
		assert.Equal(suite.T(), "GetActiveByID", call.Method)
	}
}

func (suite *CatalogServiceTestSuite) TestPlaceOrder_InsufficientStockPersistsNothing() {
	tea := &models.Product{
		ID: uuid.New(), StoreID: suite.store.ID, Name: "Green Tea",
		Price: 5000, Stock: 1, Status: models.ProductStatusActive, IsActive: true,
	}
	suite.storeRepo.On("GetByCatalogID", suite.ctx, "demo-store").Return(suite.store, nil)
	suite.productRepo.On("GetActiveByID", suite.ctx, suite.store.ID, tea.ID).Return(tea, nil)

	_, err := suite.service.PlaceOrder(suite.ctx, "demo-store", OrderInput{
		Customer: models.OrderCustomer{Name: "Ada", Phone: "+1555000111"},
		Items:    []CartLine{{ProductID: tea.ID, Quantity: 3}},
	})

	httpErr, ok := err.(*echo.HTTPError)
	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), http.StatusBadRequest, httpErr.Code)
	assert.Contains(suite.T(), httpErr.Message, "Green Tea")
	suite.orderRepo.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything)
}

func (suite *CatalogServiceTestSuite) TestPlaceOrder_RequiresNameAndPhone() {
	suite.storeRepo.On("GetByCatalogID", suite.ctx, "demo-store").Return(suite.store, nil)

	_, err := suite.service.PlaceOrder(suite.ctx, "demo-store", OrderInput{
		Customer: models.OrderCustomer{Phone: "+1555000111"},
		Items:    []CartLine{{ProductID: uuid.New(), Quantity: 1}},
	})
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), http.StatusBadRequest, httpErr.Code)
}

func messageOrder() *models.Order {
	notes := "ring the bell"
	return &models.Order{
		ID: uuid.MustParse("3e1f4a6e-0000-4000-8000-000000000042"),
		Customer: models.OrderCustomer{
			Name:  "Ada",
			Phone: "3001234567",
		},
		Items: []models.OrderItem{
			{ProductName: "Green Tea", Quantity: 2, LineTotal: 10000},
			{ProductName: "Mug", Quantity: 1, LineTotal: 2500},
		},
		Totals: models.OrderTotals{Total: 12500, Currency: "COP"},
		Notes:  &notes,
	}
}

func TestWhatsappOrderMessage(t *testing.T) {
	msg := whatsappOrderMessage("Demo Store", messageOrder())

	assert.Equal(t, "New order for Demo Store\n\n"+
		"Customer: Ada\n"+
		"Phone: 3001234567\n\n"+
		"Items:\n"+
		"- Green Tea x2 - 10000.00\n"+
		"- Mug x1 - 2500.00\n\n"+
		"Total: 12500.00 COP\n\n"+
		"Notes: ring the bell\n\n"+
		"Order ID: 3e1f4a6e-0000-4000-8000-000000000042", msg)
}

func TestSMSOrderMessage_SingleParagraph(t *testing.T) {
	msg := smsOrderMessage("Demo Store", messageOrder())

	assert.Equal(t, "Order for Demo Store\n"+
		"Customer: Ada (3001234567)\n"+
		"Items: Green Tea x2, Mug x1\n"+
		"Total: 12500.00 COP\n"+
		"Notes: ring the bell\n"+
		"ID: 3e1f4a6e-0000-4000-8000-000000000042", msg)
}

func TestOrderMessages_OmitEmptyNotes(t *testing.T) {
	order := messageOrder()
	order.Notes = nil

	assert.NotContains(t, whatsappOrderMessage("Demo Store", order), "Notes:")
	assert.NotContains(t, smsOrderMessage("Demo Store", order), "Notes:")
}

func TestWhatsappLink(t *testing.T) {
	link := WhatsappLink("+1 (555) 000-1234", "hello world")
	assert.NotNil(t, link)
	assert.Equal(t, "https://wa.me/15550001234?text=hello+world", *link)

	assert.Nil(t, WhatsappLink("", "hello"))
	assert.Nil(t, WhatsappLink("---", "hello"))
}

func TestSMSLink(t *testing.T) {
	link := SMSLink("+15550001234", "order details")
	assert.NotNil(t, link)
	assert.Equal(t, "sms:+15550001234?body=order+details", *link)

	assert.Nil(t, SMSLink("", "order details"))
}
