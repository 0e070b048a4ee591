package services

import (
	"context"
	"time"

	"tivastore/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByResetToken(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) SetStoreID(ctx context.Context, userID, storeID uuid.UUID) error {
	args := m.Called(ctx, userID, storeID)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error {
	args := m.Called(ctx, userID, at)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	args := m.Called(ctx, userID, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) SetResetToken(ctx context.Context, userID uuid.UUID, token string, expires time.Time) error {
	args := m.Called(ctx, userID, token, expires)
	return args.Error(0)
}

func (m *MockUserRepository) ClearResetToken(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserRepository) ClearExpiredResetTokens(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockStoreRepository struct {
	mock.Mock
}

func (m *MockStoreRepository) Create(ctx context.Context, store *models.Store) error {
	args := m.Called(ctx, store)
	return args.Error(0)
}

func (m *MockStoreRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Store), args.Error(1)
}

func (m *MockStoreRepository) GetByCatalogID(ctx context.Context, catalogID string) (*models.Store, error) {
	args := m.Called(ctx, catalogID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Store), args.Error(1)
}

func (m *MockStoreRepository) CatalogIDExists(ctx context.Context, catalogID string) (bool, error) {
	args := m.Called(ctx, catalogID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStoreRepository) Update(ctx context.Context, store *models.Store) error {
	args := m.Called(ctx, store)
	return args.Error(0)
}

func (m *MockStoreRepository) UpdateCatalogURL(ctx context.Context, id uuid.UUID, catalogURL string) error {
	args := m.Called(ctx, id, catalogURL)
	return args.Error(0)
}

func (m *MockStoreRepository) ListActive(ctx context.Context) ([]*models.Store, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.Store), args.Error(1)
}

func (m *MockStoreRepository) UpdateProductCount(ctx context.Context, id uuid.UUID, count int) error {
	args := m.Called(ctx, id, count)
	return args.Error(0)
}

func (m *MockStoreRepository) IncrementViews(ctx context.Context, id uuid.UUID, delta int) error {
	args := m.Called(ctx, id, delta)
	return args.Error(0)
}

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) GetByID(ctx context.Context, storeID, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, storeID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) GetActiveByID(ctx context.Context, storeID, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, storeID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) UpdateStatus(ctx context.Context, storeID, id uuid.UUID, status string) error {
	args := m.Called(ctx, storeID, id, status)
	return args.Error(0)
}

func (m *MockProductRepository) SoftDelete(ctx context.Context, storeID, id uuid.UUID) error {
	args := m.Called(ctx, storeID, id)
	return args.Error(0)
}

func (m *MockProductRepository) List(ctx context.Context, storeID uuid.UUID, filter models.ProductSearchFilter) ([]*models.Product, int, error) {
	args := m.Called(ctx, storeID, filter)
	return args.Get(0).([]*models.Product), args.Int(1), args.Error(2)
}

func (m *MockProductRepository) ListPublic(ctx context.Context, storeID uuid.UUID, query string, page, limit int) ([]*models.Product, int, error) {
	args := m.Called(ctx, storeID, query, page, limit)
	return args.Get(0).([]*models.Product), args.Int(1), args.Error(2)
}

func (m *MockProductRepository) CountActiveByStore(ctx context.Context, storeID uuid.UUID) (int, error) {
	args := m.Called(ctx, storeID)
	return args.Int(0), args.Error(1)
}

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, storeID, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, storeID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) List(ctx context.Context, storeID uuid.UUID, filter models.OrderSearchFilter) ([]*models.Order, int, error) {
	args := m.Called(ctx, storeID, filter)
	return args.Get(0).([]*models.Order), args.Int(1), args.Error(2)
}

func (m *MockOrderRepository) CountByStore(ctx context.Context, storeID uuid.UUID) (int, error) {
	args := m.Called(ctx, storeID)
	return args.Int(0), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, storeID, id uuid.UUID, status string) error {
	args := m.Called(ctx, storeID, id, status)
	return args.Error(0)
}

func (m *MockOrderRepository) RevenueAndCount(ctx context.Context, storeID uuid.UUID, rng models.AnalyticsRange) (float64, int, error) {
	args := m.Called(ctx, storeID, rng)
	return args.Get(0).(float64), args.Int(1), args.Error(2)
}

func (m *MockOrderRepository) StatusCounts(ctx context.Context, storeID uuid.UUID, rng models.AnalyticsRange) ([]models.StatusCount, error) {
	args := m.Called(ctx, storeID, rng)
	return args.Get(0).([]models.StatusCount), args.Error(1)
}

func (m *MockOrderRepository) TopProducts(ctx context.Context, storeID uuid.UUID, rng models.AnalyticsRange, limit int) ([]models.TopProduct, error) {
	args := m.Called(ctx, storeID, rng, limit)
	return args.Get(0).([]models.TopProduct), args.Error(1)
}

func (m *MockOrderRepository) OrdersByDay(ctx context.Context, storeID uuid.UUID, since time.Time) ([]models.DayBucket, error) {
	args := m.Called(ctx, storeID, since)
	return args.Get(0).([]models.DayBucket), args.Error(1)
}

func (m *MockOrderRepository) ChannelStats(ctx context.Context, storeID uuid.UUID, rng models.AnalyticsRange) ([]models.ChannelStat, error) {
	args := m.Called(ctx, storeID, rng)
	return args.Get(0).([]models.ChannelStat), args.Error(1)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendPasswordReset(to, name, resetURL string) error {
	args := m.Called(to, name, resetURL)
	return args.Error(0)
}
