// Package repository provides testify mocks for the domain repository
// interfaces, used by use case and middleware tests.
package repository

import (
	"context"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// mockConstructorTestingT is the subset of testing.T the constructors need.
type mockConstructorTestingT interface {
	mock.TestingT
	Cleanup(func())
}

func setup(t mockConstructorTestingT, m interface {
	Test(mock.TestingT)
	AssertExpectations(mock.TestingT) bool
}) {
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
}

// MockUserRepository is a mock of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

// NewMockUserRepository creates a mock that asserts its expectations on cleanup.
func NewMockUserRepository(t mockConstructorTestingT) *MockUserRepository {
	m := &MockUserRepository{}
	setup(t, m)

	return m
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*entity.User)

	return user, args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*entity.User)

	return user, args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	args := m.Called(ctx, limit, offset)
	users, _ := args.Get(0).([]*entity.User)

	return users, args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *entity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *entity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockAuthRepository is a mock of repository.AuthRepository.
type MockAuthRepository struct {
	mock.Mock
}

// NewMockAuthRepository creates a mock that asserts its expectations on cleanup.
func NewMockAuthRepository(t mockConstructorTestingT) *MockAuthRepository {
	m := &MockAuthRepository{}
	setup(t, m)

	return m
}

func (m *MockAuthRepository) FindAuthentication(ctx context.Context, provider, providerUserID string) (*entity.Authentication, error) {
	args := m.Called(ctx, provider, providerUserID)
	auth, _ := args.Get(0).(*entity.Authentication)

	return auth, args.Error(1)
}

func (m *MockAuthRepository) CreateAuthentication(ctx context.Context, auth *entity.Authentication) error {
	return m.Called(ctx, auth).Error(0)
}

func (m *MockAuthRepository) CreateRefreshToken(ctx context.Context, token *entity.RefreshToken) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockAuthRepository) FindRefreshTokenByHash(ctx context.Context, tokenHash string) (*entity.RefreshToken, error) {
	args := m.Called(ctx, tokenHash)
	token, _ := args.Get(0).(*entity.RefreshToken)

	return token, args.Error(1)
}

func (m *MockAuthRepository) DeleteRefreshTokenByHash(ctx context.Context, tokenHash string) error {
	return m.Called(ctx, tokenHash).Error(0)
}

// MockProductRepository is a mock of repository.ProductRepository.
type MockProductRepository struct {
	mock.Mock
}

// NewMockProductRepository creates a mock that asserts its expectations on cleanup.
func NewMockProductRepository(t mockConstructorTestingT) *MockProductRepository {
	m := &MockProductRepository{}
	setup(t, m)

	return m
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	args := m.Called(ctx, id)
	product, _ := args.Get(0).(*entity.Product)

	return product, args.Error(1)
}

func (m *MockProductRepository) List(ctx context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	args := m.Called(ctx, filter)
	products, _ := args.Get(0).([]*entity.Product)

	return products, args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, product *entity.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, product *entity.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockCartRepository is a mock of repository.CartRepository.
type MockCartRepository struct {
	mock.Mock
}

// NewMockCartRepository creates a mock that asserts its expectations on cleanup.
func NewMockCartRepository(t mockConstructorTestingT) *MockCartRepository {
	m := &MockCartRepository{}
	setup(t, m)

	return m
}

func (m *MockCartRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.CartItem, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]*entity.CartItem)

	return items, args.Error(1)
}

func (m *MockCartRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.CartItem, error) {
	args := m.Called(ctx, id)
	item, _ := args.Get(0).(*entity.CartItem)

	return item, args.Error(1)
}

func (m *MockCartRepository) FindVariant(ctx context.Context, userID, productID uuid.UUID, size, color string) (*entity.CartItem, error) {
	args := m.Called(ctx, userID, productID, size, color)
	item, _ := args.Get(0).(*entity.CartItem)

	return item, args.Error(1)
}

func (m *MockCartRepository) Create(ctx context.Context, item *entity.CartItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockCartRepository) Update(ctx context.Context, item *entity.CartItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockCartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCartRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

// MockInventoryRepository is a mock of repository.InventoryRepository.
type MockInventoryRepository struct {
	mock.Mock
}

// NewMockInventoryRepository creates a mock that asserts its expectations on cleanup.
func NewMockInventoryRepository(t mockConstructorTestingT) *MockInventoryRepository {
	m := &MockInventoryRepository{}
	setup(t, m)

	return m
}

func (m *MockInventoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.InventoryItem, error) {
	args := m.Called(ctx, id)
	item, _ := args.Get(0).(*entity.InventoryItem)

	return item, args.Error(1)
}

func (m *MockInventoryRepository) FindVariant(ctx context.Context, productID uuid.UUID, size, color string) (*entity.InventoryItem, error) {
	args := m.Called(ctx, productID, size, color)
	item, _ := args.Get(0).(*entity.InventoryItem)

	return item, args.Error(1)
}

func (m *MockInventoryRepository) FindVariantForUpdate(ctx context.Context, productID uuid.UUID, size, color string) (*entity.InventoryItem, error) {
	args := m.Called(ctx, productID, size, color)
	item, _ := args.Get(0).(*entity.InventoryItem)

	return item, args.Error(1)
}

func (m *MockInventoryRepository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]*entity.InventoryItem, error) {
	args := m.Called(ctx, productID)
	items, _ := args.Get(0).([]*entity.InventoryItem)

	return items, args.Error(1)
}

func (m *MockInventoryRepository) ListLowStock(ctx context.Context) ([]*entity.InventoryItem, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]*entity.InventoryItem)

	return items, args.Error(1)
}

func (m *MockInventoryRepository) Create(ctx context.Context, item *entity.InventoryItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockInventoryRepository) Update(ctx context.Context, item *entity.InventoryItem) error {
	return m.Called(ctx, item).Error(0)
}

// MockStockMovementRepository is a mock of repository.StockMovementRepository.
type MockStockMovementRepository struct {
	mock.Mock
}

// NewMockStockMovementRepository creates a mock that asserts its expectations on cleanup.
func NewMockStockMovementRepository(t mockConstructorTestingT) *MockStockMovementRepository {
	m := &MockStockMovementRepository{}
	setup(t, m)

	return m
}

func (m *MockStockMovementRepository) Create(ctx context.Context, movement *entity.StockMovement) error {
	return m.Called(ctx, movement).Error(0)
}

func (m *MockStockMovementRepository) ListByInventory(ctx context.Context, inventoryID uuid.UUID, limit, offset int) ([]*entity.StockMovement, error) {
	args := m.Called(ctx, inventoryID, limit, offset)
	movements, _ := args.Get(0).([]*entity.StockMovement)

	return movements, args.Error(1)
}

// MockPurchaseRepository is a mock of repository.PurchaseRepository.
type MockPurchaseRepository struct {
	mock.Mock
}

// NewMockPurchaseRepository creates a mock that asserts its expectations on cleanup.
func NewMockPurchaseRepository(t mockConstructorTestingT) *MockPurchaseRepository {
	m := &MockPurchaseRepository{}
	setup(t, m)

	return m
}

func (m *MockPurchaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Purchase, error) {
	args := m.Called(ctx, id)
	purchase, _ := args.Get(0).(*entity.Purchase)

	return purchase, args.Error(1)
}

func (m *MockPurchaseRepository) FindByTrackingNumber(ctx context.Context, trackingNumber string) (*entity.Purchase, error) {
	args := m.Called(ctx, trackingNumber)
	purchase, _ := args.Get(0).(*entity.Purchase)

	return purchase, args.Error(1)
}

func (m *MockPurchaseRepository) List(ctx context.Context, filter repository.PurchaseFilter) ([]*entity.Purchase, error) {
	args := m.Called(ctx, filter)
	purchases, _ := args.Get(0).([]*entity.Purchase)

	return purchases, args.Error(1)
}

func (m *MockPurchaseRepository) Create(ctx context.Context, purchase *entity.Purchase) error {
	return m.Called(ctx, purchase).Error(0)
}

func (m *MockPurchaseRepository) Update(ctx context.Context, purchase *entity.Purchase) error {
	return m.Called(ctx, purchase).Error(0)
}

func (m *MockPurchaseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockPurchaseRepository) Stats(ctx context.Context) (*entity.PurchaseStats, error) {
	args := m.Called(ctx)
	stats, _ := args.Get(0).(*entity.PurchaseStats)

	return stats, args.Error(1)
}

// StubFactory is a RepositoryFactory returning fixed repositories, for
// use with StubTransactionManager in tests.
type StubFactory struct {
	Users     repository.UserRepository
	Auths     repository.AuthRepository
	Products  repository.ProductRepository
	Carts     repository.CartRepository
	Inventory repository.InventoryRepository
	Movements repository.StockMovementRepository
	Purchases repository.PurchaseRepository
}

func (f *StubFactory) UserRepo() repository.UserRepository           { return f.Users }
func (f *StubFactory) AuthRepo() repository.AuthRepository           { return f.Auths }
func (f *StubFactory) ProductRepo() repository.ProductRepository     { return f.Products }
func (f *StubFactory) CartRepo() repository.CartRepository           { return f.Carts }
func (f *StubFactory) InventoryRepo() repository.InventoryRepository { return f.Inventory }
func (f *StubFactory) MovementRepo() repository.StockMovementRepository {
	return f.Movements
}
func (f *StubFactory) PurchaseRepo() repository.PurchaseRepository { return f.Purchases }

// StubTransactionManager runs the transactional function directly against
// the stub factory, with no real transaction semantics.
type StubTransactionManager struct {
	Factory repository.RepositoryFactory
}

func (m *StubTransactionManager) Execute(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(m.Factory)
}
