// Package service provides testify mocks for the domain service
// interfaces, used by use case and middleware tests.
package service

import (
	"context"
	"io"
	"time"

	"storefront/internal/domain/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

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

// MockTokenService is a mock of service.TokenService.
type MockTokenService struct {
	mock.Mock
}

// NewMockTokenService creates a mock that asserts its expectations on cleanup.
func NewMockTokenService(t mockConstructorTestingT) *MockTokenService {
	m := &MockTokenService{}
	setup(t, m)

	return m
}

func (m *MockTokenService) GenerateTokens(userID uuid.UUID, role string) (string, string, error) {
	args := m.Called(userID, role)

	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockTokenService) ValidateAccessToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	claims, _ := args.Get(0).(*service.Claims)

	return claims, args.Error(1)
}

func (m *MockTokenService) ValidateRefreshToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	claims, _ := args.Get(0).(*service.Claims)

	return claims, args.Error(1)
}

func (m *MockTokenService) GetRefreshTokenDuration() time.Duration {
	args := m.Called()
	duration, _ := args.Get(0).(time.Duration)

	return duration
}

// MockPasswordHasher is a mock of service.PasswordHasher.
type MockPasswordHasher struct {
	mock.Mock
}

// NewMockPasswordHasher creates a mock that asserts its expectations on cleanup.
func NewMockPasswordHasher(t mockConstructorTestingT) *MockPasswordHasher {
	m := &MockPasswordHasher{}
	setup(t, m)

	return m
}

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)

	return args.String(0), args.Error(1)
}

func (m *MockPasswordHasher) Check(password, hash string) bool {
	return m.Called(password, hash).Bool(0)
}

func (m *MockPasswordHasher) ValidatePasswordStrength(password string) error {
	return m.Called(password).Error(0)
}

// MockOAuthAuthService is a mock of service.OAuthAuthService.
type MockOAuthAuthService struct {
	mock.Mock
}

// NewMockOAuthAuthService creates a mock that asserts its expectations on cleanup.
func NewMockOAuthAuthService(t mockConstructorTestingT) *MockOAuthAuthService {
	m := &MockOAuthAuthService{}
	setup(t, m)

	return m
}

func (m *MockOAuthAuthService) VerifyIDToken(ctx context.Context, idToken string) (*service.OAuthUser, error) {
	args := m.Called(ctx, idToken)
	user, _ := args.Get(0).(*service.OAuthUser)

	return user, args.Error(1)
}

// MockNotificationService is a mock of service.NotificationService.
type MockNotificationService struct {
	mock.Mock
}

// NewMockNotificationService creates a mock that asserts its expectations on cleanup.
func NewMockNotificationService(t mockConstructorTestingT) *MockNotificationService {
	m := &MockNotificationService{}
	setup(t, m)

	return m
}

func (m *MockNotificationService) SendSingleNotification(ctx context.Context, token, title, body string, data map[string]string) error {
	return m.Called(ctx, token, title, body, data).Error(0)
}

// MockEventPublisher is a mock of service.EventPublisher.
type MockEventPublisher struct {
	mock.Mock
}

// NewMockEventPublisher creates a mock that asserts its expectations on cleanup.
func NewMockEventPublisher(t mockConstructorTestingT) *MockEventPublisher {
	m := &MockEventPublisher{}
	setup(t, m)

	return m
}

func (m *MockEventPublisher) PublishOrderEvent(ctx context.Context, event *service.OrderEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *MockEventPublisher) Close() error {
	return m.Called().Error(0)
}

// MockQRCodeService is a mock of service.QRCodeService.
type MockQRCodeService struct {
	mock.Mock
}

// NewMockQRCodeService creates a mock that asserts its expectations on cleanup.
func NewMockQRCodeService(t mockConstructorTestingT) *MockQRCodeService {
	m := &MockQRCodeService{}
	setup(t, m)

	return m
}

func (m *MockQRCodeService) GenerateTrackingQR(trackingNumber string) ([]byte, error) {
	args := m.Called(trackingNumber)
	png, _ := args.Get(0).([]byte)

	return png, args.Error(1)
}

// MockImageStore is a mock of service.ImageStore.
type MockImageStore struct {
	mock.Mock
}

// NewMockImageStore creates a mock that asserts its expectations on cleanup.
func NewMockImageStore(t mockConstructorTestingT) *MockImageStore {
	m := &MockImageStore{}
	setup(t, m)

	return m
}

func (m *MockImageStore) Save(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	args := m.Called(ctx, key, contentType, body)

	return args.String(0), args.Error(1)
}

func (m *MockImageStore) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}
