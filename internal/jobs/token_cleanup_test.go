package jobs

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) ScanKeys(ctx context.Context, pattern string) ([]string, error) {
	args := m.Called(ctx, pattern)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockTokenStore) GetString(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockTokenStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

var janitorNow = time.Date(2025, 6, 15, 3, 0, 0, 0, time.UTC)

type TokenCleanupTestSuite struct {
	suite.Suite
	mockStore *MockTokenStore
	janitor   *TokenJanitor
}

func (suite *TokenCleanupTestSuite) SetupTest() {
	suite.mockStore = &MockTokenStore{}
	suite.janitor = NewTokenJanitorWithClock(suite.mockStore, func() time.Time {
		return janitorNow
	})
}

func (suite *TokenCleanupTestSuite) TearDownTest() {
	suite.mockStore.AssertExpectations(suite.T())
}

func TestTokenCleanupTestSuite(t *testing.T) {
	suite.Run(t, new(TokenCleanupTestSuite))
}

func tokenRecord(offset time.Duration) string {
	return fmt.Sprintf("%s:%d", uuid.New().String(), janitorNow.Add(offset).Unix())
}

func (suite *TokenCleanupTestSuite) TestRun_DeletesOnlyExpiredRecords() {
	liveKey := "residora:refresh_token:live"
	staleKey := "residora:refresh_token:stale"

	suite.mockStore.On("ScanKeys", mock.Anything, "residora:refresh_token:*").
		Return([]string{liveKey, staleKey}, nil).Once()
	suite.mockStore.On("GetString", mock.Anything, liveKey).
		Return(tokenRecord(time.Hour), nil).Once()
	suite.mockStore.On("GetString", mock.Anything, staleKey).
		Return(tokenRecord(-time.Hour), nil).Once()
	suite.mockStore.On("Delete", mock.Anything, staleKey).Return(nil).Once()

	err := suite.janitor.Run(context.Background())

	assert.NoError(suite.T(), err)
	suite.mockStore.AssertNotCalled(suite.T(), "Delete", mock.Anything, liveKey)
}

func (suite *TokenCleanupTestSuite) TestRun_DeletesMalformedRecords() {
	key := "residora:refresh_token:garbled"

	suite.mockStore.On("ScanKeys", mock.Anything, "residora:refresh_token:*").
		Return([]string{key}, nil).Once()
	suite.mockStore.On("GetString", mock.Anything, key).Return("not-a-record", nil).Once()
	suite.mockStore.On("Delete", mock.Anything, key).Return(nil).Once()

	err := suite.janitor.Run(context.Background())

	assert.NoError(suite.T(), err)
}

func (suite *TokenCleanupTestSuite) TestRun_SkipsKeysEvictedMidSweep() {
	key := "residora:refresh_token:gone"

	suite.mockStore.On("ScanKeys", mock.Anything, "residora:refresh_token:*").
		Return([]string{key}, nil).Once()
	suite.mockStore.On("GetString", mock.Anything, key).
		Return("", errors.New("redis: nil")).Once()

	err := suite.janitor.Run(context.Background())

	assert.NoError(suite.T(), err)
	suite.mockStore.AssertNotCalled(suite.T(), "Delete", mock.Anything, mock.Anything)
}

func (suite *TokenCleanupTestSuite) TestRun_OneDeleteFailureDoesNotStopTheSweep() {
	stubborn := "residora:refresh_token:stubborn"
	stale := "residora:refresh_token:stale"

	suite.mockStore.On("ScanKeys", mock.Anything, "residora:refresh_token:*").
		Return([]string{stubborn, stale}, nil).Once()
	suite.mockStore.On("GetString", mock.Anything, stubborn).
		Return(tokenRecord(-time.Minute), nil).Once()
	suite.mockStore.On("Delete", mock.Anything, stubborn).
		Return(errors.New("connection reset")).Once()
	suite.mockStore.On("GetString", mock.Anything, stale).
		Return(tokenRecord(-time.Minute), nil).Once()
	suite.mockStore.On("Delete", mock.Anything, stale).Return(nil).Once()

	err := suite.janitor.Run(context.Background())

	assert.NoError(suite.T(), err)
}

func (suite *TokenCleanupTestSuite) TestRun_ScanFailurePropagates() {
	suite.mockStore.On("ScanKeys", mock.Anything, "residora:refresh_token:*").
		Return(nil, errors.New("redis down")).Once()

	err := suite.janitor.Run(context.Background())

	assert.Error(suite.T(), err)
}
