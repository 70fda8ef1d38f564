package usecase_test

import (
	"context"
	"testing"
	"time"

	"app/internal/domain/model"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =====================
// Mock: QuoteRepository
// =====================

type MockQuoteRepository struct {
	mock.Mock
}

func (m *MockQuoteRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuoteRepository) FindByOffset(ctx context.Context, offset int64) (*model.Quote, error) {
	args := m.Called(ctx, offset)
	q, _ := args.Get(0).(*model.Quote)
	return q, args.Error(1)
}

func newQuoteUC(repoMock *MockQuoteRepository, cache *fakeCache, clock *fakeClock) *usecase.QuoteUsecase {
	var c usecase.Clock = clock
	if cache == nil {
		return usecase.NewQuoteUsecase(repoMock, nil, c)
	}
	return usecase.NewQuoteUsecase(repoMock, cache, c)
}

// 同じ日は何度呼んでも同じ行が返る。
func TestQuoteUsecase_Daily_Deterministic(t *testing.T) {
	ctx := context.Background()

	repoMock := new(MockQuoteRepository)
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	u := newQuoteUC(repoMock, nil, clock)

	//2025-06-01はYearDay=152、152%10=2
	repoMock.On("Count", mock.Anything).Return(int64(10), nil).Twice()
	repoMock.On("FindByOffset", mock.Anything, int64(2)).
		Return(&model.Quote{ID: 3, Text: "kabira khada bazaar mein"}, nil).Twice()

	first, err := u.Daily(ctx)
	require.NoError(t, err)

	second, err := u.Daily(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	repoMock.AssertExpectations(t)
}

// 日付が変わると行も変わる。
func TestQuoteUsecase_Daily_RotatesNextDay(t *testing.T) {
	ctx := context.Background()

	repoMock := new(MockQuoteRepository)
	clock := &fakeClock{now: time.Date(2025, 6, 1, 23, 59, 0, 0, time.UTC)}
	u := newQuoteUC(repoMock, nil, clock)

	repoMock.On("Count", mock.Anything).Return(int64(10), nil)
	repoMock.On("FindByOffset", mock.Anything, int64(2)).Return(&model.Quote{ID: 3}, nil).Once()
	repoMock.On("FindByOffset", mock.Anything, int64(3)).Return(&model.Quote{ID: 4}, nil).Once()

	first, err := u.Daily(ctx)
	require.NoError(t, err)

	clock.Advance(2 * time.Minute)

	second, err := u.Daily(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

// 2回目はキャッシュから返り、DBは1回しか呼ばれない。
func TestQuoteUsecase_Daily_UsesCache(t *testing.T) {
	ctx := context.Background()

	repoMock := new(MockQuoteRepository)
	cache := newFakeCache()
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	u := newQuoteUC(repoMock, cache, clock)

	repoMock.On("Count", mock.Anything).Return(int64(10), nil).Once()
	repoMock.On("FindByOffset", mock.Anything, int64(2)).Return(&model.Quote{ID: 3}, nil).Once()

	_, err := u.Daily(ctx)
	require.NoError(t, err)

	_, err = u.Daily(ctx)
	require.NoError(t, err)

	repoMock.AssertExpectations(t)
}

func TestQuoteUsecase_Daily_Empty(t *testing.T) {
	repoMock := new(MockQuoteRepository)
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	u := newQuoteUC(repoMock, nil, clock)

	repoMock.On("Count", mock.Anything).Return(int64(0), nil)

	_, err := u.Daily(context.Background())

	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, 404, he.Status)
}
