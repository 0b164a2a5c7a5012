package genre

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Create(ctx context.Context, g *Genre) error {
	return m.Called(ctx, g).Error(0)
}

func (m *mockRepo) FindByID(ctx context.Context, id uint) (*Genre, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Genre), args.Error(1)
}

func (m *mockRepo) List(ctx context.Context) ([]*Genre, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*Genre), args.Error(1)
}

func (m *mockRepo) Update(ctx context.Context, g *Genre) error {
	return m.Called(ctx, g).Error(0)
}

func (m *mockRepo) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRepo) Statistics(ctx context.Context) ([]Statistic, error) {
	args := m.Called(ctx)
	return args.Get(0).([]Statistic), args.Error(1)
}

func (m *mockRepo) BookIDs(ctx context.Context, id uint) ([]uint, error) {
	args := m.Called(ctx, id)
	return args.Get(0).([]uint), args.Error(1)
}

func TestRename(t *testing.T) {
	repo := new(mockRepo)
	g := &Genre{ID: 1, Name: "Fantasy"}
	repo.On("FindByID", mock.Anything, uint(1)).Return(g, nil)
	repo.On("Update", mock.Anything, g).Return(nil)

	got, err := NewService(repo).Rename(context.Background(), 1, "Sci-Fi")
	require.NoError(t, err)
	assert.Equal(t, "Sci-Fi", got.Name)

	// 空名称保持原值,不写库
	repo2 := new(mockRepo)
	repo2.On("FindByID", mock.Anything, uint(1)).Return(&Genre{ID: 1, Name: "Fantasy"}, nil)
	got, err = NewService(repo2).Rename(context.Background(), 1, "")
	require.NoError(t, err)
	assert.Equal(t, "Fantasy", got.Name)
	repo2.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestDelete_NotFound(t *testing.T) {
	repo := new(mockRepo)
	repo.On("FindByID", mock.Anything, uint(5)).Return(nil, ErrGenreNotFound)

	err := NewService(repo).Delete(context.Background(), 5)
	assert.ErrorIs(t, err, ErrGenreNotFound)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
