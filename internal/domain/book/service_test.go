package book

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Create(ctx context.Context, b *Book) error {
	return m.Called(ctx, b).Error(0)
}

func (m *mockRepo) FindByID(ctx context.Context, id uint) (*Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Book), args.Error(1)
}

func (m *mockRepo) FindByIDUnscoped(ctx context.Context, id uint) (*Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Book), args.Error(1)
}

func (m *mockRepo) Update(ctx context.Context, b *Book) error {
	return m.Called(ctx, b).Error(0)
}

func (m *mockRepo) SoftDelete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRepo) Restore(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRepo) List(ctx context.Context, params ListParams) ([]*Book, int64, error) {
	args := m.Called(ctx, params)
	return args.Get(0).([]*Book), args.Get(1).(int64), args.Error(2)
}

func (m *mockRepo) ListUnscoped(ctx context.Context, page, pageSize int) ([]*Book, int64, error) {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).([]*Book), args.Get(1).(int64), args.Error(2)
}

func (m *mockRepo) ListAfter(ctx context.Context, cursor *Cursor, limit int) ([]*Book, error) {
	args := m.Called(ctx, cursor, limit)
	return args.Get(0).([]*Book), args.Error(1)
}

func (m *mockRepo) ListByPublishedDate(ctx context.Context, date time.Time) ([]*Book, error) {
	args := m.Called(ctx, date)
	return args.Get(0).([]*Book), args.Error(1)
}

func (m *mockRepo) AveragePrice(ctx context.Context) (*float64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*float64), args.Error(1)
}

func (m *mockRepo) ListPriceAbove(ctx context.Context, threshold float64) ([]*Book, error) {
	args := m.Called(ctx, threshold)
	return args.Get(0).([]*Book), args.Error(1)
}

func (m *mockRepo) ExistsRegisteredTitle(ctx context.Context, title string, excludeID uint) (bool, error) {
	args := m.Called(ctx, title, excludeID)
	return args.Bool(0), args.Error(1)
}

func ptr[T any](v T) *T { return &v }

func TestCreateBook_DefaultsAuthor(t *testing.T) {
	tests := []struct {
		name   string
		author *string
	}{
		{"missing author", nil},
		{"empty author", ptr("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockRepo)
			svc := NewService(repo)
			b := &Book{Title: "Dune", Author: tt.author}

			repo.On("Create", mock.Anything, b).Return(nil)

			require.NoError(t, svc.CreateBook(context.Background(), b))
			assert.Equal(t, DefaultAuthor, b.AuthorName())
			repo.AssertNotCalled(t, "ExistsRegisteredTitle", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestCreateBook_RegisteredTitleTaken(t *testing.T) {
	repo := new(mockRepo)
	svc := NewService(repo)
	b := &Book{Title: "Dune", Author: ptr("Herbert"), Registered: ptr(true)}

	repo.On("ExistsRegisteredTitle", mock.Anything, "Dune", uint(0)).Return(true, nil)

	err := svc.CreateBook(context.Background(), b)
	assert.ErrorIs(t, err, ErrRegisteredTitleTaken)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGetVisibleBook(t *testing.T) {
	t.Run("banned book is not found", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("FindByID", mock.Anything, uint(3)).Return(&Book{ID: 3, IsBanned: true}, nil)

		_, err := NewService(repo).GetVisibleBook(context.Background(), 3)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrBookNotFound)
		assert.Equal(t, "Book with id '3' not found or is banned.", apperrors.GetAppError(err).Message)
	})

	t.Run("missing book carries id", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("FindByID", mock.Anything, uint(9)).Return(nil, ErrBookNotFound)

		_, err := NewService(repo).GetVisibleBook(context.Background(), 9)
		assert.Equal(t, apperrors.ErrCodeBookNotFound, apperrors.GetAppError(err).Code)
		assert.Contains(t, apperrors.GetAppError(err).Message, "'9'")
	})

	t.Run("infrastructure error passes through", func(t *testing.T) {
		repo := new(mockRepo)
		boom := apperrors.Wrap(errors.New("db down"), "查询图书失败")
		repo.On("FindByID", mock.Anything, uint(1)).Return(nil, boom)

		_, err := NewService(repo).GetVisibleBook(context.Background(), 1)
		assert.Same(t, boom, err)
	})
}

func TestUpdateBook_PriceFloor(t *testing.T) {
	tests := []struct {
		name    string
		stored  *int
		patch   Patch
		wantErr error
	}{
		{"new price below floor", ptr(10), Patch{Price: ptr(4)}, ErrPriceTooLow},
		{"stored price below floor, price absent", ptr(3), Patch{Title: ptr("New")}, ErrPriceTooLow},
		{"price at floor", ptr(10), Patch{Price: ptr(5)}, nil},
		{"no price at all", nil, Patch{Title: ptr("New")}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockRepo)
			stored := &Book{ID: 1, Title: "Old", Author: ptr("A"), Price: tt.stored}
			repo.On("FindByID", mock.Anything, uint(1)).Return(stored, nil)
			repo.On("Update", mock.Anything, mock.Anything).Return(nil).Maybe()

			_, err := NewService(repo).UpdateBook(context.Background(), 1, tt.patch)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			repo.AssertCalled(t, "Update", mock.Anything, mock.Anything)
		})
	}
}

func TestUpdateBook_RegisteredTitleExcludesSelf(t *testing.T) {
	repo := new(mockRepo)
	stored := &Book{ID: 7, Title: "Dune", Registered: ptr(false)}
	repo.On("FindByID", mock.Anything, uint(7)).Return(stored, nil)
	repo.On("ExistsRegisteredTitle", mock.Anything, "Dune", uint(7)).Return(false, nil)
	repo.On("Update", mock.Anything, stored).Return(nil)

	got, err := NewService(repo).UpdateBook(context.Background(), 7, Patch{Registered: ptr(true)})
	require.NoError(t, err)
	assert.True(t, got.IsRegistered())
}

func TestDeleteBook(t *testing.T) {
	repo := new(mockRepo)
	repo.On("FindByID", mock.Anything, uint(2)).Return(&Book{ID: 2, Title: "Dune", Author: ptr("Herbert")}, nil)
	repo.On("SoftDelete", mock.Anything, uint(2)).Return(nil)

	got, err := NewService(repo).DeleteBook(context.Background(), 2)
	require.NoError(t, err)
	assert.True(t, got.IsDeleted)
	assert.Equal(t, "Dune написано Herbert", got.String())
}

func TestDeleteBook_Banned(t *testing.T) {
	repo := new(mockRepo)
	repo.On("FindByID", mock.Anything, uint(3)).Return(&Book{ID: 3, Title: "Banned", IsBanned: true}, nil)

	_, err := NewService(repo).DeleteBook(context.Background(), 3)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeBookNotFound))
	repo.AssertNotCalled(t, "SoftDelete", mock.Anything, mock.Anything)
}

func TestRestoreBook(t *testing.T) {
	repo := new(mockRepo)
	repo.On("FindByIDUnscoped", mock.Anything, uint(2)).Return(&Book{ID: 2, IsDeleted: true}, nil)
	repo.On("Restore", mock.Anything, uint(2)).Return(nil)

	got, err := NewService(repo).RestoreBook(context.Background(), 2)
	require.NoError(t, err)
	assert.False(t, got.IsDeleted)
	repo.AssertExpectations(t)
}

func TestExpensiveBooks(t *testing.T) {
	t.Run("no prices yields empty list", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("AveragePrice", mock.Anything).Return(nil, nil)

		got, err := NewService(repo).ExpensiveBooks(context.Background())
		require.NoError(t, err)
		assert.Empty(t, got)
		repo.AssertNotCalled(t, "ListPriceAbove", mock.Anything, mock.Anything)
	})

	t.Run("filters above average", func(t *testing.T) {
		repo := new(mockRepo)
		avg := 20.0
		want := []*Book{{ID: 1, Price: ptr(30)}}
		repo.On("AveragePrice", mock.Anything).Return(&avg, nil)
		repo.On("ListPriceAbove", mock.Anything, 20.0).Return(want, nil)

		got, err := NewService(repo).ExpensiveBooks(context.Background())
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})
}

func TestBook_IsDiscounted(t *testing.T) {
	assert.True(t, (&Book{Price: ptr(10), DiscountedPrice: ptr(8)}).IsDiscounted())
	assert.False(t, (&Book{Price: ptr(10), DiscountedPrice: ptr(10)}).IsDiscounted())
	assert.False(t, (&Book{Price: ptr(10)}).IsDiscounted())
	assert.False(t, (&Book{DiscountedPrice: ptr(8)}).IsDiscounted())
}

func TestParseOrdering(t *testing.T) {
	assert.Equal(t, []Order{{Field: "price", Desc: true}, {Field: "published_date"}},
		ParseOrdering("-price, published_date,title,price"))
	assert.Empty(t, ParseOrdering(""))
	assert.Empty(t, ParseOrdering("id,-title"))
}

func TestPatch_Apply(t *testing.T) {
	b := &Book{Title: "Old", Author: ptr("A"), Price: ptr(10), Genres: []GenreRef{{ID: 1, Name: "SciFi"}}}

	Patch{Price: ptr(12)}.Apply(b)
	assert.Equal(t, "Old", b.Title)
	assert.Equal(t, 12, *b.Price)
	assert.Equal(t, []uint{1}, b.GenreIDs())

	Patch{GenreIDs: &[]uint{2, 3}}.Apply(b)
	assert.Equal(t, []uint{2, 3}, b.GenreIDs())
}
