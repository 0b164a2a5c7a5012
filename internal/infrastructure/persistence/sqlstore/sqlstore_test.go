package sqlstore

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/internal/domain/genre"
	"github.com/xiebiao/bookcatalog/internal/domain/publisher"
	"github.com/xiebiao/bookcatalog/internal/domain/user"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
)

// newTestDB 每个测试一个独立的SQLite内存库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "test"},
		Database: config.DatabaseConfig{
			Driver:       config.DriverSQLite,
			Path:         "file:" + uuid.NewString() + "?mode=memory&cache=shared",
			MaxOpenConns: 1,
			MaxIdleConns: 1,
			AutoMigrate:  true,
		},
	}
	db, cleanup, err := NewDB(cfg, zap.NewNop())
	require.NoError(t, err, "打开测试数据库失败")
	t.Cleanup(cleanup)
	return db
}

func ptr[T any](v T) *T { return &v }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func seedGenre(t *testing.T, db *gorm.DB, name string) uint {
	t.Helper()
	g := &genre.Genre{Name: name}
	require.NoError(t, NewGenreRepository(db).Create(context.Background(), g))
	return g.ID
}

func seedBook(t *testing.T, repo book.Repository, b *book.Book) *book.Book {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), b))
	return b
}

func TestBookRepository_CreateAndFind(t *testing.T) {
	db := newTestDB(t)
	repo := NewBookRepository(db)
	ctx := context.Background()

	scifi := seedGenre(t, db, "SciFi")
	classic := seedGenre(t, db, "Classic")

	b := seedBook(t, repo, &book.Book{
		Title:         "Dune",
		Author:        ptr("Herbert"),
		PublishedDate: date(1965, time.August, 1),
		Price:         ptr(20),
		Genres:        []book.GenreRef{{ID: classic}, {ID: scifi}, {ID: scifi}},
	})
	assert.NotZero(t, b.ID, "应回填自增ID")
	assert.Equal(t, []string{"SciFi", "Classic"}, b.GenreNames(), "应回填分类名称并去重")

	got, err := repo.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune", got.Title)
	assert.Equal(t, date(1965, time.August, 1), got.PublishedDate)
	assert.Equal(t, 20, *got.Price)
	assert.Nil(t, got.DiscountedPrice, "未提供的可空字段应为NULL")
	assert.Equal(t, []uint{scifi, classic}, got.GenreIDs())

	_, err = repo.FindByID(ctx, 999)
	assert.ErrorIs(t, err, book.ErrBookNotFound)
}

func TestBookRepository_Constraints(t *testing.T) {
	db := newTestDB(t)
	repo := NewBookRepository(db)
	ctx := context.Background()

	seedBook(t, repo, &book.Book{Title: "Dune", Author: ptr("Herbert"), PublishedDate: date(1965, 8, 1), Registered: ptr(true)})

	t.Run("同一作者同名图书冲突", func(t *testing.T) {
		err := repo.Create(ctx, &book.Book{Title: "Dune", Author: ptr("Herbert"), PublishedDate: date(1966, 1, 1)})
		assert.ErrorIs(t, err, book.ErrDuplicateTitleAuthor)
	})

	t.Run("已登记书名冲突", func(t *testing.T) {
		err := repo.Create(ctx, &book.Book{Title: "Dune", Author: ptr("Other"), PublishedDate: date(1966, 1, 1), Registered: ptr(true)})
		assert.ErrorIs(t, err, book.ErrRegisteredTitleTaken)
	})

	t.Run("未登记的同名图书允许", func(t *testing.T) {
		err := repo.Create(ctx, &book.Book{Title: "Dune", Author: ptr("Other"), PublishedDate: date(1966, 1, 1), Registered: ptr(false)})
		assert.NoError(t, err)
	})

	t.Run("引用不存在的分类", func(t *testing.T) {
		err := repo.Create(ctx, &book.Book{Title: "X", Author: ptr("Y"), PublishedDate: date(2000, 1, 1), Genres: []book.GenreRef{{ID: 42}}})
		assert.ErrorIs(t, err, book.ErrGenreMissing)
	})

	t.Run("引用不存在的出版社", func(t *testing.T) {
		err := repo.Create(ctx, &book.Book{Title: "X", Author: ptr("Y"), PublishedDate: date(2000, 1, 1), PublisherID: ptr(uint(42))})
		assert.ErrorIs(t, err, book.ErrPublisherMissing)
	})

	t.Run("已删除图书的登记书名仍然占用", func(t *testing.T) {
		exists, err := repo.ExistsRegisteredTitle(ctx, "Dune", 0)
		require.NoError(t, err)
		assert.True(t, exists)

		dune, err := repo.FindByID(ctx, 1)
		require.NoError(t, err)
		require.NoError(t, repo.SoftDelete(ctx, dune.ID))

		exists, err = repo.ExistsRegisteredTitle(ctx, "Dune", 0)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsRegisteredTitle(ctx, "Dune", dune.ID)
		require.NoError(t, err)
		assert.False(t, exists, "排除自身后不应冲突")
	})
}

func TestBookRepository_UpdateReplacesGenres(t *testing.T) {
	db := newTestDB(t)
	repo := NewBookRepository(db)
	ctx := context.Background()

	a := seedGenre(t, db, "A")
	b := seedGenre(t, db, "B")
	saved := seedBook(t, repo, &book.Book{Title: "T", Author: ptr("X"), PublishedDate: date(2001, 1, 1), Price: ptr(10), Genres: []book.GenreRef{{ID: a}}})

	saved.Price = nil
	saved.Genres = []book.GenreRef{{ID: b}}
	require.NoError(t, repo.Update(ctx, saved))

	got, err := repo.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Price, "nil应写入NULL")
	assert.Equal(t, []string{"B"}, got.GenreNames())
}

func TestBookRepository_SoftDeleteAndRestore(t *testing.T) {
	db := newTestDB(t)
	repo := NewBookRepository(db)
	ctx := context.Background()

	b := seedBook(t, repo, &book.Book{Title: "T", Author: ptr("X"), PublishedDate: date(2001, 1, 1)})
	require.NoError(t, repo.SoftDelete(ctx, b.ID))

	_, err := repo.FindByID(ctx, b.ID)
	assert.ErrorIs(t, err, book.ErrBookNotFound, "已删除图书默认查不到")

	books, total, err := repo.List(ctx, book.ListParams{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, books)

	all, total, err := repo.ListUnscoped(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.True(t, all[0].IsDeleted)

	assert.ErrorIs(t, repo.SoftDelete(ctx, b.ID), book.ErrBookNotFound, "重复删除")

	require.NoError(t, repo.Restore(ctx, b.ID))
	got, err := repo.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.False(t, got.IsDeleted)
}

func TestBookRepository_List(t *testing.T) {
	db := newTestDB(t)
	repo := NewBookRepository(db)
	ctx := context.Background()

	pub := &publisher.Publisher{Name: "Penguin", EstablishedDate: date(2020, 1, 1)}
	require.NoError(t, NewPublisherRepository(db).Create(ctx, pub))

	seedBook(t, repo, &book.Book{Title: "Go in Action", Author: ptr("Kennedy"), PublishedDate: date(2015, 11, 1), Price: ptr(30), PublisherID: &pub.ID})
	seedBook(t, repo, &book.Book{Title: "The Go Programming Language", Author: ptr("Donovan"), PublishedDate: date(2015, 10, 26), Price: ptr(40)})
	seedBook(t, repo, &book.Book{Title: "Dune", Author: ptr("Herbert"), PublishedDate: date(1965, 8, 1), Price: ptr(10)})

	titles := func(books []*book.Book) []string {
		out := make([]string, 0, len(books))
		for _, b := range books {
			out = append(out, b.Title)
		}
		return out
	}

	t.Run("默认按出版日期升序", func(t *testing.T) {
		books, total, err := repo.List(ctx, book.ListParams{Page: 1, PageSize: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Equal(t, []string{"Dune", "The Go Programming Language", "Go in Action"}, titles(books))
	})

	t.Run("按价格降序", func(t *testing.T) {
		books, _, err := repo.List(ctx, book.ListParams{Page: 1, PageSize: 10, Ordering: book.ParseOrdering("-price")})
		require.NoError(t, err)
		assert.Equal(t, []string{"The Go Programming Language", "Go in Action", "Dune"}, titles(books))
	})

	t.Run("搜索不区分大小写", func(t *testing.T) {
		books, total, err := repo.List(ctx, book.ListParams{Page: 1, PageSize: 10, Search: "GO"})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, books, 2)
	})

	t.Run("搜索出版日期文本", func(t *testing.T) {
		books, _, err := repo.List(ctx, book.ListParams{Page: 1, PageSize: 10, Search: "1965-08"})
		require.NoError(t, err)
		assert.Equal(t, []string{"Dune"}, titles(books))
	})

	t.Run("按作者和出版社过滤", func(t *testing.T) {
		books, _, err := repo.List(ctx, book.ListParams{Page: 1, PageSize: 10, Author: ptr("Herbert")})
		require.NoError(t, err)
		assert.Equal(t, []string{"Dune"}, titles(books))

		books, _, err = repo.List(ctx, book.ListParams{Page: 1, PageSize: 10, PublisherID: &pub.ID})
		require.NoError(t, err)
		assert.Equal(t, []string{"Go in Action"}, titles(books))
	})

	t.Run("分页", func(t *testing.T) {
		books, total, err := repo.List(ctx, book.ListParams{Page: 2, PageSize: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Equal(t, []string{"Go in Action"}, titles(books))

		books, _, err = repo.List(ctx, book.ListParams{Page: 5, PageSize: 2})
		require.NoError(t, err)
		assert.Empty(t, books, "超出范围的页返回空列表")
	})

	t.Run("游标分页", func(t *testing.T) {
		first, err := repo.ListAfter(ctx, nil, 2)
		require.NoError(t, err)
		assert.Equal(t, []string{"Dune", "The Go Programming Language"}, titles(first))

		last := first[len(first)-1]
		next, err := repo.ListAfter(ctx, &book.Cursor{PublishedDate: last.PublishedDate, ID: last.ID}, 2)
		require.NoError(t, err)
		assert.Equal(t, []string{"Go in Action"}, titles(next))
	})

	t.Run("按出版日期查询", func(t *testing.T) {
		books, err := repo.ListByPublishedDate(ctx, date(2015, 10, 26))
		require.NoError(t, err)
		assert.Equal(t, []string{"The Go Programming Language"}, titles(books))
	})

	t.Run("高于平均价", func(t *testing.T) {
		avg, err := repo.AveragePrice(ctx)
		require.NoError(t, err)
		require.NotNil(t, avg)
		assert.InDelta(t, 26.67, *avg, 0.01)

		books, err := repo.ListPriceAbove(ctx, *avg)
		require.NoError(t, err)
		assert.Equal(t, []string{"The Go Programming Language", "Go in Action"}, titles(books))
	})
}

// 搜索词里的%和_按字面匹配,不能当通配符
func TestBookRepository_SearchLiteralWildcards(t *testing.T) {
	db := newTestDB(t)
	repo := NewBookRepository(db)
	ctx := context.Background()

	seedBook(t, repo, &book.Book{Title: "Dune", Author: ptr("Herbert"), PublishedDate: date(1965, 8, 1)})
	seedBook(t, repo, &book.Book{Title: "100% Sure", Author: ptr("Kim"), PublishedDate: date(2001, 1, 1)})
	seedBook(t, repo, &book.Book{Title: "snake_case", Author: ptr("Lee"), PublishedDate: date(2002, 2, 2)})
	seedBook(t, repo, &book.Book{Title: "Wow!", Author: ptr("Park"), PublishedDate: date(2003, 3, 3)})

	tests := []struct {
		search string
		want   []string
	}{
		{"%", []string{"100% Sure"}},
		{"_", []string{"snake_case"}},
		{"!", []string{"Wow!"}},
		{"0% s", []string{"100% Sure"}},
		{"e_c", []string{"snake_case"}},
		{"%%", nil},
		{"d_ne", nil},
	}
	for _, tt := range tests {
		t.Run(tt.search, func(t *testing.T) {
			books, total, err := repo.List(ctx, book.ListParams{Page: 1, PageSize: 10, Search: tt.search})
			require.NoError(t, err)
			assert.Equal(t, int64(len(tt.want)), total)

			var got []string
			for _, b := range books {
				got = append(got, b.Title)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBookRepository_AveragePriceWithoutPrices(t *testing.T) {
	db := newTestDB(t)
	repo := NewBookRepository(db)
	seedBook(t, repo, &book.Book{Title: "T", Author: ptr("X"), PublishedDate: date(2001, 1, 1)})

	avg, err := repo.AveragePrice(context.Background())
	require.NoError(t, err)
	assert.Nil(t, avg)
}

func TestGenreRepository(t *testing.T) {
	db := newTestDB(t)
	genres := NewGenreRepository(db)
	books := NewBookRepository(db)
	ctx := context.Background()

	scifi := seedGenre(t, db, "SciFi")
	poetry := seedGenre(t, db, "Poetry")
	empty := seedGenre(t, db, "Empty")

	dune := seedBook(t, books, &book.Book{Title: "Dune", Author: ptr("Herbert"), PublishedDate: date(1965, 8, 1), Genres: []book.GenreRef{{ID: scifi}}})
	deleted := seedBook(t, books, &book.Book{Title: "Foundation", Author: ptr("Asimov"), PublishedDate: date(1951, 1, 1), Genres: []book.GenreRef{{ID: scifi}}})
	odesBook := seedBook(t, books, &book.Book{Title: "Odes", Author: ptr("Keats"), PublishedDate: date(1819, 1, 1), Genres: []book.GenreRef{{ID: poetry}, {ID: scifi}}})
	require.NoError(t, books.SoftDelete(ctx, deleted.ID))

	t.Run("统计不含已删除图书", func(t *testing.T) {
		stats, err := genres.Statistics(ctx)
		require.NoError(t, err)
		assert.Equal(t, []genre.Statistic{
			{ID: scifi, Name: "SciFi", BookCount: 2},
			{ID: poetry, Name: "Poetry", BookCount: 1},
			{ID: empty, Name: "Empty", BookCount: 0},
		}, stats)
	})

	t.Run("分类下的图书ID", func(t *testing.T) {
		ids, err := genres.BookIDs(ctx, scifi)
		require.NoError(t, err)
		assert.Equal(t, []uint{dune.ID, deleted.ID, odesBook.ID}, ids)

		ids, err = genres.BookIDs(ctx, empty)
		require.NoError(t, err)
		assert.Empty(t, ids)
	})

	t.Run("重命名", func(t *testing.T) {
		require.NoError(t, genres.Update(ctx, &genre.Genre{ID: empty, Name: "Drama"}))
		g, err := genres.FindByID(ctx, empty)
		require.NoError(t, err)
		assert.Equal(t, "Drama", g.Name)
	})

	t.Run("删除分类同时删除关联", func(t *testing.T) {
		require.NoError(t, genres.Delete(ctx, poetry))

		_, err := genres.FindByID(ctx, poetry)
		assert.ErrorIs(t, err, genre.ErrGenreNotFound)

		odes, _, err := books.List(ctx, book.ListParams{Page: 1, PageSize: 10, Search: "odes"})
		require.NoError(t, err)
		require.Len(t, odes, 1)
		assert.Equal(t, []string{"SciFi"}, odes[0].GenreNames())

		assert.ErrorIs(t, genres.Delete(ctx, poetry), genre.ErrGenreNotFound)
	})

	t.Run("列表按ID升序", func(t *testing.T) {
		list, err := genres.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, scifi, list[0].ID)
	})
}

func TestPublisherRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewPublisherRepository(db)
	ctx := context.Background()

	first := &publisher.Publisher{Name: "Penguin", EstablishedDate: date(2024, 3, 1)}
	second := &publisher.Publisher{Name: "Penguin", EstablishedDate: date(2024, 3, 2)}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	got, err := repo.FindByName(ctx, "Penguin")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID, "同名时取ID最小的")
	assert.Equal(t, date(2024, 3, 1), got.EstablishedDate)

	_, err = repo.FindByName(ctx, "penguin")
	assert.ErrorIs(t, err, publisher.ErrPublisherNotFound, "名称精确匹配")

	_, err = repo.FindByID(ctx, 99)
	assert.ErrorIs(t, err, publisher.ErrPublisherNotFound)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestUserRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	birth := date(1990, 5, 17)
	u := user.NewUser("alice", "alice@example.com", "hash", "Alice", "Liddell", &birth)
	require.NoError(t, repo.Create(ctx, u))
	assert.NotZero(t, u.ID)

	got, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	assert.True(t, got.IsActive)
	require.NotNil(t, got.BirthDate)
	assert.Equal(t, birth, *got.BirthDate)

	t.Run("邮箱重复", func(t *testing.T) {
		err := repo.Create(ctx, user.NewUser("bob", "alice@example.com", "hash", "", "", nil))
		assert.ErrorIs(t, err, user.ErrEmailDuplicate)
	})

	t.Run("用户名重复", func(t *testing.T) {
		err := repo.Create(ctx, user.NewUser("alice", "other@example.com", "hash", "", "", nil))
		assert.ErrorIs(t, err, user.ErrUsernameDuplicate)
	})

	t.Run("存在性检查", func(t *testing.T) {
		ok, err := repo.ExistsByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.ExistsByUsername(ctx, "nobody")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	_, err = repo.FindByID(ctx, 999)
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestTxManager_Rollback(t *testing.T) {
	db := newTestDB(t)
	tx := NewTxManager(db)
	pubs := NewPublisherRepository(db)
	books := NewBookRepository(db)
	ctx := context.Background()

	err := tx.Transaction(ctx, func(ctx context.Context) error {
		p := &publisher.Publisher{Name: "Temp", EstablishedDate: date(2024, 1, 1)}
		if err := pubs.Create(ctx, p); err != nil {
			return err
		}
		return books.Create(ctx, &book.Book{Title: "T", PublishedDate: date(2024, 1, 1), PublisherID: &p.ID, Genres: []book.GenreRef{{ID: 7}}})
	})
	assert.ErrorIs(t, err, book.ErrGenreMissing)

	_, err = pubs.FindByName(ctx, "Temp")
	assert.ErrorIs(t, err, publisher.ErrPublisherNotFound, "事务失败时出版社应回滚")
}

func TestPageWindow(t *testing.T) {
	tests := []struct {
		name       string
		page, size int
		wantOffset int
		wantLimit  int
	}{
		{"第一页", 1, 5, 0, 5},
		{"第三页", 3, 5, 10, 5},
		{"非法值取默认", 0, 0, 0, 10},
		{"乘法溢出", math.MaxInt, 100, math.MaxInt, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offset, limit := pageWindow(tt.page, tt.size)
			assert.Equal(t, tt.wantOffset, offset)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}

func TestRegisteredTitleDDL(t *testing.T) {
	t.Run("MySQL使用生成列上的唯一索引", func(t *testing.T) {
		stmts := registeredTitleDDL(config.DriverMySQL, "books")
		require.Len(t, stmts, 2)
		assert.Contains(t, stmts[0], "ADD COLUMN registered_title")
		assert.Contains(t, stmts[0], "CASE WHEN registered THEN title END")
		assert.Equal(t, "CREATE UNIQUE INDEX unique_title_registered ON books (registered_title)", stmts[1])
	})

	for _, dialect := range []string{config.DriverPostgres, config.DriverSQLite} {
		t.Run(dialect+"使用部分索引", func(t *testing.T) {
			stmts := registeredTitleDDL(dialect, "books")
			require.Len(t, stmts, 1)
			assert.Contains(t, stmts[0], "WHERE registered = TRUE")
		})
	}
}
