package genre

import (
	"context"

	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

// Genre 图书分类
type Genre struct {
	ID   uint
	Name string
}

// Statistic 分类及其下未删除图书的数量
type Statistic struct {
	ID        uint
	Name      string
	BookCount int64
}

// ErrGenreNotFound 分类不存在
var ErrGenreNotFound = apperrors.ErrGenreNotFound

// Repository 分类仓储接口
type Repository interface {
	Create(ctx context.Context, g *Genre) error
	// FindByID 不存在返回ErrGenreNotFound
	FindByID(ctx context.Context, id uint) (*Genre, error)
	// List 按ID升序返回全部分类
	List(ctx context.Context) ([]*Genre, error)
	Update(ctx context.Context, g *Genre) error
	// Delete 物理删除分类,同时删除图书关联
	Delete(ctx context.Context, id uint) error
	// Statistics 每个分类的图书数量(LEFT JOIN,没有图书的分类为0)
	Statistics(ctx context.Context) ([]Statistic, error)
	// BookIDs 关联到该分类的图书ID(包括已删除的)
	BookIDs(ctx context.Context, id uint) ([]uint, error)
}

// Service 分类领域服务
type Service interface {
	Create(ctx context.Context, name string) (*Genre, error)
	Get(ctx context.Context, id uint) (*Genre, error)
	List(ctx context.Context) ([]*Genre, error)
	Rename(ctx context.Context, id uint, name string) (*Genre, error)
	Delete(ctx context.Context, id uint) error
	Statistics(ctx context.Context) ([]Statistic, error)
	BookIDs(ctx context.Context, id uint) ([]uint, error)
}

type service struct {
	repo Repository
}

// NewService 创建分类领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, name string) (*Genre, error) {
	g := &Genre{Name: name}
	if err := s.repo.Create(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *service) Get(ctx context.Context, id uint) (*Genre, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) List(ctx context.Context) ([]*Genre, error) {
	return s.repo.List(ctx)
}

// Rename 修改分类名称,name为空时保持原值
func (s *service) Rename(ctx context.Context, id uint, name string) (*Genre, error) {
	g, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return g, nil
	}

	g.Name = name
	if err := s.repo.Update(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// Delete 先确认存在再删除,保证不存在时返回404而不是静默成功
func (s *service) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) Statistics(ctx context.Context) ([]Statistic, error) {
	return s.repo.Statistics(ctx)
}

func (s *service) BookIDs(ctx context.Context, id uint) ([]uint, error) {
	return s.repo.BookIDs(ctx, id)
}
