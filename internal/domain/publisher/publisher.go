package publisher

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

// Publisher 出版社
// EstablishedDate在创建时自动设为当天
type Publisher struct {
	ID              uint
	Name            string
	EstablishedDate time.Time
}

// ErrPublisherNotFound 出版社不存在
var ErrPublisherNotFound = apperrors.ErrPublisherNotFound

// Repository 出版社仓储接口
type Repository interface {
	Create(ctx context.Context, p *Publisher) error
	// FindByID 不存在返回ErrPublisherNotFound
	FindByID(ctx context.Context, id uint) (*Publisher, error)
	// FindByName 名称精确匹配,多条时取ID最小的一条,不存在返回ErrPublisherNotFound
	FindByName(ctx context.Context, name string) (*Publisher, error)
	// List 按ID升序
	List(ctx context.Context) ([]*Publisher, error)
}

// Service 出版社领域服务
type Service interface {
	Create(ctx context.Context, name string) (*Publisher, error)
	Get(ctx context.Context, id uint) (*Publisher, error)
	List(ctx context.Context) ([]*Publisher, error)

	// ResolveByName 按名称查找出版社,不存在则创建
	// 返回的bool表示是否新建
	ResolveByName(ctx context.Context, name string) (*Publisher, bool, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService 创建出版社领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo, now: time.Now}
}

func (s *service) Create(ctx context.Context, name string) (*Publisher, error) {
	p := &Publisher{
		Name:            name,
		EstablishedDate: truncateDay(s.now()),
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) Get(ctx context.Context, id uint) (*Publisher, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) List(ctx context.Context) ([]*Publisher, error) {
	return s.repo.List(ctx)
}

func (s *service) ResolveByName(ctx context.Context, name string) (*Publisher, bool, error) {
	p, err := s.repo.FindByName(ctx, name)
	if err == nil {
		return p, false, nil
	}
	if !errors.Is(err, ErrPublisherNotFound) {
		return nil, false, err
	}

	p, err = s.Create(ctx, name)
	if err != nil {
		return nil, false, err
	}
	return p, true, nil
}

// truncateDay 去掉时分秒,保留本地日期
func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
