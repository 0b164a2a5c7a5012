package publisher

import (
	"context"

	"github.com/xiebiao/bookcatalog/internal/domain/publisher"
)

// PublisherResult 出版社DTO
type PublisherResult struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	EstablishedDate string `json:"established_date"`
}

func toPublisherResult(p *publisher.Publisher) *PublisherResult {
	return &PublisherResult{
		ID:              p.ID,
		Name:            p.Name,
		EstablishedDate: p.EstablishedDate.Format("2006-01-02"),
	}
}

// PublishersUseCase 出版社创建与查询
// established_date由领域服务设为创建当天
type PublishersUseCase struct {
	publishers publisher.Service
}

// NewPublishersUseCase 创建用例
func NewPublishersUseCase(publishers publisher.Service) *PublishersUseCase {
	return &PublishersUseCase{publishers: publishers}
}

// Create 创建出版社
func (uc *PublishersUseCase) Create(ctx context.Context, name string) (*PublisherResult, error) {
	p, err := uc.publishers.Create(ctx, name)
	if err != nil {
		return nil, err
	}
	return toPublisherResult(p), nil
}

// Get 获取出版社
func (uc *PublishersUseCase) Get(ctx context.Context, id uint) (*PublisherResult, error) {
	p, err := uc.publishers.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toPublisherResult(p), nil
}

// List 全部出版社,按ID升序
func (uc *PublishersUseCase) List(ctx context.Context) ([]*PublisherResult, error) {
	publishers, err := uc.publishers.List(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]*PublisherResult, 0, len(publishers))
	for _, p := range publishers {
		results = append(results, toPublisherResult(p))
	}
	return results, nil
}
