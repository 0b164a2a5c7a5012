package sqlstore

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/xiebiao/bookcatalog/internal/domain/publisher"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

type publisherRepository struct {
	db *gorm.DB
}

// NewPublisherRepository 创建出版社仓储
func NewPublisherRepository(db *gorm.DB) publisher.Repository {
	return &publisherRepository{db: db}
}

func (r *publisherRepository) Create(ctx context.Context, p *publisher.Publisher) error {
	model := &PublisherModel{
		Name:            p.Name,
		EstablishedDate: datatypes.Date(truncateDate(p.EstablishedDate)),
	}
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建出版社失败")
	}
	p.ID = model.ID
	return nil
}

func (r *publisherRepository) FindByID(ctx context.Context, id uint) (*publisher.Publisher, error) {
	var model PublisherModel
	if err := getDB(ctx, r.db).First(&model, id).Error; err != nil {
		return nil, r.notFound(err)
	}
	return toPublisherEntity(&model), nil
}

// FindByName 名称精确匹配,同名时取ID最小的
func (r *publisherRepository) FindByName(ctx context.Context, name string) (*publisher.Publisher, error) {
	var model PublisherModel
	if err := getDB(ctx, r.db).Where("name = ?", name).Order("id").First(&model).Error; err != nil {
		return nil, r.notFound(err)
	}
	return toPublisherEntity(&model), nil
}

func (r *publisherRepository) List(ctx context.Context) ([]*publisher.Publisher, error) {
	var models []PublisherModel
	if err := getDB(ctx, r.db).Order("id").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询出版社列表失败")
	}

	publishers := make([]*publisher.Publisher, 0, len(models))
	for i := range models {
		publishers = append(publishers, toPublisherEntity(&models[i]))
	}
	return publishers, nil
}

func (r *publisherRepository) notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return publisher.ErrPublisherNotFound
	}
	return apperrors.Wrap(err, "查询出版社失败")
}

func toPublisherEntity(m *PublisherModel) *publisher.Publisher {
	return &publisher.Publisher{
		ID:              m.ID,
		Name:            m.Name,
		EstablishedDate: truncateDate(time.Time(m.EstablishedDate)),
	}
}
