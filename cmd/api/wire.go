//go:build wireinject
// +build wireinject

// Wire依赖注入配置文件
//
// 修改本文件后运行 `wire gen ./cmd/api` 重新生成wire_gen.go
//
// 依赖链:
// *gin.Engine ← router.Handlers ← Handler ← UseCase ← 领域Service ← Repository ← *gorm.DB
// 缓存、事件发布、事务管理器通过wire.Bind绑定到应用层定义的接口

package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	"go.uber.org/zap"

	appbook "github.com/xiebiao/bookcatalog/internal/application/book"
	appgenre "github.com/xiebiao/bookcatalog/internal/application/genre"
	apppublisher "github.com/xiebiao/bookcatalog/internal/application/publisher"
	appuser "github.com/xiebiao/bookcatalog/internal/application/user"
	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/internal/domain/genre"
	"github.com/xiebiao/bookcatalog/internal/domain/publisher"
	"github.com/xiebiao/bookcatalog/internal/domain/user"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/messaging"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/sqlstore"
	"github.com/xiebiao/bookcatalog/internal/interface/http/handler"
	"github.com/xiebiao/bookcatalog/internal/interface/http/router"
)

// infrastructureSet 基础设施层依赖
// 包含:数据库连接、Redis连接、缓存、事件发布
var infrastructureSet = wire.NewSet(
	sqlstore.NewDB,
	sqlstore.NewTxManager,
	redis.NewClient,
	redis.NewCatalogCache,
	messaging.NewEventPublisher,
	wire.Bind(new(appbook.Transactor), new(*sqlstore.TxManager)),
	wire.Bind(new(appbook.BookCache), new(*redis.CatalogCache)),
	wire.Bind(new(appgenre.StatisticCache), new(*redis.CatalogCache)),
	wire.Bind(new(appbook.EventPublisher), new(*messaging.EventPublisher)),
)

// repositorySet 仓储层依赖
var repositorySet = wire.NewSet(
	sqlstore.NewBookRepository,
	sqlstore.NewGenreRepository,
	sqlstore.NewPublisherRepository,
	sqlstore.NewUserRepository,
)

// domainSet 领域层依赖
var domainSet = wire.NewSet(
	book.NewService,
	genre.NewService,
	publisher.NewService,
	user.NewService,
)

// applicationSet 应用层依赖
var applicationSet = wire.NewSet(
	appbook.NewCreateBookUseCase,
	appbook.NewGetBookUseCase,
	appbook.NewListBooksUseCase,
	appbook.NewListBooksCursorUseCase,
	appbook.NewListAllBooksUseCase,
	appbook.NewUpdateBookUseCase,
	appbook.NewDeleteBookUseCase,
	appbook.NewRestoreBookUseCase,
	appbook.NewBooksByDateUseCase,
	appbook.NewExpensiveBooksUseCase,
	appgenre.NewManageGenresUseCase,
	appgenre.NewGenreStatisticUseCase,
	apppublisher.NewPublishersUseCase,
	appuser.NewRegisterUseCase,
	appuser.NewGetUserUseCase,
)

// handlerSet HTTP处理器依赖
var handlerSet = wire.NewSet(
	handler.NewBookHandler,
	handler.NewGenreHandler,
	handler.NewPublisherHandler,
	handler.NewUserHandler,
	handler.NewAdminHandler,
	wire.Struct(new(router.Handlers), "*"),
	provideRateLimiter,
	router.New,
)

// InitializeApp 初始化整个应用
// 返回配置好的gin引擎和释放数据库、Redis、MQ连接的cleanup
func InitializeApp(cfg *config.Config, log *zap.Logger) (*gin.Engine, func(), error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		handlerSet,
	)
	return nil, nil, nil
}
