package sqlstore

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架，驱动由database.driver选择（mysql/postgres/sqlite）
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. SQL日志输出到zap：debug模式打印全部SQL，其他模式只打印慢查询和错误
// 4. database.auto_migrate为true时自动迁移表结构
//
// 返回的cleanup用于关闭连接池，交给wire统一管理
func NewDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, func(), error) {
	// 1. 选择方言
	dialector, err := openDialector(cfg.Database)
	if err != nil {
		return nil, nil, err
	}

	// 2. 配置GORM日志
	level := logger.Warn
	if cfg.Server.Mode == "debug" {
		level = logger.Info
	}

	// 3. 连接数据库
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: NewGormLogger(log, level),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 4. 配置连接池
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	cleanup := func() {
		if err := sqlDB.Close(); err != nil {
			log.Warn("关闭数据库连接失败", zap.Error(err))
		}
	}

	// 5. 测试连接
	if err := sqlDB.Ping(); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	// 6. 注册显式的多对多中间表（迁移和关联预加载都依赖它）
	if err := setupJoinTables(db); err != nil {
		cleanup()
		return nil, nil, err
	}

	log.Info("数据库连接成功",
		zap.String("driver", cfg.Database.Driver),
		zap.String("dbname", cfg.Database.DBName),
	)

	// 7. 自动迁移表结构
	if cfg.Database.AutoMigrate {
		if err := Migrate(db); err != nil {
			cleanup()
			return nil, nil, err
		}
	}

	return db, cleanup, nil
}

func openDialector(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	dsn := cfg.DSN()
	switch cfg.Driver {
	case config.DriverMySQL:
		return mysql.Open(dsn), nil
	case config.DriverPostgres:
		return postgres.Open(dsn), nil
	case config.DriverSQLite:
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %s", cfg.Driver)
	}
}

func setupJoinTables(db *gorm.DB) error {
	if err := db.SetupJoinTable(&BookModel{}, "Genres", &BookGenreModel{}); err != nil {
		return fmt.Errorf("注册图书分类中间表失败: %w", err)
	}
	return nil
}

// Migrate 迁移表结构
//  1. AutoMigrate只会创建表、添加字段和索引，不会删除或修改现有字段
//  2. "registered=true时书名唯一"GORM标签表达不了，单独创建：
//     PostgreSQL/SQLite用部分唯一索引；MySQL没有部分索引，改用生成列
//     registered_title（未登记时为NULL）上的唯一索引，NULL不参与唯一比较
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&PublisherModel{},
		&GenreModel{},
		&AuthorModel{},
		&BookModel{},
		&BookGenreModel{},
		&UserModel{},
	); err != nil {
		return fmt.Errorf("数据库迁移失败: %w", err)
	}

	table := BookModel{}.TableName()
	// MySQL的ALTER TABLE没有IF NOT EXISTS，已有生成列时跳过
	if db.Dialector.Name() == config.DriverMySQL && db.Migrator().HasColumn(table, registeredTitleColumn) {
		return nil
	}

	for _, stmt := range registeredTitleDDL(db.Dialector.Name(), table) {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("创建登记书名唯一索引失败: %w", err)
		}
	}
	return nil
}

// registeredTitleDDL 登记书名唯一约束的建表语句
func registeredTitleDDL(dialect, table string) []string {
	if dialect == config.DriverMySQL {
		return []string{
			fmt.Sprintf(
				"ALTER TABLE %s ADD COLUMN %s VARCHAR(200) AS (CASE WHEN registered THEN title END) STORED",
				table, registeredTitleColumn,
			),
			fmt.Sprintf("CREATE UNIQUE INDEX %s ON %s (%s)", registeredTitleIndex, table, registeredTitleColumn),
		}
	}
	return []string{fmt.Sprintf(
		"CREATE UNIQUE INDEX IF NOT EXISTS %s ON %s (title) WHERE registered = TRUE",
		registeredTitleIndex, table,
	)}
}
