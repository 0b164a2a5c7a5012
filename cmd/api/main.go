// @title           图书目录API
// @version         1.0
// @description     图书、分类、出版社和用户管理。图书软删除、价格下限、已登记书名唯一。
// @BasePath        /
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "github.com/xiebiao/bookcatalog/docs"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/messaging"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/sqlstore"
	"github.com/xiebiao/bookcatalog/pkg/logger"
	"github.com/xiebiao/bookcatalog/pkg/tracing"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd 命令行入口
// - serve:   启动HTTP服务
// - migrate: 建表/补索引后退出
// - events:  消费图书事件写入审计日志
func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "catalog",
		Short:         "图书目录服务",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "配置文件路径(默认查找./config/config.yaml)")

	serveCmd := newServeCmd(&configPath)
	// 不带子命令时等同于serve
	root.RunE = serveCmd.RunE
	root.AddCommand(
		serveCmd,
		newMigrateCmd(&configPath),
		newEventsCmd(&configPath),
	)
	return root
}

// bootstrap 加载配置并初始化日志
func bootstrap(configPath string) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("加载配置失败: %w", err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("初始化日志失败: %w", err)
	}
	return cfg, log, nil
}

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "启动HTTP服务",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, log)
		},
	}
}

// serve 启动服务并在ctx取消后优雅关闭
func serve(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	// 1. 链路追踪(可选)
	if cfg.Tracing.Enabled {
		shutdown, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, cfg.Tracing.SampleRatio)
		if err != nil {
			return fmt.Errorf("初始化链路追踪失败: %w", err)
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				log.Warn("关闭链路追踪失败", zap.Error(err))
			}
		}()
	}

	// 2. 依赖注入(wire生成)
	engine, cleanup, err := InitializeApp(cfg, log)
	if err != nil {
		return fmt.Errorf("初始化应用失败: %w", err)
	}
	defer cleanup()

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 3. 启动监听
	errCh := make(chan error, 1)
	go func() {
		log.Info("服务启动",
			zap.String("addr", srv.Addr),
			zap.String("mode", cfg.Server.Mode),
			zap.String("database", cfg.Database.Driver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// 4. 等待退出信号或监听失败
	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("HTTP服务异常退出: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("收到退出信号,开始优雅关闭", zap.Duration("timeout", cfg.Server.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("关闭HTTP服务失败: %w", err)
	}
	log.Info("服务已停止")
	return nil
}

func newMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "创建/更新数据表和索引",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, log, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			// 由本命令显式迁移,避免NewDB里再跑一遍
			cfg.Database.AutoMigrate = false
			db, cleanup, err := sqlstore.NewDB(cfg, log)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := sqlstore.Migrate(db); err != nil {
				return err
			}
			log.Info("数据库迁移完成", zap.String("driver", cfg.Database.Driver))
			return nil
		},
	}
}

func newEventsCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "events",
		Short: "消费图书事件并写入审计日志",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			if !cfg.MQ.Enabled {
				return errors.New("消息队列未启用(mq.enabled=false)")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return messaging.RunAuditConsumer(ctx, cfg, log)
		},
	}
}
