package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"terminal-terrace/journal-wiki/config"
	"terminal-terrace/journal-wiki/internal/article"
	"terminal-terrace/journal-wiki/internal/database"
	wikigrpc "terminal-terrace/journal-wiki/internal/grpc"
	"terminal-terrace/journal-wiki/internal/journal"
	"terminal-terrace/journal-wiki/internal/link"
	"terminal-terrace/journal-wiki/internal/logger"
	"terminal-terrace/journal-wiki/internal/route"
	"terminal-terrace/journal-wiki/internal/sequence"
)

const shutdownTimeout = 10 * time.Second

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the gRPC navigation service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, rootOpts.ConfigPath)
		},
	}
}

func serve(ctx context.Context, configPath string) error {
	// 1. 加载配置
	if err := config.Load(configPath); err != nil {
		return err
	}
	conf := config.Conf
	log := logger.Init(conf.Log)
	gin.SetMode(conf.Server.Mode)

	// 2. 初始化数据库与缓存
	db, err := database.InitDatabase(conf.Database)
	if err != nil {
		return err
	}
	defer database.Close(db)

	var cache *sequence.NeighborCache
	redisClient, err := database.InitRedis(conf.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		cache = sequence.NewNeighborCache(redisClient.Client, time.Duration(conf.Redis.NeighborTTL)*time.Second, log)
	}

	// 3. 组装服务
	links := link.NewSynchronizer(log)
	sequences := sequence.NewService(db, cache, log)
	journals := journal.NewJournalService(db, links, sequences, log)
	articles := article.NewArticleService(db, links, sequences, log)

	// 4. 设置路由
	r := route.SetupRouter(route.Dependencies{
		DB:          db,
		Journals:    journals,
		Articles:    articles,
		JWTSecret:   conf.JWT.Secret,
		FrontendURL: conf.Server.FrontendURL,
		Logger:      log,
	})
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", conf.Server.Host, conf.Server.Port),
		Handler:      r,
		ReadTimeout:  conf.Server.ReadTimeout,
		WriteTimeout: conf.Server.WriteTimeout,
	}

	var grpcServer *wikigrpc.Server
	if conf.GRPC.Enabled {
		grpcServer, err = wikigrpc.NewServer(conf.GRPC.Port, conf.JWT.Secret, wikigrpc.NewNavigationServiceImpl(journals, articles))
		if err != nil {
			return err
		}
	}

	// 5. 启动服务，监听器全部就绪后才启动任何 goroutine
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("http server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if grpcServer != nil {
		g.Go(func() error {
			log.Info("grpc server listening", "addr", grpcServer.GetAddr())
			if err := grpcServer.Start(); err != nil {
				return fmt.Errorf("grpc server: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if grpcServer != nil {
			grpcServer.Stop()
		}
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("http shutdown failed", "error", err)
			return err
		}
		return nil
	})

	return g.Wait()
}
