package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	nethttp "net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"FrontierTown/internal/shared/gameconfig/catalog"
	"FrontierTown/internal/shared/logs"
	"FrontierTown/internal/shared/metrics"
	"FrontierTown/internal/shared/serverconfig"
	"FrontierTown/internal/shared/session"
	"FrontierTown/internal/shared/transport/grpc"
	transporthttp "FrontierTown/internal/shared/transport/http"
	"FrontierTown/internal/shared/transport/ws"
	"FrontierTown/internal/town/actor"
	"FrontierTown/internal/town/app"
	"FrontierTown/internal/town/domain"
	"FrontierTown/internal/town/infra/journal"
	"FrontierTown/internal/town/infra/memory"
	"FrontierTown/internal/town/interfaces"
	"FrontierTown/internal/town/interfaces/handler"
	"FrontierTown/modules/kit/logx"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func main() {
	cfgPath := flag.String("config", "", "config file (default $"+serverconfig.EnvConfigPath+", then configs/conf.yml searched upward)")
	healthcheck := flag.Bool("healthcheck", false, "probe the running server and exit 0 when it is serving")
	flag.Parse()

	loader, err := serverconfig.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}
	conf := loader.Get()

	if *healthcheck {
		os.Exit(probe(conf))
	}

	if err := logs.Init("town", conf.Log); err != nil {
		panic(err)
	}
	defer func() { _ = logs.Sync() }()
	logs.Info("conf", zap.String("path", loader.Path()), zap.Any("conf", conf))

	// 热更新只生效日志级别；其余配置需要重启
	loader.OnChange(func(c serverconfig.Config, err error) {
		if err != nil {
			logs.Warn("config reload failed", zap.Error(err))
			return
		}
		logs.SetLevel(c.Log.Level)
		logs.Info("config reloaded", zap.String("log_level", c.Log.Level))
	})
	loader.Watch()

	if err := run(conf, filepath.Dir(loader.Path())); err != nil {
		logs.Fatal("town server exited", zap.Error(err))
	}
	logs.Info("town server stopped")
}

func run(conf serverconfig.Config, confDir string) error {
	baseLogger := logx.NewZapLogger(logs.L())
	if !conf.Log.Dev {
		gin.SetMode(gin.ReleaseMode)
	}

	cat, err := catalog.Load(resolvePath(confDir, conf.Logic.CatalogFile))
	if err != nil {
		return err
	}
	if conf.Game.MapSize > 0 {
		cat = cat.WithMapSize(conf.Game.MapSize)
	}

	m := metrics.New()
	store := memory.NewStore()
	runtime := actor.NewRuntime(conf.Game.AskTimeout, baseLogger.Named("actor"))
	defer runtime.Shutdown()

	registry := session.NewConnectionRegistry(m, baseLogger.Named("session"))
	var broadcaster app.Broadcaster = registry

	sink, err := journal.Open(conf.Journal, baseLogger.Named("journal"))
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	if sink != nil {
		recorder := journal.NewRecorder(registry, sink, m, baseLogger.Named("journal"))
		broadcaster = recorder
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := recorder.Close(ctx); err != nil {
				logs.Warn("journal close failed", zap.Error(err))
			}
		}()
	}

	rules := app.Rules{
		Start: domain.Resources{
			Gold: conf.Game.Start.Gold,
			Wood: conf.Game.Start.Wood,
			Food: conf.Game.Start.Food,
		},
		ChatLimit:        conf.Game.ChatLimit,
		TrustBattleStats: conf.Game.TrustBattleStats,
	}
	clock := app.SystemClock()
	appLogger := baseLogger.Named("town")

	scheduler := app.NewConstructionScheduler(store, runtime, broadcaster, clock, m, appLogger)
	ticker := app.NewProductionTicker(store, cat, runtime, broadcaster, conf.Game.TickInterval, m, appLogger)
	town := &handler.Town{
		Query:       app.NewQueryService(store, cat, rules, appLogger),
		Economy:     app.NewEconomyService(store, cat, runtime, scheduler, broadcaster, clock, m, appLogger),
		Chat:        app.NewChatService(store, broadcaster, clock, rules, m, appLogger),
		Battle:      app.NewBattleService(store, cat, broadcaster, clock, rules, m, appLogger),
		Registry:    registry,
		Broadcaster: broadcaster,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if _, err := scheduler.Reconcile(ctx); err != nil {
		return fmt.Errorf("reconcile constructions: %w", err)
	}

	townModule := interfaces.New(town, m, baseLogger)

	wsRouter := ws.NewRouter(baseLogger)
	wsModules := []ws.Registrar{
		townModule,
	}
	for _, mod := range wsModules {
		mod.WsRegister(wsRouter)
	}

	httpAddr := fmt.Sprintf("%s:%d", conf.Server.Host, conf.Server.Port)
	httpServer := transporthttp.NewHttpServer(httpAddr, nil, baseLogger)
	httpModules := []transporthttp.Registrar{
		townModule,
	}
	for _, mod := range httpModules {
		mod.HttpRegister(httpServer.Group())
	}

	wsServer := ws.NewServer(wsRouter, conf.Server.WSQueue, baseLogger)
	wsServer.OnOpen(registry.Track)
	httpServer.Engine().GET("/ws", gin.WrapH(wsServer))

	var ops *grpc.OpsServer
	if conf.Ops.Port > 0 {
		ops = grpc.NewOpsServer(fmt.Sprintf("%s:%d", conf.Ops.Host, conf.Ops.Port), baseLogger.Named("ops"))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logs.Info("http server listening", zap.String("addr", httpAddr))
		if err := httpServer.Start(); err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	if ops != nil {
		g.Go(ops.Start)
		ops.SetServing(true)
	}
	g.Go(func() error {
		return ticker.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		logs.Info("收到退出信号，准备优雅退出")
		if ops != nil {
			ops.SetServing(false)
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			logs.Warn("http shutdown failed", zap.Error(err))
		}
		scheduler.Stop()
		if ops != nil {
			ops.Stop(shutdownCtx)
		}
		return nil
	})

	return g.Wait()
}

// resolvePath 相对路径按配置文件所在目录解析。
func resolvePath(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

// probe 供容器探活：配置了 ops 端口走 gRPC health，否则请求 HTTP /healthz。
func probe(conf serverconfig.Config) int {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if conf.Ops.Port > 0 {
		st, err := grpc.CheckHealth(ctx, fmt.Sprintf("%s:%d", conf.Ops.Host, conf.Ops.Port))
		if err != nil || st != healthpb.HealthCheckResponse_SERVING {
			fmt.Fprintf(os.Stderr, "unhealthy: status=%s err=%v\n", st, err)
			return 1
		}
		return 0
	}

	host := conf.Server.Host
	if host == "" || host == "0.0.0.0" {
		host = "127.0.0.1"
	}
	req, err := nethttp.NewRequestWithContext(ctx, nethttp.MethodGet, fmt.Sprintf("http://%s:%d/healthz", host, conf.Server.Port), nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	resp, err := nethttp.DefaultClient.Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "unhealthy: %v\n", err)
		return 1
	}
	defer resp.Body.Close()
	if resp.StatusCode != nethttp.StatusOK {
		fmt.Fprintf(os.Stderr, "unhealthy: http %d\n", resp.StatusCode)
		return 1
	}
	return 0
}
