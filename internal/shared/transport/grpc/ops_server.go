package grpc

import (
	"context"
	"fmt"
	"net"
	"time"

	"FrontierTown/internal/shared/transport"
	"FrontierTown/modules/kit/logx"

	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

// ServiceName 是 health 检查里本进程的服务名。
const ServiceName = "frontier.town"

// OpsServer 运维用 gRPC 端口：只挂标准 health 服务，给编排系统探活。
type OpsServer struct {
	addr   string
	srv    *gogrpc.Server
	health *health.Server
	log    logx.Logger
}

func NewOpsServer(addr string, l logx.Logger) *OpsServer {
	l = logx.OrNop(l)
	srv := gogrpc.NewServer(
		gogrpc.ChainUnaryInterceptor(UnaryServerTraceInterceptor(), unaryAccessLogInterceptor(l)),
		gogrpc.ChainStreamInterceptor(StreamServerTraceInterceptor()),
	)
	hs := health.NewServer()
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	healthpb.RegisterHealthServer(srv, hs)

	return &OpsServer{addr: addr, srv: srv, health: hs, log: l}
}

// Start 监听并阻塞，Stop 后返回 nil。
func (s *OpsServer) Start() error {
	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("ops listen %s: %w", s.addr, err)
	}
	return s.Serve(lis)
}

func (s *OpsServer) Serve(lis net.Listener) error {
	if err := s.srv.Serve(lis); err != nil && err != gogrpc.ErrServerStopped {
		return err
	}
	return nil
}

// SetServing 切换探活状态：启动完成后置 SERVING，开始关闭时置 NOT_SERVING。
func (s *OpsServer) SetServing(serving bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		st = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus(ServiceName, st)
	s.health.SetServingStatus("", st)
}

func (s *OpsServer) Stop(ctx context.Context) {
	s.health.Shutdown()
	done := make(chan struct{})
	go func() {
		s.srv.GracefulStop()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		s.srv.Stop()
	}
}

// CheckHealth 拨号 ops 端口查询服务状态（命令行 -healthcheck 使用）。
func CheckHealth(ctx context.Context, addr string) (healthpb.HealthCheckResponse_ServingStatus, error) {
	conn, err := gogrpc.NewClient(addr,
		gogrpc.WithTransportCredentials(insecure.NewCredentials()),
		gogrpc.WithChainUnaryInterceptor(UnaryClientTraceInterceptor()),
		gogrpc.WithChainStreamInterceptor(StreamClientTraceInterceptor()),
	)
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, fmt.Errorf("dial ops service failed: %w", err)
	}
	defer conn.Close()

	resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, err
	}
	return resp.GetStatus(), nil
}

func unaryAccessLogInterceptor(l logx.Logger) gogrpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *gogrpc.UnaryServerInfo, handler gogrpc.UnaryHandler) (any, error) {
		ctx = transport.NewContextWithParent(ctx, "GRPC "+info.FullMethod)
		start := time.Now()
		resp, err := handler(ctx, req)
		if err != nil {
			transport.SetBizCode(ctx, transport.SystemError)
			transport.SetErrorReason(ctx, status.Convert(err).Message())
		} else {
			transport.SetBizCode(ctx, transport.OK)
		}
		// health 探活频繁：成功且不慢的调用不写访问日志
		if err == nil && time.Since(start) < time.Second {
			return resp, nil
		}
		transport.WriteAccessLog(ctx, l)
		return resp, err
	}
}
