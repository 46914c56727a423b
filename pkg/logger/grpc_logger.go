package logger

import (
	"context"
	"path"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// 클라이언트/네트워크 쪽 원인으로 보는 코드는 warn으로 기록
var transientCodes = map[codes.Code]bool{
	codes.Canceled:          true,
	codes.DeadlineExceeded:  true,
	codes.ResourceExhausted: true,
	codes.Aborted:           true,
	codes.Unavailable:       true,
}

// NewGrpcUnaryServerInterceptor는 unary gRPC 호출을 zap으로 기록하는 인터셉터를 생성합니다.
func NewGrpcUnaryServerInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		startTime := time.Now()
		resp, err := handler(ctx, req)

		code := status.Code(err)
		fields := []zap.Field{
			zap.String("grpc.service", path.Dir(info.FullMethod)[1:]),
			zap.String("grpc.method", path.Base(info.FullMethod)),
			zap.String("grpc.code", code.String()),
			zap.Duration("grpc.duration", time.Since(startTime)),
		}

		switch {
		case code == codes.OK:
			logger.Debug("gRPC request completed", fields...)
		case transientCodes[code]:
			logger.Warn("gRPC request failed", append(fields, zap.Error(err))...)
		default:
			logger.Error("gRPC request error", append(fields, zap.Error(err))...)
		}

		return resp, err
	}
}
