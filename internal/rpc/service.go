// Package rpc serves the pack simulator over gRPC. Messages are
// google.protobuf.Struct so the service needs no generated code:
//
//	OpenPack  {visitor_id, series, count?} -> {packs: [...], progress: {...}}
//	Progress  {visitor_id, series}         -> {progress: {...}}
package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/xtding233/booster-sim/internal/catalog"
	"github.com/xtding233/booster-sim/internal/gacha"
	"github.com/xtding233/booster-sim/internal/game"
	"github.com/xtding233/booster-sim/internal/session"
)

const ServiceName = "booster.v1.BoosterService"

// MaxPacksPerCall caps the count field of OpenPack.
const MaxPacksPerCall = 16

// BoosterServer is the server API of booster.v1.BoosterService.
type BoosterServer interface {
	OpenPack(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Progress(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// Service implements BoosterServer on top of the session manager.
type Service struct {
	sessions *session.Manager
}

func NewService(sessions *session.Manager) *Service {
	return &Service{sessions: sessions}
}

// Register adds the booster service and a health service to s.
func Register(s *grpc.Server, svc BoosterServer) *health.Server {
	s.RegisterService(&ServiceDesc, svc)
	hs := health.NewServer()
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(s, hs)
	return hs
}

func (s *Service) OpenPack(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	key, err := keyOf(in)
	if err != nil {
		return nil, err
	}
	count := 1
	if v, ok := in.GetFields()["count"]; ok {
		n := v.GetNumberValue()
		if n < 1 || n > MaxPacksPerCall || n != float64(int(n)) {
			return nil, status.Errorf(codes.InvalidArgument, "count must be an integer between 1 and %d", MaxPacksPerCall)
		}
		count = int(n)
	}
	packs, err := s.sessions.Open(ctx, key, session.OpenN(count))
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(packs)
}

func (s *Service) Progress(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	key, err := keyOf(in)
	if err != nil {
		return nil, err
	}
	p, err := s.sessions.Snapshot(ctx, key)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(map[string]any{"progress": p})
}

func keyOf(in *structpb.Struct) (session.Key, error) {
	f := in.GetFields()
	key := session.Key{
		ID:     f["visitor_id"].GetStringValue(),
		Series: f["series"].GetStringValue(),
	}
	if key.ID == "" || key.Series == "" {
		return session.Key{}, status.Error(codes.InvalidArgument, "visitor_id and series are required")
	}
	// same id format as the HTTP cookie, so both transports share sessions
	if err := uuid.Validate(key.ID); err != nil {
		return session.Key{}, status.Errorf(codes.InvalidArgument, "visitor_id: %v", err)
	}
	return key, nil
}

// toStruct converts v through its JSON form, so gRPC and HTTP clients see
// the same field names.
func toStruct(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, catalog.ErrSeriesNotFound), errors.Is(err, gacha.ErrEmptyCatalog):
		return status.Error(codes.NotFound, gacha.ErrEmptyCatalog.Error())
	case errors.Is(err, game.ErrSeriesName):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// LogUnary logs every unary call with its outcome.
func LogUnary(log *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		code := status.Code(err)
		level := slog.LevelInfo
		if code != codes.OK {
			level = slog.LevelWarn
		}
		if code == codes.Internal || code == codes.Unknown {
			level = slog.LevelError
		}
		log.Log(ctx, level, "rpc", "method", info.FullMethod, "code", code.String(), "latency", time.Since(start), "err", err)
		return resp, err
	}
}
