package rpc

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/xtding233/booster-sim/internal/catalog"
	"github.com/xtding233/booster-sim/internal/gacha"
	"github.com/xtding233/booster-sim/internal/game"
	"github.com/xtding233/booster-sim/internal/session"
)

func startServer(t *testing.T) *grpc.ClientConn {
	t.Helper()

	var cards []gacha.Card
	for i := 0; i < 40; i++ {
		rarity := "C"
		switch {
		case i < 2:
			rarity = "SR★"
		case i < 8:
			rarity = "SR"
		case i < 20:
			rarity = "R"
		}
		cards = append(cards, gacha.Card{Series: "alpha", Number: fmt.Sprintf("A-%03d", i), Rarity: rarity, Price: "10 円"})
	}
	store := catalog.NewMemoryStore()
	require.NoError(t, store.Upsert(context.Background(), cards))

	var seed atomic.Uint64
	sessions := session.NewManager(store, game.Static{Rules: gacha.DefaultRules(), Currency: "円"},
		session.WithRNG(func() gacha.RandomSource { return gacha.NewSeededRNG(seed.Add(1)) }))

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(grpc.UnaryInterceptor(LogUnary(log)))
	Register(srv, NewService(sessions))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

const visitor = "6f1c2d3e-4b5a-4c6d-8e7f-901a2b3c4d5e"

func request(t *testing.T, fields map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(fields)
	require.NoError(t, err)
	return s
}

func TestOpenPackAndProgress(t *testing.T) {
	c := NewClient(startServer(t))
	ctx := context.Background()

	out, err := c.OpenPack(ctx, request(t, map[string]any{"visitor_id": visitor, "series": "alpha", "count": 3}))
	require.NoError(t, err)
	packs := out.GetFields()["packs"].GetListValue().GetValues()
	require.Len(t, packs, 3)
	first := packs[0].GetStructValue().GetFields()
	assert.Len(t, first["cards"].GetListValue().GetValues(), 8)
	assert.Equal(t, float64(0), first["index"].GetNumberValue())

	out, err = c.Progress(ctx, request(t, map[string]any{"visitor_id": visitor, "series": "alpha"}))
	require.NoError(t, err)
	p := out.GetFields()["progress"].GetStructValue().GetFields()
	assert.Equal(t, float64(3), p["packs_opened"].GetNumberValue())
	assert.Equal(t, "alpha", p["series"].GetStringValue())
	assert.Equal(t, "240 円", p["total_price_text"].GetStringValue())
}

func TestOpenPackDefaultsToOne(t *testing.T) {
	c := NewClient(startServer(t))
	out, err := c.OpenPack(context.Background(), request(t, map[string]any{"visitor_id": visitor, "series": "alpha"}))
	require.NoError(t, err)
	assert.Len(t, out.GetFields()["packs"].GetListValue().GetValues(), 1)
}

func TestErrorCodes(t *testing.T) {
	c := NewClient(startServer(t))
	ctx := context.Background()

	cases := []struct {
		name   string
		fields map[string]any
		code   codes.Code
	}{
		{"missing visitor", map[string]any{"series": "alpha"}, codes.InvalidArgument},
		{"visitor not a uuid", map[string]any{"visitor_id": "v1", "series": "alpha"}, codes.InvalidArgument},
		{"bad count", map[string]any{"visitor_id": visitor, "series": "alpha", "count": 17}, codes.InvalidArgument},
		{"fractional count", map[string]any{"visitor_id": visitor, "series": "alpha", "count": 1.5}, codes.InvalidArgument},
		{"bad series name", map[string]any{"visitor_id": visitor, "series": "a/b"}, codes.InvalidArgument},
		{"unknown series", map[string]any{"visitor_id": visitor, "series": "missing"}, codes.NotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.OpenPack(ctx, request(t, tc.fields))
			assert.Equal(t, tc.code, status.Code(err), "%v", err)
		})
	}
}

func TestHealth(t *testing.T) {
	conn := startServer(t)
	resp, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}
