package server

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"github.com/xtding233/vgmprofile/internal/profile"
	"github.com/xtding233/vgmprofile/internal/rom"
	"github.com/xtding233/vgmprofile/internal/service"
)

const document = `
BPEE_00:
  Name: Pokemon Emerald
  SongTableOffsets: 0x100
  SongTableSizes: 0x20
  SampleRate: 4
  ReverbType: Normal
  Reverb: 0
  Volume: 15
  HasGoldenSunSynths: False
  HasPokemonCompression: True
  Playlists:
    Towns:
      3: Littleroot
BADD_00:
  Name: Broken
`

func image(code string) []byte {
	b := make([]byte, 0x400)
	copy(b[rom.GameCodeOffset:], code)
	return b
}

func startServer(t *testing.T) *grpc.ClientConn {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, profile.MP2KDocument), []byte(document), 0o644))

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	srv := NewWithListener(listener, service.New(profile.NewLoader(dir), nil), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Error("server did not stop")
		}
	})

	conn, err := grpc.NewClient(srv.Addr(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestResolveOverGRPC(t *testing.T) {
	client := NewClient(startServer(t))
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	out, err := client.Resolve(ctx, image("BPEE"))
	require.NoError(t, err)

	m := out.AsMap()
	assert.Equal(t, "MP2K.yaml", m["source"])
	assert.EqualValues(t, 15768, m["frequencyHz"])

	prof, ok := m["profile"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Pokemon Emerald", prof["name"])
	assert.Equal(t, true, prof["hasPokemonCompression"])

	pls, ok := m["playlists"].([]any)
	require.True(t, ok)
	require.Len(t, pls, 2)
	assert.Equal(t, "Music", pls[0].(map[string]any)["name"])
}

func TestResolveStatusCodes(t *testing.T) {
	client := NewClient(startServer(t))
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	tests := []struct {
		name  string
		image []byte
		code  codes.Code
	}{
		{"unknown game", image("NOPE"), codes.NotFound},
		{"short image", []byte{1, 2, 3}, codes.InvalidArgument},
		{"incomplete profile", image("BADD"), codes.FailedPrecondition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.Resolve(ctx, tt.image)
			require.Error(t, err)
			assert.Equal(t, tt.code, status.Code(err))
		})
	}
}

func TestListGamesOverGRPC(t *testing.T) {
	client := NewClient(startServer(t))
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	out, err := client.ListGames(ctx)
	require.NoError(t, err)

	games := out.AsSlice()
	require.Len(t, games, 2)
	assert.Equal(t, map[string]any{"key": "BPEE_00", "name": "Pokemon Emerald"}, games[0])
	assert.Equal(t, map[string]any{"key": "BADD_00", "name": "Broken"}, games[1])
}

func TestHealthServing(t *testing.T) {
	conn := startServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	resp, err := grpc_health_v1.NewHealthClient(conn).Check(ctx, &grpc_health_v1.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, resp.GetStatus())
}

func TestServeNilServer(t *testing.T) {
	var s *Server
	assert.Error(t, s.Serve(context.Background()))
	assert.Empty(t, s.Addr())
	s.Close()
}
