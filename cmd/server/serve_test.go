package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())
	return port
}

func TestServe_GRPCPortBusy(t *testing.T) {
	busy, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = busy.Close() })
	grpcPort := busy.Addr().(*net.TCPAddr).Port
	httpPort := freePort(t)

	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	body := fmt.Sprintf(`server:
  host: 127.0.0.1
  port: %d
  mode: test
grpc:
  enabled: true
  port: %d
database:
  driver: sqlite
  path: %s
  log_level: silent
log:
  level: error
`, httpPort, grpcPort, filepath.Join(dir, "wiki.db"))
	require.NoError(t, os.WriteFile(configPath, []byte(body), 0o600))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err = serve(ctx, configPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), fmt.Sprint(grpcPort))

	// HTTP 服务不应在 gRPC 启动失败后继续监听
	l, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", httpPort))
	require.NoError(t, err)
	_ = l.Close()
}
