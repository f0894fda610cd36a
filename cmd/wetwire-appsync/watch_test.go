package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewWatchCmd(t *testing.T) {
	cmd := newWatchCmd(&globalOptions{})

	assert.Equal(t, "watch", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotNil(t, cmd.Flags().Lookup("validate-only"))

	flag := cmd.Flags().Lookup("debounce")
	require.NotNil(t, flag)
	assert.Equal(t, "500ms", flag.DefValue)
}

func TestIsWatchedFile(t *testing.T) {
	assert.True(t, isWatchedFile("wetwire-appsync.yaml"))
	assert.True(t, isWatchedFile("schema.GRAPHQL"))
	assert.True(t, isWatchedFile("templates/add.vtl"))
	assert.False(t, isWatchedFile("template.json"))
	assert.False(t, isWatchedFile("README.md"))
}

func TestRebuild(t *testing.T) {
	path := filepath.Join(t.TempDir(), "template.json")
	opts := &globalOptions{configFile: testProject}

	var out bytes.Buffer
	ok := rebuild(&out, opts, watchOptions{skipLint: true, outputFormat: "json", outputFile: path}, zap.NewNop())
	require.True(t, ok, out.String())
	assert.Contains(t, out.String(), "Build successful, wrote "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "AWS::AppSync::GraphQLSchema")
}

func TestRebuild_Failure(t *testing.T) {
	opts := &globalOptions{configFile: filepath.Join("testdata", "missing.yaml")}

	var out bytes.Buffer
	assert.False(t, rebuild(&out, opts, watchOptions{skipLint: true, outputFormat: "json"}, zap.NewNop()))
	assert.Contains(t, out.String(), "Build error:")
}

// syncBuffer guards a buffer written by the watch loop and read by the test.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestRunWatch_RebuildsOnChange(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"wetwire-appsync.yaml", "schema.graphql"} {
		data, err := os.ReadFile(filepath.Join("testdata", name))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0644))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := &syncBuffer{}
	opts := &globalOptions{configFile: filepath.Join(dir, "wetwire-appsync.yaml")}
	done := make(chan error, 1)
	go func() {
		done <- runWatch(ctx, out, opts, watchOptions{
			validateOnly: true,
			skipLint:     true,
			debounce:     10 * time.Millisecond,
			outputFormat: "json",
		})
	}()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Watching for changes")
	}, 5*time.Second, 10*time.Millisecond)

	schema := "type Query {\n  ping: String\n  pong: String\n}\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "schema.graphql"), []byte(schema), 0644))

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Change detected, rebuilding")
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	assert.Contains(t, out.String(), "Stopping watch...")
}
