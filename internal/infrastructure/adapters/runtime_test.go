package adapters

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dashql/dashql/internal/domain"
)

func TestLocalRuntime_FetchFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b\n1,2\n"), 0o644))

	r := NewLocalRuntime()
	rc, err := r.Fetch(context.Background(), domain.ImportMethodFile, "file://"+path)
	require.NoError(t, err)
	defer rc.Close()

	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", string(body))
}

func TestLocalRuntime_FetchTestFixtureResolvesAgainstTestDataDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fixture.csv"), []byte("x\n1\n"), 0o644))
	t.Setenv("DASHQL_TEST_DATA", dir)

	r := NewLocalRuntime()
	rc, err := r.Fetch(context.Background(), domain.ImportMethodTest, "test://fixture.csv")
	require.NoError(t, err)
	defer rc.Close()

	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "x\n1\n", string(body))
}

func TestLocalRuntime_FetchTestFixtureFailsWithoutEnvVar(t *testing.T) {
	t.Setenv("DASHQL_TEST_DATA", "")
	os.Unsetenv("DASHQL_TEST_DATA")

	r := NewLocalRuntime()
	_, err := r.Fetch(context.Background(), domain.ImportMethodTest, "test://fixture.csv")
	assert.Error(t, err)
}

func TestLocalRuntime_FetchUnknownMethod(t *testing.T) {
	r := NewLocalRuntime()
	_, err := r.Fetch(context.Background(), domain.ImportMethod(99), "whatever")
	assert.Error(t, err)
}
