package adapters

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/dashql/dashql/internal/domain"
)

// testDataEnvVar is read by Fetch for test:// imports; see SPEC_FULL.md
// §2.3 and §5 for why a third import method beyond file/http exists.
const testDataEnvVar = "DASHQL_TEST_DATA"

// LocalRuntime is the reference domain.Runtime: file:// and bare paths
// read from the local filesystem, http(s):// issues a real GET, and
// test:// resolves relative to DASHQL_TEST_DATA so scripts in this
// project's own test suite never depend on the network or a particular
// working directory.
type LocalRuntime struct {
	HTTPClient *http.Client
}

// NewLocalRuntime returns a LocalRuntime using http.DefaultClient.
func NewLocalRuntime() *LocalRuntime {
	return &LocalRuntime{HTTPClient: http.DefaultClient}
}

func (r *LocalRuntime) Fetch(ctx context.Context, method domain.ImportMethod, uri string) (io.ReadCloser, error) {
	switch method {
	case domain.ImportMethodFile:
		path := strings.TrimPrefix(uri, "file://")
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		return f, nil

	case domain.ImportMethodHTTP:
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
		if err != nil {
			return nil, err
		}
		client := r.HTTPClient
		if client == nil {
			client = http.DefaultClient
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= 400 {
			resp.Body.Close()
			return nil, fmt.Errorf("fetch %s: unexpected status %d", uri, resp.StatusCode)
		}
		return resp.Body, nil

	case domain.ImportMethodTest:
		base, ok := r.Getenv(testDataEnvVar)
		if !ok {
			return nil, fmt.Errorf("%s is not set; cannot resolve %s", testDataEnvVar, uri)
		}
		rel := strings.TrimPrefix(uri, "test://")
		f, err := os.Open(filepath.Join(base, rel))
		if err != nil {
			return nil, fmt.Errorf("failed to open test fixture %s: %w", rel, err)
		}
		return f, nil

	default:
		return nil, fmt.Errorf("unsupported import method")
	}
}

func (r *LocalRuntime) Getenv(key string) (string, bool) {
	return os.LookupEnv(key)
}
