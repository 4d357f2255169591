package handlers_test

import (
	"net/http"
	"testing"

	"github.com/smartintruesdell/CubeCobra/internal/testutil"
	"github.com/stretchr/testify/require"
)

// do sends a JSON request and returns the response. The caller closes the body.
func do(t *testing.T, method, url string, body interface{}, token string) *http.Response {
	t.Helper()

	req := testutil.CreateAuthenticatedRequest(t, method, url, body, token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}
