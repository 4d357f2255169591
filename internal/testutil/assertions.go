package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/smartintruesdell/CubeCobra/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertStatusCode verifies the HTTP response status code
func AssertStatusCode(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	assert.Equal(t, expected, resp.StatusCode, "unexpected status code")
}

// AssertJSONResponse decodes the response body into v
func AssertJSONResponse(t *testing.T, resp *http.Response, v any) {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")
	require.NoError(t, json.Unmarshal(body, v), "failed to unmarshal response: %s", string(body))
}

// AssertErrorText verifies a plain-text error response
func AssertErrorText(t *testing.T, resp *http.Response, expectedStatus int, contains string) {
	t.Helper()

	assert.Equal(t, expectedStatus, resp.StatusCode, "unexpected status code")
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")
	assert.Contains(t, string(body), contains)
}

// AssertPackDistinct verifies no cube entry appears twice in one pack
func AssertPackDistinct(t *testing.T, entryIDs []string) {
	t.Helper()
	seen := make(map[string]bool, len(entryIDs))
	for _, id := range entryIDs {
		assert.False(t, seen[id], "entry %s appears twice in pack", id)
		seen[id] = true
	}
}

// AssertSeatNames verifies the seat order of a draft by name
func AssertSeatNames(t *testing.T, seats []domain.Seat, expected ...string) {
	t.Helper()
	names := make([]string, len(seats))
	for i, s := range seats {
		names[i] = s.Name
	}
	assert.Equal(t, expected, names, "unexpected seat order")
}

// AssertPoolCovers verifies every pack card index points into the pool
func AssertPoolCovers(t *testing.T, d *domain.Draft) {
	t.Helper()
	for seat := range d.Seats {
		for _, pack := range d.PacksForSeat(seat) {
			for _, idx := range pack.CardIndices {
				assert.True(t, idx >= 0 && idx < len(d.Cards), "seat %d pack card index %d outside pool of %d", seat, idx, len(d.Cards))
			}
		}
	}
}
