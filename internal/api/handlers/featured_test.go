package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/smartintruesdell/CubeCobra/internal/api/handlers"
	"github.com/smartintruesdell/CubeCobra/internal/domain"
	"github.com/smartintruesdell/CubeCobra/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeaturedHandler(t *testing.T) {
	ts := testutil.NewTestServer(t)
	owner, ownerToken := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)
	_, adminToken := testutil.NewUserBuilder().WithAdmin().BuildAndLogin(t, ts)

	cubes := make([]*domain.Cube, 4)
	for i := range cubes {
		cubes[i] = testutil.NewCubeBuilder().WithOwner(owner).Build(t, ts.DB.DB)
	}

	for _, c := range cubes {
		resp := do(t, http.MethodPost, ts.APIURL("/featured"), map[string]string{"cubeId": c.ID.String()}, ownerToken)
		testutil.AssertStatusCode(t, resp, http.StatusOK)
		resp.Body.Close()
	}

	resp := do(t, http.MethodPost, ts.APIURL("/featured"), map[string]string{"cubeId": cubes[0].ID.String()}, ownerToken)
	testutil.AssertStatusCode(t, resp, http.StatusConflict)
	resp.Body.Close()

	resp = do(t, http.MethodGet, ts.APIURL("/featured"), nil, "")
	var queue handlers.FeaturedQueueResponse
	testutil.AssertJSONResponse(t, resp, &queue)
	resp.Body.Close()
	require.Len(t, queue.Featured, 2)
	require.Len(t, queue.Queue, 2)
	assert.Equal(t, cubes[0].ID, queue.Featured[0].CubeID)
	assert.Equal(t, 4, queue.Version)

	resp = do(t, http.MethodDelete, ts.APIURL(fmt.Sprintf("/featured/%s", cubes[1].ID)), nil, ownerToken)
	testutil.AssertStatusCode(t, resp, http.StatusConflict)
	resp.Body.Close()

	resp = do(t, http.MethodPost, ts.APIURL("/featured/move"), map[string]int{"from": 3, "to": 2}, ownerToken)
	testutil.AssertStatusCode(t, resp, http.StatusForbidden)
	resp.Body.Close()

	resp = do(t, http.MethodPost, ts.APIURL("/featured/move"), map[string]int{"from": 2, "to": 4}, adminToken)
	testutil.AssertStatusCode(t, resp, http.StatusConflict)
	resp.Body.Close()

	resp = do(t, http.MethodPost, ts.APIURL("/featured/move"), map[string]int{"from": 3}, adminToken)
	testutil.AssertStatusCode(t, resp, http.StatusBadRequest)
	resp.Body.Close()

	resp = do(t, http.MethodPost, ts.APIURL("/featured/move"), map[string]int{"from": 3, "to": 2}, adminToken)
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	testutil.AssertJSONResponse(t, resp, &queue)
	resp.Body.Close()
	assert.Equal(t, cubes[3].ID, queue.Queue[0].CubeID)

	resp = do(t, http.MethodPost, ts.APIURL("/featured/rotate"), nil, adminToken)
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	testutil.AssertJSONResponse(t, resp, &queue)
	resp.Body.Close()
	assert.Equal(t, cubes[3].ID, queue.Featured[0].CubeID)
	assert.Equal(t, cubes[2].ID, queue.Featured[1].CubeID)

	resp = do(t, http.MethodDelete, ts.APIURL(fmt.Sprintf("/featured/%s", cubes[1].ID)), nil, ownerToken)
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	testutil.AssertJSONResponse(t, resp, &queue)
	resp.Body.Close()
	assert.Len(t, queue.Queue, 1)

	resp = do(t, http.MethodPost, ts.APIURL("/featured/rotate"), nil, adminToken)
	testutil.AssertStatusCode(t, resp, http.StatusConflict)
	resp.Body.Close()
}
