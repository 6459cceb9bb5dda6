package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"drawpoker/internal/auth"
	"drawpoker/internal/game"
	"drawpoker/internal/offline"
	"drawpoker/internal/service"
	"drawpoker/internal/store"
	"drawpoker/internal/watch"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	remote := store.NewMemory()
	local := store.NewMemory()

	svc := service.New(remote, nil)
	svc.AttachMirror(local)

	hub := watch.NewHub(context.Background())
	svc.AttachHub(hub)

	rec := offline.NewReconciler(local, local, svc, nil)

	srv := httptest.NewServer(SetupRoutes(svc, rec, hub, nil))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, actor *auth.User, body any, out any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	if actor != nil {
		req.Header.Set(auth.HeaderPlayerID, actor.ID)
		req.Header.Set(auth.HeaderPlayerName, actor.DisplayName)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	if out != nil {
		defer resp.Body.Close()
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestGameLifecycleOverHTTP(t *testing.T) {
	srv := newServer(t)
	alice := &auth.User{ID: "alice", DisplayName: "Alice"}
	bob := &auth.User{ID: "bob", DisplayName: "Bob"}

	var snap game.Session
	resp := doJSON(t, http.MethodPost, srv.URL+"/games", alice, map[string]string{"name": "table one"}, &snap)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, game.StatusWaiting, snap.Status)

	resp = doJSON(t, http.MethodPost, srv.URL+"/games/"+snap.ID+"/join", bob, nil, &snap)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, snap.PlayerOrder, 2)

	var games []game.Session
	resp = doJSON(t, http.MethodGet, srv.URL+"/games", nil, nil, &games)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, games, 1)

	resp = doJSON(t, http.MethodPost, srv.URL+"/games/"+snap.ID+"/start", alice, nil, &snap)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, game.StatusPlaying, snap.Status)

	resp = doJSON(t, http.MethodPost, srv.URL+"/games/"+snap.ID+"/exchange", alice,
		map[string][]int{"cardsToExchangeIndices": {0, 1}}, &snap)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "bob", snap.CurrentTurn)

	resp = doJSON(t, http.MethodPost, srv.URL+"/games/"+snap.ID+"/exchange", bob,
		map[string][]int{"cardsToExchangeIndices": {}}, &snap)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, game.StatusCompleted, snap.Status)
	require.Len(t, snap.Results, 2)
}

func TestErrorMapping(t *testing.T) {
	srv := newServer(t)
	alice := &auth.User{ID: "alice", DisplayName: "Alice"}
	bob := &auth.User{ID: "bob", DisplayName: "Bob"}

	// No identity header -> 401.
	resp := doJSON(t, http.MethodPost, srv.URL+"/games", nil, map[string]string{"name": "x"}, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Unknown game -> 404.
	resp = doJSON(t, http.MethodPost, srv.URL+"/games/nope/join", alice, nil, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	var snap game.Session
	resp = doJSON(t, http.MethodPost, srv.URL+"/games", alice, map[string]string{"name": "x"}, &snap)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Non-owner start -> 403.
	resp = doJSON(t, http.MethodPost, srv.URL+"/games/"+snap.ID+"/join", bob, nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = doJSON(t, http.MethodPost, srv.URL+"/games/"+snap.ID+"/start", bob, nil, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Out-of-turn exchange -> 409.
	resp = doJSON(t, http.MethodPost, srv.URL+"/games/"+snap.ID+"/start", alice, nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = doJSON(t, http.MethodPost, srv.URL+"/games/"+snap.ID+"/exchange", bob,
		map[string][]int{"cardsToExchangeIndices": {0}}, nil)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestOfflineSurface(t *testing.T) {
	srv := newServer(t)
	alice := &auth.User{ID: "alice", DisplayName: "Alice"}
	bob := &auth.User{ID: "bob", DisplayName: "Bob"}

	var snap game.Session
	doJSON(t, http.MethodPost, srv.URL+"/games", alice, map[string]string{"name": "x"}, &snap)
	doJSON(t, http.MethodPost, srv.URL+"/games/"+snap.ID+"/join", bob, nil, nil)
	doJSON(t, http.MethodPost, srv.URL+"/games/"+snap.ID+"/start", alice, nil, &snap)

	var playable map[string]bool
	resp := doJSON(t, http.MethodGet, srv.URL+"/offline/games/"+snap.ID+"/playable", alice, nil, &playable)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, playable["playable"])

	resp = doJSON(t, http.MethodPost, srv.URL+"/offline/games/"+snap.ID+"/exchange", alice,
		map[string][]int{"cardsToExchangeIndices": {0}}, &snap)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "bob", snap.CurrentTurn)

	resp = doJSON(t, http.MethodPost, srv.URL+"/sync", alice, nil, nil)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	// After draining, the authoritative copy has alice's exchange.
	doJSON(t, http.MethodGet, srv.URL+"/games/"+snap.ID, nil, nil, &snap)
	require.True(t, snap.Players["alice"].HasExchanged)
}

func TestAnonymousAuth(t *testing.T) {
	srv := newServer(t)

	var u auth.User
	resp := doJSON(t, http.MethodPost, srv.URL+"/auth/anonymous", nil,
		map[string]string{"displayName": "Dana"}, &u)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotEmpty(t, u.ID)
	require.Equal(t, "Dana", u.DisplayName)
}
