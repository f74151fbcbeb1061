package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/ovenfresh/shopchat/internal/domain"
	"github.com/ovenfresh/shopchat/internal/registry"
	"github.com/ovenfresh/shopchat/internal/testutil"
)

func TestHealth(t *testing.T) {
	t.Parallel()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	Health()(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	require.Equal(t, "ok", body["status"])
}

func historyRouter(s *testutil.MockStore) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/chats/{shop_id}/{customer_id}/messages", ChatHistory(s, 50)).Methods(http.MethodGet)
	return r
}

func TestChatHistory(t *testing.T) {
	t.Parallel()
	s := testutil.NewMockStore()
	require.NoError(t, s.Append(context.Background(),
		domain.ChatMessage{ShopID: 3, CustomerID: 7, SenderID: 7, Text: "hi"}))
	require.NoError(t, s.Append(context.Background(),
		domain.ChatMessage{ShopID: 3, CustomerID: 7, SenderID: 10, Text: "hello"}))

	req := httptest.NewRequest(http.MethodGet, "/api/chats/3/7/messages", nil)
	w := httptest.NewRecorder()
	historyRouter(s).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var msgs []domain.ChatMessage
	require.NoError(t, json.NewDecoder(w.Body).Decode(&msgs))
	require.Len(t, msgs, 2)
	require.Equal(t, "hi", msgs[0].Text)
	require.Equal(t, "hello", msgs[1].Text)
}

func TestChatHistoryEmpty(t *testing.T) {
	t.Parallel()
	s := testutil.NewMockStore()

	req := httptest.NewRequest(http.MethodGet, "/api/chats/3/7/messages", nil)
	w := httptest.NewRecorder()
	historyRouter(s).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, "[]", w.Body.String())
}

func TestChatHistoryBadIDs(t *testing.T) {
	t.Parallel()
	s := testutil.NewMockStore()

	req := httptest.NewRequest(http.MethodGet, "/api/chats/three/7/messages", nil)
	w := httptest.NewRecorder()
	historyRouter(s).ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOnlineShops(t *testing.T) {
	t.Parallel()
	reg := registry.New(testutil.Logger())
	reg.Register(testutil.NewMockConn("a"), domain.Shopkeeper(10, 3))
	reg.Register(testutil.NewMockConn("b"), domain.Shopkeeper(12, 5))

	req := httptest.NewRequest(http.MethodGet, "/api/presence/shops", nil)
	w := httptest.NewRecorder()
	OnlineShops(reg)(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var shops []shopPresence
	require.NoError(t, json.NewDecoder(w.Body).Decode(&shops))
	require.Len(t, shops, 2)
	require.Equal(t, int64(3), shops[0].ShopID)
	require.Equal(t, int64(5), shops[1].ShopID)
	require.True(t, shops[0].Online)
}

func TestOnlineShopsEmpty(t *testing.T) {
	t.Parallel()
	reg := registry.New(testutil.Logger())

	req := httptest.NewRequest(http.MethodGet, "/api/presence/shops", nil)
	w := httptest.NewRecorder()
	OnlineShops(reg)(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, "[]", w.Body.String())
}
