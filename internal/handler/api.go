package handler

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/samber/lo"

	"github.com/ovenfresh/shopchat/internal/domain"
	"github.com/ovenfresh/shopchat/internal/registry"
	"github.com/ovenfresh/shopchat/internal/store"
)

// Health returns a simple health check handler.
func Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}

// ChatHistory returns the conversation history for a (shop, customer)
// pair, oldest first.
func ChatHistory(s store.Store, limit int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		shopID, err := strconv.ParseInt(vars["shop_id"], 10, 64)
		if err != nil {
			http.Error(w, `{"error":"invalid shop_id"}`, http.StatusBadRequest)
			return
		}
		customerID, err := strconv.ParseInt(vars["customer_id"], 10, 64)
		if err != nil {
			http.Error(w, `{"error":"invalid customer_id"}`, http.StatusBadRequest)
			return
		}

		msgs, err := s.History(r.Context(), shopID, customerID, limit)
		if err != nil {
			http.Error(w, `{"error":"history unavailable"}`, http.StatusInternalServerError)
			return
		}
		if msgs == nil {
			msgs = []domain.ChatMessage{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(msgs)
	}
}

type shopPresence struct {
	ShopID int64 `json:"shop_id"`
	Online bool  `json:"online"`
}

// OnlineShops lists shops that currently have a seated connection. The
// widget polls this before opening a chat.
func OnlineShops(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ids := reg.OnlineShops()
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		shops := lo.Map(ids, func(id int64, _ int) shopPresence {
			return shopPresence{ShopID: id, Online: true}
		})

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(shops)
	}
}
