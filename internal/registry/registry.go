package registry

import (
	"log/slog"
	"sync"

	"github.com/ovenfresh/shopchat/internal/domain"
)

// Conn is the routing handle the registry holds for a live transport
// session. The transport layer owns the connection; the registry only
// routes to it.
type Conn interface {
	SID() string
	Send(data []byte)
}

// Registry is the process-wide presence state: which connection speaks
// for which identity, which connection currently holds a shop's seat,
// and which connections are members of each delivery room. All three
// structures mutate under one lock so a registration or disconnect is
// observed atomically.
type Registry struct {
	mu     sync.RWMutex
	conns  map[Conn]domain.Identity
	shops  map[int64]Conn
	rooms  map[string]map[Conn]struct{}
	logger *slog.Logger
}

// New creates an empty Registry.
func New(logger *slog.Logger) *Registry {
	return &Registry{
		conns:  make(map[Conn]domain.Identity),
		shops:  make(map[int64]Conn),
		rooms:  make(map[string]map[Conn]struct{}),
		logger: logger.With(slog.String("component", "registry")),
	}
}

// Register binds a connection to an identity and joins it to the
// identity's room. Incomplete identities are dropped. A shopkeeper
// registration takes the shop's seat, displacing any prior holder in
// the reverse mapping only. A customer registration likewise evicts
// other connections from the customer's room, so at most one live
// connection receives deliveries for any identity. Displaced
// connections keep their forward entry until they disconnect.
func (r *Registry) Register(c Conn, id domain.Identity) {
	if !id.Valid() {
		r.logger.Debug("register dropped: incomplete identity", slog.String("sid", c.SID()))
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.conns[c]; ok {
		r.detach(c, prev)
	}
	r.conns[c] = id

	room := id.Room()
	if id.Role == domain.RoleShopkeeper {
		r.shops[id.ShopID] = c
	} else {
		// Last registration wins for customers too: older
		// connections for the same customer stop receiving.
		for m := range r.rooms[room] {
			if m != c {
				r.leave(room, m)
			}
		}
	}
	r.join(room, c)

	r.logger.Info("registered",
		slog.String("sid", c.SID()),
		slog.String("role", string(id.Role)),
		slog.Int64("user_id", id.UserID),
		slog.Int64("shop_id", id.ShopID),
	)
}

// Identity resolves the identity a connection registered as.
func (r *Registry) Identity(c Conn) (domain.Identity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.conns[c]
	return id, ok
}

// ShopConn resolves the connection currently seated at a shop.
func (r *Registry) ShopConn(shopID int64) (Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.shops[shopID]
	return c, ok
}

// Remove deletes a connection's registration and room membership.
// Unknown connections are a no-op. The shop seat is released only if
// this connection still holds it, so a stale disconnect cannot clobber
// a newer registration for the same shop.
func (r *Registry) Remove(c Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.conns[c]
	if !ok {
		return
	}
	delete(r.conns, c)
	r.detach(c, id)

	r.logger.Info("removed",
		slog.String("sid", c.SID()),
		slog.String("role", string(id.Role)),
		slog.Int64("user_id", id.UserID),
	)
}

// Members returns a snapshot of the connections joined to a room.
func (r *Registry) Members(room string) []Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()
	members := make([]Conn, 0, len(r.rooms[room]))
	for c := range r.rooms[room] {
		members = append(members, c)
	}
	return members
}

// Emit sends a payload to every current member of a room. The snapshot
// is taken under the read lock; sends happen outside it and are
// fire-and-forget, so a concurrently closing member is simply missed.
func (r *Registry) Emit(room string, data []byte) {
	for _, c := range r.Members(room) {
		c.Send(data)
	}
}

// OnlineShops returns the ids of shops with a seated connection.
func (r *Registry) OnlineShops() []int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]int64, 0, len(r.shops))
	for id := range r.shops {
		ids = append(ids, id)
	}
	return ids
}

// detach undoes the room and reverse-map effects of a registration.
// Caller holds the write lock.
func (r *Registry) detach(c Conn, id domain.Identity) {
	if id.Role == domain.RoleShopkeeper && r.shops[id.ShopID] == c {
		delete(r.shops, id.ShopID)
	}
	r.leave(id.Room(), c)
}

func (r *Registry) join(room string, c Conn) {
	members, ok := r.rooms[room]
	if !ok {
		members = make(map[Conn]struct{})
		r.rooms[room] = members
	}
	members[c] = struct{}{}
}

func (r *Registry) leave(room string, c Conn) {
	members, ok := r.rooms[room]
	if !ok {
		return
	}
	delete(members, c)
	if len(members) == 0 {
		delete(r.rooms, room)
	}
}
