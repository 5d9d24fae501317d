package realtime

import (
	"hash/fnv"
	"sync"

	"pulperia-be/internal/logger"
	"pulperia-be/internal/metrics"

	"go.uber.org/zap"
)

const shardCount = 16

// Registry holds the live channels of each user. A user id is present in a
// shard map if and only if its connection set is non-empty: absence means
// offline, not an error. Buckets are sharded by user id so send-path latency
// does not serialize on one lock.
type Registry struct {
	shards [shardCount]registryShard

	delivered metrics.Counter
	evicted   metrics.Counter
}

type registryShard struct {
	mu    sync.RWMutex
	conns map[string]map[Conn]struct{}
}

func NewRegistry() *Registry {
	r := &Registry{}
	for i := range r.shards {
		r.shards[i].conns = make(map[string]map[Conn]struct{})
	}
	return r
}

func (r *Registry) shard(userID string) *registryShard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return &r.shards[h.Sum32()%shardCount]
}

// Register adds a connection to the user's set. Idempotent per connection.
func (r *Registry) Register(userID string, conn Conn) {
	s := r.shard(userID)
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.conns[userID]
	if !ok {
		set = make(map[Conn]struct{})
		s.conns[userID] = set
	}
	set[conn] = struct{}{}
}

// Deregister removes a connection, dropping the user entirely when its set
// becomes empty. Safe to call for a connection that is already gone.
func (r *Registry) Deregister(userID string, conn Conn) {
	s := r.shard(userID)
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.conns[userID]
	if !ok {
		return
	}
	delete(set, conn)
	if len(set) == 0 {
		delete(s.conns, userID)
	}
}

func (r *Registry) IsOnline(userID string) bool {
	s := r.shard(userID)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.conns[userID]) > 0
}

// Connections reports how many live channels a user currently has.
func (r *Registry) Connections(userID string) int {
	s := r.shard(userID)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.conns[userID])
}

// Send delivers a payload to every live channel of a user, best effort.
// Connections that reject the write are silently evicted; the caller never
// sees an error.
func (r *Registry) Send(userID string, v any) {
	s := r.shard(userID)

	s.mu.RLock()
	set, ok := s.conns[userID]
	if !ok {
		s.mu.RUnlock()
		return
	}
	conns := make([]Conn, 0, len(set))
	for c := range set {
		conns = append(conns, c)
	}
	s.mu.RUnlock()

	for _, c := range conns {
		if err := c.Send(v); err != nil {
			logger.L().Warn("channel send failed, evicting connection",
				zap.String("user_id", userID),
				zap.Error(err),
			)
			r.evicted.Inc()
			r.Deregister(userID, c)
			_ = c.Close(closeNormal, "send failed")
			continue
		}
		r.delivered.Inc()
	}
}

// Delivered counts payloads written to a channel since startup.
func (r *Registry) Delivered() uint64 {
	return r.delivered.Load()
}

// Evicted counts connections dropped from the send path.
func (r *Registry) Evicted() uint64 {
	return r.evicted.Load()
}
