package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"voicedesk/models"
	"voicedesk/services/fallback"
	"voicedesk/services/knowledge"
	"voicedesk/services/order"
	"voicedesk/services/validation"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const sessionIndexPrefix = "session:"

// RegistryConfig carries the process-wide collaborators every new session
// shares.
type RegistryConfig struct {
	OrderType   models.OrderType
	PhonePolicy validation.PhonePolicy
	Hours       models.BusinessHours
	Store       order.Store
	Notifier    order.Notifier
	Gateway     knowledge.Gateway
	STTPool     *fallback.Pool
	LLMPool     *fallback.Pool
	TTSPool     *fallback.Pool
	// Cache mirrors a session index into Redis for operators; may be nil.
	Cache  *redis.Client
	TTL    time.Duration
	Logger *zap.Logger
}

// Registry owns the live conversation sessions. Each session gets its own
// orchestrator and booking flow; everything else is shared.
type Registry struct {
	cfg RegistryConfig

	mu       sync.RWMutex
	sessions map[string]*Orchestrator
}

func NewRegistry(cfg RegistryConfig) *Registry {
	return &Registry{
		cfg:      cfg,
		sessions: make(map[string]*Orchestrator),
	}
}

// Create starts a new conversation session and returns its orchestrator.
func (r *Registry) Create(ctx context.Context) (*Orchestrator, error) {
	sessionID := uuid.New().String()

	flow := order.NewBookingFlow(order.FlowConfig{
		OrderType:   r.cfg.OrderType,
		PhonePolicy: r.cfg.PhonePolicy,
		Hours:       r.cfg.Hours,
		Store:       r.cfg.Store,
		Notifier:    r.cfg.Notifier,
		Logger:      r.cfg.Logger,
	})

	orch := NewOrchestrator(OrchestratorConfig{
		ID:        sessionID,
		OrderType: r.cfg.OrderType,
		Flow:      flow,
		Gateway:   r.cfg.Gateway,
		STTPool:   r.cfg.STTPool,
		LLMPool:   r.cfg.LLMPool,
		TTSPool:   r.cfg.TTSPool,
		Logger:    r.cfg.Logger,
	})

	r.mu.Lock()
	r.sessions[sessionID] = orch
	r.mu.Unlock()

	r.indexSession(ctx, models.SessionInfo{
		SessionID: sessionID,
		OrderType: r.cfg.OrderType,
		CreatedAt: time.Now(),
	})

	r.cfg.Logger.Info("session created",
		zap.String("session_id", sessionID),
		zap.String("order_type", string(r.cfg.OrderType)),
	)
	return orch, nil
}

// Get returns the live session with the given ID.
func (r *Registry) Get(id string) (*Orchestrator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	orch, ok := r.sessions[id]
	return orch, ok
}

// End tears a session down and discards its draft. Ending an unknown
// session is a no-op.
func (r *Registry) End(ctx context.Context, id string) {
	r.mu.Lock()
	_, existed := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if !existed {
		return
	}
	if r.cfg.Cache != nil {
		if err := r.cfg.Cache.Del(ctx, sessionIndexPrefix+id).Err(); err != nil {
			r.cfg.Logger.Warn("failed to drop session index entry", zap.Error(err))
		}
	}
	r.cfg.Logger.Info("session ended", zap.String("session_id", id))
}

// Count returns the number of live sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// StartJanitor discards sessions idle past the TTL. Run once from main.
func (r *Registry) StartJanitor(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for range ticker.C {
			cutoff := time.Now().Add(-r.cfg.TTL)

			r.mu.RLock()
			var expired []string
			for id, orch := range r.sessions {
				if orch.LastActive().Before(cutoff) {
					expired = append(expired, id)
				}
			}
			r.mu.RUnlock()

			for _, id := range expired {
				r.cfg.Logger.Info("discarding idle session", zap.String("session_id", id))
				r.End(context.Background(), id)
			}
		}
	}()
}

func (r *Registry) indexSession(ctx context.Context, info models.SessionInfo) {
	if r.cfg.Cache == nil {
		return
	}
	data, err := json.Marshal(info)
	if err != nil {
		r.cfg.Logger.Warn("failed to marshal session info", zap.Error(err))
		return
	}
	if err := r.cfg.Cache.Set(ctx, sessionIndexPrefix+info.SessionID, data, r.cfg.TTL).Err(); err != nil {
		r.cfg.Logger.Warn("failed to index session", zap.Error(err))
	}
}
