// Package fallback keeps each pipeline capability alive across vendor
// outages. A Pool wraps an ordered list of same-capability providers and
// tries them in priority order on every invocation; health state is
// advisory only and never gates an attempt.
package fallback

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Capability is one pipeline stage abstraction.
type Capability string

const (
	CapabilitySTT       Capability = "stt"
	CapabilityLLM       Capability = "llm"
	CapabilityTTS       Capability = "tts"
	CapabilityKnowledge Capability = "knowledge"
)

// HealthState is the advisory health of one provider, set by invocation
// outcomes.
type HealthState string

const (
	HealthUnknown HealthState = "unknown"
	HealthUp      HealthState = "up"
	HealthDown    HealthState = "down"
)

// Request carries the input of one capability invocation. STT consumes
// Audio, LLM/KNOWLEDGE consume Text, TTS consumes Text and produces Audio.
type Request struct {
	Text     string
	Audio    []byte
	Metadata map[string]string
}

// Response is the output of the provider that served the request.
type Response struct {
	Text  string
	Audio []byte
	// Provider names the backend that produced this response.
	Provider string
}

// InvokeFunc performs the underlying provider call.
type InvokeFunc func(ctx context.Context, req Request) (Response, error)

// Provider identifies one concrete backend for a capability. Immutable once
// registered with a pool; lower Priority is tried first.
type Provider struct {
	Name       string
	Capability Capability
	Priority   int
	Invoke     InvokeFunc
}

// Pool owns the ordered provider sequence for one capability.
type Pool struct {
	capability Capability
	timeout    time.Duration
	logger     *zap.Logger
	providers  []Provider

	mu     sync.RWMutex
	health map[string]HealthState
}

// NewPool builds a pool over the given providers, ordered by ascending
// priority. The timeout bounds each individual provider attempt.
func NewPool(capability Capability, timeout time.Duration, logger *zap.Logger, providers ...Provider) *Pool {
	ordered := make([]Provider, len(providers))
	copy(ordered, providers)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority < ordered[j].Priority
	})

	health := make(map[string]HealthState, len(ordered))
	for _, p := range ordered {
		health[p.Name] = HealthUnknown
	}

	return &Pool{
		capability: capability,
		timeout:    timeout,
		logger:     logger,
		providers:  ordered,
		health:     health,
	}
}

// Capability returns the capability this pool serves.
func (p *Pool) Capability() Capability {
	return p.capability
}

// Invoke tries providers in priority order and returns the first success.
// Every call restarts from priority zero; the pool never sticks to a
// degraded provider and never skips one because it was down last time.
// When all providers fail the returned error is an *ExhaustedError carrying
// the ordered per-provider errors.
func (p *Pool) Invoke(ctx context.Context, req Request) (Response, error) {
	var attempts []AttemptError

	for _, prov := range p.providers {
		if err := ctx.Err(); err != nil {
			return Response{}, err
		}

		attemptCtx, cancel := context.WithTimeout(ctx, p.timeout)
		resp, err := prov.Invoke(attemptCtx, req)
		cancel()

		if err != nil {
			// The session itself went away; stop trying, this is not a
			// provider outage.
			if ctx.Err() != nil {
				return Response{}, ctx.Err()
			}
			p.setHealth(prov.Name, HealthDown)
			p.logger.Warn("provider attempt failed",
				zap.String("capability", string(p.capability)),
				zap.String("provider", prov.Name),
				zap.Error(err),
			)
			attempts = append(attempts, AttemptError{Provider: prov.Name, Err: err})
			continue
		}

		p.setHealth(prov.Name, HealthUp)
		if prov.Priority > 0 || len(attempts) > 0 {
			p.logger.Info("served by fallback provider",
				zap.String("capability", string(p.capability)),
				zap.String("provider", prov.Name),
				zap.Int("failed_attempts", len(attempts)),
			)
		}
		resp.Provider = prov.Name
		return resp, nil
	}

	return Response{}, &ExhaustedError{Capability: p.capability, Attempts: attempts}
}

// Health returns a snapshot of per-provider health states.
func (p *Pool) Health() map[string]HealthState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	snapshot := make(map[string]HealthState, len(p.health))
	for name, state := range p.health {
		snapshot[name] = state
	}
	return snapshot
}

func (p *Pool) setHealth(name string, state HealthState) {
	p.mu.Lock()
	p.health[name] = state
	p.mu.Unlock()
}
