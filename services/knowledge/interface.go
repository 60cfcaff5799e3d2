package knowledge

import (
	"context"

	"voicedesk/services/fallback"
)

// Gateway answers free-text questions about the business. Implementations
// may be slow or unreliable; callers treat the answer as opaque text.
type Gateway interface {
	Query(ctx context.Context, text string) (string, error)
}

// AsProvider adapts a Gateway into a fallback provider so multiple
// retrieval backends can sit behind one KNOWLEDGE pool.
func AsProvider(name string, priority int, g Gateway) fallback.Provider {
	return fallback.Provider{
		Name:       name,
		Capability: fallback.CapabilityKnowledge,
		Priority:   priority,
		Invoke: func(ctx context.Context, req fallback.Request) (fallback.Response, error) {
			answer, err := g.Query(ctx, req.Text)
			if err != nil {
				return fallback.Response{}, err
			}
			return fallback.Response{Text: answer}, nil
		},
	}
}

// PoolGateway exposes a KNOWLEDGE fallback pool through the Gateway
// contract, so the orchestrator is indifferent to how many backends exist.
type PoolGateway struct {
	Pool *fallback.Pool
}

func (g *PoolGateway) Query(ctx context.Context, text string) (string, error) {
	resp, err := g.Pool.Invoke(ctx, fallback.Request{Text: text})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}
