package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"voicedesk/models"
	"voicedesk/services/fallback"
	"voicedesk/services/knowledge"
	"voicedesk/services/order"

	"go.uber.org/zap"
)

const apologyText = "I'm sorry, I'm having trouble right now. Please call us directly and we'll sort you out."

// maxHistoryLines bounds the conversation context handed to the language
// model.
const maxHistoryLines = 40

// Orchestrator drives one conversation: it routes tool calls to the booking
// flow or the knowledge gateway and runs the STT -> LLM -> TTS cycle for
// audio turns. Turns within a session are strictly sequential.
type Orchestrator struct {
	ID        string
	OrderType models.OrderType

	flow      *order.BookingFlow
	gateway   knowledge.Gateway
	sttPool   *fallback.Pool
	llmPool   *fallback.Pool
	ttsPool   *fallback.Pool
	logger    *zap.Logger

	mu         sync.Mutex
	history    []string
	lastActive time.Time
}

// OrchestratorConfig wires one session's collaborators. The pools are
// shared across sessions; the flow is exclusive to this one.
type OrchestratorConfig struct {
	ID        string
	OrderType models.OrderType
	Flow      *order.BookingFlow
	Gateway   knowledge.Gateway
	STTPool   *fallback.Pool
	LLMPool   *fallback.Pool
	TTSPool   *fallback.Pool
	Logger    *zap.Logger
}

func NewOrchestrator(cfg OrchestratorConfig) *Orchestrator {
	return &Orchestrator{
		ID:         cfg.ID,
		OrderType:  cfg.OrderType,
		flow:       cfg.Flow,
		gateway:    cfg.Gateway,
		sttPool:    cfg.STTPool,
		llmPool:    cfg.LLMPool,
		ttsPool:    cfg.TTSPool,
		logger:     cfg.Logger.With(zap.String("session_id", cfg.ID)),
		lastActive: time.Now(),
	}
}

// HandleToolCall executes one tool call and returns its conversational
// result. Validation and precondition failures are rendered as corrective
// text, never surfaced as errors; only an unknown tool or an exhausted
// knowledge pool fails the call.
func (o *Orchestrator) HandleToolCall(ctx context.Context, call models.ToolCall) (models.ToolResult, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.lastActive = time.Now()
	return o.dispatchTool(ctx, call)
}

// dispatchTool must be called with o.mu held.
func (o *Orchestrator) dispatchTool(ctx context.Context, call models.ToolCall) (models.ToolResult, error) {
	args := call.Args
	if args == nil {
		args = map[string]string{}
	}

	switch call.Name {
	case "set_customer_info":
		text, err := o.flow.SetContact(args["name"], args["phone"])
		return o.flowResult(call.Name, text, true, err)

	case "validate_address":
		text, err := o.flow.SetAddress(args["address"])
		return o.flowResult(call.Name, text, true, err)

	case "book_services", "place_order":
		items := args["services"]
		if items == "" {
			items = args["items"]
		}
		text, err := o.flow.SubmitDetails(ctx, items, args["preferred_date"], args["preferred_time"])
		return o.flowResult(call.Name, text, true, err)

	case "query_salon_info", "query_pizza_info":
		return o.knowledgeResult(ctx, args["query"])

	case "check_special_offers":
		query := "What are the special offers available?"
		if day := args["day_of_week"]; day != "" {
			query = fmt.Sprintf("What are the special offers available on %s?", day)
		}
		return o.knowledgeResult(ctx, query)

	default:
		return models.ToolResult{}, fmt.Errorf("unknown tool %q", call.Name)
	}
}

// flowResult renders state-machine outcomes. A validation or precondition
// error carries its own user-facing message and leaves Mutated false.
func (o *Orchestrator) flowResult(tool, text string, mutates bool, err error) (models.ToolResult, error) {
	if err == nil {
		o.logger.Debug("tool applied",
			zap.String("tool", tool),
			zap.String("draft_state", string(o.flow.State())),
		)
		return models.ToolResult{Text: text, Mutated: mutates}, nil
	}

	var verr *order.ValidationError
	if errors.As(err, &verr) {
		o.logger.Debug("tool input rejected",
			zap.String("tool", tool),
			zap.String("field", verr.Field),
		)
		return models.ToolResult{Text: verr.Message}, nil
	}

	var perr *order.PreconditionError
	if errors.As(err, &perr) {
		o.logger.Debug("tool precondition unmet",
			zap.String("tool", tool),
			zap.Strings("missing", perr.Missing),
		)
		return models.ToolResult{Text: perr.Message}, nil
	}

	return models.ToolResult{}, err
}

func (o *Orchestrator) knowledgeResult(ctx context.Context, query string) (models.ToolResult, error) {
	answer, err := o.gateway.Query(ctx, query)
	if err != nil {
		if ctx.Err() != nil {
			return models.ToolResult{}, ctx.Err()
		}
		o.logger.Warn("knowledge query failed", zap.Error(err))
		return models.ToolResult{
			Text: "I'm sorry, I can't look that up right now. Is there anything else I can help with?",
		}, nil
	}
	return models.ToolResult{Text: answer}, nil
}

// RunTurn runs one full audio turn through the pipeline. Provider
// exhaustion in STT or LLM degrades the turn to a synthesized apology; TTS
// exhaustion returns the text without audio. A cancelled context aborts the
// turn outright.
func (o *Orchestrator) RunTurn(ctx context.Context, audio []byte) (models.TurnResult, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.lastActive = time.Now()

	sttResp, err := o.sttPool.Invoke(ctx, fallback.Request{Audio: audio})
	if err != nil {
		if !fallback.IsExhausted(err) {
			return models.TurnResult{}, err
		}
		o.logger.Error("transcription exhausted all providers", zap.Error(err))
		return o.degradedTurn(ctx, "")
	}
	transcript := sttResp.Text

	llmResp, err := o.llmPool.Invoke(ctx, fallback.Request{Text: o.buildPrompt(transcript)})
	if err != nil {
		if !fallback.IsExhausted(err) {
			return models.TurnResult{}, err
		}
		o.logger.Error("generation exhausted all providers", zap.Error(err))
		return o.degradedTurn(ctx, transcript)
	}

	replyText := o.resolveDecision(ctx, parseDecision(llmResp.Text))
	o.remember(transcript, replyText)

	result := models.TurnResult{Transcript: transcript, ResponseText: replyText}

	ttsResp, err := o.ttsPool.Invoke(ctx, fallback.Request{Text: replyText})
	if err != nil {
		if !fallback.IsExhausted(err) {
			return models.TurnResult{}, err
		}
		// The text answer is still useful; the frontend can fall back to
		// captions.
		o.logger.Error("synthesis exhausted all providers", zap.Error(err))
		result.Degraded = true
		return result, nil
	}
	result.Audio = ttsResp.Audio
	return result, nil
}

// resolveDecision turns the model's envelope into the reply text, running
// the tool call when one was requested. Must be called with o.mu held.
func (o *Orchestrator) resolveDecision(ctx context.Context, d decision) string {
	if d.Tool == "" {
		return d.Reply
	}

	result, err := o.dispatchTool(ctx, models.ToolCall{Name: d.Tool, Args: d.Args})
	if err != nil {
		o.logger.Warn("model requested unusable tool",
			zap.String("tool", d.Tool),
			zap.Error(err),
		)
		return "I'm sorry, I didn't catch that. Could you say it again?"
	}
	return result.Text
}

// degradedTurn answers with an apology when a pipeline stage is fully down.
// Must be called with o.mu held.
func (o *Orchestrator) degradedTurn(ctx context.Context, transcript string) (models.TurnResult, error) {
	result := models.TurnResult{
		Transcript:   transcript,
		ResponseText: apologyText,
		Degraded:     true,
	}

	ttsResp, err := o.ttsPool.Invoke(ctx, fallback.Request{Text: apologyText})
	if err != nil {
		if !fallback.IsExhausted(err) {
			return models.TurnResult{}, err
		}
		return result, nil
	}
	result.Audio = ttsResp.Audio
	return result, nil
}

// buildPrompt assembles the conversation context for the language model.
// Must be called with o.mu held.
func (o *Orchestrator) buildPrompt(transcript string) string {
	var sb strings.Builder
	if len(o.history) > 0 {
		sb.WriteString("Conversation so far:\n")
		sb.WriteString(strings.Join(o.history, "\n"))
		sb.WriteString("\n\n")
	}
	fmt.Fprintf(&sb, "Customer: %s", transcript)
	return sb.String()
}

// remember appends one exchange, trimming old lines. Must be called with
// o.mu held.
func (o *Orchestrator) remember(transcript, reply string) {
	o.history = append(o.history,
		"Customer: "+transcript,
		"Assistant: "+reply,
	)
	if len(o.history) > maxHistoryLines {
		o.history = o.history[len(o.history)-maxHistoryLines:]
	}
}

// LastActive reports when this session last handled a turn.
func (o *Orchestrator) LastActive() time.Time {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastActive
}

// DraftState exposes the booking flow state for observability.
func (o *Orchestrator) DraftState() models.DraftState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.flow.State()
}
