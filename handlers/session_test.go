package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"voicedesk/models"
	"voicedesk/services/fallback"
	"voicedesk/services/order"
	"voicedesk/services/session"
	"voicedesk/services/validation"
	"voicedesk/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type staticGateway struct{ answer string }

func (g *staticGateway) Query(ctx context.Context, text string) (string, error) {
	return g.answer, nil
}

func stubPool(capability fallback.Capability, fn func(req fallback.Request) (fallback.Response, error)) *fallback.Pool {
	return fallback.NewPool(capability, time.Second, zap.NewNop(), fallback.Provider{
		Name:       string(capability) + "-stub",
		Capability: capability,
		Invoke: func(ctx context.Context, req fallback.Request) (fallback.Response, error) {
			return fn(req)
		},
	})
}

func testRouter(t *testing.T) (*gin.Engine, *order.MemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.InitializeLogger()

	hours := models.BusinessHours{}
	for day := time.Monday; day <= time.Saturday; day++ {
		hours[day] = models.HoursWindow{Open: "9:00", Close: "20:00"}
	}
	hours[time.Sunday] = models.HoursWindow{Open: "10:00", Close: "18:00"}

	store := order.NewMemoryStore("BKG", 1000, zap.NewNop())
	registry := session.NewRegistry(session.RegistryConfig{
		OrderType:   models.OrderTypeSalon,
		PhonePolicy: validation.PhoneStrictUK,
		Hours:       hours,
		Store:       store,
		Gateway:     &staticGateway{answer: "We open at nine."},
		STTPool: stubPool(fallback.CapabilitySTT, func(req fallback.Request) (fallback.Response, error) {
			return fallback.Response{Text: "what time do you open"}, nil
		}),
		LLMPool: stubPool(fallback.CapabilityLLM, func(req fallback.Request) (fallback.Response, error) {
			return fallback.Response{Text: `{"reply": "We open at nine."}`}, nil
		}),
		TTSPool: stubPool(fallback.CapabilityTTS, func(req fallback.Request) (fallback.Response, error) {
			return fallback.Response{Audio: []byte("pcm")}, nil
		}),
		TTL:    time.Minute,
		Logger: zap.NewNop(),
	})

	router := gin.New()
	handler := NewSessionHandler(registry, zap.NewNop())
	router.POST("/api/sessions", handler.CreateSession)
	router.DELETE("/api/sessions/:id", handler.EndSession)
	router.POST("/api/sessions/:id/turn", handler.Turn)
	router.POST("/api/sessions/:id/tool", handler.ToolCall)
	router.GET("/api/bookings/:id", NewBookingHandler(store, nil).GetBooking)
	return router, store
}

func createSession(t *testing.T, router *gin.Engine) string {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/sessions", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	id, _ := body["session_id"].(string)
	require.NotEmpty(t, id)
	return id
}

func TestCreateSessionReturnsGreeting(t *testing.T) {
	router, _ := testRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/sessions", nil))
	require.Equal(t, http.StatusCreated, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "salon", body["order_type"])
	assert.NotEmpty(t, body["greeting"])
}

func TestToolCallEndpointBooksAndLookupWorks(t *testing.T) {
	router, store := testRouter(t)
	id := createSession(t, router)

	post := func(payload string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/sessions/"+id+"/tool", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)
		return w
	}

	w := post(`{"tool": "set_customer_info", "args": {"name": "Jane Doe", "phone": "+442012345678"}}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = post(`{"tool": "book_services", "args": {"services": "Haircut", "preferred_date": "2031-01-06", "preferred_time": "14:00"}}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "BKG1000")

	_, ok := store.Lookup("BKG1000")
	require.True(t, ok)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/bookings/BKG1000", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Jane Doe")
}

func TestToolCallUnknownSessionIs404(t *testing.T) {
	router, _ := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/sessions/nope/tool", strings.NewReader(`{"tool": "x"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTurnEndpointRunsFullPipeline(t *testing.T) {
	router, _ := testRouter(t)
	id := createSession(t, router)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("audio", "utterance.wav")
	require.NoError(t, err)
	_, err = part.Write(waveFixture(16000, 1, 16))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/sessions/"+id+"/turn", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "what time do you open", body["transcript"])
	assert.Equal(t, "We open at nine.", body["response_text"])
	assert.NotEmpty(t, body["audio_base64"])
	assert.Equal(t, false, body["degraded"])
}

func TestTurnEndpointRejectsNonWavUpload(t *testing.T) {
	router, _ := testRouter(t)
	id := createSession(t, router)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("audio", "utterance.mp3")
	require.NoError(t, err)
	_, err = part.Write([]byte("not audio"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/sessions/"+id+"/turn", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookingLookupUnknownIDIs404(t *testing.T) {
	router, _ := testRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/bookings/BKG9999", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
