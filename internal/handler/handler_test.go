package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/pengawas/pengawas-go/internal/config"
	"github.com/pengawas/pengawas-go/internal/model"
	"github.com/pengawas/pengawas-go/internal/router"
	"github.com/pengawas/pengawas-go/internal/service"
	"github.com/pengawas/pengawas-go/internal/status"
	"github.com/pengawas/pengawas-go/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fixture struct {
	store    *store.MemoryStore
	sessions *service.SessionService
	engine   *gin.Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := zap.NewNop()

	st := store.NewMemoryStore(100, logger)
	evaluator := status.NewEvaluator(config.DefaultThresholds())
	chatbot := service.NewChatbotService(router.NewRouter(evaluator), st, nil, logger)
	chat := service.NewChatService(st, chatbot, logger)
	sessions := service.NewSessionService(nil, logger)

	api := NewAPIHandler(st, sessions, model.ParseVariables(config.DefaultVariables()), "dashboard", logger)
	chatHandler := NewChatHandler(chat, logger)
	wsHandler := NewWebSocketHandler(sessions, chat, st, nil, logger)
	botHandler := NewChatbotHandler(chatbot, logger)

	r := gin.New()
	r.GET("/api/health", api.Health)
	r.GET("/api/readings/latest", api.Latest)
	r.GET("/api/readings/:variable/history", api.History)
	r.GET("/api/status", api.Status)
	r.GET("/api/packages", api.Packages)
	r.GET("/api/chat/questions", chatHandler.Questions)
	r.POST("/api/chat", chatHandler.Ask)
	r.GET("/ws", wsHandler.HandleWebSocket)

	bot := r.Group("/bot")
	bot.POST("/api/respond", botHandler.Respond)
	bot.GET("/api/respond", botHandler.RespondQuery)
	bot.GET("/api/history", botHandler.History)
	bot.GET("/api/questions", botHandler.Questions)

	return &fixture{store: st, sessions: sessions, engine: r}
}

func (f *fixture) seed(t *testing.T, values map[model.Variable]float64) {
	t.Helper()
	ctx := context.Background()
	evaluator := status.NewEvaluator(config.DefaultThresholds())

	snap := model.NewSnapshot("toilet")
	now := time.Now()
	for v, value := range values {
		r := model.Reading{Variable: v, Value: value, Timestamp: now}
		snap.Readings[v] = r
		require.NoError(t, f.store.AppendReading(ctx, r))
	}
	snap.Evaluations = service.Evaluate(evaluator, snap)
	snap.UpdatedAt = now
	require.NoError(t, f.store.SaveSnapshot(ctx, snap))
}

func (f *fixture) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func fp(v float64) *float64 { return &v }

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

func TestHealth(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/api/health", nil)
	require.Equal(t, 200, w.Code)

	var body map[string]interface{}
	decode(t, w, &body)
	assert.Equal(t, "UP", body["status"])
	assert.Equal(t, "dashboard", body["service"])
}

func TestLatestAndStatus(t *testing.T) {
	f := newFixture(t)

	t.Run("NoData", func(t *testing.T) {
		assert.Equal(t, 404, f.do(http.MethodGet, "/api/readings/latest", nil).Code)
		assert.Equal(t, 404, f.do(http.MethodGet, "/api/status", nil).Code)
	})

	f.seed(t, map[model.Variable]float64{
		model.VariableGas:         900,
		model.VariableLux:         10,
		model.VariableTemperature: 30,
		model.VariableHumidity:    70,
	})

	t.Run("Latest", func(t *testing.T) {
		w := f.do(http.MethodGet, "/api/readings/latest", nil)
		require.Equal(t, 200, w.Code)

		var view model.SnapshotView
		decode(t, w, &view)
		assert.Equal(t, "toilet", view.Device)
		assert.Equal(t, 900.0, view.Readings[model.VariableGas].Value)
		assert.Equal(t, model.CategoryDanger, view.Evaluations[model.VariableGas].Category)
		assert.Equal(t, model.CategoryDarkSmoke, view.Evaluations[model.VariableLux].Category)
		assert.Equal(t, "🔥", view.Evaluations[model.VariableTemperature].Symbol)
	})

	t.Run("Status", func(t *testing.T) {
		w := f.do(http.MethodGet, "/api/status", nil)
		require.Equal(t, 200, w.Code)
		assert.Contains(t, w.Body.String(), string(model.CategoryWarmUncomfortable))
	})
}

func TestHistory(t *testing.T) {
	f := newFixture(t)
	f.seed(t, map[model.Variable]float64{model.VariableGas: 100})
	f.seed(t, map[model.Variable]float64{model.VariableGas: 200})

	t.Run("NewestFirst", func(t *testing.T) {
		w := f.do(http.MethodGet, "/api/readings/mq2/history?limit=1", nil)
		require.Equal(t, 200, w.Code)

		var body struct {
			Label  string          `json:"label"`
			Points []model.Reading `json:"points"`
		}
		decode(t, w, &body)
		require.Len(t, body.Points, 1)
		assert.Equal(t, 200.0, body.Points[0].Value)
		assert.Equal(t, model.VariableGas.Label(), body.Label)
	})

	t.Run("UnknownVariable", func(t *testing.T) {
		assert.Equal(t, 404, f.do(http.MethodGet, "/api/readings/co2/history", nil).Code)
	})

	t.Run("InvalidLimit", func(t *testing.T) {
		assert.Equal(t, 400, f.do(http.MethodGet, "/api/readings/mq2/history?limit=abc", nil).Code)
		assert.Equal(t, 400, f.do(http.MethodGet, "/api/readings/mq2/history?limit=0", nil).Code)
	})
}

func TestPackages(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/api/packages", nil)
	require.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), "packages")
}

func TestChatAsk(t *testing.T) {
	f := newFixture(t)

	t.Run("NoGasReading", func(t *testing.T) {
		w := f.do(http.MethodPost, "/api/chat", model.ChatRequest{Question: "Ada asap rokok?"})
		assert.Equal(t, 409, w.Code)
	})

	t.Run("MissingQuestion", func(t *testing.T) {
		w := f.do(http.MethodPost, "/api/chat", map[string]interface{}{"uid": 1})
		assert.Equal(t, 400, w.Code)
	})

	f.seed(t, map[model.Variable]float64{model.VariableGas: 600})

	t.Run("Answered", func(t *testing.T) {
		w := f.do(http.MethodPost, "/api/chat", model.ChatRequest{UID: 1, Question: "Ada asap rokok?"})
		require.Equal(t, 200, w.Code)

		var answer model.ChatAnswer
		decode(t, w, &answer)
		assert.Equal(t, status.Message(model.CategorySuspicious), answer.Answer)
		assert.Equal(t, "smoke", answer.Topic)
	})

	t.Run("LuxUnavailable", func(t *testing.T) {
		w := f.do(http.MethodPost, "/api/chat", model.ChatRequest{UID: 1, Question: "Apakah lampu menyala?"})
		require.Equal(t, 200, w.Code)

		var answer model.ChatAnswer
		decode(t, w, &answer)
		assert.Equal(t, router.LuxUnavailable, answer.Answer)
	})
}

func TestChatQuestions(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/api/chat/questions", nil)
	require.Equal(t, 200, w.Code)

	var body struct {
		Questions []string `json:"questions"`
	}
	decode(t, w, &body)
	assert.Len(t, body.Questions, 19)
}

func TestChatbotRespond(t *testing.T) {
	f := newFixture(t)

	t.Run("JSON", func(t *testing.T) {
		lux := 120.0
		w := f.do(http.MethodPost, "/bot/api/respond", model.RespondRequest{UID: 3, Question: "Apakah lampu menyala?", Gas: fp(100), Lux: &lux})
		require.Equal(t, 200, w.Code)

		var answer model.ChatAnswer
		decode(t, w, &answer)
		assert.Equal(t, status.Message(model.CategoryLit), answer.Answer)
		assert.NotEmpty(t, answer.MessageID)
	})

	t.Run("Query", func(t *testing.T) {
		w := f.do(http.MethodGet, "/bot/api/respond?uid=3&question=suhu&gas=100&temperature=33", nil)
		require.Equal(t, 200, w.Code)

		var answer model.ChatAnswer
		decode(t, w, &answer)
		assert.Equal(t, status.Message(model.CategoryHot), answer.Answer)
	})

	t.Run("MissingQuestion", func(t *testing.T) {
		assert.Equal(t, 400, f.do(http.MethodPost, "/bot/api/respond", map[string]interface{}{"gas": 1}).Code)
	})

	t.Run("MissingGas", func(t *testing.T) {
		w := f.do(http.MethodPost, "/bot/api/respond", map[string]interface{}{"question": "Ada asap rokok di sini?"})
		assert.Equal(t, 400, w.Code)
		assert.NotContains(t, w.Body.String(), status.Message(model.CategorySafe))

		assert.Equal(t, 400, f.do(http.MethodGet, "/bot/api/respond?question=rokok", nil).Code)
	})

	t.Run("ZeroGasIsAReading", func(t *testing.T) {
		w := f.do(http.MethodPost, "/bot/api/respond", map[string]interface{}{"question": "rokok?", "gas": 0})
		require.Equal(t, 200, w.Code)

		var answer model.ChatAnswer
		decode(t, w, &answer)
		assert.Equal(t, status.Message(model.CategorySafe), answer.Answer)
	})

	t.Run("NonFiniteGas", func(t *testing.T) {
		for _, v := range []string{"NaN", "Inf", "-Inf"} {
			w := f.do(http.MethodGet, "/bot/api/respond?question=rokok&gas="+v, nil)
			assert.Equal(t, 400, w.Code, v)
		}
		assert.Equal(t, 400, f.do(http.MethodGet, "/bot/api/respond?question=suhu&gas=100&temperature=NaN", nil).Code)
	})

	t.Run("History", func(t *testing.T) {
		w := f.do(http.MethodGet, "/bot/api/history?uid=3", nil)
		require.Equal(t, 200, w.Code)

		var body struct {
			History []model.HistoryEntry `json:"history"`
			Count   int                  `json:"count"`
		}
		decode(t, w, &body)
		require.Equal(t, 2, body.Count)
		assert.Equal(t, "Apakah lampu menyala?", body.History[0].Question)
		assert.Equal(t, "suhu", body.History[1].Question)
	})

	t.Run("HistoryInvalidUID", func(t *testing.T) {
		assert.Equal(t, 400, f.do(http.MethodGet, "/bot/api/history?uid=abc", nil).Code)
	})
}

func TestChatbotQuestions(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/bot/api/questions", nil)
	require.Equal(t, 200, w.Code)

	var body struct {
		Questions []string           `json:"questions"`
		Topics    []router.TopicInfo `json:"topics"`
	}
	decode(t, w, &body)
	assert.Len(t, body.Questions, 19)
	assert.Len(t, body.Topics, 4)
}

func TestWebSocket(t *testing.T) {
	f := newFixture(t)
	f.seed(t, map[model.Variable]float64{model.VariableGas: 900, model.VariableLux: 100})

	server := httptest.NewServer(f.engine)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws?uid=5"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var first model.StreamMessage
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, model.MessageTypeSnapshot, first.Type)
	assert.Equal(t, 1, f.sessions.Count())

	require.NoError(t, conn.WriteJSON(model.StreamMessage{
		MessageID: "m-1",
		Type:      model.MessageTypeChat,
		Content:   "Ada asap rokok?",
	}))

	var reply model.StreamMessage
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, model.MessageTypeAIResponse, reply.Type)
	assert.Equal(t, "m-1", reply.MessageID)
	assert.Equal(t, int64(5), reply.UID)
	assert.Equal(t, status.Message(model.CategoryDanger), reply.Content)
}

func TestWebSocketInvalidUID(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/ws?uid=abc", nil)
	assert.Equal(t, 400, w.Code)
}
