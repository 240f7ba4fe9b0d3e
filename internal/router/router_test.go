package router

import (
	"testing"

	"github.com/pengawas/pengawas-go/internal/config"
	"github.com/pengawas/pengawas-go/internal/model"
	"github.com/pengawas/pengawas-go/internal/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

func newTestRouter() *Router {
	return NewRouter(status.NewEvaluator(config.DefaultThresholds()))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		question string
		want     Topic
	}{
		{"Ada ROKOK?", TopicSmoke},
		{"Apa status cahaya di toilet?", TopicLight},
		{"Bagaimana situasi pencahayaan?", TopicSmoke},
		{"Adakah perubahan pada suhu, kelembapan, atau cahaya?", TopicLight},
		{"Berapa TEMPERATURE sekarang?", TopicTemperature},
		{"Status umum di sekitar?", TopicStatus},
		{"Bagaimana kondisi sekarang?", TopicUnknown},
		{"", TopicUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.question), tt.question)
	}
}

func TestCannedQuestions(t *testing.T) {
	want := map[Topic]int{
		TopicSmoke:       5,
		TopicLight:       6,
		TopicTemperature: 3,
		TopicStatus:      2,
		TopicUnknown:     3,
	}

	got := map[Topic]int{}
	for _, q := range Questions() {
		got[Classify(q)]++
	}

	require.Len(t, Questions(), 19)
	assert.Equal(t, want, got)
}

func TestRespond(t *testing.T) {
	r := newTestRouter()

	t.Run("Smoke", func(t *testing.T) {
		assert.Equal(t, status.Message(model.CategoryDanger), r.Respond("Ada asap rokok di sini?", 900, nil, nil))
		assert.Equal(t, status.Message(model.CategorySafe), r.Respond("Bagaimana situasi?", 100, nil, nil))
	})

	t.Run("LightUnavailable", func(t *testing.T) {
		assert.Equal(t, LuxUnavailable, r.Respond("Apakah lampu menyala?", 100, nil, nil))
	})

	t.Run("Light", func(t *testing.T) {
		assert.Equal(t, status.Message(model.CategoryLit), r.Respond("Apakah lampu menyala?", 900, f(120), nil))
		assert.Equal(t, status.Message(model.CategoryDarkSuspicious), r.Respond("Gelap?", 600, f(50), nil))
	})

	t.Run("TemperatureUnavailable", func(t *testing.T) {
		assert.Equal(t, TemperatureUnavailable, r.Respond("Apa kondisi suhu di sini?", 100, f(100), nil))
	})

	t.Run("Temperature", func(t *testing.T) {
		assert.Equal(t, status.Message(model.CategoryHot), r.Respond("Apakah suhu terlalu panas atau dingin?", 100, nil, f(33)))
		assert.Equal(t, status.Message(model.CategoryCold), r.Respond("suhu?", 100, nil, f(28.5)))
	})

	t.Run("Status", func(t *testing.T) {
		got := r.Respond("Apa status umum?", 900, f(10), f(30))
		assert.Equal(t,
			"Status asap: Bahaya! Terdeteksi asap rokok! | Penerangan: Agak mencurigakan: gelap dan ada indikasi asap rokok!",
			got)
	})

	t.Run("StatusWithoutLux", func(t *testing.T) {
		got := r.Respond("status?", 100, nil, nil)
		assert.Equal(t, "Status asap: Semua aman, tidak terdeteksi asap mencurigakan. | Penerangan: ", got)
	})

	t.Run("NotUnderstood", func(t *testing.T) {
		assert.Equal(t, NotUnderstood, r.Respond("Apa yang terdeteksi di sini?", 100, f(10), f(25)))
	})
}

func TestAnswerReturnsTopic(t *testing.T) {
	r := newTestRouter()

	topic, answer := r.Answer("Apakah lampu menyala?", 100, nil, nil)
	assert.Equal(t, TopicLight, topic)
	assert.Equal(t, LuxUnavailable, answer)
}

func TestRespondIsIdempotent(t *testing.T) {
	r := newTestRouter()
	for _, q := range Questions() {
		assert.Equal(t, r.Respond(q, 650, f(40), f(28.5)), r.Respond(q, 650, f(40), f(28.5)), q)
	}
}

func TestAnswersCarryNoSymbols(t *testing.T) {
	r := newTestRouter()
	symbols := []string{"🚨", "⚠️", "✅", "🌑", "💡", "🔥", "🌤️", "❄️"}

	for _, q := range Questions() {
		answer := r.Respond(q, 900, f(10), f(35))
		for _, s := range symbols {
			assert.NotContains(t, answer, s, q)
		}
	}
}

func TestTopicsOrder(t *testing.T) {
	list := Topics()
	require.Len(t, list, 4)
	assert.Equal(t, TopicSmoke, list[0].Topic)
	assert.Equal(t, TopicStatus, list[3].Topic)
}
