package enrich

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/clintrovert/tricorder/pkg/types"
)

func newTestEnricher(t *testing.T, handler http.HandlerFunc) *Enricher {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL

	return &Enricher{
		client: openai.NewClientWithConfig(cfg),
		logger: zap.NewNop(),
		model:  openai.GPT4oMini,
	}
}

func TestCondense(t *testing.T) {
	e := newTestEnricher(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"choices": [
				{"message": {"role": "assistant", "content": "Users need a login page. Sessions should persist for a week."}}
			]
		}`))
	})

	got := e.Condense(context.Background(), &types.TicketSummary{
		Key:         "ABC-123",
		Summary:     "Add login page",
		Description: "Long description of the login requirements...",
	})

	assert.Equal(t, "Users need a login page. Sessions should persist for a week.", got)
}

func TestCondenseEmptyDescriptionSkipsCall(t *testing.T) {
	called := false
	e := newTestEnricher(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	got := e.Condense(context.Background(), &types.TicketSummary{Key: "ABC-123", Summary: "Add login page"})

	assert.Empty(t, got)
	assert.False(t, called)
}

func TestCondenseDegradesOnFailure(t *testing.T) {
	e := newTestEnricher(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	got := e.Condense(context.Background(), &types.TicketSummary{
		Key:         "ABC-123",
		Summary:     "Add login page",
		Description: "Something",
	})

	assert.Empty(t, got)
}
