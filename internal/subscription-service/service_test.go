package subscriptionservice

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	restserver "github.com/golangid/gqlsubscription/codebase/app/rest_server"
	"github.com/golangid/gqlsubscription/codebase/factory/dependency"
	"github.com/golangid/gqlsubscription/subscription"
	"github.com/golangid/gqlsubscription/subscription/storage"
	"github.com/golangid/gqlsubscription/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type updateRecorder struct {
	mu      sync.Mutex
	updates []subscription.Update
}

func (r *updateRecorder) Push(ctx context.Context, update subscription.Update) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, update)
	return nil
}

func (r *updateRecorder) take() []subscription.Update {
	r.mu.Lock()
	defer r.mu.Unlock()
	updates := r.updates
	r.updates = nil
	return updates
}

type startResponse struct {
	Type    string `json:"type"`
	ID      string `json:"id"`
	Payload struct {
		Data       json.RawMessage `json:"data"`
		Extensions struct {
			SSE struct {
				ID          string  `json:"id"`
				Topic       string  `json:"topic"`
				HubURL      *string `json:"hubUrl"`
				AccessToken string  `json:"accessToken"`
			} `json:"__sse"`
		} `json:"extensions"`
	} `json:"payload"`
}

func newTestServer(t *testing.T, publisher subscription.Publisher) http.Handler {
	deps := dependency.InitDependency(dependency.SetValidator(validator.NewValidator()))
	srv, err := NewService("subscription-test", deps, Engine{
		TopicURLPattern: "https://x.test/subs/{id}",
		Store:           storage.NewMemoryStore(),
		Publisher:       publisher,
		TokenProvider: subscription.TokenProviderFunc(func(topic string) (string, error) {
			return "token:" + topic, nil
		}),
		Options: []subscription.OptionFunc{subscription.SetPublicHubURL("https://hub.x.test/.well-known/mercure")},
	})
	require.NoError(t, err)
	assert.Len(t, srv.GetModules(), 2)

	server := restserver.NewServer(srv,
		restserver.SetDebugMode(false),
		restserver.AddAfterResponseHook(srv.FlushNotifications),
	)
	return server.(http.Handler)
}

func post(handler http.Handler, path, body string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestService_EndToEnd(t *testing.T) {
	recorder := new(updateRecorder)
	server := newTestServer(t, recorder)

	rec := post(server, "/subscriptions",
		`{"type":"start","id":"client-1","payload":{"query":"subscription { inbox(to: \"bob\") { message viewer } }"}}`,
		map[string]string{HeaderUser: "bob"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var start startResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &start))
	assert.Equal(t, "data", start.Type)
	assert.Equal(t, "client-1", start.ID)
	assert.JSONEq(t, `{"inbox":null}`, string(start.Payload.Data))
	sse := start.Payload.Extensions.SSE
	require.NotEmpty(t, sse.ID)
	assert.Equal(t, "https://x.test/subs/"+sse.ID, sse.Topic)
	assert.Equal(t, "token:"+sse.Topic, sse.AccessToken)
	require.NotNil(t, sse.HubURL)
	assert.True(t, strings.HasPrefix(*sse.HubURL, "https://hub.x.test/.well-known/mercure?topic="))
	assert.Empty(t, recorder.take())

	rec = post(server, "/inbox/messages", `{"from":"alice","to":"bob","message":"hi"}`, nil)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	updates := recorder.take()
	require.Len(t, updates, 1)
	assert.Equal(t, sse.Topic, updates[0].Topic)
	assert.Equal(t, []string{sse.Topic}, updates[0].Targets)
	assert.JSONEq(t, `{"type":"data","id":"`+sse.ID+`","payload":{"data":{"inbox":{"message":"hi","viewer":"bob"}}}}`, string(updates[0].Data))

	rec = post(server, "/inbox/messages", `{"from":"alice","to":"carol","message":"psst"}`, nil)
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Empty(t, recorder.take())

	rec = post(server, "/subscriptions", `{"type":"stop","id":"`+sse.ID+`"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"type":"success","id":"`+sse.ID+`"}`, rec.Body.String())

	rec = post(server, "/inbox/messages", `{"from":"alice","to":"bob","message":"again"}`, nil)
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Empty(t, recorder.take())

	rec = post(server, "/subscriptions", `{"type":"stop","id":"`+sse.ID+`"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"type":"error"`)
}

func TestService_InvalidSubscription(t *testing.T) {
	server := newTestServer(t, new(updateRecorder))

	tests := []struct {
		name  string
		path  string
		query string
		want  string
	}{
		{name: "Testcase #1: Negative, graphql validation error", path: "/subscriptions", query: `subscription { unknown }`, want: `"type":"error"`},
		{name: "Testcase #2: Negative, query operation", path: "/subscriptions", query: `{ hello }`, want: `"type":"error"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(map[string]interface{}{"type": "start", "payload": map[string]string{"query": tt.query}})
			rec := post(server, tt.path, string(body), nil)
			assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}

	rec := post(server, "/subscriptions/unknown", `{"type":"start","payload":{"query":"subscription { inbox { message } }"}}`, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
