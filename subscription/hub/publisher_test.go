package hub

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/golangid/gqlsubscription/subscription"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) PublishToken() (string, error) {
	if s == "" {
		return "", errors.New("no secret")
	}
	return string(s), nil
}

func TestPublisher_Push(t *testing.T) {
	var received *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		received = r
		w.Write([]byte("urn:uuid:1"))
	}))
	defer srv.Close()

	p := NewPublisher(srv.URL, staticToken("publish-token"))
	err := p.Push(context.Background(), subscription.Update{
		Topic:   "https://graphql.org/subscriptions/myID",
		Data:    []byte(`{"type":"data","id":"myID","payload":{"data":{"inbox":{"message":"hello word!"}}}}`),
		Targets: []string{"https://graphql.org/subscriptions/myID"},
	})
	require.NoError(t, err)

	require.NotNil(t, received)
	assert.Equal(t, http.MethodPost, received.Method)
	assert.Equal(t, "Bearer publish-token", received.Header.Get("Authorization"))
	assert.Equal(t, "https://graphql.org/subscriptions/myID", received.PostForm.Get("topic"))
	assert.Equal(t, []string{"https://graphql.org/subscriptions/myID"}, received.PostForm["target"])
	assert.Equal(t, `{"type":"data","id":"myID","payload":{"data":{"inbox":{"message":"hello word!"}}}}`, received.PostForm.Get("data"))
}

func TestPublisher_PushFailure(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer srv.Close()

	err := NewPublisher(srv.URL, staticToken("bad")).Push(context.Background(), subscription.Update{Topic: "t"})
	assert.EqualError(t, err, "hub responded 401: unauthorized")
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits))

	err = NewPublisher(srv.URL, staticToken("")).Push(context.Background(), subscription.Update{Topic: "t"})
	assert.Error(t, err)
}

func TestPublisher_RetryServerError(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := NewPublisher(srv.URL, staticToken("publish-token"), SetRetries(2, 0))
	assert.NoError(t, p.Push(context.Background(), subscription.Update{Topic: "t", Data: []byte("x")}))
	assert.EqualValues(t, 2, atomic.LoadInt32(&hits))
}

type trackedBody struct {
	io.Reader
	closed bool
}

func (b *trackedBody) Close() error {
	b.closed = true
	return nil
}

type serverErrorDoer struct {
	bodies []*trackedBody
}

func (d *serverErrorDoer) Do(req *http.Request) (*http.Response, error) {
	body := &trackedBody{Reader: strings.NewReader("bad gateway")}
	d.bodies = append(d.bodies, body)
	return &http.Response{StatusCode: http.StatusBadGateway, Body: body, Request: req}, nil
}

func TestPublisher_RetryExhaustedCloseBody(t *testing.T) {
	doer := &serverErrorDoer{}
	p := NewPublisher("https://hub.test/.well-known/mercure", staticToken("publish-token"), SetRetries(1, 0), SetHTTPClient(doer))

	err := p.Push(context.Background(), subscription.Update{Topic: "t", Data: []byte("x")})
	assert.ErrorContains(t, err, "502")
	require.Len(t, doer.bodies, 2)
	for _, body := range doer.bodies {
		assert.True(t, body.closed)
	}
}
