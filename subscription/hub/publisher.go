package hub

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gojektech/heimdall/v6"
	"github.com/gojektech/heimdall/v6/httpclient"
	"github.com/golangid/gqlsubscription/candihelper"
	"github.com/golangid/gqlsubscription/subscription"
	"github.com/golangid/gqlsubscription/tracer"
)

// PublishTokenProvider issue token for publish to hub
type PublishTokenProvider interface {
	PublishToken() (string, error)
}

type (
	option struct {
		retries           int
		sleepBetweenRetry time.Duration
		timeout           time.Duration
		doer              heimdall.Doer
	}

	// OptionFunc type
	OptionFunc func(*option)
)

// SetRetries option func
func SetRetries(retries int, sleepBetweenRetry time.Duration) OptionFunc {
	return func(o *option) {
		o.retries = retries
		o.sleepBetweenRetry = sleepBetweenRetry
	}
}

// SetTimeout option func
func SetTimeout(timeout time.Duration) OptionFunc {
	return func(o *option) {
		o.timeout = timeout
	}
}

// SetHTTPClient option func, use custom http client for every attempt
func SetHTTPClient(doer heimdall.Doer) OptionFunc {
	return func(o *option) {
		o.doer = doer
	}
}

// Publisher push update to mercure hub with form post
type Publisher struct {
	hubURL        string
	tokenProvider PublishTokenProvider
	client        *httpclient.Client
}

// NewPublisher constructor
func NewPublisher(hubURL string, tokenProvider PublishTokenProvider, opts ...OptionFunc) *Publisher {
	opt := option{
		sleepBetweenRetry: 100 * time.Millisecond,
		timeout:           10 * time.Second,
	}
	for _, o := range opts {
		o(&opt)
	}

	// define a maximum jitter interval
	maximumJitterInterval := 5 * time.Millisecond
	backoff := heimdall.NewConstantBackoff(opt.sleepBetweenRetry, maximumJitterInterval)

	clientOpts := []httpclient.Option{
		httpclient.WithHTTPTimeout(opt.timeout),
		httpclient.WithRetrier(heimdall.NewRetrier(backoff)),
		httpclient.WithRetryCount(opt.retries),
	}
	if opt.doer != nil {
		clientOpts = append(clientOpts, httpclient.WithHTTPClient(opt.doer))
	}

	return &Publisher{
		hubURL:        hubURL,
		tokenProvider: tokenProvider,
		client:        httpclient.NewClient(clientOpts...),
	}
}

// Push method
func (p *Publisher) Push(ctx context.Context, update subscription.Update) (err error) {
	trace, ctx := tracer.StartTraceWithContext(ctx, "hub:push")
	defer func() { trace.Finish(tracer.FinishWithError(err)) }()
	trace.SetTag("topic", update.Topic)
	trace.Log("data", update.Data)

	token, err := p.tokenProvider.PublishToken()
	if err != nil {
		return fmt.Errorf("issue publish token: %w", err)
	}

	form := url.Values{}
	form.Set("topic", update.Topic)
	form.Set("data", string(update.Data))
	for _, target := range update.Targets {
		form.Add("target", target)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.hubURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set(candihelper.HeaderContentType, candihelper.HeaderMIMEApplicationForm)
	req.Header.Set(candihelper.HeaderAuthorization, "Bearer "+token)

	header := map[string]string{}
	trace.InjectRequestHeader(header)
	for k, v := range header {
		req.Header.Set(k, v)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		// heimdall return last response together with error when every attempt is server error
		if resp != nil && resp.Body != nil {
			resp.Body.Close()
		}
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, int64(candihelper.KByte)))
	trace.SetTag("http.status_code", resp.StatusCode)
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("hub responded %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}
