package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/praxisware/tpflow/internal/components/logging"
)

// StatusError carries the HTTP status and a limited slice of the response
// body so callers can recover the server's error message.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http error status=%d body=%s", e.StatusCode, strings.TrimSpace(string(e.Body)))
}

type InstrumentedClient struct {
	Name           string
	BaseURL        string
	DefaultHeaders map[string]string
	Client         *http.Client
	Retry          *RetryConfig
	Underlying     *http.Transport
}

func (ic *InstrumentedClient) buildURL(path string, q map[string]string) (string, error) {
	var full string
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		full = path
	} else {
		if path != "" && path[0] != '/' {
			path = "/" + path
		}
		full = ic.BaseURL + path
	}
	u, err := url.Parse(full)
	if err != nil {
		return "", err
	}
	if q != nil {
		qs := u.Query()
		for k, v := range q {
			qs.Set(k, v)
		}
		u.RawQuery = qs.Encode()
	}
	return u.String(), nil
}

func (ic *InstrumentedClient) Do(ctx context.Context, method, path string, query map[string]string, headers map[string]string, body interface{}, out interface{}) (*http.Response, error) {
	if method == "" {
		method = http.MethodGet
	}

	targetURL, err := ic.buildURL(path, query)
	if err != nil {
		return nil, err
	}

	var reqBody io.Reader
	var contentType string

	switch b := body.(type) {
	case nil:
	case io.Reader:
		reqBody = b
	case []byte:
		reqBody = bytes.NewReader(b)
	case string:
		reqBody = strings.NewReader(b)
	default:
		buf, errM := json.Marshal(b)
		if errM != nil {
			return nil, fmt.Errorf("marshal body: %w", errM)
		}
		reqBody = bytes.NewReader(buf)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, method, targetURL, reqBody)
	if err != nil {
		return nil, err
	}

	for k, v := range ic.DefaultHeaders {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if contentType != "" && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", contentType)
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json, */*")
	}

	start := time.Now()
	resp, err := ic.doWithRetry(ctx, req)
	latency := time.Since(start)

	fields := []zap.Field{
		zap.String("client", ic.Name),
		zap.String("method", method),
		zap.String("url", targetURL),
		zap.Duration("latency", latency),
	}
	if err != nil {
		fields = append(fields, zap.String("error", err.Error()))
		logging.Error(ctx, "http_client_request", fields...)
		return resp, err
	}
	fields = append(fields, zap.Int("status", resp.StatusCode))
	logging.Debug(ctx, "http_client_request", fields...)

	defer func() {
		if out == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}
	}()

	if resp.StatusCode >= 400 {
		slurp, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return resp, &StatusError{StatusCode: resp.StatusCode, Body: slurp}
	}

	if out != nil {
		defer resp.Body.Close()
		ct := resp.Header.Get("Content-Type")
		if strings.Contains(ct, "json") {
			dec := json.NewDecoder(resp.Body)
			if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
				return resp, fmt.Errorf("decode response: %w", err)
			}
		} else {
			raw, _ := io.ReadAll(resp.Body)
			switch o := out.(type) {
			case *[]byte:
				*o = raw
			case *string:
				*o = string(raw)
			}
		}
	}

	return resp, nil
}

func (ic *InstrumentedClient) Get(ctx context.Context, path string, query map[string]string, headers map[string]string, out interface{}) (*http.Response, error) {
	return ic.Do(ctx, http.MethodGet, path, query, headers, nil, out)
}

func (ic *InstrumentedClient) Post(ctx context.Context, path string, body interface{}, headers map[string]string, out interface{}) (*http.Response, error) {
	return ic.Do(ctx, http.MethodPost, path, nil, headers, body, out)
}

func (ic *InstrumentedClient) Put(ctx context.Context, path string, body interface{}, headers map[string]string, out interface{}) (*http.Response, error) {
	return ic.Do(ctx, http.MethodPut, path, nil, headers, body, out)
}

func (ic *InstrumentedClient) Delete(ctx context.Context, path string, headers map[string]string, out interface{}) (*http.Response, error) {
	return ic.Do(ctx, http.MethodDelete, path, nil, headers, nil, out)
}

func (ic *InstrumentedClient) doWithRetry(ctx context.Context, req *http.Request) (*http.Response, error) {
	if ic.Retry == nil || !ic.Retry.Enabled || ic.Retry.MaxAttempts <= 1 {
		return ic.Client.Do(req)
	}

	backoff := ic.Retry.InitialBackoff
	var lastErr error
	for attempt := 1; attempt <= ic.Retry.MaxAttempts; attempt++ {
		resp, err := ic.Client.Do(req)
		if err == nil && resp.StatusCode < 500 {
			return resp, nil
		}
		retriable := true
		if err == nil {
			lastErr = fmt.Errorf("server error %d", resp.StatusCode)
			resp.Body.Close()
		} else {
			lastErr = err
			var nErr net.Error
			if errors.As(err, &nErr) && !nErr.Timeout() {
				retriable = false
			}
		}

		if attempt == ic.Retry.MaxAttempts || !retriable {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff = time.Duration(float64(backoff) * ic.Retry.BackoffMultiplier)
		if backoff > ic.Retry.MaxBackoff {
			backoff = ic.Retry.MaxBackoff
		}
	}
	return nil, lastErr
}
