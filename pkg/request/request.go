package request

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

const maxErrBody = 64 * 1024

type Request struct {
	client  *http.Client
	url     string
	method  string
	token   string
	body    io.Reader
	bodyErr error
	headers map[string]string
	args    map[string]string
	logger  *slog.Logger
}

func New(c *http.Client, logger *slog.Logger) *Request {
	return &Request{client: c, method: "GET", logger: logger}
}

func (r *Request) URL(url string) *Request {
	r.url = url

	return r
}

func (r *Request) Put() *Request {
	r.method = "PUT"

	return r
}

func (r *Request) Post() *Request {
	r.method = "POST"

	return r
}

func (r *Request) Delete() *Request {
	r.method = "DELETE"

	return r
}

func (r *Request) Token(token string) *Request {
	r.token = token

	return r
}

func (r *Request) Headers(headers map[string]string) *Request {
	r.headers = headers

	return r
}

func (r *Request) Args(args map[string]string) *Request {
	r.args = args

	return r
}

func (r *Request) Body(body io.Reader) *Request {
	r.body = body

	return r
}

// JSON sets a marshalled body and the json content type.
func (r *Request) JSON(obj any) *Request {
	b, err := json.Marshal(obj)
	if err != nil {
		r.bodyErr = err

		return r
	}

	r.body = bytes.NewReader(b)

	if r.headers == nil {
		r.headers = make(map[string]string)
	}

	r.headers["Content-Type"] = "application/json"

	return r
}

func (r *Request) DoRes(ctx context.Context) (*http.Response, error) {
	if r.bodyErr != nil {
		return nil, r.bodyErr
	}

	req, err := http.NewRequestWithContext(ctx, r.method, r.url, r.body)
	if err != nil {
		return nil, err
	}

	req.Header.Del("User-Agent")

	for k, v := range r.headers {
		req.Header.Set(k, v)
	}

	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	if len(r.args) > 0 {
		q := req.URL.Query()

		for k, v := range r.args {
			q.Add(k, v)
		}

		req.URL.RawQuery = q.Encode()
	}

	res, err := r.client.Do(req)
	if err != nil {
		if r.logger != nil {
			r.logger.Info(fmt.Sprintf("%s %s - error %s", r.method, req.URL, err.Error()))
		}

		return res, err
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		if r.logger != nil {
			r.logger.Warn(fmt.Sprintf("%s %s - %d", r.method, req.URL, res.StatusCode))
		}

		defer res.Body.Close()

		return res, decodeError(res)
	}

	if r.logger != nil {
		r.logger.Debug(fmt.Sprintf("%s %s - %d", r.method, req.URL, res.StatusCode))
	}

	return res, nil
}

func (r *Request) Do(ctx context.Context) (io.ReadCloser, error) {
	res, err := r.DoRes(ctx)

	if err != nil {
		return nil, err
	}

	if res.Body == nil {
		return nil, fmt.Errorf("null body")
	}

	return res.Body, nil
}

// GetJSON runs the request and decodes a JSON success payload into obj.
// A non-json success body is assigned verbatim when obj is *string.
func (r *Request) GetJSON(ctx context.Context, obj any) error {
	res, err := r.DoRes(ctx)

	if err != nil {
		return err
	}

	defer res.Body.Close()

	ct := res.Header.Get("Content-Type")

	if !isJSON(ct) {
		if s, ok := obj.(*string); ok {
			b, err := io.ReadAll(res.Body)
			if err != nil {
				return err
			}

			*s = string(b)

			return nil
		}
	}

	if err := json.NewDecoder(res.Body).Decode(obj); err != nil {
		if !isJSON(ct) {
			return fmt.Errorf("unexpected %q response body: %w", ct, err)
		}

		return err
	}

	return nil
}

func isJSON(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "json")
}

// decodeError builds a RemoteError from a non-2xx response. A json
// body's message field wins, then raw text, then a generic string.
func decodeError(res *http.Response) *RemoteError {
	re := &RemoteError{Status: res.StatusCode}

	body, _ := io.ReadAll(io.LimitReader(res.Body, maxErrBody))

	if isJSON(res.Header.Get("Content-Type")) {
		var env struct {
			Message string `json:"message"`
		}

		if err := json.Unmarshal(body, &env); err == nil && env.Message != "" {
			re.Message = env.Message

			return re
		}
	}

	if msg := strings.TrimSpace(string(body)); msg != "" {
		re.Message = msg

		return re
	}

	re.Message = fmt.Sprintf("request failed (%d)", res.StatusCode)

	return re
}
