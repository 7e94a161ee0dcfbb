package sdapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ayunami2000/sdlayers/logging"
)

var ErrServerOffline = errors.New("server is not reachable")
var ErrDecode = errors.New("could not decode server response")

const ProbeTimeout = 3 * time.Second

// HTTPError is returned for any non-2xx response.
type HTTPError struct {
	Method     string
	URL        string
	StatusCode int
	Reason     string
	Header     http.Header
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.StatusCode, e.Reason)
}

type httpTransport struct {
	base http.RoundTripper
}

func (t *httpTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return t.base.RoundTrip(req)
}

// Client talks to a Stable Diffusion web UI. Generation calls have no timeout.
type Client struct {
	BaseURL string
	// DumpDir, when set, receives a copy of every POST body.
	DumpDir string

	httpClient  *http.Client
	probeClient *http.Client
	logger      *zap.Logger
}

func NewClient(baseURL string, logger *zap.Logger) *Client {
	transport := &httpTransport{base: http.DefaultTransport}
	return &Client{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  &http.Client{Transport: transport},
		probeClient: &http.Client{Timeout: ProbeTimeout, Transport: transport},
		logger:      logging.OrNop(logger),
	}
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	return u
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, c.endpoint(path, query), nil, out)
}

func (c *Client) Post(ctx context.Context, path string, query url.Values, body any, out any) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return err
	}

	if c.DumpDir != "" {
		c.dump(buf.Bytes())
	}

	return c.do(ctx, http.MethodPost, c.endpoint(path, query), &buf, out)
}

func (c *Client) do(ctx context.Context, method, u string, body io.Reader, out any) error {
	c.logger.Debug("Sending request", zap.String("method", method), zap.String("url", u))

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return err
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Request failed", zap.String("method", method), zap.String("url", u), zap.Error(err))
		return err
	}

	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		httpErr := &HTTPError{
			Method:     method,
			URL:        u,
			StatusCode: res.StatusCode,
			Reason:     http.StatusText(res.StatusCode),
			Header:     res.Header.Clone(),
			Body:       string(raw),
		}
		c.logger.Error("Unexpected response",
			zap.String("url", u),
			zap.Int("code", httpErr.StatusCode),
			zap.String("reason", httpErr.Reason),
			zap.Any("headers", httpErr.Header),
		)
		return httpErr
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		c.logger.Error("Unable to decode response", zap.String("url", u), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}

	return nil
}

func (c *Client) dump(body []byte) {
	name := filepath.Join(c.DumpDir, fmt.Sprintf("sdlayers_post_%d.json", time.Now().UnixNano()))
	if err := os.WriteFile(name, body, 0o644); err != nil {
		c.logger.Warn("Unable to dump request", zap.String("path", name), zap.Error(err))
		return
	}

	c.logger.Debug("Dumped request", zap.String("path", name))
}

// ServerOnline probes the base url with a short timeout.
func (c *Client) ServerOnline(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServerOffline, err)
	}

	res, err := c.probeClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServerOffline, err)
	}

	res.Body.Close()
	if res.StatusCode >= 400 {
		return fmt.Errorf("%w: %s", ErrServerOffline, res.Status)
	}

	return nil
}

func (c *Client) Options(ctx context.Context) (*OptionsResponse, error) {
	var resParsed OptionsResponse
	if err := c.Get(ctx, "/sdapi/v1/options", nil, &resParsed); err != nil {
		return nil, err
	}

	return &resParsed, nil
}

func (c *Client) SDModels(ctx context.Context) ([]SDModel, error) {
	var resParsed []SDModel
	err := c.Get(ctx, "/sdapi/v1/sd-models", nil, &resParsed)
	return resParsed, err
}

func (c *Client) ControlNetModels(ctx context.Context) ([]string, error) {
	var resParsed ControlNetModelList
	err := c.Get(ctx, "/controlnet/model_list", nil, &resParsed)
	return resParsed.ModelList, err
}

func (c *Client) SetCheckpoint(ctx context.Context, title string) error {
	return c.Post(ctx, "/sdapi/v1/options", nil, &OptionsRequest{SDModelCheckpoint: title}, nil)
}

func (c *Client) Txt2Img(ctx context.Context, data *GenerationRequest) (*GenerationResponse, error) {
	var resParsed GenerationResponse
	if err := c.Post(ctx, "/sdapi/v1/txt2img", nil, data, &resParsed); err != nil {
		return nil, err
	}

	return &resParsed, nil
}

// Img2Img serves both image-to-image and inpainting requests.
func (c *Client) Img2Img(ctx context.Context, data *GenerationRequest) (*GenerationResponse, error) {
	var resParsed GenerationResponse
	if err := c.Post(ctx, "/sdapi/v1/img2img", nil, data, &resParsed); err != nil {
		return nil, err
	}

	return &resParsed, nil
}
