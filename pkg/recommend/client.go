// Package recommend requests diet and sleep-condition recommendations from the
// backend and holds the last outcome for display.
//
// Requests are one-shot: no retry, no caching. The backend's JSON body is
// passed through untouched; the only inspection is for an explicit "error"
// field, which is surfaced as a *BackendError.
package recommend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

const (
	DefaultDietPath    = "/api/diet-recommendation"
	DefaultPredictPath = "/predict"
)

const maxBodyBytes = 1 << 20

// ErrMalformed is returned when the backend answers with something that is not JSON.
var ErrMalformed = errors.New("malformed recommendation response")

// BackendError is a failure reported by the backend itself, either through an
// "error" field in the body or a non-2xx status.
type BackendError struct {
	StatusCode int
	Message    string
}

func (e *BackendError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("backend error (status %d): %s", e.StatusCode, e.Message)
}

// DietRequest is the payload of the diet recommendation endpoint.
type DietRequest struct {
	Dosha    string `json:"dosha"`
	Disorder string `json:"disorder"`
}

// PredictRequest is the payload of the prediction endpoint. Field names follow
// the model's training columns.
type PredictRequest struct {
	BVP     float64 `json:"bvp"`
	AccX    float64 `json:"acc_x"`
	AccY    float64 `json:"acc_y"`
	AccZ    float64 `json:"acc_z"`
	Temp    float64 `json:"temp"`
	Subject string  `json:"subject"`
}

// Client calls the recommendation endpoints of the backend.
type Client struct {
	baseURL     string
	dietPath    string
	predictPath string
	client      *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.client = c
		}
	}
}

// WithPaths overrides the endpoint paths. Empty values keep the defaults.
func WithPaths(dietPath, predictPath string) Option {
	return func(cl *Client) {
		if dietPath != "" {
			cl.dietPath = dietPath
		}
		if predictPath != "" {
			cl.predictPath = predictPath
		}
	}
}

// NewClient creates a Client for the backend at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		dietPath:    DefaultDietPath,
		predictPath: DefaultPredictPath,
		client: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     90 * time.Second,
				MaxIdleConnsPerHost: 2,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Diet requests a diet plan for a dosha and sleep condition.
func (c *Client) Diet(ctx context.Context, req DietRequest) (json.RawMessage, error) {
	return c.post(ctx, c.dietPath, req)
}

// Predict requests a sleep-condition prediction from raw sensor proxies.
func (c *Client) Predict(ctx context.Context, req PredictRequest) (json.RawMessage, error) {
	return c.post(ctx, c.predictPath, req)
}

func (c *Client) post(ctx context.Context, path string, payload any) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := c.baseURL + "/" + strings.TrimLeft(path, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	valid := gjson.ValidBytes(respBody)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		be := &BackendError{StatusCode: resp.StatusCode}
		if valid {
			be.Message = gjson.GetBytes(respBody, "error").String()
		}
		return nil, be
	}
	if !valid {
		return nil, ErrMalformed
	}
	if e := gjson.GetBytes(respBody, "error"); e.Exists() && e.Type != gjson.Null {
		return nil, &BackendError{StatusCode: resp.StatusCode, Message: e.String()}
	}

	return json.RawMessage(respBody), nil
}

// Diet is the typed view of a diet recommendation body.
type Diet struct {
	Condition          string   `json:"condition,omitempty"`
	RecommendationText string   `json:"recommendation_text"`
	FoodsToEat         []string `json:"foods_to_eat"`
	FoodsToAvoid       []string `json:"foods_to_avoid"`
}

// DecodeDiet extracts the known fields of a diet recommendation. Missing
// fields are left empty.
func DecodeDiet(raw json.RawMessage) Diet {
	r := gjson.ParseBytes(raw)
	return Diet{
		Condition:          r.Get("condition").String(),
		RecommendationText: r.Get("recommendation_text").String(),
		FoodsToEat:         stringList(r.Get("foods_to_eat")),
		FoodsToAvoid:       stringList(r.Get("foods_to_avoid")),
	}
}

func stringList(r gjson.Result) []string {
	if !r.IsArray() {
		return nil
	}
	out := make([]string, 0, len(r.Array()))
	r.ForEach(func(_, v gjson.Result) bool {
		out = append(out, v.String())
		return true
	})
	return out
}
