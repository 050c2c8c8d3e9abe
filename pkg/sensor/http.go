package sensor

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

// DefaultPath is the latest-reading endpoint on the backend.
const DefaultPath = "/api/sensor/latest"

// maxBodyBytes bounds how much of a response is read.
const maxBodyBytes = 1 << 20

// HTTPSource polls the backend over HTTP.
//
//	src := &HTTPSource{BaseURL: "http://localhost:10000"}
//	latest, err := src.Latest(ctx)
type HTTPSource struct {
	// BaseURL is the backend root, e.g. "http://localhost:10000" (required).
	BaseURL string

	// Path is appended to BaseURL. Defaults to DefaultPath.
	Path string

	// Headers are added to every request.
	Headers map[string]string

	// HTTPClient is optional; if nil a client with a 10s timeout is used.
	HTTPClient *http.Client
}

func (h *HTTPSource) Name() string { return "http" }

// URL returns the full endpoint address.
func (h *HTTPSource) URL() string {
	path := h.Path
	if path == "" {
		path = DefaultPath
	}
	return strings.TrimRight(h.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

// Latest implements Source.
func (h *HTTPSource) Latest(ctx context.Context) (*Latest, error) {
	if h.BaseURL == "" {
		return nil, fmt.Errorf("http source: base URL is required")
	}

	cli := h.HTTPClient
	if cli == nil {
		cli = &http.Client{Timeout: 10 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	for k, v := range h.Headers {
		req.Header.Set(k, v)
	}

	resp, err := cli.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	// The backend answers 404 with {"success": false, ...} when the device
	// has not reported yet; treat that the same as an empty 200.
	if resp.StatusCode == http.StatusNotFound && gjson.ValidBytes(body) {
		return Parse(body)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http status %d: %s", resp.StatusCode, truncate(body, 256))
	}

	return Parse(body)
}

// Parse decodes a latest-reading response body.
func Parse(body []byte) (*Latest, error) {
	if !gjson.ValidBytes(body) {
		return nil, ErrMalformed
	}

	root := gjson.ParseBytes(body)
	if !root.Get("success").Bool() {
		if msg := root.Get("message").String(); msg != "" {
			return nil, fmt.Errorf("%w: %s", ErrNoData, msg)
		}
		return nil, ErrNoData
	}

	data := root.Get("data")
	if !data.IsObject() {
		return nil, ErrNoData
	}

	latest := &Latest{Reading: parseReading(root, data)}

	if p := root.Get("prediction"); p.IsObject() && !p.Get("error").Exists() {
		latest.Prediction = &Prediction{
			Condition:          p.Get("condition").String(),
			RawPredictionClass: int(p.Get("raw_prediction").Int()),
		}
	}

	return latest, nil
}

func parseReading(root, data gjson.Result) Reading {
	ts := root.Get("timestamp").String()
	if ts == "" {
		ts = data.Get("timestamp").String()
	}

	return Reading{
		HeartRateBPM: floatOr(data.Get("MAX30102.bpm"), 0),
		TemperatureC: floatOr(data.Get("DHT.temperature"), DefaultTemperatureC),
		Gyro:         vector(data.Get("MPU6050.gyro")),
		Accel:        vector(data.Get("MPU6050.accel")),
		Timestamp:    ts,
	}
}

func vector(v gjson.Result) Vector3 {
	return Vector3{
		X: floatOr(v.Get("x"), 0),
		Y: floatOr(v.Get("y"), 0),
		Z: floatOr(v.Get("z"), 0),
	}
}

// floatOr returns the numeric value of r, accepting numbers and numeric
// strings, or def when r is missing, null or not a number. NaN and
// infinities count as missing.
func floatOr(r gjson.Result, def float64) float64 {
	var f float64
	switch r.Type {
	case gjson.Number:
		f = r.Float()
	case gjson.String:
		v, err := strconv.ParseFloat(strings.TrimSpace(r.Str), 64)
		if err != nil {
			return def
		}
		f = v
	default:
		return def
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return def
	}
	return f
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
