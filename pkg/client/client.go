package client

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

	pkgmodel "github.com/goliatone/go-priceform/pkg/model"
)

// GenericErrorMessage is shown when a failure carries no usable detail.
const GenericErrorMessage = "An error occurred during prediction"

// PredictPath is appended to the base URL for every prediction call.
const PredictPath = "/predict"

// maxResponseSize bounds how much of a response body is read.
const maxResponseSize = 1 << 20

// ErrTransport wraps failures where no HTTP response was received.
var ErrTransport = errors.New("client: prediction service unreachable")

// ErrMissingPrice is returned when a 2xx response lacks formatted_price.
var ErrMissingPrice = errors.New("client: response has no formatted_price")

// Prediction is the decoded success payload.
type Prediction struct {
	Price          float64 `json:"price"`
	FormattedPrice string  `json:"formatted_price"`
}

// Predictor submits a feature set to the prediction service.
type Predictor interface {
	Predict(ctx context.Context, features pkgmodel.FeatureSet) (Prediction, error)
}

// ServiceError describes a non-2xx response.
type ServiceError struct {
	StatusCode int
	Detail     string
}

func (e *ServiceError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("client: prediction service returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("client: prediction service returned status %d: %s", e.StatusCode, e.Detail)
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient swaps the underlying *http.Client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *HTTPClient) {
		if client != nil {
			c.client = client
		}
	}
}

// WithTimeout caps each prediction call. Zero leaves calls unbounded.
func WithTimeout(timeout time.Duration) Option {
	return func(c *HTTPClient) {
		c.timeout = timeout
	}
}

// HTTPClient posts feature sets as JSON to <baseURL>/predict.
type HTTPClient struct {
	endpoint string
	client   *http.Client
	timeout  time.Duration
}

var _ Predictor = (*HTTPClient)(nil)

// New builds an HTTPClient for the service rooted at baseURL.
func New(baseURL string, options ...Option) *HTTPClient {
	c := &HTTPClient{
		endpoint: strings.TrimRight(strings.TrimSpace(baseURL), "/") + PredictPath,
		client:   &http.Client{},
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Endpoint returns the full prediction URL.
func (c *HTTPClient) Endpoint() string {
	return c.endpoint
}

// Predict sends features and decodes the response. Non-2xx responses return a
// *ServiceError, network failures wrap ErrTransport.
func (c *HTTPClient) Predict(ctx context.Context, features pkgmodel.FeatureSet) (Prediction, error) {
	body, err := json.Marshal(features)
	if err != nil {
		return Prediction{}, fmt.Errorf("client: marshal features: %w", err)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return Prediction{}, fmt.Errorf("client: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Prediction{}, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return Prediction{}, fmt.Errorf("%w: read response: %w", ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Prediction{}, &ServiceError{StatusCode: resp.StatusCode, Detail: extractDetail(payload)}
	}

	var prediction Prediction
	if err := json.Unmarshal(payload, &prediction); err != nil {
		return Prediction{}, fmt.Errorf("client: decode response: %w", err)
	}
	if prediction.FormattedPrice == "" {
		return Prediction{}, ErrMissingPrice
	}
	return prediction, nil
}

// extractDetail reads the "detail" member of an error body. FastAPI sends
// either a string or a list of validation errors carrying "msg".
func extractDetail(payload []byte) string {
	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(payload, &body); err != nil || len(body.Detail) == 0 {
		return ""
	}

	var text string
	if err := json.Unmarshal(body.Detail, &text); err == nil {
		return strings.TrimSpace(text)
	}

	var items []struct {
		Msg string `json:"msg"`
		Loc []any  `json:"loc"`
	}
	if err := json.Unmarshal(body.Detail, &items); err != nil {
		return ""
	}
	messages := make([]string, 0, len(items))
	for _, item := range items {
		msg := strings.TrimSpace(item.Msg)
		if msg == "" {
			continue
		}
		if field := lastLocation(item.Loc); field != "" {
			msg = field + ": " + msg
		}
		messages = append(messages, msg)
	}
	return strings.Join(messages, "; ")
}

func lastLocation(loc []any) string {
	if len(loc) < 2 {
		return ""
	}
	if name, ok := loc[len(loc)-1].(string); ok {
		return name
	}
	return ""
}

// Message converts a prediction error into the text shown to the user: the
// service detail when there is one, otherwise GenericErrorMessage.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) && serviceErr.Detail != "" {
		return serviceErr.Detail
	}
	return GenericErrorMessage
}
