package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	apperrors "github.com/agbru/secretsanta/internal/errors"
	"github.com/agbru/secretsanta/internal/logging"
	"github.com/agbru/secretsanta/internal/slot"
)

// DefaultEndpoint is the production generation service.
const DefaultEndpoint = "https://secret-santa-be.vercel.app/api/secret-santa"

// Header names exchanged with the service.
const (
	HeaderRequestID  = "X-Request-ID"
	HeaderHasMatches = "X-Has-Matches"
)

// DefaultMaxResponseBytes bounds the body read from the service.
const DefaultMaxResponseBytes int64 = 32 << 20

const tracerName = "github.com/agbru/secretsanta/internal/generator"

// Request carries the two accepted selections of one submission.
type Request struct {
	Employees slot.FileSelection
	LastYear  slot.FileSelection
}

// Response is a successful generation result.
type Response struct {
	// Data is the generated spreadsheet.
	Data []byte
	// ContentType is the media type reported by the service.
	ContentType string
	// HasMatches reports that some pairs repeat last year's assignments.
	HasMatches bool
	// RequestID correlates the response with logs.
	RequestID string
}

// Client posts generation requests to a single endpoint.
type Client struct {
	endpoint   string
	userAgent  string
	httpClient *http.Client
	logger     logging.Logger
	newID      func() string
	maxBody    int64
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithMaxResponseBytes sets the largest response body accepted. Larger
// bodies fail with a TransportError.
func WithMaxResponseBytes(n int64) Option {
	return func(c *Client) { c.maxBody = n }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a Client for endpoint. No request timeout is applied;
// the caller's context bounds the request.
func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint:   endpoint,
		userAgent:  "secretsanta",
		httpClient: &http.Client{},
		logger:     logging.Nop(),
		newID:      uuid.NewString,
		maxBody:    DefaultMaxResponseBytes,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the configured service URL.
func (c *Client) Endpoint() string { return c.endpoint }

// Generate uploads req and waits for the service's answer.
//
// A 2xx response yields the body as Response.Data. A non-2xx response yields
// an apperrors.ServiceError whose message comes from the JSON body when
// present. Any failure to obtain or read a response yields an
// apperrors.TransportError.
func (c *Client) Generate(ctx context.Context, req Request) (Response, error) {
	requestID := c.newID()
	ctx, span := otel.Tracer(tracerName).Start(ctx, "generator.Generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("request.id", requestID),
		attribute.String("http.url", c.endpoint),
		attribute.Int("upload.employees.bytes", len(req.Employees.Data)),
		attribute.Int("upload.last_year.bytes", len(req.LastYear.Data)),
	)

	body, contentType, err := encodeForm(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "encode form")
		return Response{}, apperrors.TransportError{Cause: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "build request")
		return Response{}, apperrors.TransportError{Cause: err}
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set(HeaderRequestID, requestID)

	c.logger.Debug("posting generation request",
		logging.String("request_id", requestID),
		logging.String("endpoint", c.endpoint),
	)
	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		c.logger.Error("generation request failed", err, logging.String("request_id", requestID))
		return Response{}, apperrors.TransportError{Cause: err}
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err == nil && int64(len(data)) > c.maxBody {
		err = fmt.Errorf("response exceeds %d bytes", c.maxBody)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read body")
		return Response{}, apperrors.TransportError{Cause: apperrors.WrapError(err, "reading response body")}
	}
	c.logger.Debug("generation response received",
		logging.String("request_id", requestID),
		logging.Int("status", resp.StatusCode),
		logging.Int("bytes", len(data)),
		logging.Float64("seconds", time.Since(start).Seconds()),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		svcErr := apperrors.ServiceError{StatusCode: resp.StatusCode, Message: decodeMessage(data)}
		span.SetStatus(codes.Error, svcErr.Error())
		return Response{}, svcErr
	}

	hasMatches := parseFlag(resp.Header.Get(HeaderHasMatches))
	span.SetAttributes(attribute.Bool("result.has_matches", hasMatches))
	return Response{
		Data:        data,
		ContentType: resp.Header.Get("Content-Type"),
		HasMatches:  hasMatches,
		RequestID:   requestID,
	}, nil
}

func encodeForm(req Request) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	parts := []struct {
		field string
		sel   slot.FileSelection
	}{
		{slot.Employees, req.Employees},
		{slot.LastYear, req.LastYear},
	}
	for _, p := range parts {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, p.field, p.sel.Name))
		h.Set("Content-Type", slot.SpreadsheetMediaType)
		w, err := mw.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := w.Write(p.sel.Data); err != nil {
			return nil, "", err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}

type errorBody struct {
	Message string `json:"message"`
}

// decodeMessage extracts the service's error text. An unparseable body or an
// empty message leaves it blank so callers fall back to the generic text.
func decodeMessage(data []byte) string {
	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	return strings.TrimSpace(body.Message)
}

func parseFlag(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}
