// Package sheetapi talks to the spreadsheet-backed order API. Reads are GET
// requests selected by `?recurso=`; writes are url-encoded POST forms.
package sheetapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/lanort/pedidos/pkg/enums"
	pkgerrors "github.com/lanort/pedidos/pkg/errors"
)

const (
	defaultTimeout              = 30 * time.Second
	responseBodyReadLimit int64 = 1024
	formContentType             = "application/x-www-form-urlencoded"

	msgUnexpectedShape = "Formato de resposta inesperado"
	msgUnknownError    = "Erro desconhecido"
)

var errBaseURLRequired = errors.New("sheet api base url is required")

// Record is one row as returned by the backend; keys follow the spreadsheet headers.
type Record = map[string]any

// Client wraps the spreadsheet API endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// NewClient builds a client for the endpoint at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		return nil, errBaseURLRequired
	}
	if _, err := url.Parse(trimmed); err != nil {
		return nil, fmt.Errorf("parse sheet api base url: %w", err)
	}

	client := &Client{
		baseURL:    trimmed,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return client, nil
}

// BaseURL returns the configured endpoint.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SubmitResult is the decoded answer to an order POST.
type SubmitResult struct {
	Success     bool
	Error       string
	OrderNumber string
}

// Fetch loads every record of resource.
func (c *Client) Fetch(ctx context.Context, resource enums.Resource) ([]Record, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "sheet api client not configured")
	}
	body, err := c.get(ctx, resource)
	if err != nil {
		return nil, err
	}
	records, err := decodeRecords(body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("load %s", resource))
	}
	return records, nil
}

// Submit posts an order form. A decoded failure envelope is reported on the result,
// not as an error; errors are reserved for HTTP and transport failures.
func (c *Client) Submit(ctx context.Context, form url.Values) (*SubmitResult, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "sheet api client not configured")
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewBufferString(form.Encode()))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build submit request")
	}
	httpReq.Header.Set("Content-Type", formContentType)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute submit request")
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkStatus(resp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "submit request failed")
	}

	var envelope map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode submit response")
	}
	return interpretSubmit(envelope), nil
}

// Probe reads the backend version from `?recurso=teste`.
func (c *Client) Probe(ctx context.Context) (float64, error) {
	if c == nil {
		return 0, pkgerrors.New(pkgerrors.CodeDependency, "sheet api client not configured")
	}
	body, err := c.get(ctx, enums.ResourceProbe)
	if err != nil {
		return 0, err
	}
	var envelope map[string]any
	if err := json.Unmarshal(body, &envelope); err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode probe response")
	}
	if version, ok := versionOf(envelope); ok {
		return version, nil
	}
	if nested, ok := envelope["dados"].(map[string]any); ok {
		if version, ok := versionOf(nested); ok {
			return version, nil
		}
	}
	return 0, pkgerrors.New(pkgerrors.CodeDependency, "probe response has no version")
}

func (c *Client) get(ctx context.Context, resource enums.Resource) ([]byte, error) {
	target, err := c.resourceURL(resource)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build resource url")
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build fetch request")
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("execute %s request", resource))
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkStatus(resp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("%s request failed", resource))
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("read %s response", resource))
	}
	return body, nil
}

func (c *Client) resourceURL(resource enums.Resource) (string, error) {
	parsed, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}
	query := parsed.Query()
	query.Set("recurso", resource.String())
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
	return fmt.Errorf("Erro HTTP: %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
}

func decodeRecords(body []byte) ([]Record, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var records []Record
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, err
		}
		return records, nil
	}

	var envelope struct {
		Dados   json.RawMessage `json:"dados"`
		Sucesso *bool           `json:"sucesso"`
		Erro    string          `json:"erro"`
		Error   string          `json:"error"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, err
	}
	if msg := firstNonEmpty(envelope.Erro, envelope.Error); msg != "" {
		return nil, errors.New(msg)
	}
	if envelope.Sucesso != nil && !*envelope.Sucesso {
		return nil, errors.New(msgUnknownError)
	}
	dados := bytes.TrimSpace(envelope.Dados)
	if len(dados) == 0 || dados[0] != '[' {
		return nil, errors.New(msgUnexpectedShape)
	}
	var records []Record
	if err := json.Unmarshal(dados, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func interpretSubmit(envelope map[string]any) *SubmitResult {
	result := &SubmitResult{Success: true}
	if msg := firstNonEmpty(stringField(envelope, "erro"), stringField(envelope, "error")); msg != "" {
		result.Success = false
		result.Error = msg
	}
	for _, key := range []string{"success", "sucesso"} {
		if flag, ok := envelope[key].(bool); ok && !flag {
			result.Success = false
		}
	}
	if !result.Success && result.Error == "" {
		result.Error = msgUnknownError
	}
	if dados, ok := envelope["dados"].(map[string]any); ok {
		result.OrderNumber = scalarString(dados["numeroPedido"])
	}
	return result
}

func versionOf(m map[string]any) (float64, bool) {
	for _, key := range []string{"versao", "version"} {
		switch v := m[key].(type) {
		case float64:
			return v, true
		case string:
			if parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				return parsed, true
			}
		}
	}
	return 0, false
}

func stringField(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

func scalarString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return fmt.Sprintf("%.0f", t)
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
