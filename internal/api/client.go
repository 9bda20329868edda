package api

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

	"github.com/javiermolinar/coachgrid/internal/program"
)

// StatusError is returned by the client for non-2xx responses.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Code, e.Message)
}

// HTTPClient implements the program store interfaces by calling a
// coachgrid server.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies Store.
var _ Store = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path string, params url.Values, body any) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("httpclient: encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set(APIKeyHeader, c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var payload struct {
			Error string `json:"error"`
		}
		msg := strings.TrimSpace(string(data))
		if json.Unmarshal(data, &payload) == nil && payload.Error != "" {
			msg = payload.Error
		}
		return nil, &StatusError{Code: resp.StatusCode, Message: msg}
	}

	return data, nil
}

// LoadProgram fetches the full aggregate for id.
func (c *HTTPClient) LoadProgram(ctx context.Context, id string) (*program.Program, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/v1/programs/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return nil, notFound(err, program.ErrProgramNotFound, id)
	}

	var p program.Program
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("httpclient: decode program: %w", err)
	}
	return &p, nil
}

// ListPrograms fetches program summaries.
func (c *HTTPClient) ListPrograms(ctx context.Context) ([]program.Summary, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/v1/programs", nil, nil)
	if err != nil {
		return nil, err
	}

	var list []program.Summary
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("httpclient: decode programs: %w", err)
	}
	return list, nil
}

// SearchExercises queries the remote catalog.
func (c *HTTPClient) SearchExercises(ctx context.Context, term string, limit int) (program.ExercisePage, error) {
	params := url.Values{}
	params.Set("q", term)
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	var page program.ExercisePage
	body, err := c.do(ctx, http.MethodGet, "/api/v1/exercises", params, nil)
	if err != nil {
		return page, err
	}
	if err := json.Unmarshal(body, &page); err != nil {
		return page, fmt.Errorf("httpclient: decode exercises: %w", err)
	}
	return page, nil
}

// ExercisesByID resolves catalog entries on the server.
func (c *HTTPClient) ExercisesByID(ctx context.Context, ids []string) (map[string]program.Exercise, error) {
	out := make(map[string]program.Exercise, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	params := url.Values{}
	params.Set("ids", strings.Join(ids, ","))
	body, err := c.do(ctx, http.MethodGet, "/api/v1/exercises", params, nil)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("httpclient: decode exercises: %w", err)
	}
	return out, nil
}

// Apply posts a mutation to the server.
func (c *HTTPClient) Apply(ctx context.Context, m program.Mutation) error {
	_, err := c.do(ctx, http.MethodPost, "/api/v1/programs/"+url.PathEscape(m.ProgramID)+"/mutations", nil, m)
	return err
}

// notFound turns a 404 into target so that callers can use errors.Is.
func notFound(err, target error, id string) error {
	var se *StatusError
	if errors.As(err, &se) && se.Code == http.StatusNotFound {
		return fmt.Errorf("%w: %s", target, id)
	}
	return err
}
