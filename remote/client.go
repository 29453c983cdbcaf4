// Package remote talks to the spreadsheet-backed cloud store: a script web
// app that takes an action name plus parameters on the query string and
// answers with a JSON envelope.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

// Client defines the cloud store actions.
type Client interface {
	GetData(ctx context.Context) (Snapshot, error)
	SaveVolunteer(ctx context.Context, record VolunteerRecord) error
	DeleteVolunteer(ctx context.Context, id string) error
	SaveHours(ctx context.Context, record HoursRecord) error
	DeleteHours(ctx context.Context, volunteerID, entryID string) error
	SaveShift(ctx context.Context, record ShiftRecord) error
	DeleteShift(ctx context.Context, id string) error
	ApplyForShift(ctx context.Context, shiftID, volunteerID, notes string) error
	RemoveApplicant(ctx context.Context, shiftID, volunteerID string) error
	GetPendingReviews(ctx context.Context) ([]PendingShift, error)
	SubmitShiftReview(ctx context.Context, review ShiftReview) (int, error)
}

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type ClientConfig struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	HTTPClient httpDoer
}

type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient httpDoer
}

// APIError is a well-formed response with success=false.
type APIError struct {
	Action  string
	Message string
}

func (e *APIError) Error() string {
	message := e.Message
	if message == "" {
		message = "no error message"
	}
	return fmt.Sprintf("remote %s failed: %s", e.Action, message)
}

func NewClient(cfg ClientConfig) (*HTTPClient, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		return nil, errors.New("remote URL is required")
	}

	parsedBase, err := url.Parse(baseURL)
	if err != nil || parsedBase.Scheme == "" || parsedBase.Host == "" {
		return nil, fmt.Errorf("invalid remote URL %q", cfg.BaseURL)
	}

	doer := cfg.HTTPClient
	if doer == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		doer = &http.Client{Timeout: timeout}
	}

	return &HTTPClient{
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		httpClient: doer,
	}, nil
}

type envelope struct {
	Success       bool            `json:"success"`
	Error         string          `json:"error"`
	Data          json.RawMessage `json:"data"`
	PendingShifts []PendingShift  `json:"pendingShifts"`
	HoursLogged   int             `json:"hoursLogged"`
}

func (c *HTTPClient) GetData(ctx context.Context) (Snapshot, error) {
	result, err := c.call(ctx, "getData", nil)
	if err != nil {
		return Snapshot{}, err
	}
	var snapshot Snapshot
	if len(result.Data) == 0 {
		return snapshot, nil
	}
	if err := json.Unmarshal(result.Data, &snapshot); err != nil {
		return Snapshot{}, fmt.Errorf("decode getData payload: %w", err)
	}
	return snapshot, nil
}

func (c *HTTPClient) SaveVolunteer(ctx context.Context, record VolunteerRecord) error {
	// Hours travel separately; they would overflow the query string.
	record.Hours = nil
	_, err := c.call(ctx, "saveVolunteer", map[string]any{"data": record})
	return err
}

func (c *HTTPClient) DeleteVolunteer(ctx context.Context, id string) error {
	_, err := c.call(ctx, "deleteVolunteer", map[string]any{"id": id})
	return err
}

func (c *HTTPClient) SaveHours(ctx context.Context, record HoursRecord) error {
	_, err := c.call(ctx, "saveHours", map[string]any{"data": record})
	return err
}

func (c *HTTPClient) DeleteHours(ctx context.Context, volunteerID, entryID string) error {
	_, err := c.call(ctx, "deleteHours", map[string]any{"volunteerId": volunteerID, "entryId": entryID})
	return err
}

func (c *HTTPClient) SaveShift(ctx context.Context, record ShiftRecord) error {
	_, err := c.call(ctx, "saveShift", map[string]any{"data": record})
	return err
}

func (c *HTTPClient) DeleteShift(ctx context.Context, id string) error {
	_, err := c.call(ctx, "deleteShift", map[string]any{"id": id})
	return err
}

func (c *HTTPClient) ApplyForShift(ctx context.Context, shiftID, volunteerID, notes string) error {
	_, err := c.call(ctx, "applyForShift", map[string]any{"shiftId": shiftID, "volunteerId": volunteerID, "notes": notes})
	return err
}

func (c *HTTPClient) RemoveApplicant(ctx context.Context, shiftID, volunteerID string) error {
	_, err := c.call(ctx, "removeApplicant", map[string]any{"shiftId": shiftID, "volunteerId": volunteerID})
	return err
}

func (c *HTTPClient) GetPendingReviews(ctx context.Context) ([]PendingShift, error) {
	result, err := c.call(ctx, "getPendingReviews", nil)
	if err != nil {
		return nil, err
	}
	return result.PendingShifts, nil
}

// SubmitShiftReview returns how many hours entries the remote logged.
func (c *HTTPClient) SubmitShiftReview(ctx context.Context, review ShiftReview) (int, error) {
	result, err := c.call(ctx, "submitShiftReview", map[string]any{"data": review})
	if err != nil {
		return 0, err
	}
	return result.HoursLogged, nil
}

// EncodeParams builds the query string for an action. Strings are sent as
// is, anything else as JSON. Nil values are dropped.
func EncodeParams(action, apiKey string, params map[string]any) (url.Values, error) {
	values := url.Values{}
	values.Set("action", action)
	if apiKey != "" {
		values.Set("apiKey", apiKey)
	}

	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		switch value := params[key].(type) {
		case nil:
			continue
		case string:
			values.Set(key, value)
		default:
			payload, err := json.Marshal(value)
			if err != nil {
				return nil, fmt.Errorf("marshal %s parameter %s: %w", action, key, err)
			}
			values.Set(key, string(payload))
		}
	}
	return values, nil
}

func (c *HTTPClient) call(ctx context.Context, action string, params map[string]any) (envelope, error) {
	query, err := EncodeParams(action, c.apiKey, params)
	if err != nil {
		return envelope{}, err
	}

	endpoint, err := url.Parse(c.baseURL)
	if err != nil {
		return envelope{}, fmt.Errorf("parse remote URL: %w", err)
	}
	existing := endpoint.Query()
	for key, values := range query {
		existing[key] = values
	}
	endpoint.RawQuery = existing.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return envelope{}, fmt.Errorf("create request %s: %w", action, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return envelope{}, fmt.Errorf("request %s failed: %w", action, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		responseBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return envelope{}, fmt.Errorf(
			"request %s failed with status %d: %s",
			action,
			resp.StatusCode,
			strings.TrimSpace(string(responseBody)),
		)
	}

	var result envelope
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return envelope{}, fmt.Errorf("decode response %s: %w", action, err)
	}
	if !result.Success {
		return result, &APIError{Action: action, Message: result.Error}
	}
	return result, nil
}
