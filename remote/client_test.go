package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"voltrack/volunteer"
)

type fakeDoer struct {
	fn func(r *http.Request) (*http.Response, error)
}

func (f fakeDoer) Do(r *http.Request) (*http.Response, error) {
	return f.fn(r)
}

func jsonResponse(body string) *http.Response {
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func newTestClient(t *testing.T, fn func(r *http.Request) (*http.Response, error)) *HTTPClient {
	t.Helper()
	client, err := NewClient(ClientConfig{
		BaseURL:    "https://script.example.com/macros/s/abc/exec",
		APIKey:     "secret",
		HTTPClient: fakeDoer{fn: fn},
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestNewClientValidatesURL(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "   ", "not a url", "/relative/path"} {
		if _, err := NewClient(ClientConfig{BaseURL: raw}); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestSaveVolunteerEncodesQuery(t *testing.T) {
	t.Parallel()

	var seen *http.Request
	client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		seen = r
		return jsonResponse(`{"success":true,"id":"v1"}`), nil
	})

	record := VolunteerFromModel(volunteer.Volunteer{
		ID: "v1", Name: "Ann Lee", Phone: "0400", Email: "N/A", Address: "N/A", Suburb: "Carlton", EmergencyContact: "N/A",
		Hours: []volunteer.HoursEntry{{ID: "h1", Date: "2026-03-01", CheckIn: "09:00", CheckOut: "10:00"}},
	})
	if err := client.SaveVolunteer(context.Background(), record); err != nil {
		t.Fatalf("save volunteer: %v", err)
	}

	if seen.Method != http.MethodGet {
		t.Fatalf("expected GET, got %s", seen.Method)
	}
	query := seen.URL.Query()
	if query.Get("action") != "saveVolunteer" || query.Get("apiKey") != "secret" {
		t.Fatalf("unexpected query: %v", query)
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(query.Get("data")), &data); err != nil {
		t.Fatalf("data param is not JSON: %v", err)
	}
	if data["name"] != "Ann Lee" || data["email"] != "" || data["suburb"] != "Carlton" {
		t.Fatalf("unexpected data payload: %v", data)
	}
	if _, ok := data["hours"]; ok {
		t.Fatalf("hours must not be sent with the volunteer: %v", data)
	}
}

func TestDeleteHoursSendsPlainParams(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		query := r.URL.Query()
		if query.Get("action") != "deleteHours" || query.Get("volunteerId") != "v1" || query.Get("entryId") != "h1" {
			t.Fatalf("unexpected query: %v", query)
		}
		return jsonResponse(`{"success":true}`), nil
	})

	if err := client.DeleteHours(context.Background(), "v1", "h1"); err != nil {
		t.Fatalf("delete hours: %v", err)
	}
}

func TestCallReportsRemoteFailure(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		return jsonResponse(`{"success":false,"error":"Shift not found"}`), nil
	})

	err := client.DeleteShift(context.Background(), "missing")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Action != "deleteShift" || apiErr.Message != "Shift not found" {
		t.Fatalf("unexpected APIError: %+v", apiErr)
	}
}

func TestCallReportsHTTPStatus(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusBadGateway,
			Body:       io.NopCloser(strings.NewReader("upstream down")),
		}, nil
	})

	err := client.DeleteVolunteer(context.Background(), "v1")
	if err == nil || !strings.Contains(err.Error(), "502") || !strings.Contains(err.Error(), "upstream down") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestGetDataDecodesLooseCells(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		if r.URL.Query().Get("action") != "getData" {
			t.Fatalf("unexpected action %q", r.URL.Query().Get("action"))
		}
		return jsonResponse(`{
			"success": true,
			"data": {
				"volunteers": [{
					"id": "v1", "name": "Ann Lee", "phone": 400111222, "email": "ann@example.com",
					"address": "", "suburb": "", "emergencyContact": "",
					"hours": [{"id": "h1", "date": "2026-03-01T13:00:00.000Z", "checkIn": "9:00 AM", "checkOut": "12:00", "breakStart": null, "breakEnd": null}]
				}],
				"shifts": [{
					"id": "s1", "date": "2026-03-05", "startTime": "09:00", "endTime": "13:00",
					"volunteersNeeded": 3, "description": "", "breakStart": null, "breakEnd": null,
					"applicants": [{"volunteerId": "v1", "volunteerName": "Ann Lee", "notes": "", "appliedAt": "2026-03-01T00:00:00Z"}],
					"createdAt": "2026-02-28T10:00:00Z"
				}],
				"managers": ["boss@example.com"],
				"lastUpdated": "2026-03-01T10:00:00Z"
			}
		}`), nil
	})

	snapshot, err := client.GetData(context.Background())
	if err != nil {
		t.Fatalf("get data: %v", err)
	}
	if len(snapshot.Volunteers) != 1 || snapshot.Volunteers[0].Phone != "400111222" {
		t.Fatalf("unexpected volunteers: %+v", snapshot.Volunteers)
	}
	hours := snapshot.Volunteers[0].Hours
	if len(hours) != 1 || hours[0].BreakStart != "" || hours[0].CheckIn != "9:00 AM" {
		t.Fatalf("unexpected hours: %+v", hours)
	}
	if len(snapshot.Shifts) != 1 || snapshot.Shifts[0].VolunteersNeeded != 3 || len(snapshot.Shifts[0].Applicants) != 1 {
		t.Fatalf("unexpected shifts: %+v", snapshot.Shifts)
	}
}

func TestPendingReviewsAndSubmit(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		switch r.URL.Query().Get("action") {
		case "getPendingReviews":
			return jsonResponse(`{"success":true,"pendingShifts":[{"id":"s1","date":"5 Mar 2026","rawDate":"2026-03-05","startTime":"09:00","endTime":"13:00","applicants":[{"volunteerId":"v1","volunteerName":"Ann","notes":""}]}]}`), nil
		case "submitShiftReview":
			var review ShiftReview
			if err := json.Unmarshal([]byte(r.URL.Query().Get("data")), &review); err != nil {
				t.Fatalf("decode review: %v", err)
			}
			if review.ShiftID != "s1" || len(review.Attendees) != 1 || review.Attendees[0].CheckIn != "09:00" {
				t.Fatalf("unexpected review: %+v", review)
			}
			return jsonResponse(`{"success":true,"hoursLogged":1,"message":"Successfully logged hours for 1 volunteer(s)"}`), nil
		default:
			t.Fatalf("unexpected action %q", r.URL.Query().Get("action"))
			return nil, nil
		}
	})

	pending, err := client.GetPendingReviews(context.Background())
	if err != nil {
		t.Fatalf("pending reviews: %v", err)
	}
	if len(pending) != 1 || pending[0].RawDate != "2026-03-05" || len(pending[0].Applicants) != 1 {
		t.Fatalf("unexpected pending shifts: %+v", pending)
	}

	logged, err := client.SubmitShiftReview(context.Background(), ShiftReview{
		ShiftID:   "s1",
		Attendees: []Attendee{{VolunteerID: "v1", CheckIn: "09:00", CheckOut: "13:00"}},
	})
	if err != nil {
		t.Fatalf("submit review: %v", err)
	}
	if logged != 1 {
		t.Fatalf("expected 1 hours logged, got %d", logged)
	}
}

func TestEncodeParamsSkipsNil(t *testing.T) {
	t.Parallel()

	values, err := EncodeParams("applyForShift", "", map[string]any{"shiftId": "s1", "notes": nil, "count": 2})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if values.Has("notes") || values.Has("apiKey") {
		t.Fatalf("unexpected params: %v", values)
	}
	if values.Get("count") != "2" || values.Get("shiftId") != "s1" {
		t.Fatalf("unexpected params: %v", values)
	}
}

func TestShiftFromModel(t *testing.T) {
	t.Parallel()

	created := time.Date(2026, 2, 28, 21, 0, 0, 0, time.FixedZone("AEDT", 11*3600))
	record := ShiftFromModel(volunteer.Shift{
		ID: "s1", Date: "2026-03-05", StartTime: "09:00", EndTime: "13:00", VolunteersNeeded: 4, CreatedAt: created,
	})
	if record.CreatedAt != "2026-02-28T10:00:00Z" {
		t.Fatalf("expected UTC timestamp, got %q", record.CreatedAt)
	}
	if record.Applicants == nil {
		t.Fatalf("applicants must encode as an empty list")
	}
}
