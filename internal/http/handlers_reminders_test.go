package http

import (
	"net/http"
	"testing"
)

const rentReminder = `{"title": "Rent", "amount": "950", "dueDate": "2026-01-17", "recurrence": "monthly", "emailEnabled": true, "userEmail": "me@example.com"}`

func TestReminderCRUD(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.do(t, http.MethodPost, "/api/reminders", rentReminder)
	expectStatus(t, rr, http.StatusCreated)
	created := decode[reminderResponse](t, rr)
	if created.ID == "" || created.Amount != "950.00" || created.RecurrenceLabel != "Monthly" {
		t.Fatalf("unexpected reminder %+v", created)
	}
	if created.DaysUntil != 2 || created.Urgency != "due_soon" || created.EmailSent {
		t.Errorf("status fields: %+v", created)
	}

	rr = ts.do(t, http.MethodGet, "/api/reminders/"+created.ID, "")
	expectStatus(t, rr, http.StatusOK)

	rr = ts.do(t, http.MethodPut, "/api/reminders/"+created.ID, `{"title": "Rent", "dueDate": "2026-01-10", "recurrence": "once"}`)
	expectStatus(t, rr, http.StatusOK)
	updated := decode[reminderResponse](t, rr)
	if updated.ID != created.ID || updated.Urgency != "overdue" || updated.Amount != "" || updated.RecurrenceLabel != "One-time" {
		t.Errorf("unexpected update %+v", updated)
	}

	list := decode[map[string][]reminderResponse](t, ts.do(t, http.MethodGet, "/api/reminders", ""))["reminders"]
	if len(list) != 1 || list[0].DaysUntil != -5 {
		t.Fatalf("list = %+v", list)
	}

	expectStatus(t, ts.do(t, http.MethodDelete, "/api/reminders/"+created.ID, ""), http.StatusNoContent)
	expectStatus(t, ts.do(t, http.MethodGet, "/api/reminders/"+created.ID, ""), http.StatusNotFound)
	expectStatus(t, ts.do(t, http.MethodDelete, "/api/reminders/"+created.ID, ""), http.StatusNotFound)
}

func TestReminderValidation(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"empty title", `{"title": "  ", "dueDate": "2026-01-17", "recurrence": "once"}`, "title"},
		{"missing due date", `{"title": "Rent", "recurrence": "once"}`, "dueDate"},
		{"bad recurrence", `{"title": "Rent", "dueDate": "2026-01-17", "recurrence": "weekly"}`, "recurrence"},
		{"email required", `{"title": "Rent", "dueDate": "2026-01-17", "emailEnabled": true}`, "userEmail"},
		{"negative amount", `{"title": "Rent", "dueDate": "2026-01-17", "amount": -1}`, "amount"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			rr := ts.do(t, http.MethodPost, "/api/reminders", tt.body)
			expectStatus(t, rr, http.StatusUnprocessableEntity)
			if got := decode[errorBody](t, rr); got.Field != tt.field {
				t.Errorf("field = %q, want %q", got.Field, tt.field)
			}
		})
	}
}

func TestUpdateMissingReminder(t *testing.T) {
	ts := newTestServer(t)
	expectStatus(t, ts.do(t, http.MethodPut, "/api/reminders/nope", rentReminder), http.StatusNotFound)
}
