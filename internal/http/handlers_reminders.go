package http

import (
	"net/http"

	"fintrack/internal/core"
	"fintrack/internal/reminders"
)

func (s *Server) handleListReminders(w http.ResponseWriter, r *http.Request) {
	rs, err := s.reminders.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	statuses := reminders.Describe(rs, s.now())
	out := make([]reminderResponse, 0, len(statuses))
	for _, st := range statuses {
		out = append(out, toReminderResponse(st))
	}
	writeJSON(w, http.StatusOK, map[string][]reminderResponse{"reminders": out})
}

func (s *Server) handleGetReminder(w http.ResponseWriter, r *http.Request) {
	rem, err := s.reminders.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.reminderView(rem))
}

func (s *Server) handleCreateReminder(w http.ResponseWriter, r *http.Request) {
	rem, ok := s.decodeReminder(w, r)
	if !ok {
		return
	}
	created, err := s.reminders.Create(r.Context(), rem)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, s.reminderView(created))
}

func (s *Server) handleUpdateReminder(w http.ResponseWriter, r *http.Request) {
	rem, ok := s.decodeReminder(w, r)
	if !ok {
		return
	}
	updated, err := s.reminders.Update(r.Context(), r.PathValue("id"), rem)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.reminderView(updated))
}

func (s *Server) handleDeleteReminder(w http.ResponseWriter, r *http.Request) {
	if err := s.reminders.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) decodeReminder(w http.ResponseWriter, r *http.Request) (core.Reminder, bool) {
	var req reminderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return core.Reminder{}, false
	}
	rem, err := req.reminder()
	if err != nil {
		writeError(w, r, err)
		return core.Reminder{}, false
	}
	return rem, true
}

func (s *Server) reminderView(rem core.Reminder) reminderResponse {
	return toReminderResponse(reminders.Describe([]core.Reminder{rem}, s.now())[0])
}
