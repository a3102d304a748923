package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
)

// fakeBackend serves the subset of the backend REST API the dashboard
// calls. Responses use the backend's {status, data} envelope.
type fakeBackend struct {
	mu        sync.Mutex
	decisions map[string]int
	syncs     int
}

func (f *fakeBackend) decisionCount(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.decisions[id]
}

func (f *fakeBackend) syncCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.syncs
}

func respond(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"status": "success", "data": data})
}

func startBackend(t *testing.T) (*fakeBackend, *httptest.Server) {
	t.Helper()
	backend := &fakeBackend{decisions: map[string]int{}}
	users := map[string]map[string]any{
		"z-hr":  {"id": "h-1", "zohoUserId": "z-hr", "name": "Hema Iyer", "email": "hema@example.com", "role": "Admin", "status": "Active"},
		"z-mgr": {"id": "m-1", "zohoUserId": "z-mgr", "name": "Ravi Kumar", "email": "ravi@example.com", "role": "Manager", "status": "Active"},
		"z-emp": {"id": "e-1", "zohoUserId": "z-emp", "name": "Asha Rao", "email": "asha@example.com", "role": "Team Member", "status": "Active", "managerId": "m-1"},
	}
	reportees := map[string][]map[string]any{
		"h-1": {{"_id": "m-1", "name": "Ravi Kumar", "email": "ravi@example.com", "role": "Manager"}},
		"m-1": {{"_id": "e-1", "name": "Asha Rao", "email": "asha@example.com", "role": "Team Member"}},
	}

	r := chi.NewRouter()
	r.Post("/auth/login-by-zoho-id", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			ZohoUserID string `json:"zohoUserId"`
		}
		_ = json.NewDecoder(req.Body).Decode(&body)
		user, ok := users[body.ZohoUserID]
		if !ok {
			respond(w, http.StatusNotFound, nil)
			return
		}
		respond(w, http.StatusOK, user)
	})
	r.Get("/kras/user/{employeeID}", func(w http.ResponseWriter, req *http.Request) {
		id := chi.URLParam(req, "employeeID")
		respond(w, http.StatusOK, map[string]any{
			"employee": map[string]any{"id": id, "name": "Employee " + id},
			"kras": []map[string]any{
				{"id": "k-1", "kraName": "Delivery", "goals": []map[string]any{
					{"id": "g-1", "goalNameOnZoho": "Ship v2", "status": "Active", "zohoProgress": 40, "dueDate": "2026-12-01"},
					{"id": "g-2", "goalNameOnZoho": "Cut latency", "status": "Closed", "zohoProgress": 100},
				}},
			},
		})
	})
	r.Get("/employees/{employeeID}/reportees", func(w http.ResponseWriter, req *http.Request) {
		list := reportees[chi.URLParam(req, "employeeID")]
		if list == nil {
			list = []map[string]any{}
		}
		respond(w, http.StatusOK, list)
	})
	r.Get("/employees", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data":     []map[string]any{{"_id": "e-1", "name": "Asha Rao", "email": "asha@example.com", "role": req.URL.Query().Get("role")}},
			"metadata": map[string]any{"total": 1, "page": 1, "limit": 100, "totalPages": 1},
		})
	})
	r.Post("/goals", func(w http.ResponseWriter, req *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(req.Body).Decode(&body)
		respond(w, http.StatusCreated, map[string]any{"id": "g-new", "goalNameOnZoho": body["goalName"], "priority": body["priority"]})
	})
	r.Patch("/goals/due-date-requests/{requestID}", func(w http.ResponseWriter, req *http.Request) {
		id := chi.URLParam(req, "requestID")
		backend.mu.Lock()
		backend.decisions[id]++
		backend.mu.Unlock()
		respond(w, http.StatusOK, map[string]any{"_id": id, "status": "APPROVED"})
	})
	r.Patch("/goals/{goalID}", func(w http.ResponseWriter, req *http.Request) {
		respond(w, http.StatusOK, map[string]any{"id": chi.URLParam(req, "goalID"), "goalNameOnZoho": "Updated"})
	})
	r.Get("/goals/due-date-requests", func(w http.ResponseWriter, req *http.Request) {
		respond(w, http.StatusOK, []map[string]any{{"_id": "r-1", "status": "PENDING", "proposedDueDate": "2026-12-20"}})
	})
	r.Get("/goals/my-due-date-requests", func(w http.ResponseWriter, req *http.Request) {
		respond(w, http.StatusOK, []map[string]any{})
	})
	r.Get("/feedback/received", func(w http.ResponseWriter, req *http.Request) {
		respond(w, http.StatusOK, []map[string]any{
			{"_id": "f-1", "rating": 5, "isAnonymous": true, "providerId": map[string]any{"_id": "m-1", "firstName": "Ravi"}},
		})
	})
	r.Get("/feedback/given", func(w http.ResponseWriter, req *http.Request) {
		respond(w, http.StatusOK, []map[string]any{})
	})
	r.Post("/sync/employees", func(w http.ResponseWriter, req *http.Request) {
		backend.mu.Lock()
		backend.syncs++
		backend.mu.Unlock()
		respond(w, http.StatusOK, map[string]any{"status": "success", "recordsProcessed": 12})
	})
	r.Get("/sync/employees/history", func(w http.ResponseWriter, req *http.Request) {
		respond(w, http.StatusOK, map[string]any{
			"history": []map[string]any{{"_id": "s-1", "syncType": "employees", "status": "success"}},
			"count":   1,
		})
	})

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return backend, server
}
