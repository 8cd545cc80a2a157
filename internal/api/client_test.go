package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/okellodaniel/customerbase/internal/models"
)

func TestClient_ListPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/customers" {
			t.Errorf("path = %s, want /api/customers", r.URL.Path)
		}
		if got := r.URL.Query().Get("skip"); got != "20" {
			t.Errorf("skip = %s, want 20", got)
		}
		if got := r.URL.Query().Get("limit"); got != "10" {
			t.Errorf("limit = %s, want 10", got)
		}

		json.NewEncoder(w).Encode(models.ListResult{
			Records: []*models.Customer{
				{ID: 21, Name: "Alice", Email: "alice@example.com", Age: 30},
			},
			Total: 25,
			Skip:  20,
			Limit: 10,
		})
	}))
	defer server.Close()

	client := New(server.URL)
	result, err := client.ListPage(context.Background(), 20, 10)
	if err != nil {
		t.Fatalf("ListPage() error = %v", err)
	}

	if result.Total != 25 {
		t.Errorf("total = %d, want 25", result.Total)
	}
	if len(result.Records) != 1 || result.Records[0].ID != 21 {
		t.Errorf("records = %+v", result.Records)
	}
}

func TestClient_ErrorMessageExtraction(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{
			name:    "detail field",
			status:  http.StatusUnprocessableEntity,
			body:    `{"detail": "age is out of range"}`,
			wantMsg: "age is out of range",
		},
		{
			name:    "message field",
			status:  http.StatusBadRequest,
			body:    `{"message": "bad request body"}`,
			wantMsg: "bad request body",
		},
		{
			name:    "nested error message",
			status:  http.StatusConflict,
			body:    `{"error": {"code": "CONFLICT", "message": "email taken"}}`,
			wantMsg: "email taken",
		},
		{
			name:    "empty body falls back to status text",
			status:  http.StatusBadGateway,
			body:    "",
			wantMsg: "Bad Gateway",
		},
		{
			name:    "non-JSON body falls back to status text",
			status:  http.StatusInternalServerError,
			body:    "<html>oops</html>",
			wantMsg: "Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := New(server.URL)
			_, err := client.ListPage(context.Background(), 0, 10)

			var reqErr *RequestError
			if !errors.As(err, &reqErr) {
				t.Fatalf("error = %v, want *RequestError", err)
			}
			if reqErr.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", reqErr.StatusCode, tt.status)
			}
			if reqErr.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", reqErr.Message, tt.wantMsg)
			}
		})
	}
}

func TestClient_CreateRecord(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}

		var draft models.CustomerDraft
		if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
			t.Fatalf("decode draft: %v", err)
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(models.Customer{
			ID: 7, Name: draft.Name, Email: draft.Email, Age: draft.Age,
		})
	}))
	defer server.Close()

	client := New(server.URL)
	created, err := client.CreateRecord(context.Background(), &models.CustomerDraft{
		Name: "Alice", Email: "alice@example.com", Age: 30,
	})
	if err != nil {
		t.Fatalf("CreateRecord() error = %v", err)
	}

	if created.ID != 7 || created.Name != "Alice" {
		t.Errorf("created = %+v", created)
	}
}

func TestClient_UpdateRecord_EmptyPatchSkipsRequest(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	client := New(server.URL)
	_, err := client.UpdateRecord(context.Background(), 1, &models.CustomerPatch{})

	if !errors.Is(err, ErrNoChanges) {
		t.Fatalf("error = %v, want ErrNoChanges", err)
	}
	if requests != 0 {
		t.Errorf("requests = %d, want 0 for an empty patch", requests)
	}
}

func TestClient_UpdateRecord_SendsOnlyChangedFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("method = %s, want PATCH", r.Method)
		}

		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if _, present := body["email"]; present {
			t.Error("email sent, want omitted for an unchanged field")
		}
		if _, present := body["age"]; present {
			t.Error("age sent, want omitted for an unchanged field")
		}
		if body["name"] != "Renamed" {
			t.Errorf("name = %v, want Renamed", body["name"])
		}

		json.NewEncoder(w).Encode(models.Customer{ID: 1, Name: "Renamed", Email: "a@example.com", Age: 30})
	}))
	defer server.Close()

	client := New(server.URL)
	name := "Renamed"
	updated, err := client.UpdateRecord(context.Background(), 1, &models.CustomerPatch{Name: &name})
	if err != nil {
		t.Fatalf("UpdateRecord() error = %v", err)
	}
	if updated.Name != "Renamed" {
		t.Errorf("updated = %+v", updated)
	}
}

func TestClient_DeleteRecord(t *testing.T) {
	t.Run("returns the deleted record", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodDelete {
				t.Errorf("method = %s, want DELETE", r.Method)
			}
			json.NewEncoder(w).Encode(models.Customer{ID: 3, Name: "Gone", Email: "gone@example.com", Age: 44})
		}))
		defer server.Close()

		client := New(server.URL)
		deleted, err := client.DeleteRecord(context.Background(), 3)
		if err != nil {
			t.Fatalf("DeleteRecord() error = %v", err)
		}
		if deleted == nil || deleted.ID != 3 {
			t.Errorf("deleted = %+v, want ID 3", deleted)
		}
	})

	t.Run("204 is a successful empty result", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))
		defer server.Close()

		client := New(server.URL)
		deleted, err := client.DeleteRecord(context.Background(), 3)
		if err != nil {
			t.Fatalf("DeleteRecord() error = %v, want success on 204", err)
		}
		if deleted != nil {
			t.Errorf("deleted = %+v, want nil", deleted)
		}
	})
}
