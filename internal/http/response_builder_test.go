package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHTMXResponseBuilderDefaults(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHTMXResponse().BodyHTML("<div>ok</div>").Write(rec)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", got)
	}
	if rec.Header().Get("HX-Trigger") != "" {
		t.Error("HX-Trigger set without triggers")
	}
}

func TestHTMXResponseBuilderTriggers(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHTMXResponse().
		TriggerBudgetChanged().
		TriggerSuccessNotification("Bilancio salvato").
		Write(rec)

	header := rec.Header().Get("HX-Trigger")
	var triggers map[string]interface{}
	if err := json.Unmarshal([]byte(header), &triggers); err != nil {
		t.Fatalf("HX-Trigger is not JSON: %q", header)
	}
	if _, ok := triggers["budget:changed"]; !ok {
		t.Error("missing budget:changed trigger")
	}
	notif, ok := triggers["show-notification"].(map[string]interface{})
	if !ok {
		t.Fatal("missing show-notification trigger")
	}
	if notif["type"] != "success" || notif["message"] != "Bilancio salvato" {
		t.Errorf("notification = %v", notif)
	}
}

func TestErrorResponseEscapesMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	BadRequestError(`<script>alert("x")</script>`).Write(rec)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "<script>") {
		t.Error("message not escaped")
	}
}

func TestMethodNotAllowedError(t *testing.T) {
	rec := httptest.NewRecorder()
	MethodNotAllowedError("POST").Write(rec)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
	if got := rec.Header().Get("Allow"); got != "POST" {
		t.Errorf("Allow = %q", got)
	}
}
