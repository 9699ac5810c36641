package gamification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/founder-prep/backend/internal/models"
	"github.com/gorilla/mux"
)

func completedRequest(t *testing.T, courseID string) *http.Request {
	t.Helper()
	r := httptest.NewRequest("GET", "/api/v1/progress/courses/"+courseID+"/completed", nil)
	r = mux.SetURLVars(r, map[string]string{"id": courseID})
	return r.WithContext(context.WithValue(r.Context(), "user_id", int64(1)))
}

func TestIsCourseCompletedEndpoint(t *testing.T) {
	svc := NewService(newFakeStorage())
	h := NewHandler(svc)

	rr := httptest.NewRecorder()
	h.IsCourseCompleted(rr, completedRequest(t, "startup-fundamentals"))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var resp struct {
		CourseID  string `json:"course_id"`
		Completed bool   `json:"completed"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.CourseID != "startup-fundamentals" || resp.Completed {
		t.Errorf("response = %+v, want startup-fundamentals not completed", resp)
	}

	if _, err := svc.CompleteCourse(1, "startup-fundamentals", models.CompleteCourseRequest{CourseName: "Startup Fundamentals"}); err != nil {
		t.Fatalf("CompleteCourse failed: %v", err)
	}

	rr = httptest.NewRecorder()
	h.IsCourseCompleted(rr, completedRequest(t, "startup-fundamentals"))
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Completed {
		t.Error("course should report completed after certificate issue")
	}
}

func TestIsCourseCompletedEndpointRequiresAuth(t *testing.T) {
	h := NewHandler(NewService(newFakeStorage()))

	r := httptest.NewRequest("GET", "/api/v1/progress/courses/x/completed", nil)
	r = mux.SetURLVars(r, map[string]string{"id": "x"})
	rr := httptest.NewRecorder()
	h.IsCourseCompleted(rr, r)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status without auth = %d, want 401", rr.Code)
	}
}
