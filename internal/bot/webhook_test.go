package bot

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"dancemax/internal/modules/schedule"
)

func TestWebhookAlwaysAcknowledges(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	b := &Bot{}
	b.RegisterWebhook(r.Group("/"))

	for _, body := range []string{"not json at all", `{"update_id": 1}`} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/bot/webhook", strings.NewReader(body))
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("body %q: status = %d, want 200", body, w.Code)
		}
	}
}

func TestFormatLessonLine(t *testing.T) {
	l := &schedule.LessonResponse{
		StartTime: "18:00",
		EndTime:   "19:00",
		Direction: &schedule.DirectionBrief{Name: "Hip-Hop"},
		Teacher:   &schedule.TeacherBrief{Name: "Aizhan"},
		SpotsLeft: 3,
	}

	line := formatLessonLine(l)
	if line != "18:00-19:00  Hip-Hop (Aizhan)" {
		t.Fatalf("unexpected line: %q", line)
	}

	l.SpotsLeft = 0
	if got := formatLessonLine(l); !strings.Contains(got, "full") {
		t.Fatalf("expected full marker, got %q", got)
	}

	l.IsCancelled = true
	if got := formatLessonLine(l); !strings.Contains(got, "cancelled") {
		t.Fatalf("expected cancelled marker, got %q", got)
	}
}
