package slack_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/buddyguard/pkg/domain/model"
	"github.com/secmon-lab/buddyguard/pkg/domain/types"
	svcslack "github.com/secmon-lab/buddyguard/pkg/service/slack"
)

func testIncident() *model.Incident {
	return &model.Incident{
		ID:           "inc-1",
		StudentName:  "Juan dela Cruz",
		GradeSection: "Grade 10 - A",
		IncidentType: types.IncidentTypeBullying,
		Description:  "Physical confrontation in the hallway after lunch.",
		Date:         "2025-02-10",
		Status:       types.IncidentStatusNew,
		Severity:     types.SeverityHigh,
		ReportedBy:   types.RoleAnonymous,
	}
}

func TestNotifyIncident(t *testing.T) {
	var form url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gt.True(t, strings.HasSuffix(r.URL.Path, "/chat.postMessage"))
		gt.NoError(t, r.ParseForm())
		form = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "channel": "C123", "ts": "1.0"})
	}))
	defer server.Close()

	svc := svcslack.New("xoxb-test", "C123", svcslack.WithAPIURL(server.URL+"/"))
	gt.NoError(t, svc.NotifyIncident(context.Background(), testIncident()))

	gt.Equal(t, form.Get("channel"), "C123")
	blocks := form.Get("blocks")
	gt.S(t, blocks).Contains("Bullying")
	gt.S(t, blocks).Contains("Grade 10")
	gt.S(t, blocks).Contains("Anonymous")
	gt.False(t, strings.Contains(blocks, "Juan"))
	gt.False(t, strings.Contains(form.Get("text"), "Juan"))
}

func TestNotifyIncident_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "error": "channel_not_found"})
	}))
	defer server.Close()

	svc := svcslack.New("xoxb-test", "C404", svcslack.WithAPIURL(server.URL+"/"))
	gt.Error(t, svc.NotifyIncident(context.Background(), testIncident()))
}

func TestGetSeverityEmoji(t *testing.T) {
	gt.Equal(t, svcslack.GetSeverityEmoji(types.SeverityHigh), "🚨")
	gt.Equal(t, svcslack.GetSeverityEmoji(types.SeverityLow), "ℹ️")
	gt.Equal(t, svcslack.GetSeverityEmoji("x"), "❓")
}
