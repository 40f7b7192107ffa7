package application_test

import (
	"testing"

	"github.com/forgebyte/relaybot/internal/application"
	"github.com/forgebyte/relaybot/internal/domain/model"
	"github.com/stretchr/testify/assert"
)

func TestIsBotActor(t *testing.T) {
	tests := []struct {
		actor string
		want  bool
	}{
		{"dependabot[bot]", true},
		{"Dependabot", true},
		{"renovate-bot", true},
		{"github-actions[bot]", true},
		{"alice", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.actor, func(t *testing.T) {
			got := application.IsBotActor(model.Event{Actor: tt.actor})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestShouldLog(t *testing.T) {
	tests := []struct {
		name  string
		event model.Event
		want  bool
	}{
		{"workflow completed success", model.Event{Kind: model.EventWorkflowRun, Action: "completed", Conclusion: "success"}, true},
		{"workflow completed failure", model.Event{Kind: model.EventWorkflowRun, Action: "completed", Conclusion: "failure"}, true},
		{"workflow in progress", model.Event{Kind: model.EventWorkflowRun, Action: "in_progress"}, false},
		{"workflow cancelled", model.Event{Kind: model.EventWorkflowRun, Action: "completed", Conclusion: "cancelled"}, false},
		{"pr any action", model.Event{Kind: model.EventPullRequest, Action: "synchronize"}, true},
		{"issue any action", model.Event{Kind: model.EventIssues, Action: "closed"}, true},
		{"release any action", model.Event{Kind: model.EventRelease, Action: "created"}, true},
		{"unknown kind", model.Event{Kind: "ping"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, application.ShouldLog(tt.event))
		})
	}
}

func TestShouldPost(t *testing.T) {
	tests := []struct {
		name  string
		event model.Event
		want  bool
	}{
		{"workflow success on main", model.Event{Kind: model.EventWorkflowRun, Action: "completed", Conclusion: "success", Branch: "main"}, true},
		{"workflow failure on master", model.Event{Kind: model.EventWorkflowRun, Action: "completed", Conclusion: "failure", Branch: "master"}, true},
		{"workflow success on feature branch", model.Event{Kind: model.EventWorkflowRun, Action: "completed", Conclusion: "success", Branch: "feat/x"}, false},
		{"workflow in progress on main", model.Event{Kind: model.EventWorkflowRun, Action: "in_progress", Branch: "main"}, false},
		{"pr opened", model.Event{Kind: model.EventPullRequest, Action: "opened", Actor: "alice"}, true},
		{"pr labeled", model.Event{Kind: model.EventPullRequest, Action: "labeled", Actor: "alice"}, true},
		{"pr merged", model.Event{Kind: model.EventPullRequest, Action: "closed", Merged: true, Actor: "alice"}, true},
		{"pr closed unmerged", model.Event{Kind: model.EventPullRequest, Action: "closed", Merged: false, Actor: "alice"}, false},
		{"pr opened by bot", model.Event{Kind: model.EventPullRequest, Action: "opened", Actor: "dependabot[bot]"}, false},
		{"issue opened", model.Event{Kind: model.EventIssues, Action: "opened"}, true},
		{"issue labeled", model.Event{Kind: model.EventIssues, Action: "labeled"}, true},
		{"issue closed", model.Event{Kind: model.EventIssues, Action: "closed"}, false},
		{"release published", model.Event{Kind: model.EventRelease, Action: "published"}, true},
		{"release created", model.Event{Kind: model.EventRelease, Action: "created"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, application.ShouldPost(tt.event))
		})
	}
}

func TestShouldAnnounce(t *testing.T) {
	tests := []struct {
		name  string
		event model.Event
		want  bool
	}{
		{"release", model.Event{Kind: model.EventRelease, Action: "published"}, true},
		{"issue with bounty", model.Event{Kind: model.EventIssues, Action: "labeled", Labels: []string{"bounty"}}, true},
		{"issue without bounty", model.Event{Kind: model.EventIssues, Action: "labeled", Labels: []string{"bug"}}, false},
		{"pr with bounty", model.Event{Kind: model.EventPullRequest, Action: "opened", Labels: []string{"bounty"}}, true},
		{"pr without labels", model.Event{Kind: model.EventPullRequest, Action: "opened"}, false},
		{"workflow run", model.Event{Kind: model.EventWorkflowRun, Action: "completed", Conclusion: "success"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, application.ShouldAnnounce(tt.event))
		})
	}
}

func TestMilestoneTitle(t *testing.T) {
	tests := []struct {
		name  string
		event model.Event
		want  string
	}{
		{"ci passed", model.Event{Kind: model.EventWorkflowRun, Conclusion: "success"}, "CI Passed"},
		{"ci failed", model.Event{Kind: model.EventWorkflowRun, Conclusion: "failure"}, "CI Failed"},
		{"pr bounty wins over action", model.Event{Kind: model.EventPullRequest, Action: "opened", Labels: []string{"bounty"}}, "PR with bounty"},
		{"pr opened", model.Event{Kind: model.EventPullRequest, Action: "opened"}, "PR Opened"},
		{"pr labeled", model.Event{Kind: model.EventPullRequest, Action: "labeled"}, "PR Labeled"},
		{"pr merged", model.Event{Kind: model.EventPullRequest, Action: "closed", Merged: true}, "PR Merged"},
		{"issue bounty", model.Event{Kind: model.EventIssues, Action: "opened", Labels: []string{"bounty"}}, "Issue with bounty"},
		{"issue labeled", model.Event{Kind: model.EventIssues, Action: "labeled"}, "Issue Labeled"},
		{"issue opened", model.Event{Kind: model.EventIssues, Action: "opened"}, "Issue Opened"},
		{"release", model.Event{Kind: model.EventRelease}, "Releases"},
		{"unknown", model.Event{Kind: "ping"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, application.MilestoneTitle(tt.event))
		})
	}
}
