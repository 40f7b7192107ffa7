package application

import (
	"strings"

	"github.com/forgebyte/relaybot/internal/domain/model"
)

// BountyLabel marks issues and pull requests that should be announced to the
// wider server, not just logged in the project's own channels.
const BountyLabel = "bounty"

// botActors are substrings matched case-insensitively against the event
// actor. Automated actors are kept out of activity threads to avoid noise.
var botActors = []string{"dependabot", "renovate", "github-actions"}

// IsBotActor reports whether the event was produced by a known automation
// account rather than a human.
func IsBotActor(e model.Event) bool {
	actor := strings.ToLower(e.Actor)
	for _, bot := range botActors {
		if strings.Contains(actor, bot) {
			return true
		}
	}
	return false
}

// ShouldLog reports whether the event belongs in the project's activity
// thread. Workflow runs only qualify once completed with a definite
// conclusion; everything else of a known kind qualifies.
func ShouldLog(e model.Event) bool {
	switch e.Kind {
	case model.EventWorkflowRun:
		if e.Action != "completed" {
			return false
		}
		return e.Conclusion == "success" || e.Conclusion == "failure"
	case model.EventPullRequest, model.EventIssues, model.EventRelease:
		return true
	default:
		return false
	}
}

// ShouldPost reports whether the event warrants its own sidebar milestone
// thread. This is stricter than ShouldLog: milestone threads track notable
// transitions, not every touch.
func ShouldPost(e model.Event) bool {
	switch e.Kind {
	case model.EventWorkflowRun:
		if !ShouldLog(e) {
			return false
		}
		return e.Branch == "main" || e.Branch == "master"
	case model.EventPullRequest:
		if IsBotActor(e) {
			return false
		}
		return e.Action == "opened" || e.Action == "labeled" || (e.Action == "closed" && e.Merged)
	case model.EventIssues:
		return e.Action == "opened" || e.Action == "labeled"
	case model.EventRelease:
		return e.Action == "published"
	default:
		return false
	}
}

// ShouldAnnounce reports whether the event goes to the server-wide
// announcements channel. Releases always announce; issues and pull requests
// announce only when carrying the bounty label.
func ShouldAnnounce(e model.Event) bool {
	switch e.Kind {
	case model.EventRelease:
		return true
	case model.EventIssues, model.EventPullRequest:
		return e.HasLabel(BountyLabel)
	default:
		return false
	}
}

// MilestoneTitle names the sidebar thread an event belongs to. Events that
// share a title share a thread; the mapping is the grouping key for the
// sidebar.
func MilestoneTitle(e model.Event) string {
	switch e.Kind {
	case model.EventWorkflowRun:
		if e.Conclusion == "success" {
			return "CI Passed"
		}
		return "CI Failed"
	case model.EventPullRequest:
		if e.HasLabel(BountyLabel) {
			return "PR with bounty"
		}
		switch e.Action {
		case "opened":
			return "PR Opened"
		case "labeled":
			return "PR Labeled"
		default:
			return "PR Merged"
		}
	case model.EventIssues:
		if e.HasLabel(BountyLabel) {
			return "Issue with bounty"
		}
		if e.Action == "labeled" {
			return "Issue Labeled"
		}
		return "Issue Opened"
	case model.EventRelease:
		return "Releases"
	default:
		return ""
	}
}
