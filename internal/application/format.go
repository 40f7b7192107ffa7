package application

import (
	"fmt"

	"github.com/forgebyte/relaybot/internal/domain/model"
)

// Embed accent colors, one per event family.
const (
	ColorSuccess = 0x2ECC71
	ColorFailure = 0xE74C3C
	ColorPR      = 0x9B59B6
	ColorBounty  = 0xF1C40F
	ColorIssue   = 0x3498DB
)

// FormatEvent renders the rich message posted to activity and sidebar
// threads.
func FormatEvent(e model.Event) model.Embed {
	switch e.Kind {
	case model.EventWorkflowRun:
		if e.Conclusion == "success" {
			return model.Embed{
				Title:       fmt.Sprintf("✅ CI passed on %s", e.Branch),
				Description: fmt.Sprintf("Workflow **%s** completed successfully.\n%s", e.Workflow, e.URL),
				Color:       ColorSuccess,
			}
		}
		return model.Embed{
			Title:       fmt.Sprintf("❌ CI failed on %s", e.Branch),
			Description: fmt.Sprintf("Workflow **%s** failed.\n%s", e.Workflow, e.URL),
			Color:       ColorFailure,
		}

	case model.EventPullRequest:
		color := ColorPR
		emoji := "🧩"
		if e.HasLabel(BountyLabel) {
			color = ColorBounty
			emoji = "🪙"
		}
		return model.Embed{
			Title:       fmt.Sprintf("%s PR #%d %s: %s", emoji, e.Number, describePRAction(e), e.Title),
			Description: e.URL,
			Color:       color,
			Footer:      fmt.Sprintf("by @%s", e.Actor),
		}

	case model.EventIssues:
		color := ColorIssue
		emoji := "📋"
		if e.HasLabel(BountyLabel) {
			color = ColorBounty
			emoji = "🪙"
		}
		return model.Embed{
			Title:       fmt.Sprintf("%s Issue #%d %s: %s", emoji, e.Number, e.Action, e.Title),
			Description: e.URL,
			Color:       color,
			Footer:      fmt.Sprintf("by @%s", e.Actor),
		}

	case model.EventRelease:
		return model.Embed{
			Title:       fmt.Sprintf("🚀 Release %s", e.TagName),
			Description: fmt.Sprintf("%s\n%s", e.Notes, e.URL),
			Color:       ColorSuccess,
			Footer:      fmt.Sprintf("by @%s", e.Actor),
		}

	default:
		return model.Embed{Title: e.Title, Description: e.URL, Color: ColorIssue}
	}
}

// FormatAnnouncement renders the server-wide announcement variant, which
// leads with the repository so readers outside the project have context.
func FormatAnnouncement(e model.Event) model.Embed {
	repo := e.ShortRepoName()
	switch e.Kind {
	case model.EventRelease:
		return model.Embed{
			Title:       fmt.Sprintf("🚀 %s %s released!", repo, e.TagName),
			Description: fmt.Sprintf("%s\n%s", e.Notes, e.URL),
			Color:       ColorSuccess,
		}
	case model.EventPullRequest:
		return model.Embed{
			Title:       fmt.Sprintf("🪙 Bounty PR in %s: %s", repo, e.Title),
			Description: e.URL,
			Color:       ColorBounty,
		}
	case model.EventIssues:
		return model.Embed{
			Title:       fmt.Sprintf("🪙 Bounty in %s: %s", repo, e.Title),
			Description: e.URL,
			Color:       ColorBounty,
		}
	default:
		return FormatEvent(e)
	}
}

// ActivityThreadName is the reserved pinned-thread name for a project forum.
func ActivityThreadName(projectName string) string {
	return fmt.Sprintf("📦 %s Activity", projectName)
}

func describePRAction(e model.Event) string {
	if e.Action == "closed" && e.Merged {
		return "merged"
	}
	return e.Action
}
