package webhook

import (
	"io"
	"net/http"

	gh "github.com/google/go-github/v82/github"

	"github.com/forgebyte/relaybot/internal/application"
	"github.com/forgebyte/relaybot/internal/domain/model"
)

// GitHubWebhook terminates GitHub event deliveries. The signature is checked
// against the raw body before any parsing. Once a delivery is authenticated
// and classified the response is always 200, even when routing fails, so
// GitHub does not retry events we have already accepted.
func (h *Handler) GitHubWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable body")
		return
	}

	if !application.VerifyGitHubSignature(h.githubSecret, body, r.Header.Get("X-Hub-Signature-256")) {
		h.logger.Warn("github webhook signature verification failed")
		writeError(w, http.StatusUnauthorized, "invalid signature")
		return
	}

	eventType := r.Header.Get("X-GitHub-Event")
	payload, err := gh.ParseWebHook(eventType, body)
	if err != nil {
		h.logger.Warn("unparseable github payload", "event", eventType, "error", err)
		writeJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	event, ok := normalizeEvent(payload)
	if !ok {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	if err := h.dispatcher.Dispatch(r.Context(), event); err != nil {
		h.logger.Error("dispatch failed", "repo", event.RepoFullName, "kind", event.Kind, "error", err)
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "accepted"})
}

// normalizeEvent maps a parsed go-github payload to the routing core's event
// type. Unhandled payload kinds report ok=false.
func normalizeEvent(payload any) (model.Event, bool) {
	switch e := payload.(type) {
	case *gh.ReleaseEvent:
		return mapRelease(e), true
	case *gh.PullRequestEvent:
		return mapPullRequest(e), true
	case *gh.IssuesEvent:
		return mapIssues(e), true
	case *gh.WorkflowRunEvent:
		return mapWorkflowRun(e), true
	default:
		return model.Event{}, false
	}
}

func mapRelease(e *gh.ReleaseEvent) model.Event {
	return model.Event{
		Kind:         model.EventRelease,
		Action:       e.GetAction(),
		RepoFullName: e.GetRepo().GetFullName(),
		Actor:        e.GetSender().GetLogin(),
		URL:          e.GetRelease().GetHTMLURL(),
		TagName:      e.GetRelease().GetTagName(),
		Notes:        e.GetRelease().GetBody(),
	}
}

func mapPullRequest(e *gh.PullRequestEvent) model.Event {
	pr := e.GetPullRequest()

	labels := make([]string, 0, len(pr.Labels))
	for _, l := range pr.Labels {
		labels = append(labels, l.GetName())
	}

	return model.Event{
		Kind:         model.EventPullRequest,
		Action:       e.GetAction(),
		RepoFullName: e.GetRepo().GetFullName(),
		Actor:        e.GetSender().GetLogin(),
		Number:       pr.GetNumber(),
		Title:        pr.GetTitle(),
		URL:          pr.GetHTMLURL(),
		Labels:       labels,
		Merged:       pr.GetMerged(),
	}
}

func mapIssues(e *gh.IssuesEvent) model.Event {
	issue := e.GetIssue()

	labels := make([]string, 0, len(issue.Labels))
	for _, l := range issue.Labels {
		labels = append(labels, l.GetName())
	}

	return model.Event{
		Kind:         model.EventIssues,
		Action:       e.GetAction(),
		RepoFullName: e.GetRepo().GetFullName(),
		Actor:        e.GetSender().GetLogin(),
		Number:       issue.GetNumber(),
		Title:        issue.GetTitle(),
		URL:          issue.GetHTMLURL(),
		Labels:       labels,
	}
}

func mapWorkflowRun(e *gh.WorkflowRunEvent) model.Event {
	run := e.GetWorkflowRun()

	return model.Event{
		Kind:         model.EventWorkflowRun,
		Action:       e.GetAction(),
		RepoFullName: e.GetRepo().GetFullName(),
		Actor:        e.GetSender().GetLogin(),
		URL:          run.GetHTMLURL(),
		Branch:       run.GetHeadBranch(),
		Workflow:     run.GetName(),
		Conclusion:   run.GetConclusion(),
	}
}
