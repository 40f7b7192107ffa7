package model

// EventKind identifies the GitHub event family, matching the values of the
// X-GitHub-Event header.
type EventKind string

const (
	EventRelease     EventKind = "release"
	EventPullRequest EventKind = "pull_request"
	EventIssues      EventKind = "issues"
	EventWorkflowRun EventKind = "workflow_run"
)

// Event is a GitHub webhook payload normalized down to the fields the routing
// core decides on. Fields that do not apply to a kind are left zero.
type Event struct {
	Kind         EventKind
	Action       string
	RepoFullName string
	Actor        string // sender login
	Number       int    // PR/issue number
	Title        string // PR/issue title
	URL          string // html_url of the PR/issue/release/run
	Labels       []string
	Merged       bool   // pull_request only
	Branch       string // workflow_run head branch
	Workflow     string // workflow_run name
	Conclusion   string // workflow_run conclusion
	TagName      string // release tag
	Notes        string // release body
}

// HasLabel reports whether the event carries a label with exactly this name.
func (e Event) HasLabel(name string) bool {
	for _, l := range e.Labels {
		if l == name {
			return true
		}
	}
	return false
}

// ShortRepoName returns the repository name without its owner prefix.
func (e Event) ShortRepoName() string {
	return ShortName(e.RepoFullName)
}
