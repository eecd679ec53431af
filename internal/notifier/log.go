package notifier

import (
	"log/slog"

	"github.com/harshusoma/job-alert-agent/internal/model"
)

// Ensure LogNotifier implements model.Notifier.
var _ model.Notifier = (*LogNotifier)(nil)

// LogNotifier writes the emission batch to the given logger as structured
// messages, one per posting.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a notifier that logs each posting via slog.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs each posting with employer, title, location, URL, and
// posted_at. Returns nil (stdout logging does not fail).
func (n *LogNotifier) Notify(postings []model.Posting) error {
	for _, p := range postings {
		args := []any{
			"employer", p.Employer,
			"title", p.Title,
			"location", p.Location,
			"url", p.URL,
			"ats", p.Source,
		}
		if p.PostedAt != nil {
			args = append(args, "posted_at", *p.PostedAt)
		}
		n.logger.Info("new posting", args...)
	}
	return nil
}
