package job

import (
	"context"
	"log/slog"
	"time"

	"github.com/maheshrc27/postflow/internal/repository"
)

// StalePostingJob reports posts stuck in posting for longer than the
// threshold. Such rows were claimed by a worker that died or lost its store
// connection mid-batch. They are only reported; recovering them is left to an
// operator.
type StalePostingJob struct {
	pr    repository.PostRepository
	after time.Duration
	now   func() time.Time
}

func NewStalePostingJob(pr repository.PostRepository, after time.Duration) *StalePostingJob {
	return &StalePostingJob{
		pr:    pr,
		after: after,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// ReportStalePosts is the cron entry point. It returns how many stale posts
// were found, or -1 when the store could not be queried.
func (j *StalePostingJob) ReportStalePosts() int {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := j.now().Add(-j.after)
	posts, err := j.pr.ListStalePosting(ctx, cutoff)
	if err != nil {
		slog.Info(err.Error())
		return -1
	}

	for _, p := range posts {
		slog.Warn("post stuck in posting",
			"post_id", p.ID,
			"platform", p.Platform,
			"retry_count", p.RetryCount,
			"since", p.UpdatedAt)
	}
	if len(posts) > 0 {
		slog.Warn("stale posting rows found", "count", len(posts), "older_than", j.after)
	}
	return len(posts)
}
