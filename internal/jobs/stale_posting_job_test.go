package job

import (
	"testing"
	"time"

	"github.com/maheshrc27/postflow/internal/models"
	"github.com/maheshrc27/postflow/internal/repository/repotest"
	"github.com/stretchr/testify/assert"
)

func TestReportStalePosts(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := repotest.NewPostStore()
	store.Put(&models.Post{ID: "old", Status: models.PostStatusPosting, UpdatedAt: now.Add(-time.Hour)})
	store.Put(&models.Post{ID: "fresh", Status: models.PostStatusPosting, UpdatedAt: now.Add(-time.Minute)})
	store.Put(&models.Post{ID: "done", Status: models.PostStatusPosted, UpdatedAt: now.Add(-time.Hour)})

	job := NewStalePostingJob(store, 15*time.Minute)
	job.now = func() time.Time { return now }

	assert.Equal(t, 1, job.ReportStalePosts())
	assert.Equal(t, models.PostStatusPosting, store.Get("old").Status, "report must not touch rows")
}
