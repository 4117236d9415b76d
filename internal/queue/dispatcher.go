package queue

import (
	"context"
	"log/slog"
	"sync"

	"github.com/maheshrc27/postflow/internal/models"
	"golang.org/x/sync/semaphore"
)

// Dispatch publishes every post of a claimed batch, at most cfg.Concurrency
// at a time, and returns once all of them are done. A failing or panicking
// unit is logged and never affects its siblings; its post may stay in
// posting.
func (q *Queue) Dispatch(ctx context.Context, posts []*models.Post) {
	sem := semaphore.NewWeighted(int64(q.cfg.Concurrency))
	admit := context.WithoutCancel(ctx)

	var wg sync.WaitGroup
	for _, post := range posts {
		// admit never cancels, so Acquire only returns once a slot is free
		_ = sem.Acquire(admit, 1)
		wg.Add(1)

		go func(postID string) {
			defer wg.Done()
			defer sem.Release(1)
			defer func() {
				if r := recover(); r != nil {
					slog.Error("panic processing post", "post_id", postID, "panic", r)
				}
			}()

			if err := q.PublishPost(ctx, postID); err != nil {
				slog.Error("unhandled error processing post", "post_id", postID, "error", err)
			}
		}(post.ID)
	}

	wg.Wait()
}
