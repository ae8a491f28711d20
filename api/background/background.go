package background

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

// Background runs fire-and-forget jobs (notification emails mostly) off the
// request path and lets the server drain them on shutdown.
type Background struct {
	log logrus.FieldLogger
	wg  sync.WaitGroup
}

func New(log logrus.FieldLogger) *Background {
	return &Background{log: log}
}

func (b *Background) Add(job func() error) {
	b.wg.Add(1)

	go func() {
		defer b.wg.Done()

		defer func() {
			if rec := recover(); rec != nil {
				b.log.Errorf("background job panicked: %v", rec)
			}
		}()

		if err := job(); err != nil {
			b.log.Errorf("background job failed: %v", err)
		}
	}()
}

// Shutdown blocks until all pending jobs finish or the context expires.
func (b *Background) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
