package scheduler

import (
	"log"

	"github.com/robfig/cron/v3"

	"github.com/kmartindale/SceneIt/internal/jobs"
)

// Scheduler enqueues periodic maintenance tasks on cron schedules.
type Scheduler struct {
	cron  *cron.Cron
	queue *jobs.Queue
}

func New(queue *jobs.Queue) *Scheduler {
	return &Scheduler{cron: cron.New(), queue: queue}
}

// Start registers the airing-status refresh on the given cron spec and
// begins the scheduler loop.
func (s *Scheduler) Start(airingSpec string) error {
	_, err := s.cron.AddFunc(airingSpec, func() {
		if err := s.queue.Enqueue(jobs.TaskRefreshAiring, jobs.RefreshAiringPayload{}); err != nil {
			log.Printf("scheduler: enqueue airing refresh: %v", err)
		}
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
