package batch

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/yassine-ta/credentialforge/pkg/types"
)

// Run validates, plans and executes the batch, blocking until every job
// has a result. Cancellation stops dispatch; jobs already handed to a
// worker finish, and every undispatched job is recorded as cancelled so
// the report still accounts for all N jobs.
func (o *Orchestrator) Run(ctx context.Context) (types.Report, error) {
	started := time.Now()
	report := types.Report{
		BatchID:   uuid.NewString(),
		StartedAt: started,
	}

	if err := o.cfg.Validate(o.credentials, o.synths); err != nil {
		return report, err
	}

	epoch := o.cfg.SeedTime
	if epoch.IsZero() {
		epoch = started
	}
	jobs := Plan(o.cfg, epoch, o.synths)

	workers, err := o.resolveWorkers()
	if err != nil {
		return report, err
	}
	report.Workers = workers

	o.log.Info().
		Str("batch_id", report.BatchID).
		Int("jobs", len(jobs)).
		Int("workers", workers).
		Time("epoch", epoch).
		Msg("starting batch")

	exec := &executor{
		credentials: o.credentials,
		content:     o.content,
		synths:      o.synths,
		strategy:    o.cfg.EmbedStrategy,
		timeout:     o.cfg.JobTimeout,
		log:         o.log,
	}

	var (
		agg       aggregator
		wg        sync.WaitGroup
		completed atomic.Int64
	)
	work := make(chan types.Job, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range work {
				agg.Add(exec.Execute(ctx, job))
				if n := completed.Add(1); n%50 == 0 {
					o.log.Debug().Int64("completed", n).Int("total", len(jobs)).Msg("batch progress")
				}
			}
		}()
	}

	cancelled := false
dispatch:
	for _, job := range jobs {
		select {
		case work <- job:
		case <-ctx.Done():
			cancelled = true
			o.log.Warn().Int("dispatched", job.Index).Msg("batch cancelled, draining in-flight jobs")
			agg.Add(failure(job, types.StageContent, types.KindCancelled, "job not dispatched: batch cancelled"))
			for _, rest := range jobs[job.Index+1:] {
				agg.Add(failure(rest, types.StageContent, types.KindCancelled, "job not dispatched: batch cancelled"))
			}
			break dispatch
		}
	}
	close(work)
	wg.Wait()

	report.Cancelled = cancelled || ctx.Err() != nil
	report.Duration = time.Since(started)
	agg.Finalize(&report)

	o.log.Info().
		Int("files", report.TotalFiles).
		Int("failures", len(report.Failures)).
		Dur("duration", report.Duration).
		Bool("cancelled", report.Cancelled).
		Msg("batch finished")
	return report, nil
}

func (o *Orchestrator) resolveWorkers() (int, error) {
	if o.cfg.Sequential {
		return 1, nil
	}
	if o.cfg.Workers > 0 {
		if o.cfg.Workers > o.hardCap() {
			return o.hardCap(), nil
		}
		return o.cfg.Workers, nil
	}
	return WorkerCount(DetectCPUs(), o.cfg.MemoryLimit, o.cfg.PerWorkerEstimate, o.cfg.HardCap)
}

func (o *Orchestrator) hardCap() int {
	if o.cfg.HardCap > 0 {
		return o.cfg.HardCap
	}
	return DefaultHardCap
}
