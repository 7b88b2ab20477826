package scheduler

import (
	"context"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/KotFed0t/trade_journal/utils"
	"github.com/go-co-op/gocron/v2"
)

type taskFn func(ctx context.Context) error

type Scheduler struct {
	scheduler gocron.Scheduler
	timeout   time.Duration
}

// New creates a scheduler whose job runs are cancelled after timeout; zero means no limit.
func New(timeout time.Duration) *Scheduler {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		panic(err.Error())
	}
	return &Scheduler{scheduler: scheduler, timeout: timeout}
}

func (s *Scheduler) Start() {
	s.scheduler.Start()
}

func (s *Scheduler) Stop() {
	if err := s.scheduler.Shutdown(); err != nil {
		slog.Error("Scheduler shutdown error", slog.String("err", err.Error()))
	}
}

func (s *Scheduler) Jobs() int {
	return len(s.scheduler.Jobs())
}

func (s *Scheduler) createJob(jobDefinition gocron.JobDefinition, name string, fn taskFn, startImmediately bool) {
	opts := []gocron.JobOption{
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	}

	if startImmediately {
		opts = append(opts, gocron.WithStartAt(gocron.WithStartImmediately()))
	}

	_, err := s.scheduler.NewJob(
		jobDefinition,
		gocron.NewTask(s.taskWithRecover(fn, name)),
		opts...,
	)

	if err != nil {
		slog.Error("Scheduler creating job error", slog.String("jobName", name))
		panic(err.Error())
	}
}

// NewIntervalJob registers fn to run every interval. A non-positive interval disables the job.
func (s *Scheduler) NewIntervalJob(name string, fn taskFn, interval time.Duration, startImmediately bool) {
	if interval <= 0 {
		slog.Info("job disabled", slog.String("jobName", name))
		return
	}
	s.createJob(gocron.DurationJob(interval), name, fn, startImmediately)
}

func (s *Scheduler) NewCrontabJob(name string, fn taskFn, crontab string, startImmediately bool) {
	s.createJob(gocron.CronJob(crontab, true), name, fn, startImmediately)
}

func (s *Scheduler) taskWithRecover(fn taskFn, jobName string) func(ctx context.Context) {
	return func(ctx context.Context) {
		defer func() {
			if r := recover(); r != nil {
				slog.Error(
					"Panic recovered in scheduler job",
					slog.String("jobName", jobName),
					slog.Any("panic", r),
					slog.String("stacktrace", string(debug.Stack())),
				)
			}
		}()

		ctx = utils.WithRequestID(ctx, "")
		if s.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.timeout)
			defer cancel()
		}

		rqID := utils.GetRequestIDFromCtx(ctx)
		slog.Info("job start", slog.String("jobName", jobName), slog.String("rqID", rqID))

		err := fn(ctx)
		if err != nil {
			slog.Error("job failed", slog.String("jobName", jobName), slog.String("rqID", rqID), slog.Any("error", err))
		} else {
			slog.Info("job completed", slog.String("jobName", jobName), slog.String("rqID", rqID))
		}
	}
}
