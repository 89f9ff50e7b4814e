package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"CryptoRelay/internal/model"
	"CryptoRelay/internal/notifier"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Parser accepts 5 or 6 field cron specs and descriptors such as "@every 5m".
var Parser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// JobKind tags the refresh action bound to a schedule entry.
type JobKind int

const (
	JobSheetRefresh JobKind = iota + 1
	JobReportRefresh
)

func (k JobKind) String() string {
	switch k {
	case JobSheetRefresh:
		return "sheet refresh"
	case JobReportRefresh:
		return "report refresh"
	default:
		return fmt.Sprintf("job(%d)", int(k))
	}
}

// Job is a single refresh action. It reports what it achieved or why it did not.
type Job func(ctx context.Context) (model.Outcome, error)

// ScheduleEntry binds a job to its recurrence and next due time.
type ScheduleEntry struct {
	Kind     JobKind
	Spec     string
	Schedule cron.Schedule
	NextDue  time.Time
	Action   Job
}

// Alerter forwards failed cycles to an operator channel.
type Alerter interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler owns the schedule table and runs due entries one at a time.
type Scheduler struct {
	Entries []*ScheduleEntry
	Tick    time.Duration
	Logger  *zap.Logger
	Alerter Alerter
	Now     func() time.Time

	triggers chan JobKind
}

// NewScheduler creates a new Scheduler polling every tick.
func NewScheduler(tick time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		Tick:     tick,
		Logger:   logger.Named("scheduler"),
		Now:      time.Now,
		triggers: make(chan JobKind, 8),
	}
}

// Register adds an entry first due one interval from now.
func (s *Scheduler) Register(kind JobKind, spec string, action Job) error {
	for _, e := range s.Entries {
		if e.Kind == kind {
			return fmt.Errorf("%s already registered", kind)
		}
	}
	sched, err := Parser.Parse(spec)
	if err != nil {
		return fmt.Errorf("parse %s schedule %q: %w", kind, spec, err)
	}
	entry := &ScheduleEntry{
		Kind:     kind,
		Spec:     spec,
		Schedule: sched,
		NextDue:  sched.Next(s.Now()),
		Action:   action,
	}
	s.Entries = append(s.Entries, entry)
	s.Logger.Info("registered job",
		zap.Stringer("job", kind), zap.String("spec", spec), zap.Time("next_due", entry.NextDue))
	return nil
}

// RegisterAll registers the sheet and report refresh jobs.
func (s *Scheduler) RegisterAll(jobs *Jobs, sheetSpec, reportSpec string) error {
	if err := s.Register(JobSheetRefresh, sheetSpec, jobs.RefreshSheet); err != nil {
		return fmt.Errorf("register sheet task: %w", err)
	}
	if err := s.Register(JobReportRefresh, reportSpec, jobs.RefreshReport); err != nil {
		return fmt.Errorf("register report task: %w", err)
	}
	return nil
}

// RunPending runs every entry due at now, in registration order, and
// reschedules each from the time its action finished.
func (s *Scheduler) RunPending(ctx context.Context, now time.Time) {
	for _, e := range s.Entries {
		if now.Before(e.NextDue) {
			continue
		}
		s.dispatch(ctx, e)
		e.NextDue = e.Schedule.Next(s.Now())
	}
}

// RunNow executes the entry of the given kind immediately without
// touching its schedule.
func (s *Scheduler) RunNow(ctx context.Context, kind JobKind) bool {
	for _, e := range s.Entries {
		if e.Kind == kind {
			s.dispatch(ctx, e)
			return true
		}
	}
	return false
}

// RunAllNow executes every registered entry once (RUN_ON_START).
func (s *Scheduler) RunAllNow(ctx context.Context) {
	for _, e := range s.Entries {
		s.dispatch(ctx, e)
	}
}

// Trigger queues a manual run for the dispatch loop. It never blocks and
// returns false when the queue is full.
func (s *Scheduler) Trigger(kind JobKind) bool {
	select {
	case s.triggers <- kind:
		return true
	default:
		return false
	}
}

// Run polls the schedule table every tick until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.Tick)
	defer ticker.Stop()
	s.Logger.Info("scheduler started", zap.Duration("tick", s.Tick), zap.Int("entries", len(s.Entries)))

	for {
		select {
		case <-ctx.Done():
			s.Logger.Info("scheduler stopped")
			return
		case kind := <-s.triggers:
			if !s.RunNow(ctx, kind) {
				s.Logger.Warn("trigger for unregistered job", zap.Stringer("job", kind))
			}
		case <-ticker.C:
			s.RunPending(ctx, s.Now())
		}
	}
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	var kind JobKind
	switch command {
	case "/sheet":
		kind = JobSheetRefresh
	case "/report":
		kind = JobReportRefresh
	default:
		return "Available commands:\n• /sheet - refresh the live sheet now\n• /report - publish a report now"
	}
	if !s.Trigger(kind) {
		return fmt.Sprintf("%s not queued: too many pending requests", kind)
	}
	return fmt.Sprintf("%s queued", kind)
}

// dispatch runs one action and logs its outcome. A failing or panicking
// action never escapes into the loop.
func (s *Scheduler) dispatch(ctx context.Context, e *ScheduleEntry) {
	log := s.Logger.With(zap.Stringer("job", e.Kind), zap.String("cycle", uuid.NewString()))
	start := s.Now()

	outcome, err := s.safeRun(ctx, e.Action)
	took := s.Now().Sub(start)

	switch {
	case err == nil:
		log.Info("cycle completed", zap.String("outcome", string(outcome)), zap.Duration("took", took))
	case errors.Is(err, model.ErrEmptySnapshot):
		log.Warn("cycle skipped", zap.Error(err))
	case e.Kind == JobReportRefresh:
		log.Error("cycle failed", zap.Error(err), zap.Duration("took", took), zap.Stack("stacktrace"))
		s.alert(ctx, e.Kind, err)
	default:
		log.Error("cycle failed", zap.Error(err), zap.Duration("took", took))
		s.alert(ctx, e.Kind, err)
	}
}

func (s *Scheduler) safeRun(ctx context.Context, job Job) (outcome model.Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			outcome = model.OutcomeSkipped
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return job(ctx)
}

func (s *Scheduler) alert(ctx context.Context, kind JobKind, err error) {
	if s.Alerter == nil {
		return
	}
	if sendErr := s.Alerter.SendWithRetry(ctx, notifier.FormatCycleAlert(kind.String(), err), 2); sendErr != nil {
		s.Logger.Error("send alert", zap.Error(sendErr))
	}
}
