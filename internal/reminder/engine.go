package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/davrill/taskhub-api/internal/domain"
	"github.com/davrill/taskhub-api/internal/email"
)

// EngineConfig holds the knobs of the deadline notification engine.
type EngineConfig struct {
	// Interval is the period between scheduled scan cycles.
	// If zero, defaults to 10 minutes.
	Interval time.Duration

	// CycleTimeout bounds the total duration of one cycle so a slow store
	// cannot stack cycles without limit. If zero, defaults to 5 minutes.
	CycleTimeout time.Duration

	// FrontendURL, when set, is used for the dashboard links embedded in
	// notification emails.
	FrontendURL string
}

// CycleReport summarizes one scan cycle for observability. Email outcomes
// are side values here: they never influence whether the in-app
// notification was persisted.
type CycleReport struct {
	StartedAt time.Time
	Duration  time.Duration

	// Scanned is the number of candidate tasks returned by both sub-scans.
	Scanned int
	// Notified is the number of notifications persisted this cycle.
	Notified int
	// Suppressed is the number of candidates the deduplication gate dropped.
	Suppressed int
	// Skipped counts candidates with no assignee or a NONE classification.
	Skipped int
	// Failures counts per-task processing errors (gate or store failures).
	Failures int

	// EmailsSent, EmailsFailed and EmailsSkipped record dispatch outcomes
	// for the notifications persisted this cycle.
	EmailsSent    int
	EmailsFailed  int
	EmailsSkipped int

	// ScanErrors carries sub-scan query failures. A failed sub-scan ends
	// that sub-scan early; the other one still runs.
	ScanErrors []error
}

// Engine orchestrates the periodic deadline notification cycles.
//
// Cycles within one process are serialized: the startup one-shot and the
// periodic trigger share a mutex, so the gate's read-then-write sequence
// for a (task, kind) pair is never interleaved by this process. Overlap
// across processes is absorbed by the deduplication window.
type Engine struct {
	tasks         TaskSource
	users         UserSource
	notifications NotificationStore
	dispatcher    email.Dispatcher
	gate          *Gate
	logger        *slog.Logger
	cfg           EngineConfig

	// now is injectable for tests; defaults to time.Now.
	now func() time.Time

	mu    sync.Mutex // guards cron lifecycle
	runMu sync.Mutex // serializes cycles within this process
	cron  *cron.Cron
	wg    sync.WaitGroup
}

// NewEngine creates a deadline notification engine.
func NewEngine(
	tasks TaskSource,
	users UserSource,
	notifications NotificationStore,
	dispatcher email.Dispatcher,
	cfg EngineConfig,
	logger *slog.Logger,
) *Engine {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for Engine")
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 10 * time.Minute
	}
	if cfg.CycleTimeout <= 0 {
		cfg.CycleTimeout = 5 * time.Minute
	}

	return &Engine{
		tasks:         tasks,
		users:         users,
		notifications: notifications,
		dispatcher:    dispatcher,
		gate:          NewGate(notifications),
		logger:        logger.With(slog.String("component", "reminder_engine")),
		cfg:           cfg,
		now:           time.Now,
	}
}

// Start launches one immediate cycle and then schedules cycles at the
// configured interval. Calling Start twice is a no-op.
func (e *Engine) Start() error {
	e.mu.Lock()
	if e.cron != nil {
		e.mu.Unlock()
		return nil
	}
	e.cron = cron.New()
	c := e.cron
	e.mu.Unlock()

	_, err := c.AddFunc(fmt.Sprintf("@every %s", e.cfg.Interval), func() {
		e.RunCycle(context.Background())
	})
	if err != nil {
		return fmt.Errorf("failed to schedule reminder cycles: %w", err)
	}

	// One immediate cycle at startup, same as every scheduled one.
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		e.RunCycle(context.Background())
	}()

	c.Start()
	e.logger.Info("reminder engine started", "interval", e.cfg.Interval.String())
	return nil
}

// Stop halts the periodic trigger and waits for the in-flight cycle, if
// any, to finish.
func (e *Engine) Stop() {
	e.mu.Lock()
	c := e.cron
	e.cron = nil
	e.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
	}
	e.wg.Wait()
	e.logger.Info("reminder engine stopped")
}

// RunCycle executes one full scan-classify-gate-dispatch cycle and returns
// its report. This is also the externally-triggerable entry point used by
// the manual trigger endpoint and by tests.
//
// Nothing in a cycle is fatal: sub-scan failures are reported and logged,
// per-task failures are isolated, and the next scheduled cycle retries the
// same candidates against a fresh "now".
func (e *Engine) RunCycle(ctx context.Context) CycleReport {
	e.runMu.Lock()
	defer e.runMu.Unlock()

	now := e.now().UTC()
	report := CycleReport{StartedAt: now}

	ctx, cancel := context.WithTimeout(ctx, e.cfg.CycleTimeout)
	defer cancel()

	e.logger.Debug("reminder cycle starting")

	// Upcoming first, then overdue, both always attempted.
	e.scanUpcoming(ctx, now, &report)
	e.scanOverdue(ctx, now, &report)

	report.Duration = e.now().UTC().Sub(now)
	e.logger.Info("reminder cycle finished",
		"scanned", report.Scanned,
		"notified", report.Notified,
		"suppressed", report.Suppressed,
		"skipped", report.Skipped,
		"failures", report.Failures,
		"emails_sent", report.EmailsSent,
		"emails_failed", report.EmailsFailed,
		"scan_errors", len(report.ScanErrors),
		"duration", report.Duration.String())

	return report
}

// scanUpcoming processes tasks due within the next 24 hours.
func (e *Engine) scanUpcoming(ctx context.Context, now time.Time, report *CycleReport) {
	tasks, err := e.tasks.ListDueBetween(ctx, now, now.Add(UpcomingWindow))
	if err != nil {
		e.logger.Error("upcoming scan query failed", "error", err)
		report.ScanErrors = append(report.ScanErrors, fmt.Errorf("upcoming scan: %w", err))
		return
	}

	e.logger.Debug("upcoming scan", "candidates", len(tasks))
	for _, task := range tasks {
		report.Scanned++
		e.processTask(ctx, task, now, report)
	}
}

// scanOverdue processes tasks already past their due date.
func (e *Engine) scanOverdue(ctx context.Context, now time.Time, report *CycleReport) {
	tasks, err := e.tasks.ListDueBefore(ctx, now)
	if err != nil {
		e.logger.Error("overdue scan query failed", "error", err)
		report.ScanErrors = append(report.ScanErrors, fmt.Errorf("overdue scan: %w", err))
		return
	}

	e.logger.Debug("overdue scan", "candidates", len(tasks))
	for _, task := range tasks {
		report.Scanned++
		e.processTask(ctx, task, now, report)
	}
}

// processTask runs the classify-gate-record-dispatch sequence for one task.
// Any failure here is counted and logged but never propagated, so the
// remaining tasks in the batch are always attempted.
func (e *Engine) processTask(ctx context.Context, task *domain.Task, now time.Time, report *CycleReport) {
	if task.AssigneeID == nil {
		// Nothing to notify.
		report.Skipped++
		return
	}

	classification := Classify(now, task)
	if classification.Threshold == ThresholdNone {
		report.Skipped++
		return
	}

	kind := classification.Threshold.Kind()
	assigneeID := *task.AssigneeID

	allowed, err := e.gate.Allow(ctx, task.ID, assigneeID, kind, now)
	if err != nil {
		e.logger.Error("gate check failed",
			"task_id", task.ID,
			"kind", kind,
			"error", err)
		report.Failures++
		return
	}
	if !allowed {
		e.logger.Debug("notification suppressed by dedup window",
			"task_id", task.ID,
			"kind", kind)
		report.Suppressed++
		return
	}

	message := notificationMessage(task.Title, classification)
	link := fmt.Sprintf("/tasks/%s", task.ID)

	notification, err := domain.NewNotification(assigneeID, &task.ID, kind, message, link)
	if err != nil {
		e.logger.Error("failed to build notification",
			"task_id", task.ID,
			"error", err)
		report.Failures++
		return
	}

	// Step one, the durable user-visible record. If this fails there is
	// nothing to email about.
	if err := e.notifications.Create(ctx, notification); err != nil {
		e.logger.Error("failed to persist notification",
			"task_id", task.ID,
			"kind", kind,
			"error", err)
		report.Failures++
		return
	}
	report.Notified++

	// Step two, best-effort email. Outcomes are recorded on the report and
	// never undo the write above.
	e.dispatchEmail(ctx, task, assigneeID, classification, report)
}

// dispatchEmail sends the kind-specific email for a freshly persisted
// notification and records the outcome.
func (e *Engine) dispatchEmail(
	ctx context.Context,
	task *domain.Task,
	assigneeID uuid.UUID,
	classification Classification,
	report *CycleReport,
) {
	assignee, err := e.users.GetByID(ctx, assigneeID)
	if err != nil {
		e.logger.Error("failed to load assignee for email",
			"task_id", task.ID,
			"user_id", assigneeID,
			"error", err)
		report.EmailsFailed++
		return
	}

	var (
		subject string
		body    string
	)
	switch classification.Threshold {
	case ThresholdUpcoming:
		subject = email.DeadlineSubject(task.Title)
		body, err = email.DeadlineBody(task.Title, classification.Magnitude, e.dashboardURL())
	case ThresholdOverdue:
		subject = email.OverdueSubject(task.Title)
		body, err = email.OverdueBody(task.Title, classification.Magnitude, e.dashboardURL())
	}
	if err != nil {
		e.logger.Error("failed to render reminder email",
			"task_id", task.ID,
			"error", err)
		report.EmailsFailed++
		return
	}

	result := e.dispatcher.Send(ctx, assignee.Email, subject, body)
	switch {
	case result.Success:
		report.EmailsSent++
		e.logger.Debug("reminder email sent",
			"task_id", task.ID,
			"user_id", assigneeID)
	case result.Skipped:
		report.EmailsSkipped++
	default:
		report.EmailsFailed++
		e.logger.Warn("reminder email failed",
			"task_id", task.ID,
			"user_id", assigneeID,
			"error", result.Err)
	}
}

// dashboardURL builds the link embedded in emails, empty when no frontend
// is configured.
func (e *Engine) dashboardURL() string {
	if e.cfg.FrontendURL == "" {
		return ""
	}
	return e.cfg.FrontendURL + "/dashboard"
}

// notificationMessage builds the in-app message text, magnitude included.
func notificationMessage(title string, c Classification) string {
	if c.Threshold == ThresholdOverdue {
		return fmt.Sprintf("Task %q is overdue by %d day(s)", title, c.Magnitude)
	}
	return fmt.Sprintf("Task %q is due in %d hours", title, c.Magnitude)
}
