package scheduler

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/ayos-surigao/ayos-api/config"
	"github.com/ayos-surigao/ayos-api/databases"
	"github.com/ayos-surigao/ayos-api/models"
	templates "github.com/ayos-surigao/ayos-api/templates/html"
)

// Scheduler handles periodic background jobs for the operations center
type Scheduler struct {
	cron       *cron.Cron
	RDB        databases.ReportDatabase
	SDB        databases.StaffDatabase
	LockDB     databases.SchedulerLockDatabase
	Config     *config.Config
	instanceID string
}

// NewScheduler creates a new scheduler instance
func NewScheduler(
	rDB databases.ReportDatabase,
	sDB databases.StaffDatabase,
	lockDB databases.SchedulerLockDatabase,
	cfg *config.Config,
) *Scheduler {
	// Generate a unique instance ID for this pod
	instanceID := os.Getenv("DYNO") // Heroku sets this to "web.1", "web.2", etc.
	if instanceID == "" {
		instanceID = fmt.Sprintf("instance-%d", time.Now().UnixNano())
	}

	return &Scheduler{
		cron:       cron.New(cron.WithLocation(time.UTC)),
		RDB:        rDB,
		SDB:        sDB,
		LockDB:     lockDB,
		Config:     cfg,
		instanceID: instanceID,
	}
}

// Start begins the scheduler with all registered jobs
func (s *Scheduler) Start() {
	// Critical-backlog digest for the ops inbox daily at 3 AM UTC
	_, err := s.cron.AddFunc("0 3 * * *", s.sendCriticalDigest)
	if err != nil {
		zap.S().Errorw("failed to register critical digest job", "error", err)
	}

	// Remind operations managers about untriaged submissions daily at 2 AM UTC
	_, err = s.cron.AddFunc("0 2 * * *", s.remindStaleSubmissions)
	if err != nil {
		zap.S().Errorw("failed to register stale submission job", "error", err)
	}

	s.cron.Start()
	zap.S().Info("Operations digest scheduler started")
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("Operations digest scheduler stopped")
}

// sendCriticalDigest emails the ops inbox a summary of open critical
// reports so nothing urgent sits unnoticed overnight
func (s *Scheduler) sendCriticalDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	acquired, err := s.LockDB.TryAcquireLock(ctx, "critical_digest_job", s.instanceID, 10*time.Minute)
	if err != nil {
		zap.S().Errorw("failed to acquire lock for critical digest job", "error", err)
		return
	}
	if !acquired {
		zap.S().Debug("Critical digest job already running on another instance, skipping")
		return
	}
	defer s.LockDB.ReleaseLock(ctx, "critical_digest_job", s.instanceID)

	zap.S().Infow("Running critical digest job", "instance", s.instanceID)

	reports, err := s.RDB.Find(ctx, bson.M{
		"deleted": false,
		"urgency": models.UrgencyCritical,
		"status": bson.M{"$nin": []models.ReportStatus{
			models.StatusResolved, models.StatusClosed, models.StatusRejected,
		}},
	})
	if err != nil {
		zap.S().Errorw("failed to load open critical reports", "error", err)
		return
	}
	if len(reports) == 0 {
		zap.S().Info("No open critical reports, skipping digest")
		return
	}

	var lines []string
	for _, r := range reports {
		lines = append(lines, fmt.Sprintf("%s [%s] %s (%s, %s)",
			r.ReportNumber, r.Status, r.Title, r.Category, r.BarangayName))
	}
	body := fmt.Sprintf(`Good morning,

There are %d open critical reports:

%s

Please review the queue in the ops console.`, len(reports), strings.Join(lines, "\n"))

	subject := fmt.Sprintf("Critical report digest: %d open", len(reports))
	if err := s.sendDigestEmail(subject, body); err != nil {
		zap.S().Errorw("failed to send critical digest", "error", err)
		return
	}
	zap.S().Infow("Critical digest sent", "reports", len(reports))
}

// remindStaleSubmissions nags about submissions nobody has triaged within
// 48 hours
func (s *Scheduler) remindStaleSubmissions() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	acquired, err := s.LockDB.TryAcquireLock(ctx, "stale_submission_job", s.instanceID, 10*time.Minute)
	if err != nil {
		zap.S().Errorw("failed to acquire lock for stale submission job", "error", err)
		return
	}
	if !acquired {
		zap.S().Debug("Stale submission job already running on another instance, skipping")
		return
	}
	defer s.LockDB.ReleaseLock(ctx, "stale_submission_job", s.instanceID)

	zap.S().Infow("Running stale submission job", "instance", s.instanceID)

	cutoff := time.Now().UTC().Add(-48 * time.Hour)
	reports, err := s.RDB.Find(ctx, bson.M{
		"deleted":   false,
		"status":    models.StatusSubmitted,
		"createdAt": bson.M{"$lt": cutoff},
	})
	if err != nil {
		zap.S().Errorw("failed to load stale submissions", "error", err)
		return
	}
	if len(reports) == 0 {
		return
	}

	var lines []string
	for _, r := range reports {
		age := time.Since(r.CreatedAt).Hours() / 24
		lines = append(lines, fmt.Sprintf("%s %s (%s, waiting %.0f days)",
			r.ReportNumber, r.Title, r.BarangayName, age))
	}
	body := fmt.Sprintf(`The following %d submissions have waited more than 48 hours without triage:

%s

Please triage or reject them.`, len(reports), strings.Join(lines, "\n"))

	subject := fmt.Sprintf("Untriaged submissions: %d waiting", len(reports))
	if err := s.sendDigestEmail(subject, body); err != nil {
		zap.S().Errorw("failed to send stale submission reminder", "error", err)
		return
	}
	zap.S().Infow("Stale submission reminder sent", "reports", len(reports))
}

func (s *Scheduler) sendDigestEmail(subject, body string) error {
	inbox := s.Config.OpsInbox
	if inbox == "" {
		return fmt.Errorf("ops center inbox is not configured")
	}

	from := mail.NewEmail("Ayos Surigao", "no-reply@ayossurigao.ph")
	to := mail.NewEmail("", inbox)
	html := templates.RenderGenericEmail(subject, body)
	msg := mail.NewSingleEmail(from, subject, to, body, html)
	client := sendgrid.NewSendClient(os.Getenv("SENDGRID_API_KEY"))
	_, err := client.Send(msg)
	return err
}
