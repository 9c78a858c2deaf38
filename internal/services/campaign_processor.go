package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fastygo/ideaflow/domain"
	"github.com/fastygo/ideaflow/internal/infrastructure/jobqueue"
	"github.com/fastygo/ideaflow/usecase"
)

// ConnectionHealth abstracts the connection monitor functionality.
type ConnectionHealth interface {
	IsOnline() bool
}

// CampaignWorkflow is the part of the idea use case the processor drives.
type CampaignWorkflow interface {
	CampaignBrief(ctx context.Context, ideaID string) (usecase.CampaignBrief, error)
	AttachSocialMediaCampaigns(ctx context.Context, ideaID string, campaigns domain.SocialMediaCampaigns) error
	CancelSocialMediaCampaignsRequest(ctx context.Context, ideaID string)
}

// ProcessorConfig controls how frequently the job queue is drained.
type ProcessorConfig struct {
	Interval   time.Duration
	BatchSize  int
	MaxRetries int
	Workers    int
	JobTimeout time.Duration
	Retention  time.Duration
}

// CampaignProcessor generates social media campaigns for queued requests.
type CampaignProcessor struct {
	store     *jobqueue.Store
	monitor   ConnectionHealth
	workflow  CampaignWorkflow
	generator usecase.CampaignGenerator
	logger    *zap.Logger
	cron      *cron.Cron
	cfg       ProcessorConfig
}

func NewCampaignProcessor(
	store *jobqueue.Store,
	monitor ConnectionHealth,
	workflow CampaignWorkflow,
	generator usecase.CampaignGenerator,
	logger *zap.Logger,
	cfg ProcessorConfig,
) *CampaignProcessor {
	if cfg.Interval <= 0 {
		cfg.Interval = 10 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 20
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = 2 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	cp := &CampaignProcessor{
		store:     store,
		monitor:   monitor,
		workflow:  workflow,
		generator: generator,
		logger:    logger.With(zap.String("component", "campaign_processor")),
		cfg:       cfg,
		cron:      cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", max(1, int(cfg.Interval.Seconds())))
	_, _ = cp.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.JobTimeout*time.Duration(cfg.BatchSize))
		defer cancel()
		if err := cp.Drain(ctx); err != nil {
			cp.logger.Error("campaign queue drain failed", zap.Error(err))
		}
	})
	if cfg.Retention > 0 {
		_, _ = cp.cron.AddFunc("@hourly", func() {
			removed, err := cp.store.Cleanup(time.Now().Add(-cfg.Retention))
			if err != nil {
				cp.logger.Warn("campaign queue cleanup failed", zap.Error(err))
				return
			}
			if removed > 0 {
				cp.logger.Warn("expired campaign jobs dropped", zap.Int("count", removed))
			}
		})
	}

	return cp
}

// Start launches the cron scheduler.
func (cp *CampaignProcessor) Start() {
	if cp == nil || cp.cron == nil {
		return
	}
	cp.cron.Start()
	cp.logger.Info("campaign processor started")
}

// Stop waits for a running drain to finish or ctx to expire.
func (cp *CampaignProcessor) Stop(ctx context.Context) {
	if cp == nil || cp.cron == nil {
		return
	}
	stopCtx := cp.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	cp.logger.Info("campaign processor stopped")
}

// Schedule persists a campaign job for ideaID. Scheduling the same idea twice keeps one job.
func (cp *CampaignProcessor) Schedule(_ context.Context, job jobqueue.Job) error {
	if cp == nil || cp.store == nil {
		return fmt.Errorf("campaign processor not configured")
	}
	if err := cp.store.Enqueue(job); err != nil {
		return fmt.Errorf("enqueue %s: %w", job.ID, err)
	}
	cp.logger.Info("campaign job queued", zap.String("job_id", job.ID), zap.String("idea_id", job.AggregateID))
	return nil
}

// Drain processes one batch of queued jobs.
func (cp *CampaignProcessor) Drain(ctx context.Context) error {
	if cp == nil || cp.store == nil {
		return nil
	}
	if cp.monitor != nil && !cp.monitor.IsOnline() {
		cp.logger.Debug("skipping campaign drain (offline)")
		return nil
	}

	jobs, err := cp.store.Pending(cp.cfg.BatchSize)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cp.cfg.Workers)
	for _, job := range jobs {
		g.Go(func() error {
			cp.handle(gctx, job)
			return nil
		})
	}
	return g.Wait()
}

// Size returns the number of queued jobs.
func (cp *CampaignProcessor) Size() int {
	if cp == nil || cp.store == nil {
		return 0
	}
	size, err := cp.store.Size()
	if err != nil {
		return 0
	}
	return size
}

func (cp *CampaignProcessor) handle(ctx context.Context, job jobqueue.Job) {
	log := cp.logger.With(zap.String("job_id", job.ID), zap.String("idea_id", job.AggregateID))

	err := cp.process(ctx, job)
	if err == nil {
		if err := cp.store.Ack(job); err != nil {
			log.Warn("failed to ack campaign job", zap.Error(err))
		}
		log.Info("social media campaigns attached")
		return
	}

	if permanent(err) || job.Attempts+1 >= cp.cfg.MaxRetries {
		log.Warn("dropping campaign job",
			zap.Int("attempts", job.Attempts+1),
			zap.Bool("permanent", permanent(err)),
			zap.Error(err))
		if err := cp.store.Ack(job); err != nil {
			log.Warn("failed to remove campaign job", zap.Error(err))
		}
		cp.workflow.CancelSocialMediaCampaignsRequest(ctx, job.AggregateID)
		return
	}

	log.Error("campaign job failed", zap.Int("attempt", job.Attempts+1), zap.Error(err))
	if err := cp.store.Retry(job, err); err != nil {
		log.Error("failed to requeue campaign job", zap.Error(err))
	}
}

func (cp *CampaignProcessor) process(ctx context.Context, job jobqueue.Job) error {
	if job.Kind != jobqueue.KindSocialMediaCampaigns {
		return domain.WrapError(domain.ErrCodeInvalid, "unsupported job", fmt.Errorf("kind %q", job.Kind))
	}
	ctx, cancel := context.WithTimeout(ctx, cp.cfg.JobTimeout)
	defer cancel()

	brief, err := cp.workflow.CampaignBrief(ctx, job.AggregateID)
	if err != nil {
		return err
	}
	campaigns, err := cp.generator.GenerateSocialMediaCampaigns(ctx, brief)
	if err != nil {
		return domain.WrapError(domain.ErrCodeCollaboration, "generate social media campaigns", err)
	}
	return cp.workflow.AttachSocialMediaCampaigns(ctx, job.AggregateID, campaigns)
}

// permanent reports failures that retrying cannot fix.
func permanent(err error) bool {
	switch {
	case errors.Is(err, domain.ErrIdeaNotFound), errors.Is(err, domain.ErrIdeaArchived):
		return true
	default:
		return domain.IsDomainError(err, domain.ErrCodeInvalid)
	}
}
