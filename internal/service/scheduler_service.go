package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// DigestSender delivers a rendered digest somewhere.
type DigestSender interface {
	SendDigest(ctx context.Context, text string) error
}

// SchedulerService runs the daily digest on a cron schedule.
type SchedulerService struct {
	cron   *cron.Cron
	loc    *time.Location
	digest *DigestService
	sender DigestSender
}

func NewSchedulerService(loc *time.Location, digest *DigestService, sender DigestSender) *SchedulerService {
	if loc == nil {
		loc = time.Local
	}
	return &SchedulerService{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithSeconds(),
			cron.WithChain(cron.Recover(cron.DefaultLogger)),
		),
		loc:    loc,
		digest: digest,
		sender: sender,
	}
}

// ScheduleDigest registers the digest job at the given HH:MM time.
func (s *SchedulerService) ScheduleDigest(at string) (cron.EntryID, error) {
	spec, err := buildDailySpec(at)
	if err != nil {
		return 0, err
	}
	return s.cron.AddFunc(spec, func() {
		if err := s.RunDigest(context.Background()); err != nil {
			log.WithError(err).Error("digest job failed")
		}
	})
}

// RunDigest builds and sends one digest immediately.
func (s *SchedulerService) RunDigest(ctx context.Context) error {
	text, err := s.digest.Summary(ctx, time.Now().In(s.loc))
	if err != nil {
		return fmt.Errorf("build digest: %w", err)
	}
	if err := s.sender.SendDigest(ctx, text); err != nil {
		return fmt.Errorf("send digest: %w", err)
	}
	log.Info("digest sent")
	return nil
}

func (s *SchedulerService) Start() {
	s.cron.Start()
}

func (s *SchedulerService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func buildDailySpec(timeStr string) (string, error) {
	parts := strings.Split(strings.TrimSpace(timeStr), ":")
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid time %q, expected HH:MM", timeStr)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("invalid hour in %q", timeStr)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid minute in %q", timeStr)
	}
	// second minute hour dom month dow
	return fmt.Sprintf("0 %d %d * * *", minute, hour), nil
}
