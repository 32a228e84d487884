package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/razorbill/livematch/internal/domain/notification"
	"github.com/razorbill/livematch/internal/platform/logging"
)

const (
	defaultReminderLead = 10 * time.Minute
	minReminderDelay    = time.Second
)

// SoundPlayer plays the local reminder sound. Playback failures are
// swallowed; a reminder without sound is still a reminder.
type SoundPlayer interface {
	Play() error
}

type ReminderServiceConfig struct {
	// Lead is the interval before kickoff at which the reminder fires.
	Lead time.Duration
	// OnDue is invoked from the timer goroutine when a reminder fires.
	OnDue func(matchID string)
	Sound SoundPlayer
}

// ReminderService schedules one local reminder per match. The dedup set is
// persisted, so a match stays marked across restarts; armed timers are
// in-memory only and die with the process.
type ReminderService struct {
	repo   notification.Repository
	logger *logging.Logger
	lead   time.Duration
	onDue  func(matchID string)
	sound  SoundPlayer
	now    func() time.Time

	mu     sync.Mutex
	timers map[string]*time.Timer
}

func NewReminderService(repo notification.Repository, cfg ReminderServiceConfig, logger *logging.Logger) *ReminderService {
	if logger == nil {
		logger = logging.Default()
	}
	lead := cfg.Lead
	if lead <= 0 {
		lead = defaultReminderLead
	}

	return &ReminderService{
		repo:   repo,
		logger: logger,
		lead:   lead,
		onDue:  cfg.OnDue,
		sound:  cfg.Sound,
		now:    time.Now,
		timers: make(map[string]*time.Timer),
	}
}

// Schedule arms a reminder firing lead time before startAt, clamped to fire
// almost immediately when that instant has already passed. It is idempotent
// per match id: a match already recorded, or already carrying an armed timer,
// is a no-op. The returned bool reports whether a new reminder was armed.
func (s *ReminderService) Schedule(ctx context.Context, matchID string, startAt time.Time) bool {
	if matchID == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, armed := s.timers[matchID]; armed {
		return false
	}
	if s.repo != nil {
		known, err := s.repo.Has(ctx, matchID)
		if err != nil {
			s.logger.WarnContext(ctx, "reminder dedup lookup failed", "match_id", matchID, "error", err)
		} else if known {
			return false
		}
		if _, err := s.repo.Add(ctx, matchID); err != nil {
			s.logger.WarnContext(ctx, "persist reminder record failed", "match_id", matchID, "error", err)
		}
	}

	delay := startAt.Add(-s.lead).Sub(s.now())
	if delay < minReminderDelay {
		delay = minReminderDelay
	}

	s.timers[matchID] = time.AfterFunc(delay, func() {
		s.fire(matchID)
	})
	s.logger.DebugContext(ctx, "reminder armed", "match_id", matchID, "delay", delay)
	return true
}

// Scheduled reports whether the match already has a reminder, armed or
// persisted.
func (s *ReminderService) Scheduled(ctx context.Context, matchID string) bool {
	s.mu.Lock()
	_, armed := s.timers[matchID]
	s.mu.Unlock()
	if armed {
		return true
	}
	if s.repo == nil {
		return false
	}
	known, err := s.repo.Has(ctx, matchID)
	if err != nil {
		return false
	}
	return known
}

// CancelAll stops every armed timer. Persisted records stay: a reminder
// marked scheduled is not re-armed after a restart.
func (s *ReminderService) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for matchID, timer := range s.timers {
		timer.Stop()
		delete(s.timers, matchID)
	}
}

func (s *ReminderService) fire(matchID string) {
	s.mu.Lock()
	delete(s.timers, matchID)
	s.mu.Unlock()

	if s.onDue != nil {
		s.onDue(matchID)
	}
	if s.sound != nil {
		if err := s.sound.Play(); err != nil {
			s.logger.Debug("reminder sound playback failed", "match_id", matchID, "error", err)
		}
	}
}
