package statistics

import (
	"context"
	"sync"
	"time"

	"healthsync/healthsync/sources/psql/dao"
	"healthsync/healthsync/sources/psql/models"
	"healthsync/healthsync/utils/logging"
	"healthsync/healthsync/utils/types"
)

const defaultCacheTTL = 5 * time.Minute

// statsCache is a one-entry TTL cache with an injected clock, so expiry is
// testable without sleeping.
type statsCache struct {
	mu      sync.Mutex
	stats   *types.UsageStatistics
	expires time.Time
	ttl     time.Duration
	now     func() time.Time
}

func (c *statsCache) get() *types.UsageStatistics {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stats != nil && c.now().Before(c.expires) {
		return c.stats
	}
	return nil
}

func (c *statsCache) set(stats *types.UsageStatistics) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats = stats
	c.expires = c.now().Add(c.ttl)
}

// Service computes platform usage counts behind the TTL cache.
type Service struct {
	users        *dao.UserDAO
	appointments *dao.AppointmentDAO
	sessions     *dao.ChatSessionDAO
	records      *dao.HealthRecordDAO
	cache        *statsCache
}

func NewService(users *dao.UserDAO, appointments *dao.AppointmentDAO, sessions *dao.ChatSessionDAO, records *dao.HealthRecordDAO) *Service {
	return NewServiceWithClock(users, appointments, sessions, records, time.Now)
}

func NewServiceWithClock(users *dao.UserDAO, appointments *dao.AppointmentDAO, sessions *dao.ChatSessionDAO, records *dao.HealthRecordDAO, now func() time.Time) *Service {
	return &Service{
		users:        users,
		appointments: appointments,
		sessions:     sessions,
		records:      records,
		cache:        &statsCache{ttl: defaultCacheTTL, now: now},
	}
}

func (s *Service) UsageStatistics(ctx context.Context) (*types.UsageStatistics, error) {
	if cached := s.cache.get(); cached != nil {
		logging.AppLogger.Info("returning cached usage statistics")
		return cached, nil
	}

	stats := &types.UsageStatistics{}
	var err error
	if stats.TotalUsers, err = s.users.CountUsers(ctx); err != nil {
		return nil, err
	}
	if stats.TotalDoctors, err = s.users.CountByRole(ctx, models.RoleDoctor); err != nil {
		return nil, err
	}
	if stats.TotalPatients, err = s.users.CountByRole(ctx, models.RolePatient); err != nil {
		return nil, err
	}
	if stats.TotalAppointments, err = s.appointments.CountAppointments(ctx); err != nil {
		return nil, err
	}
	if stats.TotalChatSessions, err = s.sessions.CountSessions(ctx); err != nil {
		return nil, err
	}
	if stats.TotalHealthRecords, err = s.records.CountRecords(ctx); err != nil {
		return nil, err
	}
	if stats.TotalTriageRecords, err = s.records.CountByType(ctx, models.RecordAtTriage); err != nil {
		return nil, err
	}
	if stats.TotalDoctorNotes, err = s.records.CountByType(ctx, models.RecordDoctorNote); err != nil {
		return nil, err
	}

	s.cache.set(stats)
	return stats, nil
}
