package snapshot

import (
	"context"
	"smd/internal/providers"
	"smd/internal/snapshot/interfaces"
	"smd/internal/structures"
	"smd/internal/syncer"
	"sync"
	"time"

	"github.com/roylee0704/gron"
)

const pollTimeout = 10 * time.Second

// Scheduler runs the two periodic jobs: the sync-status poll that
// reconciles the local limiter state with the gateway, and snapshot
// persistence.
type Scheduler struct {
	config      *structures.Config
	logger      providers.Logger
	trigger     syncer.TriggerInterface
	fileManager *FileManager
	cron        *gron.Cron
	opsMu       sync.Mutex
}

func (s *Scheduler) Init() {
	s.cron = gron.New()
	saveInterval := s.config.Persistence.SaveInterval
	pollInterval := s.config.Aggregation.StatusPollInterval

	s.cron.AddFunc(gron.Every(saveInterval), func() {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()

		err := s.fileManager.SaveToFile(s.config.Persistence.FilePath)
		if err != nil {
			s.logger.Errorf(providers.TypeApp, "Error while persisting snapshot: %s", err)
			return
		}
		s.logger.Debugf(providers.TypeApp, "Persisted snapshot to file %s", s.config.Persistence.FilePath)
	})

	s.cron.AddFunc(gron.Every(pollInterval), func() {
		ctx, cancel := context.WithTimeout(context.Background(), pollTimeout)
		defer cancel()
		s.trigger.RefreshStatus(ctx)
	})

	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) Restore() error {
	return s.fileManager.LoadFromFile(s.config.Persistence.FilePath)
}

func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeApp, "Persisting snapshot to file...")
	err := s.fileManager.SaveToFile(s.config.Persistence.FilePath)
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting snapshot: %s", err)
		return err
	}
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, trigger syncer.TriggerInterface, fileManager *FileManager) interfaces.SchedulerInterface {
	return &Scheduler{
		config:      config,
		logger:      logger,
		trigger:     trigger,
		fileManager: fileManager,
	}
}
