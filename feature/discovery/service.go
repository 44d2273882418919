package discovery

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"discovery-sync/feature/discovery/catalog"
	"discovery-sync/feature/discovery/journal"
	"discovery-sync/feature/discovery/source"
	"discovery-sync/feature/discovery/sync"
)

// ErrSyncInProgress is returned when a run is requested while another one
// is still executing. Runs are serialized per process.
var ErrSyncInProgress = errors.New("a synchronization run is already in progress")

// Service owns the discovery feature's operations: running a sync,
// validating credentials, and reading the run journal.
type Service struct {
	src     sync.Source
	cat     catalog.Client
	journal *journal.Journal
	opts    sync.Options
	account string
	logger  *zap.Logger

	running atomic.Bool
}

// NewService wires the feature's collaborators.
func NewService(src sync.Source, cat catalog.Client, jrnl *journal.Journal, opts sync.Options, account string, logger *zap.Logger) *Service {
	return &Service{
		src:     src,
		cat:     cat,
		journal: jrnl,
		opts:    opts,
		account: account,
		logger:  logger,
	}
}

// RunSync executes one synchronization run and journals its outcome. The
// result reflects partial success even when err is non-nil; callers decide
// remediation from the error kind via StatusFor.
func (s *Service) RunSync(ctx context.Context) (*sync.Result, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, ErrSyncInProgress
	}
	defer s.running.Store(false)

	run, jerr := s.journal.Begin(ctx, s.account)
	if jerr != nil {
		s.logger.Warn("could not journal run start", zap.Error(jerr))
	}

	orch := sync.NewOrchestrator(s.src, s.cat, s.opts, s.logger)
	res, err := orch.Run(ctx)

	if jerr := s.journal.Finish(ctx, run, StatusFor(err), res); jerr != nil {
		s.logger.Warn("could not journal run end", zap.Error(jerr))
	}

	if err != nil {
		s.logger.Error("synchronization aborted",
			zap.String("status", StatusFor(err)), zap.Error(err))
	} else {
		s.logger.Info("synchronization finished",
			zap.Int("uploads", res.TotalUploads()),
			zap.Int("errors", res.TotalErrors()))
	}
	return res, err
}

// Validate checks access to both sides without mutating anything: the
// source must return its site listing and the catalog must accept our
// token on a read.
func (s *Service) Validate(ctx context.Context) error {
	if _, err := s.src.Sites(ctx); err != nil {
		return fmt.Errorf("source access check failed: %w", err)
	}
	if _, err := s.cat.LookupReference(ctx, "sites", "connectivity-check"); err != nil {
		return fmt.Errorf("catalog access check failed: %w", err)
	}
	return nil
}

// Runs returns the most recent journal entries.
func (s *Service) Runs(ctx context.Context, limit int) ([]journal.Run, error) {
	return s.journal.Recent(ctx, limit)
}

// StatusFor maps a run outcome to its journal status. The two terminal
// authorization kinds get distinct suspension statuses because their
// remediations differ: source credentials versus the catalog token.
func StatusFor(err error) string {
	switch {
	case err == nil:
		return journal.StatusDone
	case source.IsAuthorization(err):
		return journal.StatusSuspendedSource
	case catalog.IsAuthorization(err):
		return journal.StatusSuspendedTarget
	default:
		return journal.StatusFailed
	}
}
