package cron

import (
	"context"
	"errors"

	"github.com/nhc-marketplace/storefront/pkg/logger"
)

// Sweeper evicts idle workspaces and reports how many went.
type Sweeper interface {
	Sweep() int
}

// Refresher reloads a shared cache from upstream.
type Refresher interface {
	Refresh(ctx context.Context) error
}

type workspaceSweepJob struct {
	sweeper Sweeper
	logg    *logger.Logger
}

// NewWorkspaceSweepJob closes workspaces that have been idle past their TTL.
func NewWorkspaceSweepJob(sweeper Sweeper, logg *logger.Logger) (Job, error) {
	if sweeper == nil {
		return nil, errors.New("sweeper required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &workspaceSweepJob{sweeper: sweeper, logg: logg}, nil
}

func (j *workspaceSweepJob) Name() string { return "workspace.sweep" }

func (j *workspaceSweepJob) Run(ctx context.Context) error {
	if evicted := j.sweeper.Sweep(); evicted > 0 {
		j.logg.Info(j.logg.WithField(ctx, "evicted", evicted), "idle workspaces closed")
	}
	return nil
}

type categoryRefreshJob struct {
	refresher Refresher
}

// NewCategoryRefreshJob keeps the shared category tree warm so workspaces
// mounting a catalog rarely wait on the hierarchy call.
func NewCategoryRefreshJob(refresher Refresher) (Job, error) {
	if refresher == nil {
		return nil, errors.New("refresher required")
	}
	return &categoryRefreshJob{refresher: refresher}, nil
}

func (j *categoryRefreshJob) Name() string { return "categories.refresh" }

func (j *categoryRefreshJob) Run(ctx context.Context) error {
	return j.refresher.Refresh(ctx)
}
