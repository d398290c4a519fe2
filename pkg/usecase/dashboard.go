package usecase

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/secmon-lab/buddyguard/pkg/domain/interfaces"
	"github.com/secmon-lab/buddyguard/pkg/domain/model"
	"github.com/secmon-lab/buddyguard/pkg/domain/policy"
	"github.com/secmon-lab/buddyguard/pkg/domain/types"
	"github.com/secmon-lab/buddyguard/pkg/service/metrics"
)

// DashboardUseCase computes dashboard figures
type DashboardUseCase struct {
	repo    interfaces.Repository
	metrics *metrics.Service
}

// NewDashboardUseCase creates a new DashboardUseCase instance
func NewDashboardUseCase(repo interfaces.Repository, m *metrics.Service) *DashboardUseCase {
	return &DashboardUseCase{repo: repo, metrics: m}
}

// Stats returns the figures visible to the role. Store failures yield the default figures.
func (uc *DashboardUseCase) Stats(ctx context.Context, role types.Role) (*model.Stats, error) {
	if !policy.CanViewDashboard(role) {
		return nil, forbidden("role cannot view the dashboard", role)
	}

	incidents, err := uc.repo.ListIncidents(ctx)
	if err != nil {
		ctxlog.From(ctx).Warn("Failed to read incidents for dashboard, serving default figures", "error", err)
		uc.metrics.RecordFallbackRead("stats", string(types.DataSourceFallback))
		return model.DefaultStats(), nil
	}

	return model.ComputeStats(incidents, policy.ShowsCharts(role)), nil
}
