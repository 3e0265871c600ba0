package service

import (
	"context"

	"github.com/sourcegraph/conc/pool"

	"github.com/snapbook/opsconsole/internal/domain/admin"
	"github.com/snapbook/opsconsole/internal/port/outbound"
)

// DashboardDays is the reporting window of the dashboard.
const DashboardDays = 7

// latestOrdersCount is how many recent orders the dashboard lists.
const latestOrdersCount = 5

// Dashboard is everything the dashboard screen shows.
type Dashboard struct {
	Metrics      *admin.Metrics
	Trends       *admin.Trends
	LatestOrders []admin.Order
}

// DashboardService assembles the dashboard from three backend calls.
type DashboardService struct {
	api outbound.AdminAPI
}

// NewDashboardService creates a DashboardService.
func NewDashboardService(api outbound.AdminAPI) *DashboardService {
	return &DashboardService{api: api}
}

// Load fetches metrics, trends and the latest orders concurrently. Any
// failure fails the whole load.
func (s *DashboardService) Load(ctx context.Context) (*Dashboard, error) {
	var d Dashboard
	p := pool.New().WithErrors().WithContext(ctx).WithFirstError()
	p.Go(func(ctx context.Context) error {
		m, err := s.api.Metrics(ctx, DashboardDays)
		d.Metrics = m
		return err
	})
	p.Go(func(ctx context.Context) error {
		t, err := s.api.Trends(ctx, DashboardDays)
		d.Trends = t
		return err
	})
	p.Go(func(ctx context.Context) error {
		page, err := s.api.ListOrders(ctx, admin.OrderFilter{Page: 1, PageSize: latestOrdersCount})
		if page != nil {
			d.LatestOrders = page.Items
		}
		return err
	})
	if err := p.Wait(); err != nil {
		return nil, err
	}
	return &d, nil
}
