package services

import (
	portsrepo "github.com/SscSPs/sales_dashboard/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/sales_dashboard/internal/core/ports/services"
	"github.com/SscSPs/sales_dashboard/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	var loaderOpts []LoaderServiceOption
	if cfg.StrictIntegrity {
		loaderOpts = append(loaderOpts, WithStrictIntegrity())
	}

	// The dashboard shares the loader so every view reads the same memoized table
	container.Loader = NewLoaderService(repos.TransactionSource, loaderOpts...)
	container.Dashboard = NewDashboardService(container.Loader)

	return container
}
