package services

import (
	portsrepo "github.com/sixjars/six_jars_app/internal/core/ports/repositories"
	portssvc "github.com/sixjars/six_jars_app/internal/core/ports/services"
	"github.com/sixjars/six_jars_app/internal/platform/config"
)

// NewServiceContainer wires all application services against the repository
// provider.
func NewServiceContainer(repos *portsrepo.RepositoryProvider, cfg *config.Config) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Auth:        NewAuthService(cfg, repos.UserRepo),
		User:        NewUserService(repos.UserRepo),
		Jar:         NewJarService(repos.JarRepo, repos.UserRepo, repos.TransactionRepo),
		Transaction: NewTransactionService(repos.TransactionRepo, repos.JarRepo),
		Report:      NewReportService(repos.ReportRepo, repos.JarRepo, repos.TransactionRepo, repos.UserRepo),
	}
}
