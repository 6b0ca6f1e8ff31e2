package services

import (
	"github.com/rotafrete/contabil_backend/internal/core/ports"
)

// NewServiceContainer wires every service to its repositories.
func NewServiceContainer(repos *ports.Repositories) *ports.ServiceContainer {
	return &ports.ServiceContainer{
		Account:   NewAccountService(repos.Account),
		Journal:   NewJournalService(repos.Journal, repos.Account),
		Reporting: NewReportingService(repos.Journal, repos.Account),
		Apuration: NewApurationService(repos.Apuration),
	}
}
