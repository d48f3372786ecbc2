package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	ApplicationRepository *ApplicationRepository
	CommitteeRepository   *CommitteeRepository
	AdminRepository       *AdminRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		ApplicationRepository: NewApplicationRepository(db),
		CommitteeRepository:   NewCommitteeRepository(db),
		AdminRepository:       NewAdminRepository(db),
	}
}
