package repositories

import (
	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	RoleRepository         *RoleRepository
	StudentRepository      *StudentRepository
	ComplaintRepository    *ComplaintRepository
	RoomChangeRepository   *RoomChangeRepository
	NotificationRepository *NotificationRepository
	VisitorRepository      *VisitorRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		RoleRepository:         NewRoleRepository(db),
		StudentRepository:      NewStudentRepository(db),
		ComplaintRepository:    NewComplaintRepository(db),
		RoomChangeRepository:   NewRoomChangeRepository(db),
		NotificationRepository: NewNotificationRepository(db),
		VisitorRepository:      NewVisitorRepository(db),
	}
}

// statementBuilder is squirrel configured for Postgres placeholders
func statementBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}
