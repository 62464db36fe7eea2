package repositories

import (
	"github.com/yigit/thesismatch/internal/app/models"
	"github.com/yigit/thesismatch/internal/db"
	"github.com/yigit/thesismatch/internal/pkg/recordstore"
)

// Collection names, shared by every backend
const (
	StudentsCollection    = "students"
	SupervisorsCollection = "supervisors"
	UsersCollection       = "users"
	StagesCollection      = "workflow_stages"
	DocumentsCollection   = "documents"
	ThesesCollection      = "theses"
)

// Repositories holds one store per collection
type Repositories struct {
	Students    recordstore.Store[models.Student]
	Supervisors recordstore.Store[models.Supervisor]
	Users       recordstore.Store[models.User]
	Stages      recordstore.Store[models.WorkflowStage]
	Documents   recordstore.Store[models.Document]
	Theses      recordstore.Store[models.ThesisRecord]
}

// NewPostgresRepositories stores every collection in the records table
func NewPostgresRepositories(database *db.PostgresDB) *Repositories {
	return &Repositories{
		Students:    NewPGStore[models.Student](database, StudentsCollection),
		Supervisors: NewPGStore[models.Supervisor](database, SupervisorsCollection),
		Users:       NewPGStore[models.User](database, UsersCollection),
		Stages:      NewPGStore[models.WorkflowStage](database, StagesCollection),
		Documents:   NewPGStore[models.Document](database, DocumentsCollection),
		Theses:      NewPGStore[models.ThesisRecord](database, ThesesCollection),
	}
}

// NewFileRepositories stores each collection as a JSON file under dir.
// An empty dir keeps everything in memory.
func NewFileRepositories(dir string) *Repositories {
	return &Repositories{
		Students:    recordstore.NewFileStore[models.Student](dir, StudentsCollection),
		Supervisors: recordstore.NewFileStore[models.Supervisor](dir, SupervisorsCollection),
		Users:       recordstore.NewFileStore[models.User](dir, UsersCollection),
		Stages:      recordstore.NewFileStore[models.WorkflowStage](dir, StagesCollection),
		Documents:   recordstore.NewFileStore[models.Document](dir, DocumentsCollection),
		Theses:      recordstore.NewFileStore[models.ThesisRecord](dir, ThesesCollection),
	}
}

// NewMemoryRepositories is NewFileRepositories without persistence
func NewMemoryRepositories() *Repositories {
	return NewFileRepositories("")
}
