package repositories

import (
	"spotless/internal/database"
)

type Repository struct {
	Company  CompanyRepository
	Profile  ProfileRepository
	Cleaner  CleanerRepository
	Client   ClientRepository
	Schedule ScheduleRepository
	Report   ReportRepository
}

func New(db database.DB) Repository {
	return Repository{
		Company:  NewCompanyRepository(db),
		Profile:  NewProfileRepository(db), // profile repo caches external-identity lookups
		Cleaner:  NewCleanerRepository(db),
		Client:   NewClientRepository(db),
		Schedule: NewScheduleRepository(db),
		Report:   NewReportRepository(db),
	}
}
