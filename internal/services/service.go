package services

import (
	"spotless/config"
	"spotless/internal/database"
	"spotless/internal/repositories"
)

type Service struct {
	Transaction *TransactionService
	Conflict    *ConflictService
	Token       *TokenService
	Scheduler   *SchedulerService
}

func New(db database.DB, config config.Config, repos repositories.Repository) (Service, error) {
	transactionService := NewTransactionService(db)
	conflictService := NewConflictService(repos.Schedule)
	tokenService := NewTokenService(config)
	schedulerService := NewSchedulerService()

	return Service{
		Transaction: transactionService,
		Conflict:    conflictService,
		Token:       tokenService,
		Scheduler:   schedulerService,
	}, nil
}
