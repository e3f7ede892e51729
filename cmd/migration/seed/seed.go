package seed

import (
	"time"

	"spotless/config"

	. "spotless/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func stringPtr(s string) *string {
	return &s
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func frequencyPtr(f ServiceFrequency) *ServiceFrequency {
	return &f
}

// Seed loads a small development dataset: one agency with an owner, a
// cleaning crew, two clients and a day of schedules. Everything is
// idempotent on company name so repeated runs are safe.
func Seed(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("seed")
	log.Info("Seeding development data")

	var existing Company
	if err := db.First(&existing, "name = ?", "Sparkle & Shine Cleaning").Error; err == nil {
		log.Info("Development company already exists, skipping seed")
		return nil
	}

	trialEnd := time.Now().AddDate(0, 0, config.TrialDays)
	company := Company{
		Name:               "Sparkle & Shine Cleaning",
		SubscriptionStatus: SubscriptionTrial,
		TrialEndsAt:        &trialEnd,
	}
	if err := db.Create(&company).Error; err != nil {
		return log.Err("failed to seed company", err)
	}

	owner := Profile{
		ExternalID: "seed-owner",
		CompanyID:  &company.ID,
		Role:       RoleOwner,
		Name:       "Dana Whitfield",
		Email:      "dana@sparkleshine.example",
		Language:   LanguageEnglish,
	}
	if err := db.Create(&owner).Error; err != nil {
		return log.Err("failed to seed owner profile", err)
	}

	cleaners := []Cleaner{
		{
			CompanyID: company.ID,
			Name:      "Alice Moreno",
			Email:     stringPtr("alice@sparkleshine.example"),
			Drives:    true,
			Status:    CleanerActive,
			Area:      stringPtr("North side"),
		},
		{
			CompanyID: company.ID,
			Name:      "Bob Tanaka",
			Email:     stringPtr("bob@sparkleshine.example"),
			Status:    CleanerActive,
		},
		{
			CompanyID: company.ID,
			Name:      "Carol Osei",
			Status:    CleanerActive,
			Notes:     stringPtr("Prefers morning jobs"),
		},
	}
	for i := range cleaners {
		if err := db.Create(&cleaners[i]).Error; err != nil {
			return log.Err("failed to seed cleaner", err, "name", cleaners[i].Name)
		}
	}

	clients := []Client{
		{
			CompanyID: company.ID,
			Name:      "Harborview Offices",
			Address:   stringPtr("12 Harbor Rd"),
			Frequency: frequencyPtr(FrequencyWeekly),
		},
		{
			CompanyID: company.ID,
			Name:      "The Lindqvist Residence",
			Address:   stringPtr("88 Elm Street"),
			Frequency: frequencyPtr(FrequencyBiWeekly),
		},
	}
	for i := range clients {
		if err := db.Create(&clients[i]).Error; err != nil {
			return log.Err("failed to seed client", err, "name", clients[i].Name)
		}
	}

	// Two jobs tomorrow, staffed so no cleaner overlaps within the hour.
	tomorrow := time.Now().AddDate(0, 0, 1)
	morning := time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 9, 0, 0, 0, time.UTC)
	schedules := []Schedule{
		{
			CompanyID: company.ID,
			ClientID:  clients[0].ID,
			JobDate:   datatypes.Date(tomorrow),
			StartTime: timePtr(morning),
			DriverID:  cleaners[0].ID,
			Helper1ID: cleaners[1].ID,
			Status:    ScheduleScheduled,
		},
		{
			CompanyID: company.ID,
			ClientID:  clients[1].ID,
			JobDate:   datatypes.Date(tomorrow),
			StartTime: timePtr(morning.Add(2 * time.Hour)),
			DriverID:  cleaners[0].ID,
			Helper1ID: cleaners[2].ID,
			Status:    ScheduleScheduled,
		},
	}
	for i := range schedules {
		if err := db.Create(&schedules[i]).Error; err != nil {
			return log.Err("failed to seed schedule", err)
		}
		assignments := schedules[i].BuildAssignments()
		if err := db.Create(&assignments).Error; err != nil {
			return log.Err("failed to seed schedule assignments", err)
		}
	}

	log.Info("Development data seeded",
		"cleaners", len(cleaners),
		"clients", len(clients),
		"schedules", len(schedules),
	)
	return nil
}
