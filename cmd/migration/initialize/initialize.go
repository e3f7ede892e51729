package initialize

import (
	"spotless/config"

	. "spotless/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

func InitializeTables(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("InitializeTables")
	log.Info("Initializing essential production data")

	if err := initializeSuperadmin(db, config, log); err != nil {
		return log.Err("failed to initialize superadmin", err)
	}

	log.Info("Table initialization complete")
	return nil
}

// initializeSuperadmin ensures the platform operator profile exists. The
// external identity is provisioned out of band and injected through config.
func initializeSuperadmin(db *gorm.DB, config config.Config, log logger.Logger) error {
	if config.SuperadminExternalID == "" {
		log.Warn("no superadmin external ID configured, skipping")
		return nil
	}

	var existing Profile
	if err := db.First(&existing, "external_id = ?", config.SuperadminExternalID).Error; err == nil {
		log.Debug("Superadmin profile already exists", "profileId", existing.ID)
		return nil
	}

	superadmin := Profile{
		ExternalID: config.SuperadminExternalID,
		Role:       RoleSuperadmin,
		Name:       "Platform Operator",
		Email:      "operator@spotless.local",
		Language:   LanguageEnglish,
	}
	if err := db.Create(&superadmin).Error; err != nil {
		return log.Err("failed to create superadmin profile", err)
	}

	log.Info("Superadmin profile initialized", "profileId", superadmin.ID)
	return nil
}
