package postgres

import (
	"github.com/smartintruesdell/CubeCobra/internal/domain"
	"github.com/smartintruesdell/CubeCobra/internal/repository"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewConnection(databaseURL string, logLevel logger.LogLevel) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or alters every table the service uses.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.UserSession{},
		&domain.Card{},
		&domain.Cube{},
		&domain.Draft{},
		&domain.CubeAnalytic{},
		&domain.FeaturedQueue{},
	)
}

func NewRepositories(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		User:      NewUserRepository(db),
		Session:   NewSessionRepository(db),
		Card:      NewCardRepository(db),
		Cube:      NewCubeRepository(db),
		Draft:     NewDraftRepository(db),
		Analytics: NewAnalyticsRepository(db),
		Featured:  NewFeaturedQueueRepository(db),
	}
}
