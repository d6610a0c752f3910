package main

import (
	"time"

	"github.com/MarcoPoloResearchLab/gripmetrics/internal/config"
	"github.com/MarcoPoloResearchLab/gripmetrics/internal/database"
	"github.com/MarcoPoloResearchLab/gripmetrics/internal/export"
	"github.com/MarcoPoloResearchLab/gripmetrics/internal/ids"
	"github.com/MarcoPoloResearchLab/gripmetrics/internal/kvstore"
	"github.com/MarcoPoloResearchLab/gripmetrics/internal/notices"
	"github.com/MarcoPoloResearchLab/gripmetrics/internal/records"
	"github.com/MarcoPoloResearchLab/gripmetrics/internal/training"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// application owns the database handle and the services built on it.
type application struct {
	db       *gorm.DB
	store    *records.Store
	training *training.Service
	exporter *export.Service
}

func openApplication(cfg config.AppConfig, logger *zap.Logger, notifier notices.Notifier) (*application, error) {
	db, err := database.OpenSQLite(cfg.DatabasePath, logger)
	if err != nil {
		return nil, err
	}
	app := &application{db: db}

	substrate, err := kvstore.NewSQLiteSubstrate(db, time.Now)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	app.store, err = records.NewStore(substrate, logger)
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	idProvider, err := ids.New(cfg.IDStrategy)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	app.training, err = training.NewService(training.ServiceConfig{
		Store:      app.store,
		Clock:      time.Now,
		IDProvider: idProvider,
		Limits:     training.SliderRange{Min: cfg.SliderMin, Max: cfg.SliderMax},
		Logger:     logger,
	})
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	app.exporter, err = export.NewService(export.ServiceConfig{
		Store:    app.store,
		Clock:    time.Now,
		Notifier: notifier,
		Logger:   logger,
	})
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	return app, nil
}

func (a *application) Close() error {
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
