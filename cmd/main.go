// cmd/main.go

package main

import (
	"context"
	"net/http"
	_ "time/tzdata"

	"github.com/gorilla/mux"
	cron "github.com/robfig/cron/v3"
	"github.com/rs/cors"
	"github.com/sendgrid/sendgrid-go"
	twilio "github.com/twilio/twilio-go"

	"github.com/domora/kiosk-service/internal/app"
	"github.com/domora/kiosk-service/internal/backend"
	"github.com/domora/kiosk-service/internal/config"
	"github.com/domora/kiosk-service/internal/controllers"
	"github.com/domora/kiosk-service/internal/middleware"
	"github.com/domora/kiosk-service/internal/repositories"
	"github.com/domora/kiosk-service/internal/routes"
	"github.com/domora/kiosk-service/internal/services"
	"github.com/domora/kiosk-service/internal/utils"
)

func main() {
	utils.InitLogger(config.AppName)
	cfg := config.LoadConfig()

	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize kiosk-service:", err)
	}
	defer application.Close()

	hubClient, err := backend.NewClient(cfg.BackendBaseURL, cfg.BackendAPIToken)
	if err != nil {
		utils.Logger.Fatal("Failed to create hub backend client:", err)
	}

	displayRepo := repositories.NewKioskDisplayRepository(application.DB)

	if cfg.SeedDemoDisplays {
		if err := app.SeedDemoDisplays(context.Background(), displayRepo); err != nil {
			utils.Logger.WithError(err).Fatal("Failed to seed demo displays")
		}
	}

	snapshotSvc := services.NewSnapshotService(hubClient)
	watchManager := services.NewWatchManager(
		snapshotSvc,
		cfg.LivePollInterval,
		cfg.IdlePollInterval,
		cfg.CountdownTick,
	)
	defer watchManager.StopAll()

	displaySvc := services.NewDisplayService(displayRepo, watchManager, cfg.HeartbeatTTL)
	assemblySvc := services.NewAssemblyService(hubClient, watchManager)

	twClient := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.TwilioAccountSID,
		Password: cfg.TwilioAuthToken,
	})
	sgClient := sendgrid.NewSendClient(cfg.SendGridAPIKey)
	escalationSvc := services.NewEscalationService(
		displayRepo,
		watchManager,
		twClient,
		sgClient,
		cfg.SendGridFromEmail,
		cfg.TwilioFromPhone,
		cfg.OrganizationName,
	)

	if err := displaySvc.ResumeWatches(context.Background()); err != nil {
		utils.Logger.WithError(err).Warn("Failed to resume watches from display registry")
	}

	healthController := controllers.NewHealthController(application)
	kioskController := controllers.NewKioskController(watchManager)
	displayController := controllers.NewDisplayController(displaySvc)
	assemblyController := controllers.NewAssemblyController(assemblySvc)

	router := mux.NewRouter()

	// Public
	router.HandleFunc(routes.Health, healthController.HealthCheckHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.Displays, displayController.RegisterHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.DisplayHeartbeat, displayController.HeartbeatHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.KioskView, kioskController.GetViewHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.KioskRefresh, kioskController.RefreshHandler).Methods(http.MethodPost)

	// Operator-only assembly management
	secured := router.NewRoute().Subrouter()
	secured.Use(middleware.OperatorAuthMiddleware(cfg.OperatorJWTPublicKey))

	secured.HandleFunc(routes.AgendaItemStart, assemblyController.StartItemHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.AgendaItemComplete, assemblyController.CompleteItemHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.AgendaItemSuggestion, assemblyController.SuggestedDecisionHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.AssemblyEnd, assemblyController.EndAssemblyHandler).Methods(http.MethodPost)

	c := cron.New()
	_, escErr := c.AddFunc("@every 10m", func() {
		if e := escalationSvc.RunEscalationCheck(context.Background()); e != nil {
			utils.Logger.WithError(e).Error("Escalation check failed")
		}
	})
	if escErr != nil {
		utils.Logger.WithError(escErr).Fatal("Failed to schedule escalation cron")
	}

	_, evictErr := c.AddFunc("@every 5m", func() {
		if e := displaySvc.EvictStaleWatches(context.Background()); e != nil {
			utils.Logger.WithError(e).Error("Stale watch eviction failed")
		}
	})
	if evictErr != nil {
		utils.Logger.WithError(evictErr).Fatal("Failed to schedule eviction cron")
	}
	c.Start()

	co := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.AppUrl},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	utils.Logger.Infof("Starting %s on port: %s", cfg.AppName, cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, co.Handler(router)); err != nil {
		utils.Logger.Fatal("kiosk-service failed to start:", err)
	}
}
