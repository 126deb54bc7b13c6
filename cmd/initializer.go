package main

import (
	"database/sql"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"accounthilfe/internal/config"
	"accounthilfe/internal/handlers"
	"accounthilfe/internal/repositories"
	"accounthilfe/internal/services"
	"accounthilfe/utils"
)

type application struct {
	errorLog *log.Logger
	infoLog  *log.Logger
	db       *sql.DB
	redis    *redis.Client
	tokens   *utils.Manager

	deadlineService *services.DeadlineService

	caseHandler     *handlers.CaseHandler
	checkoutHandler *handlers.CheckoutHandler
	pendingHandler  *handlers.PendingSubmissionHandler
	adminHandler    *handlers.AdminHandler
	cronHandler     *handlers.CronHandler
	verifyHandler   *handlers.VerifyHandler
	uploadHandler   *handlers.UploadHandler
	webhookHandler  *handlers.WebhookHandler
}

func initializeApp(cfg config.Config, db *sql.DB, rdb *redis.Client, errorLog, infoLog *log.Logger) *application {
	slogger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// Repositories
	caseRepo := repositories.CaseRepository{DB: db}
	userRepo := repositories.UserRepository{DB: db}
	invoiceRepo := repositories.InvoiceRepository{DB: db}
	counterRepo := repositories.CounterRepository{DB: db}
	notificationRepo := repositories.NotificationRepository{DB: db}
	pendingRepo := repositories.PendingSubmissionRepository{DB: db}
	verificationRepo := repositories.VerificationRepository{Redis: rdb}

	// Provider clients
	mailer, err := services.NewMailer(services.MailerConfig{
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		Username: os.Getenv("SMTP_USER"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     cfg.Mail.From,
		Logger:   slogger,
	})
	if err != nil {
		errorLog.Fatal(err)
	}

	stripeSvc, err := services.NewStripeService(services.StripeConfig{
		SecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		WebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		SuccessURL:    cfg.BaseURL + "/erfolg",
		CancelURL:     cfg.BaseURL + "/formular",
		Logger:        slogger,
	})
	if err != nil {
		errorLog.Fatal(err)
	}

	paypalSvc, err := services.NewPayPalService(services.PayPalConfig{
		ClientID:     os.Getenv("PAYPAL_CLIENT_ID"),
		ClientSecret: os.Getenv("PAYPAL_CLIENT_SECRET"),
		BaseURL:      os.Getenv("PAYPAL_BASE_URL"),
		BrandName:    "AccountHilfe",
		ReturnURL:    cfg.BaseURL + "/erfolg",
		CancelURL:    cfg.BaseURL + "/formular",
		Logger:       slogger,
	})
	if err != nil {
		errorLog.Fatal(err)
	}

	tokens, err := utils.NewManager(os.Getenv("JWT_SIGNING_KEY"))
	if err != nil {
		errorLog.Fatal(err)
	}

	// Services
	pendingService := &services.PendingSubmissionService{
		Store:  &pendingRepo,
		Redis:  rdb,
		Logger: slogger,
	}
	caseService := &services.CaseService{
		Cases:      &caseRepo,
		Users:      &userRepo,
		Invoices:   &invoiceRepo,
		Numbers:    &counterRepo,
		Card:       stripeSvc,
		Wallet:     paypalSvc,
		Mail:       mailer,
		Pending:    pendingService,
		AdminEmail: cfg.AdminEmail,
		Logger:     slogger,
	}
	deadlineService := &services.DeadlineService{
		Cases:         &caseRepo,
		Notifications: &notificationRepo,
		Statuses:      &caseRepo,
		Mail:          mailer,
		Logger:        slogger,
	}
	verificationService := &services.VerificationService{
		Store: &verificationRepo,
		Mail:  mailer,
	}

	return &application{
		errorLog:        errorLog,
		infoLog:         infoLog,
		db:              db,
		redis:           rdb,
		tokens:          tokens,
		deadlineService: deadlineService,
		caseHandler: &handlers.CaseHandler{
			Service: caseService,
			Pending: pendingService,
		},
		checkoutHandler: &handlers.CheckoutHandler{
			Stripe:  stripeSvc,
			PayPal:  paypalSvc,
			Pending: pendingService,
		},
		pendingHandler: &handlers.PendingSubmissionHandler{Pending: pendingService},
		adminHandler: &handlers.AdminHandler{
			Service:           caseService,
			Cases:             &caseRepo,
			Users:             &userRepo,
			Invoices:          &invoiceRepo,
			Tokens:            tokens,
			AdminEmail:        cfg.AdminEmail,
			AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
			TokenTTL:          12 * time.Hour,
		},
		cronHandler: &handlers.CronHandler{
			Deadlines: deadlineService,
			Secret:    os.Getenv("CRON_SECRET"),
		},
		verifyHandler:  &handlers.VerifyHandler{Service: verificationService},
		uploadHandler:  &handlers.UploadHandler{},
		webhookHandler: &handlers.WebhookHandler{Stripe: stripeSvc, Logger: slogger},
	}
}
