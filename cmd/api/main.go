package main

import (
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/lumiloops/portal-api/internal/config"
	"github.com/lumiloops/portal-api/internal/email"
	"github.com/lumiloops/portal-api/internal/handlers"
	"github.com/lumiloops/portal-api/internal/queue"
	"github.com/lumiloops/portal-api/internal/repository"
	"github.com/lumiloops/portal-api/internal/services"
	"github.com/lumiloops/portal-api/internal/session"
	xhttp "github.com/lumiloops/portal-api/pkg/http"
	"github.com/lumiloops/portal-api/pkg/logger"
	"github.com/lumiloops/portal-api/pkg/pg"
	"github.com/lumiloops/portal-api/pkg/prom"
	"github.com/lumiloops/portal-api/pkg/redis"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {

	err := config.Load(argContainsEnvPath())
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return
	}

	s := xhttp.NewServer(xhttp.DefaultServerOption)
	s.Server.ReadBufferSize = 1024 * 16
	s.Server.WriteBufferSize = 1024 * 16
	s.Use(xhttp.CompressMiddleware(6))
	s.Use(xhttp.TimeoutMiddleware(time.Second * 5))
	s.Use(xhttp.RequestLoggerMiddleware)
	s.Use(xhttp.RecoverMiddleware)
	s.Router = xhttp.CreateDefaultRouter()

	readConf := pg.Config{
		User:     config.Get().PostgresReadUser,
		Host:     config.Get().PostgresReadHost,
		Port:     config.Get().PostgresReadPort,
		Password: config.Get().PostgresReadPassword,
		Database: config.Get().PostgresReadDatabase,
	}
	writeConf := pg.Config{
		User:     config.Get().PostgresWriteUser,
		Host:     config.Get().PostgresWriteHost,
		Port:     config.Get().PostgresWritePort,
		Password: config.Get().PostgresWritePassword,
		Database: config.Get().PostgresWriteDatabase,
	}

	pgDebug := false
	if config.Get().AppEnv == "dev" {
		pgDebug = true
	}
	db, err := pg.CreateReadWrite(readConf, writeConf, pgDebug)
	if err != nil {
		logger.Error("failed connecting to pg", "error", err)
		return
	}

	redisAdap, err := redis.NewRedisAdapter("default", config.Get().RedisUniversalKeyPrefix, &redis.Options{
		Addrs:      []string{config.Get().RedisAddr},
		ClientName: "default",
		DB:         config.Get().RedisDatabase,
		Username:   config.Get().RedisUsername,
		Password:   config.Get().RedisPassword,
	})
	if err != nil {
		logger.Error("failed connecting to redis", "error", err)
		return
	}

	jobQueue, err := queue.New(redisAdap, queue.Config{
		Name:              config.Get().QueueName,
		ConsumerGroup:     config.Get().QueueConsumerGroup,
		ConsumerName:      config.Get().QueueConsumerName,
		MaxRetries:        config.Get().QueueMaxRetries,
		VisibilityTimeout: config.Get().QueueVisibilityTimeout,
		PollInterval:      config.Get().QueuePollInterval,
		BatchSize:         config.Get().QueueBatchSize,
		MaxLen:            config.Get().QueueMaxLen,
		EnableDLQ:         config.Get().QueueEnableDLQ,
	})
	if err != nil {
		logger.Error("failed creating queue", "error", err)
		return
	}

	var hostname string
	hostname, err = os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	if err := prom.Create(hostname, config.Get().AppEnv, config.Get().PromNamespace); err != nil {
		logger.Error("failed to create prometheus metrics", "error", err)
	}
	if config.Get().AppDebugMetricsAddr != "" {
		go func() {
			prom.ListenAndServer(config.Get().AppDebugMetricsAddr, config.Get().AppDebugMetricsURI)
		}()
	}

	emailClient, err := email.NewClient(email.ClientConfig{
		URL:      config.Get().EmailProviderUrl,
		APIKey:   config.Get().EmailProviderAPIKey,
		From:     config.Get().EmailFromAddress,
		FromName: config.Get().EmailFromName,
	})
	if err != nil {
		logger.Error("failed creating email client", "error", err)
		return
	}

	sessionManager := session.NewManager(
		config.Get().SessionSecret,
		config.Get().SessionIssuer,
		time.Duration(config.Get().SessionExpMinutes)*time.Minute,
	)

	inquiryRepo := repository.NewInquiryRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	emailJobRepo := repository.NewEmailJobRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	responseRepo := repository.NewResponseRepository(db)
	ticketRepo := repository.NewTicketRepository(db)

	// services
	auditService := services.NewAuditService(auditRepo)
	inquiryService := services.NewInquiryService(inquiryRepo, notifRepo, profileRepo, emailJobRepo, jobQueue)
	notificationService := services.NewNotificationService(notifRepo)
	queueAdminService := services.NewQueueAdminService(emailJobRepo, auditService)
	responseService := services.NewResponseService(responseRepo, ticketRepo, profileRepo, emailJobRepo, jobQueue, auditService)
	emailService := services.NewEmailService(emailClient, config.Get().AppBaseUrl)
	healthService := services.NewHealthService()

	// v1 handlers
	inquiryHandler := handlers.NewInquiryHandler(inquiryService, auditService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	queueHandler := handlers.NewQueueHandler(queueAdminService)
	auditHandler := handlers.NewAuditHandler(auditService)
	responseHandler := handlers.NewResponseHandler(responseService)
	emailHandler := handlers.NewEmailHandler(emailService)
	healthHandler := handlers.NewHealthHandler(healthService)

	g := s.Router.Group("/api/v1")
	handlers.RegisterInquiryRoutes(g, inquiryHandler, sessionManager)
	handlers.RegisterNotificationRoutes(g, notificationHandler, sessionManager)
	handlers.RegisterQueueRoutes(g, queueHandler, sessionManager)
	handlers.RegisterAuditRoutes(g, auditHandler, sessionManager)
	handlers.RegisterResponseRoutes(g, responseHandler, sessionManager)
	handlers.RegisterEmailRoutes(g, emailHandler, sessionManager)
	handlers.RegisterHealthRoutes(g, healthHandler)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		var err = s.ListenAndServe(config.Get().HttpListenAddr)
		if err != nil {
			logger.Error("error in running http-server", "error", err)
		}
	}()

	select {
	case <-c:
		s.Shutdown()
	}
}

func argContainsEnvPath() string {
	for _, v := range os.Args {
		if strings.Contains(v, "--env=") {
			s := strings.Split(v, "=")
			if _, err := os.Open(s[1]); err != nil {
				logger.Error("failed to open the passed env file, got error" + err.Error())
				return ""
			}
			return s[1]
		}
	}
	return ""
}
