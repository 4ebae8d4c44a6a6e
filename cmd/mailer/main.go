package main

import (
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/lumiloops/portal-api/internal/config"
	"github.com/lumiloops/portal-api/internal/email"
	"github.com/lumiloops/portal-api/internal/mailer"
	"github.com/lumiloops/portal-api/internal/repository"
	"github.com/lumiloops/portal-api/internal/services"
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

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

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

	emailJobRepo := repository.NewEmailJobRepository(db)
	responseRepo := repository.NewResponseRepository(db)

	emailService := services.NewEmailService(emailClient, config.Get().AppBaseUrl)
	guard := mailer.NewGuard(redisAdap, mailer.DefaultGuardConfig())

	service, err := mailer.NewService(redisAdap, emailJobRepo, emailClient)
	if err != nil {
		logger.Error("failed to create the mailer service", "error", err)
		return
	}
	service.RegisterProcessor(mailer.NewEmailProcessor(emailJobRepo, responseRepo, emailService, guard))

	var hostname string
	hostname, err = os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	err = prom.Create(hostname, config.Get().AppEnv, config.Get().PromNamespace)
	if err != nil {
		logger.Error("failed to create prometheus metrics", "error", err)
		return
	}

	go func() {
		prom.ListenAndServer(":9100", "/metrics")
	}()

	go func() {
		err := service.Start()
		if err != nil {
			logger.Error("failed to start the mailer", "error", err)
		}
	}()

	select {
	case <-c:
		service.Stop()
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
