package app

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Astemirdum/library-management/library/config"
	"github.com/Astemirdum/library-management/library/internal/handler"
	"github.com/Astemirdum/library-management/library/internal/repository"
	"github.com/Astemirdum/library-management/library/internal/server"
	"github.com/Astemirdum/library-management/library/internal/service"
	"github.com/Astemirdum/library-management/library/migrations"
	"github.com/Astemirdum/library-management/pkg/auth"
	"github.com/Astemirdum/library-management/pkg/circuitbreaker"
	"github.com/Astemirdum/library-management/pkg/kafka"
	"github.com/Astemirdum/library-management/pkg/logger"
	"github.com/Astemirdum/library-management/pkg/postgres"
	"go.uber.org/zap"
)

func Run(cfg *config.Config) {
	log := logger.NewLogger(cfg.Log, "library")
	defer log.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewPostgresDB(ctx, &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		log.Fatal("db init", zap.Error(err))
	}
	repo, err := repository.NewRepository(db, log)
	if err != nil {
		log.Fatal("repo", zap.Error(err))
	}

	tokens := auth.NewTokenManager(cfg.Auth)
	opts := []service.Option{}
	if cfg.Kafka.Enable {
		producer, err := kafka.NewProducer(cfg.Kafka)
		if err != nil {
			log.Fatal("kafka.NewProducer", zap.Error(err))
		}
		defer producer.Close()
		cb := circuitbreaker.New(cfg.CircuitBreaker)
		opts = append(opts, service.WithPublisher(service.NewKafkaPublisher(producer, cb)))
	}
	svc := service.NewService(repo, tokens, cfg.Loans, log, opts...)

	if cfg.Kafka.Enable {
		consumer, err := kafka.NewConsumer(cfg.Kafka, kafka.LoanConsumerGroup)
		if err != nil {
			log.Fatal("kafka.NewConsumer", zap.Error(err))
		}
		defer consumer.Close()
		go kafka.Consume(ctx, consumer, handler.NewConsumer(svc.RecordLoanEvent, log), log, kafka.LoanTopic)
	}

	h := handler.New(svc, tokens, log)
	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
	go func() {
		if err := srv.Run(); err != nil {
			log.Error("server run", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Debug("Graceful shutdown")

	closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = srv.Stop(closeCtx); err != nil {
		log.DPanic("srv.Stop", zap.Error(err))
	}
	db.Close()
	log.Info("Graceful shutdown finished")
}
