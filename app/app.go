package app

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/ibragimovrs/library-catalog/config"
	"github.com/ibragimovrs/library-catalog/internal/handler"
	"github.com/ibragimovrs/library-catalog/internal/repository"
	"github.com/ibragimovrs/library-catalog/internal/server"
	authsvc "github.com/ibragimovrs/library-catalog/internal/service/auth"
	"github.com/ibragimovrs/library-catalog/internal/service/borrow"
	"github.com/ibragimovrs/library-catalog/internal/service/catalog"
	"github.com/ibragimovrs/library-catalog/internal/service/circulation"
	"github.com/ibragimovrs/library-catalog/internal/service/stats"
	"github.com/ibragimovrs/library-catalog/pkg/kafka"
	"github.com/ibragimovrs/library-catalog/pkg/logger"
)

func Run(cfg *config.Config) {
	log := logger.NewLogger(cfg.Log, "library")

	repo, err := repository.NewRepository(cfg.Store, log)
	if err != nil {
		log.Fatal("repo", zap.Error(err))
	}

	catalogSvc := catalog.NewService(repo, log)
	borrowSvc := borrow.NewService(repo, log)
	circulationSvc := circulation.NewService(catalogSvc, borrowSvc, log)
	authSvc := authsvc.NewService(repo, log)
	statsSvc := stats.NewService(repo, log)

	var producer sarama.SyncProducer
	if len(cfg.Kafka.Addrs) > 0 {
		if producer, err = kafka.NewProducer(cfg.Kafka); err != nil {
			log.Fatal("kafka.NewProducer", zap.Error(err))
		}
	}

	h := handler.New(handler.Services{
		Catalog:     catalogSvc,
		Borrow:      borrowSvc,
		Circulation: circulationSvc,
		Auth:        authSvc,
		Stats:       statsSvc,
	}, handler.NewEnqueuer(producer), log)

	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
	go func() {
		if err := srv.Run(); err != nil {
			log.Error("server run", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	termSig := <-sig

	log.Debug("Graceful shutdown", zap.Any("signal", termSig))

	closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = srv.Stop(closeCtx); err != nil {
		log.DPanic("srv.Stop", zap.Error(err))
	}
	if producer != nil {
		_ = producer.Close()
	}
	log.Info("Graceful shutdown finished")
}
