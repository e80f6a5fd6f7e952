package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"example.com/socialfeed/cmd/server"
	"example.com/socialfeed/cmd/worker"
	"example.com/socialfeed/internal/broker"
	config "example.com/socialfeed/internal/init"
	"example.com/socialfeed/internal/metrics"
	"example.com/socialfeed/internal/store"
)

func main() {
	// Initialize application configuration
	cfg := config.Init()

	// Initialize the in-memory social state (empty; lives for the process)
	st := store.New()
	if cfg.SeedUsers {
		st.CreateUser("alice", "Alice")
		st.CreateUser("bob", "Bob")
	}

	// Optional Prometheus endpoint
	metrics.StartServer(cfg.MetricsAddr)

	// Configure Kafka client parameters
	kafkaCfg := broker.KafkaConfig{
		Brokers:      []string{cfg.KafkaBroker},
		Topic:        cfg.KafkaTopic,
		Partition:    cfg.KafkaPartition,
		GroupID:      cfg.KafkaGroupID,
		WriteTimeout: cfg.KafkaWriteTO,
		ReadTimeout:  cfg.KafkaReadTO,
	}

	// Setup OS signal handling for graceful shutdown (SIGINT, SIGTERM)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Run application depending on selected mode
	switch cfg.Mode {
	case "single":
		// Server and notification worker share the store and an
		// in-process broker; no external Kafka needed.
		ch := broker.NewChannel(256)
		defer ch.Close()

		w := worker.New(st, ch, 0, 0)
		workerDone := make(chan struct{})
		go func() {
			w.Run(ctx)
			close(workerDone)
		}()

		server.Run(ctx, st, ch, cfg)
		ch.Close()
		<-workerDone
	case "server":
		// Publish events to an external Kafka broker
		kafkaWriter, err := broker.NewKafkaWriter(kafkaCfg)
		if err != nil {
			log.Fatalf("Kafka writer init failed: %v", err)
		}
		defer kafkaWriter.Close()
		server.Run(ctx, st, kafkaWriter, cfg)
	case "worker":
		// Consume events from an external Kafka broker
		kafkaReader := broker.NewKafkaReader(kafkaCfg)
		defer kafkaReader.Close()
		w := worker.New(st, kafkaReader, 0, 0)
		w.Run(ctx)
	default:
		log.Fatalf("unknown mode: %s", cfg.Mode)
	}

	log.Println("Shutdown completed")
}
