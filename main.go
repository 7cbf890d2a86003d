package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"clipsmith/api"
	"clipsmith/common"
	"clipsmith/config"
	"clipsmith/editor"
	"clipsmith/ffmpeg"
	"clipsmith/jobstore"
	"clipsmith/kafka"
)

const (
	// DefaultAPIPort is the default port for the HTTP API server
	DefaultAPIPort = ":8080"
)

func main() {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	batchMode := flag.Bool("batch", false, "Process job JSON files from the input/ directory")
	kafkaMode := flag.Bool("kafka", false, "Consume edit jobs from Kafka")
	apiPort := flag.String("port", DefaultAPIPort, "API server port (e.g., :8080)")
	flag.Parse()

	log.Println("Video Edit Service - Starting...")

	ctx := context.Background()

	store, err := common.NewS3FromEnv(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	transcoder := ffmpeg.New(os.Getenv("FFMPEG_BIN"), os.Getenv("FFPROBE_BIN"), 0)
	proc := editor.NewProcessor(store, transcoder, os.Getenv("WORK_DIR"))

	if *batchMode {
		log.Println("Running in BATCH mode")
		if err := proc.ProcessFromDirectory(ctx, config.InputDir); err != nil {
			log.Fatalf("Batch processing failed: %v", err)
		}
		os.Exit(0)
	}

	jobs, err := jobstore.NewStoreFromEnv(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize job store: %v", err)
	}
	defer jobs.Close()

	if *kafkaMode {
		log.Println("Running in KAFKA consumer mode")

		kafkaConfig := kafka.EditJobConsumerConfig{
			Brokers:   kafka.GetKafkaBrokers(),
			Topic:     kafka.GetKafkaTopic(),
			GroupID:   kafka.GetKafkaGroupID(),
			Processor: proc,
			Store:     jobs,
		}

		log.Printf("Kafka Brokers: %v", kafkaConfig.Brokers)
		log.Printf("Topic: %s", kafkaConfig.Topic)
		log.Printf("Consumer Group: %s", kafkaConfig.GroupID)

		if err := kafka.StartConsumerWithGracefulShutdown(kafkaConfig); err != nil {
			log.Fatalf("Kafka consumer failed: %v", err)
		}
		os.Exit(0)
	}

	log.Println("Running in API mode")

	r := api.NewRouter(api.Deps{Processor: proc, Store: jobs})

	log.Printf("API server listening on %s", *apiPort)
	log.Println("Endpoints:")
	log.Println("  POST /api/jobs      - Submit an edit job")
	log.Println("  GET  /api/jobs/:id  - Fetch a job record")
	log.Println("  GET  /api/health    - Health check")

	if err := r.Run(*apiPort); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
