package kafka

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"clipsmith/editor"
	"clipsmith/ffmpeg"
	"clipsmith/jobstore"
	"clipsmith/types"
)

// EditJobConsumerConfig wires the edit pipeline into a Kafka consumer.
type EditJobConsumerConfig struct {
	Brokers   []string
	Topic     string
	GroupID   string
	Processor *editor.Processor
	Store     *jobstore.Store
}

// NewEditJobConsumer builds a consumer that runs the edit pipeline for each
// job record on the topic and persists the updated record.
//
// Marking policy: records with no ID, skipped jobs (no source video) and
// transcode/probe failures are marked so the broker drops them; timeouts and
// storage errors stay unmarked for redelivery.
func NewEditJobConsumer(config EditJobConsumerConfig) (*Consumer, error) {
	handler := &TypedMessageHandler[types.Job]{
		Validate: func(job *types.Job) bool {
			if job.ID == "" {
				log.Printf("message missing job ID, skipping")
				return false
			}
			return true
		},
		Process: func(ctx context.Context, job *types.Job) error {
			log.Printf("processing edit job %s", job.ID)

			updated, err := config.Processor.ProcessJob(ctx, *job)
			if errors.Is(err, editor.ErrNoSourceVideo) {
				log.Printf("job %s skipped: %v", job.ID, err)
				return nil
			}

			if saveErr := config.Store.Save(ctx, updated); saveErr != nil {
				log.Printf("failed to persist job %s: %v", job.ID, saveErr)
				if err == nil {
					err = saveErr
				}
			}
			return err
		},
		Retriable: func(err error) bool {
			// A decode error will fail identically on every delivery; a
			// timeout is load-dependent and worth one more pass through the
			// queue, as are storage errors.
			var tErr *ffmpeg.TranscodeError
			var pErr *ffmpeg.ProbeError
			if errors.As(err, &tErr) || errors.As(err, &pErr) {
				return false
			}
			return true
		},
		AlwaysMark: true,
	}

	return NewConsumer(ConsumerConfig{
		Brokers: config.Brokers,
		Topic:   config.Topic,
		GroupID: config.GroupID,
		Handler: handler,
	})
}

// StartConsumerWithGracefulShutdown runs the consumer until SIGINT/SIGTERM.
func StartConsumerWithGracefulShutdown(config EditJobConsumerConfig) error {
	consumer, err := NewEditJobConsumer(config)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := consumer.Start(ctx); err != nil {
		return err
	}

	sigterm := make(chan os.Signal, 1)
	signal.Notify(sigterm, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigterm:
		log.Println("Received termination signal")
	case <-ctx.Done():
		log.Println("Context canceled")
	}

	cancel()

	// Give in-flight processing a moment to finish cleanup
	time.Sleep(2 * time.Second)

	return consumer.Close()
}

// GetKafkaBrokers parses the Kafka broker list from the environment.
func GetKafkaBrokers() []string {
	brokers := os.Getenv("KAFKA_BOOTSTRAP_SERVERS")
	if brokers == "" {
		brokers = "localhost:9093"
	}
	return strings.Split(brokers, ",")
}

// GetKafkaTopic returns the edit-job topic name.
func GetKafkaTopic() string {
	topic := os.Getenv("KAFKA_TOPIC_EDIT_JOBS")
	if topic == "" {
		topic = "video-edit-jobs"
	}
	return topic
}

// GetKafkaGroupID returns the consumer group ID.
func GetKafkaGroupID() string {
	groupID := os.Getenv("KAFKA_CONSUMER_GROUP_ID")
	if groupID == "" {
		groupID = "clipsmith-editor-group"
	}
	return groupID
}
