package editor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"clipsmith/config"
	"clipsmith/types"
)

// ProcessFromDirectory runs the pipeline for every job JSON file in inputDir.
// Jobs run concurrently up to MaxConcurrentJobs; each job's pipeline stays
// sequential. Per-job failures are logged, not fatal to the batch.
func (p *Processor) ProcessFromDirectory(ctx context.Context, inputDir string) error {
	files, err := filepath.Glob(filepath.Join(inputDir, "*.json"))
	if err != nil {
		return fmt.Errorf("failed to read job files: %w", err)
	}
	if len(files) == 0 {
		log.Printf("no job files found in %s", inputDir)
		return nil
	}

	log.Printf("found %d job(s) to process", len(files))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, config.MaxConcurrentJobs)

	for i, file := range files {
		wg.Add(1)
		go func(idx int, file string) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			if err := p.processFile(ctx, file, idx+1, len(files)); err != nil {
				log.Printf("failed to process %s: %v", file, err)
			}
		}(i, file)
	}

	wg.Wait()
	log.Println("all jobs processed")
	return nil
}

func (p *Processor) processFile(ctx context.Context, file string, current, total int) error {
	log.Printf("[%d/%d] processing %s", current, total, filepath.Base(file))

	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("failed to read job file: %w", err)
	}

	var job types.Job
	if err := json.Unmarshal(data, &job); err != nil {
		return fmt.Errorf("failed to parse job file: %w", err)
	}

	updated, err := p.ProcessJob(ctx, job)
	if errors.Is(err, ErrNoSourceVideo) {
		log.Printf("[%d/%d] skipped: %v", current, total, err)
		return nil
	}
	if err != nil {
		return err
	}

	// Write the updated record back next to the input so batch runs leave an
	// inspectable result per job.
	out, _ := json.MarshalIndent(updated, "", "  ")
	resultPath := file[:len(file)-len(".json")] + ".result.json"
	return os.WriteFile(resultPath, out, 0o644)
}
