// Package worker drains the run-log queue into Postgres so a slow or
// unavailable database never blocks a chat turn.
package worker

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"mfadvisor-backend/internal/crew"
	"mfadvisor-backend/internal/models"
	"mfadvisor-backend/internal/repository"
)

type Pool struct {
	redis       *redis.Client
	runRepo     *repository.RunRepo
	workerCount int
	stopChan    chan struct{}
}

func NewPool(redisClient *redis.Client, runRepo *repository.RunRepo, workerCount int) *Pool {
	return &Pool{
		redis:       redisClient,
		runRepo:     runRepo,
		workerCount: workerCount,
		stopChan:    make(chan struct{}),
	}
}

func (p *Pool) Start() {
	for i := 0; i < p.workerCount; i++ {
		go p.worker(i)
	}
	log.Printf("Started %d run-log worker goroutines", p.workerCount)
}

func (p *Pool) Stop() {
	close(p.stopChan)
}

func (p *Pool) worker(id int) {
	for {
		select {
		case <-p.stopChan:
			log.Printf("Run-log worker %d shutting down", id)
			return
		default:
		}

		ctx := context.Background()

		// BLPOP with a short timeout so shutdown is picked up promptly.
		result, err := p.redis.BLPop(ctx, 5*time.Second, crew.RunLogQueue).Result()
		if err != nil {
			continue // Timeout or error, retry
		}
		if len(result) < 2 {
			continue
		}

		var run models.Run
		if err := json.Unmarshal([]byte(result[1]), &run); err != nil {
			log.Printf("Run-log worker %d: failed to parse run record: %v", id, err)
			continue
		}

		insertCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		if err := p.runRepo.Insert(insertCtx, &run); err != nil {
			log.Printf("Run-log worker %d: failed to persist run %s: %v", id, run.ID, err)
		}
		cancel()
	}
}
