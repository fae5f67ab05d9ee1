package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres" //postgres
	"github.com/joho/godotenv"

	"github.com/danurs/registration-matcher/consts"
	"github.com/danurs/registration-matcher/handler"
	"github.com/danurs/registration-matcher/infra/locker"
	matchingUsecase "github.com/danurs/registration-matcher/usecase/matching"
)

type CronWorkerConfig struct {
	Interval time.Duration
	Workers  int
}

func (cfg CronWorkerConfig) startMatchExecutorWorker(h *handler.MatchingHandler, workerID int) {
	for {
		ctx := context.Background()
		err := h.MatchExecution(ctx)
		if err != nil {
			log.Printf("[Worker %d] error: %s", workerID, err.Error())
		} else {
			log.Printf("[Worker %d] success", workerID)
		}

		time.Sleep(cfg.Interval)
	}
}

type App struct {
	DB     *gorm.DB
	Locker *locker.Locker
}

func (a *App) startCronWorker(cfg CronWorkerConfig) {
	var wg sync.WaitGroup

	matchingUc := matchingUsecase.NewMatchingUsecase(a.DB, a.Locker)
	h := handler.NewMatchingHandler(matchingUc)

	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			log.Printf("spawn [Worker %d]", workerID)
			cfg.startMatchExecutorWorker(h, workerID)
		}(i + 1)
	}
	wg.Wait()
}

func (a *App) Initialize(DbHost, DbPort, DbUser, DbName, DbPassword string) {
	var err error
	DBURI := fmt.Sprintf("host=%s port=%s user=%s dbname=%s sslmode=disable password=%s", DbHost, DbPort, DbUser, DbName, DbPassword)

	a.DB, err = gorm.Open("postgres", DBURI)
	if err != nil {
		log.Fatalf("cannot connect to database %s: %v", DbName, err)
	}
	log.Printf("connected to database %s", DbName)

	a.Locker = locker.New()
}

func (a *App) RunServer() {
	a.startCronWorker(CronWorkerConfig{
		Workers:  intFromEnv("WORKER_NUM", consts.DefaultWorkerNumber),
		Interval: time.Duration(intFromEnv("INTERVAL_SEC", consts.DefaultIntervalInSec)) * time.Second,
	})
}

func intFromEnv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func main() {
	godotenv.Load()

	app := App{}
	app.Initialize(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PASSWORD"))

	app.RunServer()
}
