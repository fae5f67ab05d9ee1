package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres" //postgres
	"github.com/joho/godotenv"

	"github.com/danurs/registration-matcher/handler"
	"github.com/danurs/registration-matcher/infra/db/model"
	"github.com/danurs/registration-matcher/infra/locker"
	"github.com/danurs/registration-matcher/middlewares"
	matchingUsecase "github.com/danurs/registration-matcher/usecase/matching"
)

type App struct {
	DB     *gorm.DB
	Router *mux.Router
}

func (a *App) Initialize(DbHost, DbPort, DbUser, DbName, DbPassword string) {
	var err error
	DBURI := fmt.Sprintf("host=%s port=%s user=%s dbname=%s sslmode=disable password=%s", DbHost, DbPort, DbUser, DbName, DbPassword)

	a.DB, err = gorm.Open("postgres", DBURI)
	if err != nil {
		log.Fatalf("cannot connect to database %s: %v", DbName, err)
	}
	log.Printf("connected to database %s", DbName)

	a.DB.AutoMigrate(
		&model.PaymentRecord{},
		&model.RegistrationRecord{},
		&model.RegistrationExternalID{},
		&model.ReviewQueueItem{},
		&model.ErrorRecord{},
		&model.MatchRunLog{},
	) //database migration

	a.Router = mux.NewRouter().StrictSlash(true)
	a.initializeRoutes()
}

func RegisterMatchingRoutes(router *mux.Router, h *handler.MatchingHandler) {
	router.HandleFunc("/payments", h.IngestPayment).Methods("POST")
	router.HandleFunc("/payments/duplicate", h.MarkDuplicate).Methods("POST")
	router.HandleFunc("/registrations", h.IngestRegistration).Methods("POST")
	router.HandleFunc("/match_runs", h.CreateMatchRun).Methods("POST")
	router.HandleFunc("/match_runs/result", h.GetMatchRunResult).Methods("GET")
	router.HandleFunc("/review_queue", h.GetReviewQueue).Methods("GET")
	router.HandleFunc("/review_queue/decision", h.DecideReview).Methods("POST")
	router.HandleFunc("/reports/match_counts", h.GetMatchCounts).Methods("GET")
}

func (a *App) initializeRoutes() {
	a.Router.Use(middlewares.SetContentTypeMiddleware)
	matchingUc := matchingUsecase.NewMatchingUsecase(a.DB, locker.New())
	h := handler.NewMatchingHandler(matchingUc)
	RegisterMatchingRoutes(a.Router, h)
}

func (a *App) RunServer() {
	port := os.Getenv("PORT")

	if port == "" {
		port = "8080"
	}

	log.Printf("\nServer starting on port %v", port)
	log.Fatal(http.ListenAndServe(":"+port, a.Router))
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
