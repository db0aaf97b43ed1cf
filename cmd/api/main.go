package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/andresuchdata/stockcast/internal/cache"
	"github.com/andresuchdata/stockcast/internal/config"
	"github.com/andresuchdata/stockcast/internal/repository/postgres"
	"github.com/andresuchdata/stockcast/internal/service"
)

// Minimal operations server: trigger forecast runs and inspect run status
// without going through the dashboard API.
func main() {
	// Load environment variables from .env file if it exists
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	forecastService := service.NewForecastService(
		postgres.NewCatalogRepository(db),
		postgres.NewSalesRepository(db),
		postgres.NewInventoryRepository(db),
		postgres.NewSeasonalEventRepository(db),
		postgres.NewForecastRepository(db),
		cache.NewNoopForecastCache(),
		cfg.Forecast.Engine(),
	)
	forecastRepo := postgres.NewForecastRepository(db)

	r := mux.NewRouter()

	r.HandleFunc("/ops/forecast/run", func(w http.ResponseWriter, req *http.Request) {
		asOf := time.Now().UTC().Truncate(24 * time.Hour)
		if raw := req.URL.Query().Get("as_of"); raw != "" {
			parsed, err := time.Parse("2006-01-02", raw)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "as_of must be YYYY-MM-DD"})
				return
			}
			asOf = parsed
		}

		run, err := forecastService.Run(req.Context(), asOf, nil)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, run)
	}).Methods("POST")

	r.HandleFunc("/ops/forecast/runs/latest", func(w http.ResponseWriter, req *http.Request) {
		run, err := forecastRepo.GetLatestRun(req.Context())
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		if run == nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "no forecast run yet"})
			return
		}
		writeJSON(w, http.StatusOK, run)
	}).Methods("GET")

	r.HandleFunc("/ops/forecast/runs/{id}", func(w http.ResponseWriter, req *http.Request) {
		id, err := strconv.ParseInt(mux.Vars(req)["id"], 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "run id must be numeric"})
			return
		}
		run, err := forecastRepo.GetRun(req.Context(), id)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		if run == nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "run not found"})
			return
		}
		writeJSON(w, http.StatusOK, run)
	}).Methods("GET")

	// Health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Ops server starting on %s\n", addr)
	log.Fatal(http.ListenAndServe(addr, r))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
