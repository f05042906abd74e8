// 군무표(Gunmupyo) 근무표 생성 엔진
// 주 프로그램 진입점
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/paiban/gunmupyo/internal/config"
	"github.com/paiban/gunmupyo/internal/database"
	"github.com/paiban/gunmupyo/internal/handler"
	"github.com/paiban/gunmupyo/internal/metrics"
	"github.com/paiban/gunmupyo/internal/repository"
	"github.com/paiban/gunmupyo/pkg/logger"
)

// 빌드 정보 (ldflags로 주입)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(logger.Config{
		Level:  cfg.App.LogLevel,
		Format: "console",
	})

	fmt.Printf("Gunmupyo 근무표 엔진 v%s\n", Version)
	fmt.Printf("Build: %s (%s)\n", BuildTime, GitCommit)
	fmt.Println()

	var runs *repository.RunRepository
	if cfg.Solver.AuditEnabled {
		db, err := database.New(&cfg.Database)
		if err != nil {
			logger.Error().Err(err).Msg("감사 로그용 데이터베이스 연결 실패, 감사 로그 없이 계속 진행")
		} else {
			defer db.Close()
			runs = repository.NewRunRepository(db)
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := runs.EnsureSchema(ctx); err != nil {
				logger.Error().Err(err).Msg("감사 로그 스키마 생성 실패")
				runs = nil
			}
			cancel()
		}
	}

	scheduleHandler := handler.NewScheduleHandler(runs, cfg.Solver.DefaultTimeout)
	var runsHandler *handler.RunsHandler
	if runs != nil {
		runsHandler = handler.NewRunsHandler(runs)
	}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "gunmupyo"})
	})

	r.Get("/version", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, metrics.Handler())
	}

	endpoints := map[string]string{
		"generate": "POST /api/v1/schedule/generate",
	}
	if runsHandler != nil {
		endpoints["runs"] = "GET /api/v1/runs"
	}

	r.Route("/api/v1", func(api chi.Router) {
		api.Get("/", func(w http.ResponseWriter, r *http.Request) {
			respondJSON(w, http.StatusOK, map[string]interface{}{
				"message":   "Gunmupyo 근무표 생성 API v1",
				"endpoints": endpoints,
			})
		})
		api.Post("/schedule/generate", scheduleHandler.Generate)
		if runsHandler != nil {
			api.Get("/runs", runsHandler.List)
		}
	})

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.Solver.DefaultTimeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info().
			Str("addr", addr).
			Str("version", Version).
			Str("url", fmt.Sprintf("http://localhost%s", addr)).
			Msg("서버 시작")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("서버 시작 실패")
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("서버 종료 중...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("서버 종료 실패")
		os.Exit(1)
	}

	logger.Info().Msg("서버 종료 완료")
}

type requestIDKey struct{}

// requestIDMiddleware 요청 추적용 Request-ID를 부여한다.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", requestID)
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID, _ := r.Context().Value(requestIDKey{}).(string)

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		logger.Info().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rw.statusCode).
			Dur("duration", duration).
			Msg("요청 처리")

		metrics.RecordRequestMetrics(r.Method, r.URL.Path, rw.statusCode, duration)
	})
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
