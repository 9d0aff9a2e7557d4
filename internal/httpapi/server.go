// Package httpapi exposes model lifecycle, configuration, rubric and
// evaluation operations over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"neuronexus/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Status() types.StatusResponse
	Ready() bool
	Progress() types.ProgressResponse
	// StartInit begins loading the model in the background.
	StartInit(ctx context.Context) error
	Unload() (bool, error)
	CacheInfo() types.CacheInfo
	ClearCache() error
	SetToken(token string) error
	ClearToken() error
	Rubrics() []types.Rubric
	Rubric(exam types.ExamType) (types.Rubric, bool)
	Evaluate(ctx context.Context, req types.EvaluateRequest) (types.Essay, error)
}

var validate = validator.New()

func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(InflightMiddleware)
	r.Use(MetricsMiddleware)
	if len(corsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id", "X-Log-Level"},
			MaxAge:         300,
		}))
	}
	r.Use(middleware.Compress(5))
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.Status())
	})

	r.Route("/model", func(r chi.Router) {
		r.Post("/init", func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			if err := svc.StartInit(serverBaseCtx); err != nil {
				code := statusFor(err)
				writeJSONError(w, code, err.Error())
				logEnd(r, requestLogLevel(r), "init", code, start, err)
				return
			}
			writeJSON(w, http.StatusAccepted, svc.Progress())
			logEnd(r, requestLogLevel(r), "init", http.StatusAccepted, start, nil)
		})
		r.Get("/progress", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, svc.Progress())
		})
		r.Delete("/", func(w http.ResponseWriter, r *http.Request) {
			had, err := svc.Unload()
			if err != nil {
				writeJSONError(w, statusFor(err), err.Error())
				return
			}
			writeJSON(w, http.StatusOK, map[string]bool{"unloaded": had})
		})
	})

	r.Get("/cache", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.CacheInfo())
	})
	r.Delete("/cache", func(w http.ResponseWriter, r *http.Request) {
		if err := svc.ClearCache(); err != nil {
			writeJSONError(w, statusFor(err), err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	r.Put("/token", func(w http.ResponseWriter, r *http.Request) {
		var req types.TokenRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if err := svc.SetToken(strings.TrimSpace(req.Token)); err != nil {
			writeJSONError(w, statusFor(err), err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	r.Delete("/token", func(w http.ResponseWriter, r *http.Request) {
		if err := svc.ClearToken(); err != nil {
			writeJSONError(w, statusFor(err), err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	r.Get("/rubrics", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, types.RubricsResponse{Rubrics: svc.Rubrics()})
	})
	r.Get("/rubrics/{exam}", func(w http.ResponseWriter, r *http.Request) {
		exam := types.ExamType(strings.ToUpper(chi.URLParam(r, "exam")))
		rb, ok := svc.Rubric(exam)
		if !ok {
			writeJSONError(w, http.StatusNotFound, "no rubric for exam type "+string(exam))
			return
		}
		writeJSON(w, http.StatusOK, rb)
	})

	r.Post("/evaluate", func(w http.ResponseWriter, r *http.Request) {
		var req types.EvaluateRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		req.ExamType = types.ExamType(strings.ToUpper(string(req.ExamType)))
		lvl := requestLogLevel(r)
		start := time.Now()
		if lvl >= LevelInfo && zlog != nil {
			zlog.Info().Str("exam", string(req.ExamType)).Str("request_id", middleware.GetReqID(r.Context())).Msg("evaluate start")
		}

		// Join server base context with request context so shutdown cancels work too.
		ctx, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		if evaluateTimeout > 0 {
			var tcancel context.CancelFunc
			ctx, tcancel = context.WithTimeout(ctx, evaluateTimeout)
			defer tcancel()
		}
		essay, err := svc.Evaluate(ctx, req)
		if err != nil {
			if r.Context().Err() != nil {
				return
			}
			code := statusFor(err)
			observeEvaluation(string(req.ExamType), "error")
			writeJSONError(w, code, err.Error())
			logEnd(r, lvl, "evaluate", code, start, err)
			return
		}
		observeEvaluation(string(req.ExamType), "graded")
		writeJSON(w, http.StatusOK, essay)
		logEnd(r, lvl, "evaluate", http.StatusOK, start, nil)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("loading"))
	})

	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	MountSwagger(r)

	return r
}

// decodeJSON enforces Content-Type, body size and struct validation. It
// writes the error response itself and reports whether decoding succeeded.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}
