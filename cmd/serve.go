package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/datainfa/compliance-cli/internal/assess"
	"github.com/datainfa/compliance-cli/internal/model"
	"github.com/datainfa/compliance-cli/internal/questionnaire"
	"github.com/datainfa/compliance-cli/internal/recommend"
	"github.com/datainfa/compliance-cli/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP server for assessment requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		loader := questionnaire.NewLoader(cfg.Questionnaire.Dir)
		mux := newServeMux(loader, st)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// assessRequest is the POST /api/assess payload.
type assessRequest struct {
	Organization string            `json:"organization"`
	Regulation   string            `json:"regulation"`
	Industry     string            `json:"industry"`
	Responses    model.ResponseSet `json:"responses"`
	Save         bool              `json:"save"`
}

// assessResponse pairs the stored assessment with the bucketed
// recommendation view so clients do not recompute priorities.
type assessResponse struct {
	*model.Assessment
	Priorities recommend.Buckets `json:"priorities"`
}

func newServeMux(provider assess.Provider, st store.Store) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	mux.HandleFunc("POST /api/assess", func(w http.ResponseWriter, r *http.Request) {
		var req assessRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		if req.Regulation == "" || req.Industry == "" {
			http.Error(w, `{"error":"regulation and industry are required"}`, http.StatusBadRequest)
			return
		}

		results := assess.Run(provider, req.Regulation, req.Industry, req.Responses)
		a := &model.Assessment{
			Organization: req.Organization,
			Regulation:   req.Regulation,
			Industry:     req.Industry,
			Responses:    req.Responses,
			Results:      results,
			CreatedAt:    time.Now().UTC(),
		}

		if req.Save && st != nil {
			saved, err := st.CreateAssessment(r.Context(), a)
			if err != nil {
				zap.L().Error("save assessment failed", zap.Error(err))
				http.Error(w, `{"error":"failed to save assessment"}`, http.StatusInternalServerError)
				return
			}
			a = saved
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(assessResponse{
			Assessment: a,
			Priorities: recommend.OrganizeByPriority(&results),
		})
	})

	mux.HandleFunc("GET /api/assessments", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filter := store.Filter{
			Regulation:   q.Get("regulation"),
			Industry:     q.Get("industry"),
			Organization: q.Get("organization"),
		}

		assessments, err := st.ListAssessments(r.Context(), filter)
		if err != nil {
			zap.L().Error("list assessments failed", zap.Error(err))
			http.Error(w, `{"error":"failed to list assessments"}`, http.StatusInternalServerError)
			return
		}
		if assessments == nil {
			assessments = []model.Assessment{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(assessments)
	})

	mux.HandleFunc("GET /api/assessments/{id}", func(w http.ResponseWriter, r *http.Request) {
		a, err := st.GetAssessment(r.Context(), r.PathValue("id"))
		if err != nil {
			http.Error(w, `{"error":"assessment not found"}`, http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(a)
	})

	return mux
}
