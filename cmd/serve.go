package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/tradewatch/ipscreen/internal/engine"
	"github.com/tradewatch/ipscreen/internal/model"
	"github.com/tradewatch/ipscreen/internal/report"
	"github.com/tradewatch/ipscreen/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP analysis server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		// Expired runs are swept hourly while the server is up.
		go func() {
			ticker := time.NewTicker(time.Hour)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					if n, err := st.DeleteExpiredRuns(ctx); err != nil {
						zap.L().Warn("expired run sweep failed", zap.Error(err))
					} else if n > 0 {
						zap.L().Info("swept expired runs", zap.Int("deleted", n))
					}
				}
			}
		}()

		analyzer := engine.New(cfg, st)
		router := newRouter(analyzer, st)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: router,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx) //nolint:errcheck
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func newRouter(analyzer *engine.Analyzer, st store.Store) http.Handler {
	limiter := rate.NewLimiter(rate.Limit(cfg.Server.AnalyzePerSec), cfg.Server.AnalyzeBurst)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/api/analyze", func(w http.ResponseWriter, req *http.Request) {
		if !limiter.Allow() {
			writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
			return
		}
		handleAnalyze(w, req, analyzer)
	})

	r.Get("/api/runs", func(w http.ResponseWriter, req *http.Request) {
		runs, err := st.ListRuns(req.Context(), store.RunFilter{
			Status: model.RunStatus(req.URL.Query().Get("status")),
			Limit:  50,
		})
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "list runs failed"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
	})

	r.Get("/api/runs/{id}", func(w http.ResponseWriter, req *http.Request) {
		run, err := st.GetRun(req.Context(), chi.URLParam(req, "id"))
		if err != nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "run not found"})
			return
		}
		writeJSON(w, http.StatusOK, run)
	})

	r.Get("/api/runs/{id}/report", func(w http.ResponseWriter, req *http.Request) {
		run, err := st.GetRun(req.Context(), chi.URLParam(req, "id"))
		if err != nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "run not found"})
			return
		}
		if run.Status != model.RunStatusComplete || run.Result == nil {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "run has no result"})
			return
		}

		wb, err := report.Build(run.Result)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "report build failed"})
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", report.Filename(time.Now())))
		if err := wb.Write(w); err != nil {
			zap.L().Warn("report write aborted", zap.String("run_id", run.ID), zap.Error(err))
		}
	})

	return r
}

// handleAnalyze accepts a multipart form with a "bom" file, repeated "image"
// files, a "document" file or "text" field, and an optional "brand" field.
func handleAnalyze(w http.ResponseWriter, req *http.Request, analyzer *engine.Analyzer) {
	if err := req.ParseMultipartForm(cfg.Server.MaxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
		return
	}

	in := engine.Input{
		BrandScope:   req.FormValue("brand"),
		DocumentText: req.FormValue("text"),
	}

	if file, header, err := req.FormFile("bom"); err == nil {
		path, err := saveUpload(file, header.Filename)
		file.Close() //nolint:errcheck
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to stage BOM file"})
			return
		}
		defer os.Remove(path) //nolint:errcheck
		in.BOMPath = path
	}

	if req.MultipartForm != nil {
		for _, header := range req.MultipartForm.File["image"] {
			file, err := header.Open()
			if err != nil {
				continue
			}
			data, err := io.ReadAll(file)
			file.Close() //nolint:errcheck
			if err != nil {
				continue
			}
			in.Images = append(in.Images, engine.ImageUpload{Name: header.Filename, Data: data})
		}
	}

	if in.DocumentText == "" {
		if file, header, err := req.FormFile("document"); err == nil {
			data, readErr := io.ReadAll(file)
			file.Close() //nolint:errcheck
			if readErr == nil {
				in.DocumentName = header.Filename
				in.DocumentText = string(data)
			}
		}
	}

	if in.Empty() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "no analyzable input provided"})
		return
	}

	run, err := analyzer.Run(req.Context(), in)
	if err != nil {
		if run != nil {
			// The failure is recorded on the run; surface both.
			writeJSON(w, http.StatusUnprocessableEntity, run)
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "analysis failed"})
		return
	}

	writeJSON(w, http.StatusOK, run)
}

// saveUpload stages a multipart file on disk so the BOM parser can stream it.
func saveUpload(src io.Reader, name string) (string, error) {
	f, err := os.CreateTemp("", "ipscreen-*-"+filepath.Base(name))
	if err != nil {
		return "", err
	}
	defer f.Close() //nolint:errcheck
	if _, err := io.Copy(f, src); err != nil {
		os.Remove(f.Name()) //nolint:errcheck
		return "", err
	}
	return f.Name(), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
