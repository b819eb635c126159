// Command veristamp-gateway runs a development proof-registry gateway.
//
// It serves the same JSON API the veristamp CLI talks to, backed by a local
// SQLite database instead of a chain transaction, so registration and
// verification flows can be exercised without a wallet or a deployed
// contract. Not for production use: proofs are only as durable as the
// database file and the creator identity is a configured constant.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/veristamp/veristamp/internal/store"
)

func main() {
	listen := flag.String("listen", envOrDefault("VERISTAMP_LISTEN", "127.0.0.1:8930"), "Listen address")
	dataDir := flag.String("data-dir", envOrDefault("VERISTAMP_DATA_DIR", "."), "Data directory")
	token := flag.String("token", os.Getenv("VERISTAMP_TOKEN"), "Bearer token required on all API calls (empty disables auth)")
	creator := flag.String("creator", envOrDefault("VERISTAMP_CREATOR", "0xdev"), "Creator identity attributed to registrations")
	logLevel := flag.String("log-level", envOrDefault("VERISTAMP_LOG_LEVEL", "info"), "Log level (debug, info, warn, error)")
	logFormat := flag.String("log-format", envOrDefault("VERISTAMP_LOG_FORMAT", "json"), "Log format (json, text)")
	flag.Parse()

	// Setup logger
	var level slog.Level
	switch *logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: level}
	if *logFormat == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)

	if err := os.MkdirAll(*dataDir, 0755); err != nil {
		logger.Error("failed to create data directory", "error", err, "path", *dataDir)
		os.Exit(1)
	}

	blob, err := store.OpenSQLite(filepath.Join(*dataDir, "gateway.db"))
	if err != nil {
		logger.Error("failed to open proof database", "error", err)
		os.Exit(1)
	}
	defer blob.Close()

	gw := &gateway{
		blob:    blob,
		token:   *token,
		creator: *creator,
		logger:  logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/proofs", gw.auth(gw.handleRegister))
	mux.HandleFunc("GET /api/v1/proofs/{hash}", gw.auth(gw.handleVerify))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := &http.Server{
		Addr:         *listen,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		BaseContext:  func(_ net.Listener) context.Context { return context.Background() },
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("starting veristamp-gateway", "listen", *listen, "data_dir", *dataDir)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-done
	logger.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
	logger.Info("gateway stopped")
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

// gateway holds the dev gateway's state: a kv blob of proofs keyed by content
// hash plus a sequence counter for proof IDs.
type gateway struct {
	blob    *store.SQLiteBlob
	token   string
	creator string
	logger  *slog.Logger

	mu sync.Mutex // serializes register's read-check-write
}

// proof is the persisted registration, one per content hash.
type proof struct {
	ProofID     string `json:"proof_id"`
	VectorHash  string `json:"vector_hash"`
	MetadataURI string `json:"metadata_uri"`
	Creator     string `json:"creator"`
	Timestamp   int64  `json:"timestamp"`
}

const proofKeyPrefix = "proof:"
const seqKey = "proof_seq"

func (g *gateway) auth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if g.token != "" && r.Header.Get("Authorization") != "Bearer "+g.token {
			writeError(w, http.StatusUnauthorized, "unauthorized", "missing or invalid token")
			return
		}
		next(w, r)
	}
}

func (g *gateway) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ContentHash string `json:"content_hash"`
		VectorHash  string `json:"vector_hash"`
		MetadataURI string `json:"metadata_uri"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	if req.ContentHash == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "content_hash is required")
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	key := proofKeyPrefix + req.ContentHash
	if existing, err := g.blob.Get(key); err == nil && len(existing) > 0 {
		writeError(w, http.StatusConflict, "already_registered", "content hash already registered")
		return
	}

	id, err := g.nextProofID()
	if err != nil {
		g.logger.Error("failed to allocate proof id", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "could not allocate proof id")
		return
	}

	p := proof{
		ProofID:     id,
		VectorHash:  req.VectorHash,
		MetadataURI: req.MetadataURI,
		Creator:     g.creator,
		Timestamp:   time.Now().Unix(),
	}
	data, _ := json.Marshal(p)
	if err := g.blob.Set(key, data); err != nil {
		g.logger.Error("failed to persist proof", "error", err, "content_hash", req.ContentHash)
		writeError(w, http.StatusInternalServerError, "internal_error", "could not persist proof")
		return
	}

	g.logger.Info("proof registered",
		"proof_id", p.ProofID,
		"content_hash", req.ContentHash,
		"degraded", req.VectorHash == "")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"proof_id": p.ProofID})
}

func (g *gateway) handleVerify(w http.ResponseWriter, r *http.Request) {
	hash := r.PathValue("hash")

	data, err := g.blob.Get(proofKeyPrefix + hash)
	if err != nil {
		g.logger.Error("failed to read proof", "error", err, "content_hash", hash)
		writeError(w, http.StatusInternalServerError, "internal_error", "could not read proof")
		return
	}
	if len(data) == 0 {
		writeError(w, http.StatusNotFound, "not_found", "no proof for content hash")
		return
	}

	var p proof
	if err := json.Unmarshal(data, &p); err != nil {
		g.logger.Error("corrupt proof record", "error", err, "content_hash", hash)
		writeError(w, http.StatusInternalServerError, "internal_error", "corrupt proof record")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"found":     true,
		"creator":   p.Creator,
		"timestamp": p.Timestamp,
	})
}

// nextProofID increments the persisted sequence counter. Caller holds g.mu.
func (g *gateway) nextProofID() (string, error) {
	var seq int64
	if data, err := g.blob.Get(seqKey); err != nil {
		return "", err
	} else if len(data) > 0 {
		seq, _ = strconv.ParseInt(string(data), 10, 64)
	}

	seq++
	if err := g.blob.Set(seqKey, []byte(strconv.FormatInt(seq, 10))); err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", seq), nil
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"code": code, "message": message})
}
