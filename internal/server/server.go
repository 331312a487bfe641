// Package server exposes the study assistant over HTTP: upload a document,
// then ask for its summary, answers and quizzes.
package server

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"study-assistant/internal/chunker"
	"study-assistant/internal/config"
	"study-assistant/internal/embedding"
	"study-assistant/internal/extractor"
	"study-assistant/internal/generation"
	"study-assistant/internal/helper"
	"study-assistant/internal/index"
	"study-assistant/internal/models"
	"study-assistant/internal/pipeline"
	"study-assistant/internal/quiz"
	"study-assistant/internal/session"
	"study-assistant/internal/summarizer"
)

const docMetaFile = "doc_meta.json"

type Server struct {
	cfg        *config.Config
	store      *session.Store
	summarizer *summarizer.Summarizer
	quizzer    *quiz.Generator
	generator  generation.Generator
	engine     *gin.Engine

	// fresh embedder per upload so an in-flight query against the old
	// snapshot never sees a refitted vocabulary
	newEmbedder func() (embedding.Embedder, error)
}

type Option func(*Server)

// WithGenerator overrides the generation backend (tests use this).
func WithGenerator(g generation.Generator) Option {
	return func(s *Server) { s.generator = g }
}

// WithQuizGenerator overrides the quiz generator, e.g. with a seeded one.
func WithQuizGenerator(g *quiz.Generator) Option {
	return func(s *Server) { s.quizzer = g }
}

func New(cfg *config.Config, opts ...Option) *Server {
	s := &Server{
		cfg:        cfg,
		store:      session.NewStore(),
		summarizer: summarizer.New(),
		quizzer:    quiz.New(),
		generator:  generation.New(&cfg.Generation),
		newEmbedder: func() (embedding.Embedder, error) {
			return embedding.New(&cfg.Embedding)
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.engine = s.buildEngine()
	return s
}

func (s *Server) buildEngine() *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger())
	engine.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:    []string{"Authorization", "Content-Type", "X-Requested-With"},
	}))

	engine.GET("/healthcheck", s.healthcheck)
	engine.POST("/upload", s.upload)
	engine.GET("/summary", s.summary)
	engine.POST("/query", s.query)
	engine.POST("/quiz", s.quiz)
	engine.GET("/status", s.status)
	return engine
}

// Handler exposes the engine for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) Run() error {
	log.Info().Str("addr", s.cfg.Server.Addr).Msg("Server starting")
	return s.engine.Run(s.cfg.Server.Addr)
}

func (s *Server) healthcheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// upload replaces the whole session: extract, chunk, index, summarize, swap.
func (s *Server) upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		detail(c, http.StatusBadRequest, "A file is required.")
		return
	}

	// a new upload replaces the previous one entirely
	if err := helper.ClearDir(s.cfg.Server.UploadDir); err != nil {
		log.Warn().Err(err).Msg("Failed to clear upload dir")
	}
	if err := helper.CreateFolder(s.cfg.Server.UploadDir); err != nil {
		detail(c, http.StatusInternalServerError, "Failed to prepare upload directory.")
		return
	}

	fileID, err := helper.GenerateUUID()
	if err != nil {
		detail(c, http.StatusInternalServerError, "Failed to generate file id.")
		return
	}

	dest := filepath.Join(s.cfg.Server.UploadDir, fileID+"_"+filepath.Base(fileHeader.Filename))
	if err := c.SaveUploadedFile(fileHeader, dest); err != nil {
		detail(c, http.StatusInternalServerError, "Failed to store upload.")
		return
	}

	text, err := extractor.Extract(dest)
	if err != nil {
		detail(c, http.StatusBadRequest, "Failed to extract text: "+err.Error())
		return
	}
	if strings.TrimSpace(text) == "" {
		detail(c, http.StatusBadRequest, "No text found in file.")
		return
	}

	chunks, err := chunker.Chunk(text, s.cfg.Pipeline.ChunkSize, s.cfg.Pipeline.ChunkOverlap)
	if err != nil {
		detail(c, http.StatusInternalServerError, "Failed to chunk text: "+err.Error())
		return
	}

	embedder, err := s.newEmbedder()
	if err != nil {
		detail(c, http.StatusInternalServerError, "Failed to initialize embedder: "+err.Error())
		return
	}
	ix := index.New(embedder)
	if err := ix.Build(c.Request.Context(), chunks); err != nil {
		detail(c, http.StatusInternalServerError, "Failed to build index: "+err.Error())
		return
	}

	summary, err := s.summarizer.Summarize(text, s.cfg.Pipeline.SummarySentences)
	if err != nil {
		detail(c, http.StatusInternalServerError, "Failed to summarize: "+err.Error())
		return
	}

	s.writeDocMeta(models.DocMeta{
		FileID:    fileID,
		Filename:  fileHeader.Filename,
		NumChunks: len(chunks),
	})

	s.store.Swap(&session.Snapshot{
		Document: models.Document{
			FileID:   fileID,
			Filename: fileHeader.Filename,
			Text:     text,
		},
		Chunks:  chunks,
		Index:   ix,
		Summary: summary,
	})

	c.JSON(http.StatusOK, models.UploadResponse{
		Status:        "ok",
		FileID:        fileID,
		Filename:      fileHeader.Filename,
		SummaryPoints: summary,
	})
}

func (s *Server) summary(c *gin.Context) {
	snap := s.store.Load()
	if snap == nil {
		detail(c, http.StatusNotFound, "No file uploaded yet.")
		return
	}
	c.JSON(http.StatusOK, models.SummaryResponse{
		FileID:   snap.Document.FileID,
		Filename: snap.Document.Filename,
		Summary:  snap.Summary,
	})
}

func (s *Server) query(c *gin.Context) {
	req := models.QueryRequest{TopK: s.cfg.Pipeline.DefaultTopK}
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if req.TopK <= 0 {
		req.TopK = s.cfg.Pipeline.DefaultTopK
	}

	snap := s.store.Load()
	if snap == nil {
		detail(c, http.StatusNotFound, "No file uploaded yet.")
		return
	}

	pipe := pipeline.New(s.generator)
	answer, used, err := pipe.Answer(c.Request.Context(), snap.Index, req.Question, req.TopK)
	if err != nil {
		detail(c, http.StatusInternalServerError, "Failed to answer question: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, models.QueryResponse{
		Question:   req.Question,
		Answer:     answer,
		UsedChunks: used,
	})
}

func (s *Server) quiz(c *gin.Context) {
	req := models.QuizRequest{NumQuestions: 5}
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusBadRequest, "Invalid request body.")
		return
	}

	snap := s.store.Load()
	if snap == nil {
		detail(c, http.StatusNotFound, "No file uploaded yet.")
		return
	}

	items, err := s.quizzer.Generate(snap.Document.Text, req.NumQuestions)
	if err != nil {
		detail(c, http.StatusInternalServerError, "Failed to generate quiz: "+err.Error())
		return
	}
	if items == nil {
		items = []models.QuizItem{}
	}
	c.JSON(http.StatusOK, models.QuizResponse{Quiz: items})
}

func (s *Server) status(c *gin.Context) {
	snap := s.store.Load()
	if snap == nil {
		c.JSON(http.StatusOK, models.StatusResponse{Status: models.StatusNoFile})
		return
	}
	numChunks := len(snap.Chunks)
	summaryCount := len(snap.Summary)
	c.JSON(http.StatusOK, models.StatusResponse{
		Status:       models.StatusReady,
		FileID:       snap.Document.FileID,
		Filename:     snap.Document.Filename,
		NumChunks:    &numChunks,
		SummaryCount: &summaryCount,
	})
}

// writeDocMeta persists the best-effort metadata file; failures only warn.
func (s *Server) writeDocMeta(meta models.DocMeta) {
	if err := helper.CreateFolder(s.cfg.Server.DataDir); err != nil {
		log.Warn().Err(err).Msg("Failed to create data dir")
		return
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		log.Warn().Err(err).Msg("Failed to marshal doc meta")
		return
	}
	path := filepath.Join(s.cfg.Server.DataDir, docMetaFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Warn().Err(err).Msg("Failed to write doc meta")
	}
}

func detail(c *gin.Context, code int, msg string) {
	c.AbortWithStatusJSON(code, gin.H{"detail": msg})
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("Handled request")
	}
}
