package server

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ppiankov/sentinel/internal/pipeline"
	"github.com/ppiankov/sentinel/internal/session"
)

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"sessions":  s.sessions.Count(),
		"timestamp": s.now(),
	})
}

// analyzeContract handles POST /analyze-contract with a multipart "file"
func (s *Server) analyzeContract(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxBytes+multipartOverhead)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			badRequest(c, "File too large")
			return
		}
		badRequest(c, "No file provided")
		return
	}
	if strings.TrimSpace(fileHeader.Filename) == "" {
		badRequest(c, "Empty filename")
		return
	}
	if !s.allowed[strings.ToLower(filepath.Ext(fileHeader.Filename))] {
		badRequest(c, "Unsupported file type")
		return
	}
	if fileHeader.Size > s.maxBytes {
		badRequest(c, "File too large")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		s.internalError(c, "open upload", err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, s.maxBytes+1))
	if err != nil {
		s.internalError(c, "read upload", err)
		return
	}

	analysis, err := s.analyzer.AnalyzeBytes(c.Request.Context(), fileHeader.Filename, data)
	if err != nil {
		if reason := pipeline.Reason(err); reason != "" {
			badRequest(c, reason)
			return
		}
		s.internalError(c, "analyze contract", err)
		return
	}

	sessionID, err := s.sessions.Create()
	if err != nil {
		s.internalError(c, "create session", err)
		return
	}
	if err := s.sessions.Put(sessionID, analysis); err != nil {
		s.internalError(c, "store session", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id":          sessionID,
		"filename":            analysis.Filename,
		"total_clauses":       len(analysis.Clauses),
		"overall_risk_score":  analysis.Risk.OverallScore,
		"risk_level":          analysis.Risk.RiskLevel,
		"document_risk":       analysis.Risk,
		"rule_based_summary":  analysis.Summary,
		"ai_risk_explanation": analysis.AI,
		"analysis":            analysis.Clauses,
		"timestamp":           s.now(),
	})
}

func (s *Server) getSession(c *gin.Context) {
	analysis, err := s.sessions.Get(c.Param("id"))
	if err != nil {
		s.sessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, analysis)
}

func (s *Server) sessionInfo(c *gin.Context) {
	info, err := s.sessions.Info(c.Param("id"))
	if err != nil {
		s.sessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

func (s *Server) deleteSession(c *gin.Context) {
	if err := s.sessions.Delete(c.Param("id")); err != nil {
		s.internalError(c, "delete session", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Session deleted"})
}

func (s *Server) sessionError(c *gin.Context, err error) {
	if errors.Is(err, session.ErrNotFound) || errors.Is(err, session.ErrNoData) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	s.internalError(c, "load session", err)
}

func (s *Server) internalError(c *gin.Context, op string, err error) {
	s.logger.Error(op+" failed", "path", c.FullPath(), "err", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

func badRequest(c *gin.Context, reason string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": reason})
}
