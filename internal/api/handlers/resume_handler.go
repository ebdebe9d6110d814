package handlers

import (
	"bytes"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hirehub/server/internal/services"
	"github.com/hirehub/server/internal/utils"
)

type ResumeHandler struct {
	svc services.ResumeService
}

func NewResumeHandler(svc services.ResumeService) *ResumeHandler {
	return &ResumeHandler{svc: svc}
}

func (h *ResumeHandler) Upload(c *gin.Context) {
	const op = "ResumeHandler.Upload"

	user, ok := currentUser(c)
	if !ok {
		return
	}

	jobID, err := strconv.ParseUint(c.PostForm("job_id"), 10, 32)
	if err != nil || jobID == 0 {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "valid job_id is required", err))
		return
	}
	extractedText := c.PostForm("extracted_text")
	profile := c.PostForm("profile")

	fh, err := c.FormFile("file")
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "missing multipart field 'file'", err))
		return
	}

	// basic validation
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if ext != ".pdf" {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "only .pdf is allowed", nil))
		return
	}
	if fh.Size <= 0 || fh.Size > 10<<20 {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "file too large (max 10MB)", nil))
		return
	}

	file, err := fh.Open()
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, op, "failed to open upload", err))
		return
	}
	defer file.Close()

	// sniff content type (read 512 bytes)
	head := make([]byte, 512)
	n, _ := file.Read(head)
	head = head[:n]
	if http.DetectContentType(head) != "application/pdf" {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid content type (must be pdf)", nil))
		return
	}

	// re-compose stream: head + remaining file
	r := io.MultiReader(bytes.NewReader(head), file)

	row, err := h.svc.Upload(c.Request.Context(), user, uint(jobID), extractedText, []byte(profile), r)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, row)
}

func (h *ResumeHandler) ListMine(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	rows, err := h.svc.ListMine(c.Request.Context(), user)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":   len(rows),
		"resumes": rows,
	})
}

// Candidates lists resumes across the HR user's company.
func (h *ResumeHandler) Candidates(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	rows, err := h.svc.ListCompany(c.Request.Context(), user, c.Query("status"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":   len(rows),
		"resumes": rows,
	})
}

type setStatusRequest struct {
	Status string `json:"status"`
}

func (h *ResumeHandler) SetStatus(c *gin.Context) {
	const op = "ResumeHandler.SetStatus"

	user, ok := currentUser(c)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid resume id", err))
		return
	}

	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid request body", err))
		return
	}

	row, err := h.svc.SetStatus(c.Request.Context(), user, uint(id), req.Status)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, row)
}

// FileURL hands out a short-lived signed URL for the resume file.
func (h *ResumeHandler) FileURL(c *gin.Context) {
	const op = "ResumeHandler.FileURL"

	user, ok := currentUser(c)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid resume id", err))
		return
	}

	url, err := h.svc.FileURL(c.Request.Context(), user, uint(id))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}
