package server

import (
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/glr-works/glreport/internal/common"
	"github.com/glr-works/glreport/internal/evidence"
	"github.com/glr-works/glreport/internal/pipeline"
	"github.com/glr-works/glreport/internal/repository"
)

const maxUploadBytes = 100 << 20

type artifactKind int

const (
	artifactDocx artifactKind = iota
	artifactPDF
	artifactXLSX
)

type runResponse struct {
	ID            string            `json:"id"`
	Status        string            `json:"status"`
	TemplateName  string            `json:"template_name"`
	EvidenceCount int               `json:"evidence_count"`
	Warnings      []string          `json:"warnings"`
	PDFReady      bool              `json:"pdf_ready"`
	Error         string            `json:"error,omitempty"`
	Fields        map[string]string `json:"fields,omitempty"`
	CreatedAt     string            `json:"created_at"`
	UpdatedAt     string            `json:"updated_at"`
}

// createReport handles POST /api/v1/reports: multipart form with one
// "template" DOCX and one or more "evidence" PDFs. The run executes
// synchronously; the response carries the extracted mapping and artifact
// availability.
func (s *Server) createReport(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	form, err := c.MultipartForm()
	if err != nil {
		respondError(c, http.StatusBadRequest, "BAD_MULTIPART", "could not parse multipart form: "+err.Error())
		return
	}

	templates := form.File["template"]
	if len(templates) != 1 {
		respondError(c, http.StatusBadRequest, "MISSING_TEMPLATE", "exactly one 'template' file is required")
		return
	}
	templateBytes, err := readUpload(templates[0])
	if err != nil {
		respondError(c, http.StatusBadRequest, "TEMPLATE_READ", "could not read template upload: "+err.Error())
		return
	}

	pdfs := form.File["evidence"]
	if len(pdfs) == 0 {
		respondError(c, http.StatusBadRequest, "MISSING_EVIDENCE", "at least one 'evidence' file is required")
		return
	}
	buffers := make([]evidence.Buffer, 0, len(pdfs))
	for _, fh := range pdfs {
		data, err := readUpload(fh)
		if err != nil {
			respondError(c, http.StatusBadRequest, "EVIDENCE_READ", "could not read evidence upload '"+fh.Filename+"': "+err.Error())
			return
		}
		buffers = append(buffers, evidence.Buffer{Name: filepath.Base(fh.Filename), Data: data})
	}

	result, err := s.processor.Run(c.Request.Context(), pipeline.RunRequest{
		TemplateName: filepath.Base(templates[0].Filename),
		Template:     templateBytes,
		Evidence:     buffers,
	})
	if err != nil {
		handleRunError(c, err)
		return
	}

	c.JSON(http.StatusCreated, runResponse{
		ID:            result.RunID.String(),
		Status:        repository.RunStatusSucceeded,
		TemplateName:  filepath.Base(templates[0].Filename),
		EvidenceCount: len(buffers),
		Warnings:      result.Warnings,
		PDFReady:      result.PDFPath != "",
		Fields:        result.Fields,
	})
}

func (s *Server) getRun(c *gin.Context) {
	run, ok := s.lookupRun(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toRunResponse(run))
}

func (s *Server) listRuns(c *gin.Context) {
	runs, err := s.runs.List(c.Request.Context(), 50)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "LIST_RUNS", err.Error())
		return
	}
	out := make([]runResponse, 0, len(runs))
	for _, run := range runs {
		out = append(out, toRunResponse(run))
	}
	c.JSON(http.StatusOK, gin.H{"runs": out})
}

func (s *Server) downloadArtifact(kind artifactKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		run, ok := s.lookupRun(c)
		if !ok {
			return
		}

		var path, name, mime string
		switch kind {
		case artifactDocx:
			path, name = run.DocxPath, pipeline.ReportDocxName
			mime = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
		case artifactPDF:
			path, name = run.PDFPath, pipeline.ReportPDFName
			mime = "application/pdf"
		case artifactXLSX:
			path, name = run.XLSXPath, pipeline.FieldsXLSXName
			mime = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		}
		if path == "" {
			respondError(c, http.StatusNotFound, "ARTIFACT_UNAVAILABLE", "artifact not produced for this run")
			return
		}
		c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
		c.Header("Content-Type", mime)
		c.File(path)
	}
}

func (s *Server) lookupRun(c *gin.Context) (*repository.Run, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "BAD_RUN_ID", "run id must be a UUID")
		return nil, false
	}
	run, err := s.runs.GetByID(c.Request.Context(), id)
	if err != nil {
		if common.IsNotFoundError(err) {
			respondError(c, http.StatusNotFound, "RUN_NOT_FOUND", "run not found")
			return nil, false
		}
		respondError(c, http.StatusInternalServerError, "GET_RUN", err.Error())
		return nil, false
	}
	return run, true
}

func toRunResponse(run *repository.Run) runResponse {
	return runResponse{
		ID:            run.ID.String(),
		Status:        run.Status,
		TemplateName:  run.TemplateName,
		EvidenceCount: run.EvidenceCount,
		Warnings:      run.WarningList(),
		PDFReady:      run.PDFPath != "",
		Error:         run.Error,
		CreatedAt:     run.CreatedAt.UTC().Format(timeFormat),
		UpdatedAt:     run.UpdatedAt.UTC().Format(timeFormat),
	}
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return io.ReadAll(f)
}
