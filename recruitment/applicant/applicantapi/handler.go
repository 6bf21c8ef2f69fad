package applicantapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Abraxas-365/shortlist/pkg/iam/auth"
	"github.com/Abraxas-365/shortlist/pkg/kernel"
	"github.com/Abraxas-365/shortlist/pkg/logx"
	"github.com/Abraxas-365/shortlist/recruitment/applicant"
	"github.com/gofiber/fiber/v2"
)

// Runner runs the processor over all pending applicants
type Runner interface {
	Run(ctx context.Context) (*applicant.RunReport, error)
}

// Submitter decompresses inline or queues the request
type Submitter interface {
	Submit(ctx context.Context, id kernel.ApplicantID) (*applicant.DecompressReport, error)
}

// Exporter writes the completed applicants workbook
type Exporter interface {
	Export(ctx context.Context, w io.Writer) (int, error)
}

type ApplicantHandlers struct {
	runner    Runner
	submitter Submitter
	exporter  Exporter
}

func NewApplicantHandlers(runner Runner, submitter Submitter) *ApplicantHandlers {
	return &ApplicantHandlers{
		runner:    runner,
		submitter: submitter,
	}
}

// WithExporter enables GET /api/applicants/export.xlsx
func (h *ApplicantHandlers) WithExporter(exporter Exporter) *ApplicantHandlers {
	h.exporter = exporter
	return h
}

func (h *ApplicantHandlers) RegisterRoutes(app *fiber.App, authMiddleware *auth.UnifiedAuthMiddleware) {
	api := app.Group("/api", authMiddleware.Authenticate())

	api.Post("/runs", authMiddleware.RequireScope(auth.ScopeRunsWrite), h.StartRun)
	api.Post("/applicants/:id/decompress", authMiddleware.RequireScope(auth.ScopeApplicantsDecompress), h.Decompress)
	api.Post("/shortlist/preview", authMiddleware.RequireScope(auth.ScopeShortlistPreview), h.PreviewShortlist)

	if h.exporter != nil {
		api.Get("/applicants/export.xlsx", authMiddleware.RequireScope(auth.ScopeApplicantsExport), h.Export)
	}
}

// StartRun processes every pending applicant and returns the run report
// POST /api/runs
func (h *ApplicantHandlers) StartRun(c *fiber.Ctx) error {
	if authCtx, ok := auth.GetAuthContext(c); ok {
		logx.Infof("Run requested by %s", authCtx.Subject)
	}

	report, err := h.runner.Run(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(report)
}

// Decompress writes the stored document back to the linked collections
// POST /api/applicants/:id/decompress
func (h *ApplicantHandlers) Decompress(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	if id == "" {
		return applicant.ErrInvalidRequest().WithDetail("id", "applicant id is required")
	}

	report, err := h.submitter.Submit(c.UserContext(), kernel.NewApplicantID(id))
	if err != nil {
		return err
	}

	if report == nil {
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"applicant_id": id,
			"status":       "queued",
		})
	}
	return c.JSON(report)
}

// PreviewShortlist evaluates the rules against a posted document
// POST /api/shortlist/preview
func (h *ApplicantHandlers) PreviewShortlist(c *fiber.Ctx) error {
	var req applicant.PreviewRequest
	if err := c.BodyParser(&req); err != nil {
		return applicant.ErrRegistry.NewWithCause(applicant.CodeInvalidRequest, err).
			WithDetail("body", "expected {\"document\": {...}}")
	}

	return c.JSON(applicant.EvaluateShortlist(req.Document))
}

// Export streams the completed applicants as an xlsx workbook
// GET /api/applicants/export.xlsx
func (h *ApplicantHandlers) Export(c *fiber.Ctx) error {
	var buf bytes.Buffer
	rows, err := h.exporter.Export(c.UserContext(), &buf)
	if err != nil {
		return err
	}

	filename := fmt.Sprintf("applicants-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	c.Set("X-Row-Count", fmt.Sprint(rows))
	return c.Send(buf.Bytes())
}
