package applicantapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Abraxas-365/shortlist/pkg/errx"
	"github.com/Abraxas-365/shortlist/pkg/iam/auth"
	"github.com/Abraxas-365/shortlist/pkg/kernel"
	"github.com/Abraxas-365/shortlist/recruitment/applicant"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	report *applicant.RunReport
	err    error
}

func (r *fakeRunner) Run(ctx context.Context) (*applicant.RunReport, error) {
	return r.report, r.err
}

type fakeSubmitter struct {
	report *applicant.DecompressReport
	err    error
	got    kernel.ApplicantID
}

func (s *fakeSubmitter) Submit(ctx context.Context, id kernel.ApplicantID) (*applicant.DecompressReport, error) {
	s.got = id
	return s.report, s.err
}

type fakeExporter struct{}

func (fakeExporter) Export(ctx context.Context, w io.Writer) (int, error) {
	_, err := w.Write([]byte("PK"))
	return 3, err
}

func errorHandler(c *fiber.Ctx, err error) error {
	var e *errx.Error
	if errors.As(err, &e) {
		return c.Status(e.HTTPStatus).JSON(e.ToHTTPResponse())
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}

func setup(t *testing.T, runner Runner, submitter Submitter) (*fiber.App, string) {
	t.Helper()
	tokens := auth.NewTokenService("test-secret", "")
	token, err := tokens.GenerateAccessToken("tester", []string{auth.ScopeAll}, time.Hour)
	require.NoError(t, err)

	app := fiber.New(fiber.Config{ErrorHandler: errorHandler})
	NewApplicantHandlers(runner, submitter).RegisterRoutes(app, auth.NewUnifiedAuthMiddleware(tokens))
	return app, token
}

func do(t *testing.T, app *fiber.App, method, path, token, body string) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	out := map[string]any{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func TestStartRun(t *testing.T) {
	runner := &fakeRunner{report: &applicant.RunReport{RunID: "run-1", Total: 2, Completed: 2}}
	app, token := setup(t, runner, &fakeSubmitter{})

	resp, body := do(t, app, http.MethodPost, "/api/runs", token, "")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "run-1", body["run_id"])
	assert.Equal(t, 2.0, body["completed"])
}

func TestStartRun_RequiresToken(t *testing.T) {
	app, _ := setup(t, &fakeRunner{}, &fakeSubmitter{})

	resp, body := do(t, app, http.MethodPost, "/api/runs", "", "")

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, string(auth.CodeMissingToken), body["code"])
}

func TestStartRun_AlreadyRunning(t *testing.T) {
	app, token := setup(t, &fakeRunner{err: applicant.ErrRunInProgress()}, &fakeSubmitter{})

	resp, body := do(t, app, http.MethodPost, "/api/runs", token, "")

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, string(applicant.CodeRunInProgress), body["code"])
}

func TestDecompress(t *testing.T) {
	t.Run("inline", func(t *testing.T) {
		sub := &fakeSubmitter{report: &applicant.DecompressReport{ApplicantID: "recA", ExperienceCreated: 2}}
		app, token := setup(t, &fakeRunner{}, sub)

		resp, body := do(t, app, http.MethodPost, "/api/applicants/recA/decompress", token, "")

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, kernel.ApplicantID("recA"), sub.got)
		assert.Equal(t, 2.0, body["experience_created"])
	})

	t.Run("queued", func(t *testing.T) {
		app, token := setup(t, &fakeRunner{}, &fakeSubmitter{})

		resp, body := do(t, app, http.MethodPost, "/api/applicants/recA/decompress", token, "")

		assert.Equal(t, http.StatusAccepted, resp.StatusCode)
		assert.Equal(t, "queued", body["status"])
	})

	t.Run("not found", func(t *testing.T) {
		sub := &fakeSubmitter{err: applicant.ErrApplicantNotFound()}
		app, token := setup(t, &fakeRunner{}, sub)

		resp, body := do(t, app, http.MethodPost, "/api/applicants/recX/decompress", token, "")

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, string(applicant.CodeApplicantNotFound), body["code"])
	})
}

func TestPreviewShortlist(t *testing.T) {
	app, token := setup(t, &fakeRunner{}, &fakeSubmitter{})
	payload := `{"document":{
		"personal":{"Location":"Remote, US"},
		"experience":[{"Company":"Google","Years Experience":5}],
		"salary":{"Preferred Rate":80,"Currency":"USD","Availability (hrs/wk)":25}}}`

	resp, body := do(t, app, http.MethodPost, "/api/shortlist/preview", token, payload)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["shortlisted"])
	assert.Contains(t, body["reason"], "Tier-1: true")
}

func TestPreviewShortlist_BadBody(t *testing.T) {
	app, token := setup(t, &fakeRunner{}, &fakeSubmitter{})

	resp, body := do(t, app, http.MethodPost, "/api/shortlist/preview", token, `{"document":`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, string(applicant.CodeInvalidRequest), body["code"])
}

func TestExport(t *testing.T) {
	tokens := auth.NewTokenService("test-secret", "")
	token, err := tokens.GenerateAccessToken("tester", []string{auth.ScopeApplicantsExport}, time.Hour)
	require.NoError(t, err)

	app := fiber.New(fiber.Config{ErrorHandler: errorHandler})
	NewApplicantHandlers(&fakeRunner{}, &fakeSubmitter{}).
		WithExporter(fakeExporter{}).
		RegisterRoutes(app, auth.NewUnifiedAuthMiddleware(tokens))

	req := httptest.NewRequest(http.MethodGet, "/api/applicants/export.xlsx", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "3", resp.Header.Get("X-Row-Count"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "PK", string(body))

	resp, body2 := do(t, app, http.MethodPost, "/api/runs", token, "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, string(auth.CodeForbidden), body2["code"])
}

func TestExport_NotRegisteredWithoutExporter(t *testing.T) {
	app, token := setup(t, &fakeRunner{}, &fakeSubmitter{})

	resp, _ := do(t, app, http.MethodGet, "/api/applicants/export.xlsx", token, "")

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
