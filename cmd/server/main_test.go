package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Abraxas-365/shortlist/internal/app"
	"github.com/Abraxas-365/shortlist/internal/config"
	"github.com/Abraxas-365/shortlist/pkg/iam/auth"
	"github.com/Abraxas-365/shortlist/pkg/logx"
	"github.com/Abraxas-365/shortlist/pkg/recordstore"
	"github.com/Abraxas-365/shortlist/pkg/recordstore/memstore"
	"github.com/Abraxas-365/shortlist/recruitment/applicant"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*fiber.App, *memstore.Store, string) {
	t.Helper()
	logx.SetLevel(logx.LevelError)

	env := map[string]string{
		"STORE_DRIVER":         "memstore",
		"EVALUATOR_PROVIDER":   "stub",
		"OPENAI_API_KEY":       "sk-test",
		"EVALUATOR_STUB_DELAY": "0s",
		"API_JWT_SECRET":       "test-secret",
		"LOG_LEVEL":            "error",
	}
	cfg, err := config.FromEnv(func(k string) string { return env[k] })
	require.NoError(t, err)

	container, err := app.NewContainer(context.Background(), cfg, app.Options{Server: true})
	require.NoError(t, err)
	t.Cleanup(container.Close)

	token, err := container.TokenService.GenerateAccessToken("ops", []string{auth.ScopeAll}, time.Hour)
	require.NoError(t, err)

	return newServer(container), container.Store.(*memstore.Store), token
}

func call(t *testing.T, server *fiber.App, method, path, token string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := server.Test(req)
	require.NoError(t, err)

	body := map[string]any{}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return resp.StatusCode, body
}

func TestServer_Health(t *testing.T) {
	server, _, _ := newTestServer(t)

	status, body := call(t, server, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "memstore", body["store"])
}

func TestServer_RunProcessesPending(t *testing.T) {
	server, store, token := newTestServer(t)
	store.Seed(applicant.TablePersonalDetails, "recP", recordstore.Fields{
		"Full Name": "Ada Lovelace", "Location": "Remote, US", applicant.FieldApplicantLink: []any{"recA"},
	})
	store.Seed(applicant.TableSalaryPreferences, "recS", recordstore.Fields{
		"Preferred Rate": 80, "Currency": "USD", "Availability (hrs/wk)": 30, applicant.FieldApplicantLink: []any{"recA"},
	})
	store.Seed(applicant.TableWorkExperience, "recW", recordstore.Fields{
		"Company": "Google", "Title": "SWE", "Years Experience": 6, applicant.FieldApplicantLink: []any{"recA"},
	})
	store.Seed(applicant.TableApplicants, "recA", recordstore.Fields{
		"Applicant ID":            "APP-1",
		"Processing Status":       string(applicant.StatusPending),
		"Personal Details Link":   []any{"recP"},
		"Salary Preferences Link": []any{"recS"},
		"Work Experience Link":    []any{"recW"},
	})

	status, body := call(t, server, http.MethodPost, "/api/runs", token)

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), body["total"])
	assert.Equal(t, float64(1), body["completed"])
	assert.Equal(t, float64(1), body["shortlisted"])
	assert.Equal(t, 1, store.Count(applicant.TableShortlistedLeads))
}

func TestServer_DecompressUnknownApplicant(t *testing.T) {
	server, _, token := newTestServer(t)

	status, body := call(t, server, http.MethodPost, "/api/applicants/recMissing/decompress", token)

	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "APPLICANT.NOT_FOUND", body["code"])
}

func TestServer_RequiresToken(t *testing.T) {
	server, _, _ := newTestServer(t)

	status, _ := call(t, server, http.MethodPost, "/api/runs", "")

	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestServer_MetricsCountRuns(t *testing.T) {
	server, _, token := newTestServer(t)

	status, _ := call(t, server, http.MethodPost, "/api/runs", token)
	require.Equal(t, http.StatusOK, status)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp, err := server.Test(req)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `shortlist_runs_total{result="ok"} 1`)
}
