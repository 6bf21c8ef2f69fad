package evaluator

import (
	"net/http"
	"strings"
	"time"

	"github.com/Abraxas-365/shortlist/pkg/errx"
	"github.com/Abraxas-365/shortlist/recruitment/applicant"
)

const (
	ProviderOpenAI = "openai"
	ProviderStub   = "stub"

	DefaultModel      = "gpt-4o-mini"
	DefaultMaxRetries = 3
	DefaultStubDelay  = time.Second
)

var ErrRegistry = errx.NewRegistry("EVALUATOR")

var (
	CodeUnknownProvider = ErrRegistry.Register("UNKNOWN_PROVIDER", errx.TypeValidation, http.StatusBadRequest, "Unknown evaluator provider")
	CodeMissingAPIKey   = ErrRegistry.Register("MISSING_API_KEY", errx.TypeValidation, http.StatusBadRequest, "Evaluator API key is required")
	CodeRequestFailed   = ErrRegistry.Register("REQUEST_FAILED", errx.TypeExternal, http.StatusBadGateway, "Evaluator request failed")
	CodeInvalidResponse = ErrRegistry.Register("INVALID_RESPONSE", errx.TypeExternal, http.StatusBadGateway, "Evaluator returned an unusable response")
)

// Config selects and configures one implementation
type Config struct {
	Provider   string
	APIKey     string
	Model      string
	BaseURL    string
	MaxRetries int
	StubDelay  time.Duration
}

// New builds the evaluator named by cfg.Provider
func New(cfg Config) (applicant.Evaluator, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, ErrRegistry.New(CodeMissingAPIKey)
		}
		return NewOpenAIEvaluator(cfg), nil
	case ProviderStub:
		return NewStub(cfg.StubDelay), nil
	default:
		return nil, ErrRegistry.New(CodeUnknownProvider).WithDetail("provider", cfg.Provider)
	}
}
