package applicant

import (
	"net/http"

	"github.com/Abraxas-365/shortlist/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("APPLICANT")

// Error codes - Processing
var (
	CodeApplicantNotFound = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Applicant not found")
	CodeMissingLink       = ErrRegistry.Register("MISSING_LINK", errx.TypeBusiness, http.StatusUnprocessableEntity, "One or more required links are missing")
	CodeDecodeFailed      = ErrRegistry.Register("DECODE_FAILED", errx.TypeValidation, http.StatusUnprocessableEntity, "Stored compressed JSON could not be decoded")
	CodeProcessingFailed  = ErrRegistry.Register("PROCESSING_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Applicant processing failed")
	CodeEvaluationFailed  = ErrRegistry.Register("EVALUATION_FAILED", errx.TypeExternal, http.StatusBadGateway, "Applicant evaluation failed")
	CodeInvalidStatus     = ErrRegistry.Register("INVALID_STATUS", errx.TypeValidation, http.StatusBadRequest, "Invalid processing status")
	CodeInvalidRequest    = ErrRegistry.Register("INVALID_REQUEST", errx.TypeValidation, http.StatusBadRequest, "Invalid request data")
	CodeRunInProgress     = ErrRegistry.Register("RUN_IN_PROGRESS", errx.TypeConflict, http.StatusConflict, "A processing run is already in progress")
)

// Error codes - Queue
var (
	CodeQueueEnqueueFailed = ErrRegistry.Register("QUEUE_ENQUEUE_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to enqueue decompression")
	CodeQueueDequeueFailed = ErrRegistry.Register("QUEUE_DEQUEUE_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to dequeue decompression")
)

func ErrApplicantNotFound() *errx.Error {
	return ErrRegistry.New(CodeApplicantNotFound)
}

func ErrMissingLink() *errx.Error {
	return ErrRegistry.New(CodeMissingLink)
}

func ErrDecodeFailed() *errx.Error {
	return ErrRegistry.New(CodeDecodeFailed)
}

func ErrProcessingFailed() *errx.Error {
	return ErrRegistry.New(CodeProcessingFailed)
}

func ErrEvaluationFailed() *errx.Error {
	return ErrRegistry.New(CodeEvaluationFailed)
}

func ErrInvalidStatus() *errx.Error {
	return ErrRegistry.New(CodeInvalidStatus)
}

func ErrInvalidRequest() *errx.Error {
	return ErrRegistry.New(CodeInvalidRequest)
}

func ErrRunInProgress() *errx.Error {
	return ErrRegistry.New(CodeRunInProgress)
}

func ErrQueueEnqueueFailed() *errx.Error {
	return ErrRegistry.New(CodeQueueEnqueueFailed)
}

func ErrQueueDequeueFailed() *errx.Error {
	return ErrRegistry.New(CodeQueueDequeueFailed)
}
