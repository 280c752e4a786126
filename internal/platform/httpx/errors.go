package httpx

import (
	"errors"
	"net/http"

	"github.com/iec-msi/quotation-backend/internal/shared"
)

// RespondError maps domain errors to HTTP responses using RFC7807.
func RespondError(w http.ResponseWriter, err error) {
	var dup *shared.DuplicateError
	var ref *shared.ReferentialError
	switch {
	case errors.Is(err, shared.ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, shared.ErrNothingToUpdate):
		Problem(w, http.StatusBadRequest, "Nothing To Update", err.Error())
	case errors.As(err, &dup):
		JSON(w, http.StatusConflict, ProblemDetail{
			Title:  "Duplicate",
			Status: http.StatusConflict,
			Detail: dup.Error(),
			Code:   dup.Code(),
		})
	case errors.As(err, &ref):
		invalid := make([]any, 0, len(ref.InvalidIDs))
		for _, id := range ref.InvalidIDs {
			invalid = append(invalid, id)
		}
		JSON(w, http.StatusBadRequest, ProblemDetail{
			Title:   "Invalid Reference",
			Status:  http.StatusBadRequest,
			Detail:  ref.Error(),
			Invalid: invalid,
		})
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
