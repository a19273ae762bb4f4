package errx

import (
	"database/sql"
	"errors"
	"net/http"
)

// NotFoundMessage is the generic safe message for missing rows.
const NotFoundMessage = "not found"

// WrapStorage maps database errors to the unified AppError type with
// appropriate status codes. A missing row surfaces as 404 so callers can
// translate it straight into the endpoint contract.
func WrapStorage(err error) *AppError {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return New(err, http.StatusNotFound, NotFoundMessage)
	}

	return New(err, http.StatusBadGateway, StorageErrorMessage)
}
