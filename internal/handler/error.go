package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/haatos/simple-ci-metrics/internal/service"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

type errorResponse struct {
	Message string `json:"message"`
}

func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "something went terribly wrong"

	switch e := err.(type) {
	case *echo.HTTPError:
		status = e.Code
		if m, ok := e.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(e.Code)
		}
		if e.Internal != nil {
			slog.Error("handler: internal error",
				"path", c.Request().URL.Path,
				"status", e.Code,
				"err", e.Internal,
			)
		}
	default:
		slog.Error("handler: error", "path", c.Request().URL.Path, "err", err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, errorResponse{Message: message})
	}
	if err != nil {
		slog.Error("handler: writing error response", "err", err)
	}
}

func newError(c echo.Context, err error, status int, message string) error {
	e := echo.NewHTTPError(status, message)
	if err != nil {
		e = e.WithInternal(err)
	}
	return e
}

// serviceError maps errors returned by the service layer onto HTTP errors.
// fallback is the message used for unexpected errors.
func serviceError(c echo.Context, err error, fallback string) error {
	var ve service.ValidationError
	switch {
	case errors.As(err, &ve):
		return newError(c, nil, http.StatusBadRequest, ve.Message)
	case errors.Is(err, service.ErrInvalidOutcome),
		errors.Is(err, service.ErrInvalidStepKind):
		return newError(c, nil, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrJobNotFound),
		errors.Is(err, service.ErrRunNotFound),
		errors.Is(err, service.ErrAPIKeyNotFound):
		return newError(c, nil, http.StatusNotFound, err.Error())
	case errors.Is(err, sql.ErrNoRows):
		return newError(c, nil, http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrRunAlreadyComplete):
		return newError(c, nil, http.StatusConflict, err.Error())
	case isUniqueConstraintError(err):
		return newError(c, err, http.StatusConflict, "already exists")
	case isForeignKeyConstraintError(err):
		return newError(c, err, http.StatusNotFound, "referenced resource not found")
	default:
		return newError(c, err, http.StatusInternalServerError, fallback)
	}
}

func isUniqueConstraintError(err error) bool {
	var sqErr *sqlite.Error
	if errors.As(err, &sqErr) {
		return sqErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return false
}

func isForeignKeyConstraintError(err error) bool {
	var sqErr *sqlite.Error
	if errors.As(err, &sqErr) {
		return sqErr.Code() == sqlite3.SQLITE_CONSTRAINT_TRIGGER ||
			sqErr.Code() == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolation
	}
	return false
}
