package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/haatos/simple-ci-metrics/internal/service"
	"github.com/haatos/simple-ci-metrics/internal/store"
	"github.com/haatos/simple-ci-metrics/internal/testutil"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestAPIKeysHandler_GetAPIKeys(t *testing.T) {
	t.Run("success - api keys are listed", func(t *testing.T) {
		// arrange
		ak := generateAPIKey()
		ctx := context.Background()
		mockService := new(testutil.MockAPIKeyService)
		mockService.On("ListAPIKeys", ctx).Return([]*store.APIKey{ak}, nil)

		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/api/api-keys", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		h := NewAPIKeyHandler(mockService)

		// act
		err := h.GetAPIKeys(c)

		// assert
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		var keys []store.APIKey
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &keys))
		assert.Len(t, keys, 1)
		assert.Equal(t, ak.ID, keys[0].ID)
		assert.Equal(t, ak.Value, keys[0].Value)
	})
	t.Run("success - no api keys", func(t *testing.T) {
		// arrange
		ctx := context.Background()
		mockService := new(testutil.MockAPIKeyService)
		mockService.On("ListAPIKeys", ctx).Return(nil, nil)

		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/api/api-keys", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		h := NewAPIKeyHandler(mockService)

		// act
		err := h.GetAPIKeys(c)

		// assert
		assert.NoError(t, err)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})
}

func TestAPIKeysHandler_PostAPIKey(t *testing.T) {
	t.Run("success - api key is issued to the producer", func(t *testing.T) {
		// arrange
		ak := generateAPIKey()
		ctx := context.Background()
		mockService := new(testutil.MockAPIKeyService)
		mockService.On("CreateAPIKey", ctx, ak.Producer).Return(ak, nil)

		e := echo.New()
		req := httptest.NewRequest(
			http.MethodPost, "/api/api-keys",
			strings.NewReader(fmt.Sprintf(`{"producer":%q}`, ak.Producer)),
		)
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		h := NewAPIKeyHandler(mockService)

		// act
		err := h.PostAPIKey(c)

		// assert
		assert.NoError(t, err)
		assert.Equal(t, http.StatusCreated, rec.Code)
		var created store.APIKey
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		assert.Equal(t, ak.Value, created.Value)
		assert.Equal(t, ak.Producer, created.Producer)
	})
	t.Run("failure - producer is missing", func(t *testing.T) {
		// arrange
		ctx := context.Background()
		mockService := new(testutil.MockAPIKeyService)
		mockService.On("CreateAPIKey", ctx, "").
			Return(nil, service.ValidationError{Message: "producer is required"})

		e := echo.New()
		req := httptest.NewRequest(http.MethodPost, "/api/api-keys", strings.NewReader(`{}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		h := NewAPIKeyHandler(mockService)

		// act
		err := h.PostAPIKey(c)

		// assert
		assertHTTPError(t, err, http.StatusBadRequest)
	})
}

func TestAPIKeysHandler_DeleteAPIKey(t *testing.T) {
	t.Run("success - api key is deleted", func(t *testing.T) {
		// arrange
		ak := generateAPIKey()
		ctx := context.Background()
		mockService := new(testutil.MockAPIKeyService)
		mockService.On("DeleteAPIKey", ctx, ak.ID).Return(nil)

		e := echo.New()
		req := httptest.NewRequest(
			http.MethodDelete, fmt.Sprintf("/api/api-keys/%d", ak.ID), nil,
		)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues(fmt.Sprintf("%d", ak.ID))
		h := NewAPIKeyHandler(mockService)

		// act
		err := h.DeleteAPIKey(c)

		// assert
		assert.NoError(t, err)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		mockService.AssertExpectations(t)
	})
	t.Run("failure - api key not found", func(t *testing.T) {
		// arrange
		ctx := context.Background()
		mockService := new(testutil.MockAPIKeyService)
		mockService.On("DeleteAPIKey", ctx, int64(5)).Return(service.ErrAPIKeyNotFound)

		e := echo.New()
		req := httptest.NewRequest(http.MethodDelete, "/api/api-keys/5", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("5")
		h := NewAPIKeyHandler(mockService)

		// act
		err := h.DeleteAPIKey(c)

		// assert
		assertHTTPError(t, err, http.StatusNotFound)
	})
}

func generateAPIKey() *store.APIKey {
	return &store.APIKey{
		ID:        rand.Int63(),
		Producer:  "jenkins-" + uuid.NewString()[:8],
		Value:     "sci_" + strings.ReplaceAll(uuid.NewString(), "-", ""),
		CreatedOn: store.NewTimestamp(time.Now().UTC()),
	}
}

func assertHTTPError(t *testing.T, err error, status int) {
	t.Helper()
	var he *echo.HTTPError
	if assert.ErrorAs(t, err, &he) {
		assert.Equal(t, status, he.Code)
	}
}
