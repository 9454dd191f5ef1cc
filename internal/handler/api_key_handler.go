package handler

import (
	"net/http"

	"github.com/haatos/simple-ci-metrics/internal/service"
	"github.com/haatos/simple-ci-metrics/internal/store"
	"github.com/labstack/echo/v4"
)

// SetupAPIKeyRoutes registers key management. Managing keys requires an
// existing key; the first one is created with the apikey command.
func SetupAPIKeyRoutes(g *echo.Group, apiKeyService service.APIKeyServicer) {
	h := NewAPIKeyHandler(apiKeyService)
	apiKeysGroup := g.Group("/api/api-keys", APIKeyMiddleware(apiKeyService))
	apiKeysGroup.GET("", h.GetAPIKeys)
	apiKeysGroup.POST("", h.PostAPIKey)
	apiKeysGroup.DELETE("/:id", h.DeleteAPIKey)
}

type APIKeyHandler struct {
	apiKeyService service.APIKeyServicer
}

func NewAPIKeyHandler(apiKeyService service.APIKeyServicer) *APIKeyHandler {
	return &APIKeyHandler{apiKeyService}
}

func (h *APIKeyHandler) GetAPIKeys(c echo.Context) error {
	apiKeys, err := h.apiKeyService.ListAPIKeys(c.Request().Context())
	if err != nil {
		return newError(c, err,
			http.StatusInternalServerError,
			"something went wrong while listing api keys",
		)
	}
	if apiKeys == nil {
		apiKeys = []*store.APIKey{}
	}
	return c.JSON(http.StatusOK, apiKeys)
}

// PostAPIKey issues a key to the producer named in the request body.
func (h *APIKeyHandler) PostAPIKey(c echo.Context) error {
	params := new(CreateAPIKeyParams)
	if err := c.Bind(params); err != nil {
		return newError(c, err, http.StatusBadRequest, "invalid api key data")
	}

	ak, err := h.apiKeyService.CreateAPIKey(c.Request().Context(), params.Producer)
	if err != nil {
		return serviceError(c, err, "unable to create api key")
	}
	return c.JSON(http.StatusCreated, ak)
}

func (h *APIKeyHandler) DeleteAPIKey(c echo.Context) error {
	akp := new(APIKeyParams)
	if err := c.Bind(akp); err != nil {
		return newError(
			c, err,
			http.StatusBadRequest, "invalid api key data",
		)
	}

	if err := h.apiKeyService.DeleteAPIKey(c.Request().Context(), akp.ID); err != nil {
		return serviceError(c, err, "unable to delete api key")
	}
	return c.NoContent(http.StatusNoContent)
}
