package web

import (
	"context"
	"errors"
	"time"

	"recipegram/internal/adapters/instagram"
	"recipegram/internal/domain"
	"recipegram/internal/usecases"
	"recipegram/pkg/log"

	"github.com/gofiber/fiber/v2"
)

// extractTimeout bounds one full strategy walk: every doc-id attempt plus
// the page scrape plus oEmbed. No tighter global deadline is imposed; the
// per-stage timeouts already bound the worst case.
const extractTimeout = 2 * time.Minute

// Handlers contains the HTTP handlers for the caption and recipe API.
type Handlers struct {
	extract     *usecases.ExtractCaptionUseCase
	generate    *usecases.GenerateRecipeUseCase
	reformulate *usecases.ReformulateRecipeUseCase
	library     *usecases.RecipeLibraryUseCase
	docIDs      *instagram.DocIDConfig
	limiter     *RateLimiter
}

// NewHandlers creates a new Handlers instance. generate and reformulate
// may be nil when no generation backend is configured; the recipe routes
// then answer 503.
func NewHandlers(
	extract *usecases.ExtractCaptionUseCase,
	generate *usecases.GenerateRecipeUseCase,
	reformulate *usecases.ReformulateRecipeUseCase,
	library *usecases.RecipeLibraryUseCase,
	docIDs *instagram.DocIDConfig,
	limiter *RateLimiter,
) *Handlers {
	return &Handlers{
		extract:     extract,
		generate:    generate,
		reformulate: reformulate,
		library:     library,
		docIDs:      docIDs,
		limiter:     limiter,
	}
}

// Health reports liveness, configured doc-id count, and cache size.
func (h *Handlers) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"docIds":    h.docIDs.Count(),
		"cacheSize": h.extract.CacheLen(),
	})
}

// Caption extracts a caption for the Instagram URL in the query string.
func (h *Handlers) Caption(c *fiber.Ctx) error {
	url := c.Query("url")
	if url == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Instagram URL required",
		})
	}

	// Reject bad input before it touches the rate limiter; junk URLs
	// must not burn anyone's quota.
	if !instagram.IsValidPostURL(url) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": friendlyError(domain.ErrInvalidURL),
		})
	}

	if !h.limiter.Allow(c.IP()) {
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error": friendlyError(domain.ErrRateLimited),
		})
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), extractTimeout)
	defer cancel()

	extraction, err := h.extract.Execute(ctx, url)
	if err != nil {
		log.GlobalWarnCtx(ctx, "caption extraction failed", "url", url, "error", err)
		return c.Status(extractionStatus(err)).JSON(fiber.Map{
			"error": friendlyError(err),
		})
	}
	if !extraction.Cached {
		h.limiter.Record(c.IP())
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"caption":  extraction.Caption.Text,
		"strategy": extraction.Caption.Strategy,
		"docId":    extraction.Caption.DocID,
		"cached":   extraction.Cached,
		"degraded": extraction.Caption.Degraded,
		"url":      url,
	})
}

type createRecipeRequest struct {
	URL string `json:"url"`
}

// CreateRecipe runs the full pipeline: extract, generate, persist.
func (h *Handlers) CreateRecipe(c *fiber.Ctx) error {
	if h.generate == nil {
		return generationDisabled(c)
	}

	var req createRecipeRequest
	if err := c.BodyParser(&req); err != nil || req.URL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "post URL required",
		})
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), extractTimeout)
	defer cancel()

	recipe, err := h.generate.ExecuteFromURL(ctx, req.URL)
	if err != nil {
		log.GlobalWarnCtx(ctx, "recipe creation failed", "url", req.URL, "error", err)
		return c.Status(recipeStatus(err)).JSON(fiber.Map{
			"error": friendlyError(err),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(recipe)
}

// GenerateRecipe generates a recipe from an already-extracted caption,
// taking the generation request contract verbatim.
func (h *Handlers) GenerateRecipe(c *fiber.Ctx) error {
	if h.generate == nil {
		return generationDisabled(c)
	}

	var req domain.RecipeGenerationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	recipe, err := h.generate.Execute(c.UserContext(), req)
	if err != nil {
		log.GlobalWarnCtx(c.UserContext(), "recipe generation failed", "url", req.URL, "error", err)
		return c.Status(recipeStatus(err)).JSON(fiber.Map{
			"error": friendlyError(err),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(recipe)
}

type reformulateRequest struct {
	RecipeID          string                   `json:"recipeId"`
	ReformulationType domain.ReformulationType `json:"reformulationType"`
}

// ReformulateRecipe rewrites a stored recipe in a requested style.
func (h *Handlers) ReformulateRecipe(c *fiber.Ctx) error {
	if h.reformulate == nil {
		return generationDisabled(c)
	}

	var req reformulateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	recipe, err := h.reformulate.Execute(c.UserContext(), req.RecipeID, req.ReformulationType)
	if err != nil {
		log.GlobalWarnCtx(c.UserContext(), "recipe reformulation failed", "id", req.RecipeID, "error", err)
		return c.Status(recipeStatus(err)).JSON(fiber.Map{
			"error": friendlyError(err),
		})
	}

	return c.JSON(recipe)
}

// ListRecipes returns the stored collection, newest first.
func (h *Handlers) ListRecipes(c *fiber.Ctx) error {
	recipes, err := h.library.List(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": friendlyError(err),
		})
	}
	return c.JSON(recipes)
}

// GetRecipe returns one stored recipe.
func (h *Handlers) GetRecipe(c *fiber.Ctx) error {
	recipe, err := h.library.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return c.Status(recipeStatus(err)).JSON(fiber.Map{
			"error": friendlyError(err),
		})
	}
	return c.JSON(recipe)
}

// DeleteRecipe removes one stored recipe.
func (h *Handlers) DeleteRecipe(c *fiber.Ctx) error {
	if err := h.library.Delete(c.UserContext(), c.Params("id")); err != nil {
		return c.Status(recipeStatus(err)).JSON(fiber.Map{
			"error": friendlyError(err),
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func generationDisabled(c *fiber.Ctx) error {
	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
		"error": "Recipe generation isn't configured on this server.",
	})
}

// extractionStatus maps extraction errors to HTTP statuses.
func extractionStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidURL):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrExhausted):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// recipeStatus maps pipeline errors to HTTP statuses.
func recipeStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidURL), errors.Is(err, domain.ErrRecipeInvalidInput):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrExhausted):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrAuthRequired):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrRecipeNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrRateLimited):
		return fiber.StatusTooManyRequests
	case errors.Is(err, domain.ErrUpstream):
		return fiber.StatusBadGateway
	case errors.Is(err, domain.ErrUnreachable):
		return fiber.StatusGatewayTimeout
	default:
		return fiber.StatusInternalServerError
	}
}

// friendlyError returns the single non-technical message for a failure.
// Status codes, doc ids and techniques stay in the logs.
func friendlyError(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidURL):
		return "That doesn't look like an Instagram post URL. Paste a link to a public post or reel."
	case errors.Is(err, domain.ErrExhausted):
		return "We couldn't extract this post's content. It may be private or no longer available."
	case errors.Is(err, domain.ErrRecipeInvalidInput):
		return "That request is missing something we need to build a recipe."
	case errors.Is(err, domain.ErrRecipeNotFound):
		return "We couldn't find that recipe."
	case errors.Is(err, domain.ErrRateLimited):
		return "Too many requests. Please wait a moment and try again."
	case errors.Is(err, domain.ErrAuthRequired), errors.Is(err, domain.ErrForbidden):
		return "The recipe service refused the request. Check the server configuration."
	default:
		return "Something went wrong on our side. Please try again in a moment."
	}
}
