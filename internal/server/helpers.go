package server

import (
	"strconv"

	"yatube/internal/models"

	"github.com/gofiber/fiber/v2"
)

// parsePage reads the ?page=N query parameter. Anything that does not parse
// as a positive integer falls back to the first page.
func parsePage(c *fiber.Ctx) int {
	raw := c.Query("page")
	if raw == "" {
		return 1
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// mustUserID returns the user ID stored by AuthRequired. Handlers behind
// that middleware can rely on it being present.
func mustUserID(c *fiber.Ctx) uint {
	userID, _ := c.Locals("userID").(uint)
	return userID
}

// optionalUserID returns the user ID stored by AuthOptional, zero when the
// visitor is anonymous.
func optionalUserID(c *fiber.Ctx) uint {
	userID, _ := c.Locals("userID").(uint)
	return userID
}

// parsePostID extracts the post_id route parameter as a positive uint. A
// malformed value reads as a missing post.
func parsePostID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("post_id")
	if err != nil || id <= 0 {
		return 0, models.NewNotFoundError("Post", c.Params("post_id"))
	}
	return uint(id), nil
}

// respondServiceError maps service layer errors onto HTTP statuses.
func respondServiceError(c *fiber.Ctx, err error) error {
	switch {
	case models.IsNotFound(err):
		return models.RespondWithError(c, fiber.StatusNotFound, err)
	case models.IsValidation(err):
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	case models.IsUnauthorized(err):
		return models.RespondWithError(c, fiber.StatusUnauthorized, err)
	default:
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
}
