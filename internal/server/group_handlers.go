package server

import (
	"github.com/gofiber/fiber/v2"
)

// GroupPosts handles GET /group/:slug/ with the group's paginated posts.
func (s *Server) GroupPosts(c *fiber.Ctx) error {
	group, page, err := s.postService.GroupPosts(c.UserContext(), c.Params("slug"), parsePage(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"group":     group,
		"posts":     page.Posts,
		"page":      page.Page,
		"num_pages": page.NumPages,
		"total":     page.Total,
		"has_next":  page.HasNext,
		"has_prev":  page.HasPrev,
	})
}
