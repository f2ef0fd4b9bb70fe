package server

import (
	"github.com/gofiber/fiber/v2"
)

// Profile handles GET /:username/ with the author's paginated posts plus
// follower counts and, for a signed-in visitor, whether they follow them.
func (s *Server) Profile(c *fiber.Ctx) error {
	author, page, err := s.postService.ProfilePosts(c.UserContext(), c.Params("username"), parsePage(c))
	if err != nil {
		return respondServiceError(c, err)
	}

	followers, following, err := s.followService.ProfileCounts(c.UserContext(), author.ID)
	if err != nil {
		return respondServiceError(c, err)
	}

	isFollowing, err := s.followService.IsFollowing(c.UserContext(), optionalUserID(c), author.ID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"author":    author,
		"posts":     page.Posts,
		"page":      page.Page,
		"num_pages": page.NumPages,
		"total":     page.Total,
		"has_next":  page.HasNext,
		"has_prev":  page.HasPrev,
		"followers": followers,
		"follows":   following,
		"following": isFollowing,
	})
}
