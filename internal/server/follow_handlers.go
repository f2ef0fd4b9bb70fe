package server

import (
	"github.com/gofiber/fiber/v2"
)

// Feed handles GET /follow/ with posts from the authors the user follows.
func (s *Server) Feed(c *fiber.Ctx) error {
	page, err := s.postService.Feed(c.UserContext(), mustUserID(c), parsePage(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(page)
}

// FollowAuthor handles GET /:username/follow/ and redirects to the profile.
// Following yourself or an author you already follow changes nothing.
func (s *Server) FollowAuthor(c *fiber.Ctx) error {
	username := c.Params("username")
	if err := s.followService.Follow(c.UserContext(), mustUserID(c), username); err != nil {
		return respondServiceError(c, err)
	}
	return c.Redirect("/"+username+"/", fiber.StatusFound)
}

// UnfollowAuthor handles GET /:username/unfollow/ and redirects to the
// profile. Unfollowing an author you do not follow changes nothing.
func (s *Server) UnfollowAuthor(c *fiber.Ctx) error {
	username := c.Params("username")
	if err := s.followService.Unfollow(c.UserContext(), mustUserID(c), username); err != nil {
		return respondServiceError(c, err)
	}
	return c.Redirect("/"+username+"/", fiber.StatusFound)
}
