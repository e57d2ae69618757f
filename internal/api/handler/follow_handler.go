package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campusconnect/alumni-api/internal/core/domain"
	"github.com/campusconnect/alumni-api/internal/core/ports"
)

// FollowHandler exposes the four follow/unfollow verbs. The follower id in
// the path must match the authenticated caller; the target variant comes from
// the route, not from probing.
type FollowHandler struct {
	graph ports.GraphService
}

func NewFollowHandler(graph ports.GraphService) *FollowHandler {
	return &FollowHandler{graph: graph}
}

// FollowStudent handles POST /api/follow/:id/follow/student/:targetID.
func (h *FollowHandler) FollowStudent(c echo.Context) error {
	return h.edge(c, domain.KindStudent, true)
}

// FollowAlumni handles POST /api/follow/:id/follow/alumni/:targetID.
func (h *FollowHandler) FollowAlumni(c echo.Context) error {
	return h.edge(c, domain.KindAlumni, true)
}

// UnfollowStudent handles POST /api/follow/:id/unfollow/student/:targetID.
func (h *FollowHandler) UnfollowStudent(c echo.Context) error {
	return h.edge(c, domain.KindStudent, false)
}

// UnfollowAlumni handles POST /api/follow/:id/unfollow/alumni/:targetID.
func (h *FollowHandler) UnfollowAlumni(c echo.Context) error {
	return h.edge(c, domain.KindAlumni, false)
}

func (h *FollowHandler) edge(c echo.Context, kind domain.Kind, add bool) error {
	self, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	if self.ID != c.Param("id") {
		return echo.NewHTTPError(http.StatusForbidden, "cannot act on behalf of another user")
	}
	targetID := c.Param("targetID")

	if add {
		if err := h.graph.Follow(c.Request().Context(), self.ID, targetID, kind); err != nil {
			return err
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "successfully followed"})
	}

	if err := h.graph.Unfollow(c.Request().Context(), self.ID, targetID, kind); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "successfully unfollowed"})
}
