package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListActivities 按时间倒序分页返回当前用户的活动流
func (a *API) ListActivities(c *gin.Context) {
	skip, limit := parsePagination(c)
	activities, err := a.activities.ListForUser(currentUser(c).ID, skip, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	responses := make([]ActivityResponse, 0, len(activities))
	for _, activity := range activities {
		responses = append(responses, newActivityResponse(activity))
	}
	c.JSON(http.StatusOK, responses)
}
