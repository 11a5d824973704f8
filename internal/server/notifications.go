package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) listNotifications(c *gin.Context) {
	unreadOnly := c.Query("unread_only") == "true"

	list, err := s.notifier.GetUserNotifications(currentUser(c), unreadOnly)
	if err != nil {
		s.serviceError(c, err)
		return
	}

	unread := 0
	for _, n := range list {
		if !n.IsRead {
			unread++
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"notifications": list,
		"count":         len(list),
		"unread_count":  unread,
	})
}

func (s *Server) markNotificationRead(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	notification, err := s.notifier.MarkAsRead(id, currentUser(c))
	if err != nil {
		s.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "notification": notification})
}

func (s *Server) markAllNotificationsRead(c *gin.Context) {
	count, err := s.notifier.MarkAllAsRead(currentUser(c))
	if err != nil {
		s.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "marked_read": count})
}
