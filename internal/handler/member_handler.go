package handler

import (
	"net/http"

	"boardhub/internal/model"
	"boardhub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MemberHandler struct {
	boards service.BoardServiceInterface
}

func NewMemberHandler(boards service.BoardServiceInterface) *MemberHandler {
	return &MemberHandler{boards: boards}
}

type AddMemberRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
	Role   string `json:"role" binding:"required,oneof=owner member"`
}

type UpdateMemberRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=owner member"`
}

type MemberResponse struct {
	BoardID string `json:"board_id"`
	UserID  string `json:"user_id"`
	Email   string `json:"email,omitempty"`
	Name    string `json:"name,omitempty"`
	Role    string `json:"role"`
}

func toMemberResponse(member *model.BoardMember) MemberResponse {
	return MemberResponse{
		BoardID: member.BoardID.String(),
		UserID:  member.UserID.String(),
		Email:   member.User.Email,
		Name:    member.User.Name,
		Role:    string(member.Role),
	}
}

// List returns the membership of a board; any member may call it
func (h *MemberHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	boardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid board ID format"})
		return
	}

	members, err := h.boards.GetBoardMembers(c.Request.Context(), boardID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response := make([]MemberResponse, len(members))
	for i := range members {
		response[i] = toMemberResponse(&members[i])
	}

	c.JSON(http.StatusOK, response)
}

// Add grants another user a role on the board; owners only
func (h *MemberHandler) Add(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	boardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid board ID format"})
		return
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	targetID, err := uuid.Parse(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	member, err := h.boards.AddMember(c.Request.Context(), boardID, targetID, model.Role(req.Role), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toMemberResponse(member))
}

// UpdateRole changes a member's role; owners only
func (h *MemberHandler) UpdateRole(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	boardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid board ID format"})
		return
	}

	targetID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	var req UpdateMemberRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	member, err := h.boards.UpdateMemberRole(c.Request.Context(), boardID, targetID, model.Role(req.Role), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toMemberResponse(member))
}

// Remove revokes a member's access; owners only
func (h *MemberHandler) Remove(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	boardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid board ID format"})
		return
	}

	targetID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	removed, err := h.boards.RemoveMember(c.Request.Context(), boardID, targetID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"removed": removed})
}
