package handler

import (
	"net/http"
	"time"

	"boardhub/internal/model"
	"boardhub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BoardHandler struct {
	boards service.BoardServiceInterface
}

func NewBoardHandler(boards service.BoardServiceInterface) *BoardHandler {
	return &BoardHandler{boards: boards}
}

type CreateBoardRequest struct {
	Name string `json:"name" binding:"required"`
}

type UpdateBoardRequest struct {
	Name string `json:"name" binding:"required"`
}

type BoardResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toBoardResponse(board *model.Board) BoardResponse {
	return BoardResponse{
		ID:        board.ID.String(),
		Name:      board.Name,
		CreatedAt: board.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt: board.UpdatedAt.Format(time.RFC3339Nano),
	}
}

// Create creates a new board owned by the authenticated user
func (h *BoardHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	board, err := h.boards.Create(c.Request.Context(), req.Name, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toBoardResponse(board))
}

// GetAll returns every board the authenticated user is a member of
func (h *BoardHandler) GetAll(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	boards, err := h.boards.GetUserBoards(c.Request.Context(), userID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response := make([]BoardResponse, len(boards))
	for i := range boards {
		response[i] = toBoardResponse(&boards[i])
	}

	c.JSON(http.StatusOK, response)
}

// GetUserBoards returns the boards of the user named in the URL; the service
// rejects the call unless that user is the caller
func (h *BoardHandler) GetUserBoards(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	boards, err := h.boards.GetUserBoards(c.Request.Context(), targetID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response := make([]BoardResponse, len(boards))
	for i := range boards {
		response[i] = toBoardResponse(&boards[i])
	}

	c.JSON(http.StatusOK, response)
}

func (h *BoardHandler) GetByID(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	boardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid board ID format"})
		return
	}

	board, err := h.boards.GetByID(c.Request.Context(), boardID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toBoardResponse(board))
}

func (h *BoardHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	boardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid board ID format"})
		return
	}

	var req UpdateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	board, err := h.boards.Update(c.Request.Context(), boardID, req.Name, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toBoardResponse(board))
}

func (h *BoardHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	boardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid board ID format"})
		return
	}

	deleted, err := h.boards.Delete(c.Request.Context(), boardID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}
