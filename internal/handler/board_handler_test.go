package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"boardhub/internal/handler"
	"boardhub/internal/middleware"
	"boardhub/internal/model"
	"boardhub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockBoardService struct {
	mock.Mock
}

func (m *MockBoardService) Create(ctx context.Context, name string, actingUser uuid.UUID) (*model.Board, error) {
	args := m.Called(ctx, name, actingUser)
	board := args.Get(0)
	if board == nil {
		return nil, args.Error(1)
	}
	return board.(*model.Board), args.Error(1)
}

func (m *MockBoardService) GetByID(ctx context.Context, boardID, actingUser uuid.UUID) (*model.Board, error) {
	args := m.Called(ctx, boardID, actingUser)
	board := args.Get(0)
	if board == nil {
		return nil, args.Error(1)
	}
	return board.(*model.Board), args.Error(1)
}

func (m *MockBoardService) GetUserBoards(ctx context.Context, targetUser, actingUser uuid.UUID) ([]model.Board, error) {
	args := m.Called(ctx, targetUser, actingUser)
	boards := args.Get(0)
	if boards == nil {
		return nil, args.Error(1)
	}
	return boards.([]model.Board), args.Error(1)
}

func (m *MockBoardService) Update(ctx context.Context, boardID uuid.UUID, name string, actingUser uuid.UUID) (*model.Board, error) {
	args := m.Called(ctx, boardID, name, actingUser)
	board := args.Get(0)
	if board == nil {
		return nil, args.Error(1)
	}
	return board.(*model.Board), args.Error(1)
}

func (m *MockBoardService) Delete(ctx context.Context, boardID, actingUser uuid.UUID) (bool, error) {
	args := m.Called(ctx, boardID, actingUser)
	return args.Bool(0), args.Error(1)
}

func (m *MockBoardService) IsMember(ctx context.Context, boardID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, boardID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockBoardService) IsOwner(ctx context.Context, boardID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, boardID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockBoardService) GetBoardMembers(ctx context.Context, boardID, actingUser uuid.UUID) ([]model.BoardMember, error) {
	args := m.Called(ctx, boardID, actingUser)
	members := args.Get(0)
	if members == nil {
		return nil, args.Error(1)
	}
	return members.([]model.BoardMember), args.Error(1)
}

func (m *MockBoardService) AddMember(ctx context.Context, boardID, userID uuid.UUID, role model.Role, actingUser uuid.UUID) (*model.BoardMember, error) {
	args := m.Called(ctx, boardID, userID, role, actingUser)
	member := args.Get(0)
	if member == nil {
		return nil, args.Error(1)
	}
	return member.(*model.BoardMember), args.Error(1)
}

func (m *MockBoardService) RemoveMember(ctx context.Context, boardID, userID, actingUser uuid.UUID) (bool, error) {
	args := m.Called(ctx, boardID, userID, actingUser)
	return args.Bool(0), args.Error(1)
}

func (m *MockBoardService) UpdateMemberRole(ctx context.Context, boardID, userID uuid.UUID, newRole model.Role, actingUser uuid.UUID) (*model.BoardMember, error) {
	args := m.Called(ctx, boardID, userID, newRole, actingUser)
	member := args.Get(0)
	if member == nil {
		return nil, args.Error(1)
	}
	return member.(*model.BoardMember), args.Error(1)
}

var _ service.BoardServiceInterface = (*MockBoardService)(nil)

// setupBoardRouter wires the board routes with the acting user injected the
// way the auth middleware would.
func setupBoardRouter(userID uuid.UUID) (*gin.Engine, *MockBoardService) {
	gin.SetMode(gin.TestMode)
	r := gin.Default()
	mockService := new(MockBoardService)
	boardHandler := handler.NewBoardHandler(mockService)
	memberHandler := handler.NewMemberHandler(mockService)

	r.Use(func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
	})

	r.POST("/boards", boardHandler.Create)
	r.GET("/boards", boardHandler.GetAll)
	r.GET("/boards/:id", boardHandler.GetByID)
	r.PUT("/boards/:id", boardHandler.Update)
	r.DELETE("/boards/:id", boardHandler.Delete)
	r.GET("/boards/:id/members", memberHandler.List)
	r.POST("/boards/:id/members", memberHandler.Add)

	return r, mockService
}

func TestBoardCreate_Success(t *testing.T) {
	// Arrange
	userID := uuid.New()
	router, mockService := setupBoardRouter(userID)

	boardID := uuid.New()
	now := time.Now().UTC()
	mockService.On("Create", mock.Anything, "Sprint 1", userID).
		Return(&model.Board{ID: boardID, Name: "Sprint 1", CreatedAt: now, UpdatedAt: now}, nil)

	body, _ := json.Marshal(handler.CreateBoardRequest{Name: "Sprint 1"})
	req, _ := http.NewRequest("POST", "/boards", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusCreated, resp.Code)

	var response handler.BoardResponse
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &response))
	assert.Equal(t, boardID.String(), response.ID)
	assert.Equal(t, "Sprint 1", response.Name)
	mockService.AssertExpectations(t)
}

func TestBoardCreate_MissingName(t *testing.T) {
	router, mockService := setupBoardRouter(uuid.New())

	req, _ := http.NewRequest("POST", "/boards", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	mockService.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestBoardCreate_ValidationError(t *testing.T) {
	userID := uuid.New()
	router, mockService := setupBoardRouter(userID)

	mockService.On("Create", mock.Anything, "   ", userID).
		Return(nil, fmt.Errorf("%w: board name cannot be empty", service.ErrValidation))

	body, _ := json.Marshal(handler.CreateBoardRequest{Name: "   "})
	req, _ := http.NewRequest("POST", "/boards", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestBoardGetByID_Forbidden(t *testing.T) {
	userID := uuid.New()
	router, mockService := setupBoardRouter(userID)
	boardID := uuid.New()

	mockService.On("GetByID", mock.Anything, boardID, userID).
		Return(nil, fmt.Errorf("%w: not a member of this board", service.ErrUnauthorized))

	req, _ := http.NewRequest("GET", "/boards/"+boardID.String(), nil)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestBoardGetByID_NotFound(t *testing.T) {
	userID := uuid.New()
	router, mockService := setupBoardRouter(userID)
	boardID := uuid.New()

	mockService.On("GetByID", mock.Anything, boardID, userID).
		Return(nil, fmt.Errorf("%w: board not found", service.ErrNotFound))

	req, _ := http.NewRequest("GET", "/boards/"+boardID.String(), nil)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestBoardGetByID_BadID(t *testing.T) {
	router, _ := setupBoardRouter(uuid.New())

	req, _ := http.NewRequest("GET", "/boards/not-a-uuid", nil)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestBoardUpdate_Success(t *testing.T) {
	userID := uuid.New()
	router, mockService := setupBoardRouter(userID)
	boardID := uuid.New()
	now := time.Now().UTC()

	mockService.On("Update", mock.Anything, boardID, "Sprint 1 Renamed", userID).
		Return(&model.Board{ID: boardID, Name: "Sprint 1 Renamed", CreatedAt: now, UpdatedAt: now}, nil)

	body, _ := json.Marshal(handler.UpdateBoardRequest{Name: "Sprint 1 Renamed"})
	req, _ := http.NewRequest("PUT", "/boards/"+boardID.String(), bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	var response handler.BoardResponse
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &response))
	assert.Equal(t, "Sprint 1 Renamed", response.Name)
}

func TestBoardDelete_Success(t *testing.T) {
	userID := uuid.New()
	router, mockService := setupBoardRouter(userID)
	boardID := uuid.New()

	mockService.On("Delete", mock.Anything, boardID, userID).Return(true, nil)

	req, _ := http.NewRequest("DELETE", "/boards/"+boardID.String(), nil)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"deleted":true`)
}

func TestMemberList_Success(t *testing.T) {
	userID := uuid.New()
	router, mockService := setupBoardRouter(userID)
	boardID := uuid.New()

	stored := []model.BoardMember{
		{
			BoardID: boardID,
			UserID:  userID,
			Role:    model.RoleOwner,
			User:    model.User{ID: userID, Email: "owner@example.com", Name: "Owner"},
		},
	}
	mockService.On("GetBoardMembers", mock.Anything, boardID, userID).Return(stored, nil)

	req, _ := http.NewRequest("GET", "/boards/"+boardID.String()+"/members", nil)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	var response []handler.MemberResponse
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &response))
	assert.Len(t, response, 1)
	assert.Equal(t, "owner", response[0].Role)
	assert.Equal(t, "owner@example.com", response[0].Email)
}

func TestMemberAdd_Success(t *testing.T) {
	userID := uuid.New()
	router, mockService := setupBoardRouter(userID)
	boardID := uuid.New()
	targetID := uuid.New()

	mockService.On("AddMember", mock.Anything, boardID, targetID, model.RoleMember, userID).
		Return(&model.BoardMember{BoardID: boardID, UserID: targetID, Role: model.RoleMember}, nil)

	body, _ := json.Marshal(handler.AddMemberRequest{UserID: targetID.String(), Role: "member"})
	req, _ := http.NewRequest("POST", "/boards/"+boardID.String()+"/members", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusCreated, resp.Code)
	mockService.AssertExpectations(t)
}

func TestMemberAdd_BadRole(t *testing.T) {
	router, mockService := setupBoardRouter(uuid.New())
	boardID := uuid.New()

	body, _ := json.Marshal(handler.AddMemberRequest{UserID: uuid.New().String(), Role: "admin"})
	req, _ := http.NewRequest("POST", "/boards/"+boardID.String()+"/members", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	mockService.AssertNotCalled(t, "AddMember", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
