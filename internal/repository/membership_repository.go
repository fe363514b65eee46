package repository

import (
	"context"
	"errors"

	"boardhub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MembershipRepository struct {
	db *gorm.DB
}

type MembershipRepositoryInterface interface {
	Create(ctx context.Context, member *model.BoardMember) error
	Find(ctx context.Context, boardID, userID uuid.UUID) (*model.BoardMember, error)
	Update(ctx context.Context, member *model.BoardMember) error
	Delete(ctx context.Context, boardID, userID uuid.UUID) error
	DeleteForBoard(ctx context.Context, boardID uuid.UUID) error
	ListForBoard(ctx context.Context, boardID uuid.UUID) ([]model.BoardMember, error)
	ListBoardsForUser(ctx context.Context, userID uuid.UUID) ([]model.Board, error)
	CountOwners(ctx context.Context, boardID uuid.UUID) (int64, error)
}

var _ MembershipRepositoryInterface = (*MembershipRepository)(nil)

func NewMembershipRepository(db *gorm.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

func (r *MembershipRepository) Create(ctx context.Context, member *model.BoardMember) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *MembershipRepository) Find(ctx context.Context, boardID, userID uuid.UUID) (*model.BoardMember, error) {
	var member model.BoardMember
	err := r.db.WithContext(ctx).
		Where("board_id = ? AND user_id = ?", boardID, userID).
		First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // no membership
		}
		return nil, err
	}
	return &member, nil
}

func (r *MembershipRepository) Update(ctx context.Context, member *model.BoardMember) error {
	return r.db.WithContext(ctx).Save(member).Error
}

func (r *MembershipRepository) Delete(ctx context.Context, boardID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("board_id = ? AND user_id = ?", boardID, userID).
		Delete(&model.BoardMember{}).Error
}

func (r *MembershipRepository) DeleteForBoard(ctx context.Context, boardID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("board_id = ?", boardID).
		Delete(&model.BoardMember{}).Error
}

// ListForBoard returns all memberships for a board with the user resolved.
func (r *MembershipRepository) ListForBoard(ctx context.Context, boardID uuid.UUID) ([]model.BoardMember, error) {
	var members []model.BoardMember
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("board_id = ?", boardID).
		Find(&members).Error
	return members, err
}

// ListBoardsForUser returns every board the user holds a membership on.
// Ordering is fixed so repeated calls over the same data agree.
func (r *MembershipRepository) ListBoardsForUser(ctx context.Context, userID uuid.UUID) ([]model.Board, error) {
	var boards []model.Board
	err := r.db.WithContext(ctx).
		Joins("JOIN board_members ON board_members.board_id = boards.id").
		Where("board_members.user_id = ?", userID).
		Order("boards.created_at, boards.id").
		Find(&boards).Error
	return boards, err
}

func (r *MembershipRepository) CountOwners(ctx context.Context, boardID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.BoardMember{}).
		Where("board_id = ? AND role = ?", boardID, model.RoleOwner).
		Count(&count).Error
	return count, err
}
