package repository

import (
	"context"
	"errors"

	"boardhub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BoardRepository struct {
	db *gorm.DB
}

type BoardRepositoryInterface interface {
	Create(ctx context.Context, board *model.Board) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Board, error)
	Update(ctx context.Context, board *model.Board) error
	Delete(ctx context.Context, id uuid.UUID) error
}

var _ BoardRepositoryInterface = (*BoardRepository)(nil)

func NewBoardRepository(db *gorm.DB) *BoardRepository {
	return &BoardRepository{db: db}
}

func (r *BoardRepository) Create(ctx context.Context, board *model.Board) error {
	return r.db.WithContext(ctx).Create(board).Error
}

func (r *BoardRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Board, error) {
	var board model.Board
	err := r.db.WithContext(ctx).
		Preload("Columns").
		Preload("Members").
		Where("id = ?", id).
		First(&board).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // Return nil, nil to indicate that the board was not found
		}
		return nil, err
	}
	return &board, nil
}

func (r *BoardRepository) Update(ctx context.Context, board *model.Board) error {
	return r.db.WithContext(ctx).Save(board).Error
}

// Delete removes the board together with its columns and cards. Callers that
// also need the memberships gone must wrap this in a transaction alongside
// MembershipRepository.DeleteForBoard.
func (r *BoardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)

	columnIDs := db.Model(&model.Column{}).Select("id").Where("board_id = ?", id)
	if err := db.Where("column_id IN (?)", columnIDs).Delete(&model.Card{}).Error; err != nil {
		return err
	}
	if err := db.Where("board_id = ?", id).Delete(&model.Column{}).Error; err != nil {
		return err
	}
	return db.Where("id = ?", id).Delete(&model.Board{}).Error
}
