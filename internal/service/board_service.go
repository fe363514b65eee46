package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"boardhub/internal/model"
	"boardhub/internal/repository"

	"github.com/google/uuid"
)

const MaxBoardNameLength = 100

// BoardService is the single authority for board lifecycle and for every
// membership-gated decision. All operations take the acting user's id as the
// authorization subject; authorization is decided from the membership table
// before any board data is touched beyond an existence check.
type BoardService struct {
	boards  repository.BoardRepositoryInterface
	members repository.MembershipRepositoryInterface
	tx      repository.TransactionManager
}

type BoardServiceInterface interface {
	Create(ctx context.Context, name string, actingUser uuid.UUID) (*model.Board, error)
	GetByID(ctx context.Context, boardID, actingUser uuid.UUID) (*model.Board, error)
	GetUserBoards(ctx context.Context, targetUser, actingUser uuid.UUID) ([]model.Board, error)
	Update(ctx context.Context, boardID uuid.UUID, name string, actingUser uuid.UUID) (*model.Board, error)
	Delete(ctx context.Context, boardID, actingUser uuid.UUID) (bool, error)
	IsMember(ctx context.Context, boardID, userID uuid.UUID) (bool, error)
	IsOwner(ctx context.Context, boardID, userID uuid.UUID) (bool, error)
	GetBoardMembers(ctx context.Context, boardID, actingUser uuid.UUID) ([]model.BoardMember, error)
	AddMember(ctx context.Context, boardID, userID uuid.UUID, role model.Role, actingUser uuid.UUID) (*model.BoardMember, error)
	RemoveMember(ctx context.Context, boardID, userID, actingUser uuid.UUID) (bool, error)
	UpdateMemberRole(ctx context.Context, boardID, userID uuid.UUID, newRole model.Role, actingUser uuid.UUID) (*model.BoardMember, error)
}

var _ BoardServiceInterface = (*BoardService)(nil)

func NewBoardService(
	boards repository.BoardRepositoryInterface,
	members repository.MembershipRepositoryInterface,
	tx repository.TransactionManager,
) *BoardService {
	return &BoardService{
		boards:  boards,
		members: members,
		tx:      tx,
	}
}

func validateBoardName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: board name cannot be empty", ErrValidation)
	}
	if utf8.RuneCountInString(name) > MaxBoardNameLength {
		return fmt.Errorf("%w: board name cannot exceed %d characters", ErrValidation, MaxBoardNameLength)
	}
	return nil
}

// nextModified guarantees the modification timestamp strictly advances even
// when two updates land within clock resolution.
func nextModified(prev time.Time) time.Time {
	now := time.Now().UTC()
	if !now.After(prev) {
		return prev.Add(time.Nanosecond)
	}
	return now
}

func isOwner(ctx context.Context, members repository.MembershipRepositoryInterface, boardID, userID uuid.UUID) (bool, error) {
	member, err := members.Find(ctx, boardID, userID)
	if err != nil {
		return false, err
	}
	return member != nil && member.Role == model.RoleOwner, nil
}

// Create persists a new board along with the creator's owner membership as
// one atomic unit.
func (s *BoardService) Create(ctx context.Context, name string, actingUser uuid.UUID) (*model.Board, error) {
	if err := validateBoardName(name); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	board := &model.Board{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.tx.Do(ctx, func(boards repository.BoardRepositoryInterface, members repository.MembershipRepositoryInterface) error {
		if err := boards.Create(ctx, board); err != nil {
			return err
		}
		return members.Create(ctx, &model.BoardMember{
			BoardID:   board.ID,
			UserID:    actingUser,
			Role:      model.RoleOwner,
			CreatedAt: now,
			UpdatedAt: now,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("create board: %w", err)
	}
	return board, nil
}

// GetByID checks existence before membership, so a missing board reports not
// found regardless of the caller.
func (s *BoardService) GetByID(ctx context.Context, boardID, actingUser uuid.UUID) (*model.Board, error) {
	board, err := s.boards.GetByID(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("get board: %w", err)
	}
	if board == nil {
		return nil, fmt.Errorf("%w: board not found", ErrNotFound)
	}

	member, err := s.members.Find(ctx, boardID, actingUser)
	if err != nil {
		return nil, fmt.Errorf("get board: %w", err)
	}
	if member == nil {
		return nil, fmt.Errorf("%w: not a member of this board", ErrUnauthorized)
	}
	return board, nil
}

// GetUserBoards lists every board the target user holds a membership on.
// A user may only list their own boards.
func (s *BoardService) GetUserBoards(ctx context.Context, targetUser, actingUser uuid.UUID) ([]model.Board, error) {
	if targetUser != actingUser {
		return nil, fmt.Errorf("%w: you can only view your own boards", ErrUnauthorized)
	}

	boards, err := s.members.ListBoardsForUser(ctx, targetUser)
	if err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}
	return boards, nil
}

// Update renames the board and advances its modification timestamp. Input is
// validated before the ownership check; the ownership check runs before the
// fetch, inside one transaction so the board cannot vanish in between.
func (s *BoardService) Update(ctx context.Context, boardID uuid.UUID, name string, actingUser uuid.UUID) (*model.Board, error) {
	if err := validateBoardName(name); err != nil {
		return nil, err
	}

	var board *model.Board
	err := s.tx.Do(ctx, func(boards repository.BoardRepositoryInterface, members repository.MembershipRepositoryInterface) error {
		owner, err := isOwner(ctx, members, boardID, actingUser)
		if err != nil {
			return err
		}
		if !owner {
			return fmt.Errorf("%w: only board owners can update the board", ErrUnauthorized)
		}

		board, err = boards.GetByID(ctx, boardID)
		if err != nil {
			return err
		}
		if board == nil {
			return fmt.Errorf("%w: board not found", ErrNotFound)
		}

		board.Name = name
		board.UpdatedAt = nextModified(board.UpdatedAt)
		return boards.Update(ctx, board)
	})
	if err != nil {
		return nil, err
	}
	return board, nil
}

// Delete removes the board and all of its memberships atomically.
func (s *BoardService) Delete(ctx context.Context, boardID, actingUser uuid.UUID) (bool, error) {
	err := s.tx.Do(ctx, func(boards repository.BoardRepositoryInterface, members repository.MembershipRepositoryInterface) error {
		owner, err := isOwner(ctx, members, boardID, actingUser)
		if err != nil {
			return err
		}
		if !owner {
			return fmt.Errorf("%w: only board owners can delete the board", ErrUnauthorized)
		}

		board, err := boards.GetByID(ctx, boardID)
		if err != nil {
			return err
		}
		if board == nil {
			return fmt.Errorf("%w: board not found", ErrNotFound)
		}

		if err := members.DeleteForBoard(ctx, boardID); err != nil {
			return err
		}
		return boards.Delete(ctx, boardID)
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// IsMember reports whether the user holds any membership on the board. It is
// the primitive the gated operations are built from and never fails on an
// unknown board or user.
func (s *BoardService) IsMember(ctx context.Context, boardID, userID uuid.UUID) (bool, error) {
	member, err := s.members.Find(ctx, boardID, userID)
	if err != nil {
		return false, err
	}
	return member != nil, nil
}

// IsOwner reports whether the user holds the owner role on the board.
func (s *BoardService) IsOwner(ctx context.Context, boardID, userID uuid.UUID) (bool, error) {
	return isOwner(ctx, s.members, boardID, userID)
}

// GetBoardMembers returns all memberships for the board, with the user
// resolved. Any member may list the membership of their board.
func (s *BoardService) GetBoardMembers(ctx context.Context, boardID, actingUser uuid.UUID) ([]model.BoardMember, error) {
	member, err := s.members.Find(ctx, boardID, actingUser)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	if member == nil {
		return nil, fmt.Errorf("%w: not a member of this board", ErrUnauthorized)
	}

	members, err := s.members.ListForBoard(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return members, nil
}

// AddMember grants a user a role on the board. Only owners may add members;
// a user who already holds a membership is rejected (use UpdateMemberRole).
func (s *BoardService) AddMember(ctx context.Context, boardID, userID uuid.UUID, role model.Role, actingUser uuid.UUID) (*model.BoardMember, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}

	var member *model.BoardMember
	err := s.tx.Do(ctx, func(boards repository.BoardRepositoryInterface, members repository.MembershipRepositoryInterface) error {
		owner, err := isOwner(ctx, members, boardID, actingUser)
		if err != nil {
			return err
		}
		if !owner {
			return fmt.Errorf("%w: only board owners can add members", ErrUnauthorized)
		}

		existing, err := members.Find(ctx, boardID, userID)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%w: user is already a member of this board", ErrValidation)
		}

		now := time.Now().UTC()
		member = &model.BoardMember{
			BoardID:   boardID,
			UserID:    userID,
			Role:      role,
			CreatedAt: now,
			UpdatedAt: now,
		}
		return members.Create(ctx, member)
	})
	if err != nil {
		return nil, err
	}
	return member, nil
}

// RemoveMember revokes a user's membership. The last remaining owner cannot
// be removed; deleting the board is the only way out of that state.
func (s *BoardService) RemoveMember(ctx context.Context, boardID, userID, actingUser uuid.UUID) (bool, error) {
	err := s.tx.Do(ctx, func(boards repository.BoardRepositoryInterface, members repository.MembershipRepositoryInterface) error {
		owner, err := isOwner(ctx, members, boardID, actingUser)
		if err != nil {
			return err
		}
		if !owner {
			return fmt.Errorf("%w: only board owners can remove members", ErrUnauthorized)
		}

		member, err := members.Find(ctx, boardID, userID)
		if err != nil {
			return err
		}
		if member == nil {
			return fmt.Errorf("%w: membership not found", ErrNotFound)
		}

		if member.Role == model.RoleOwner {
			owners, err := members.CountOwners(ctx, boardID)
			if err != nil {
				return err
			}
			if owners <= 1 {
				return fmt.Errorf("%w: cannot remove the last owner of a board", ErrValidation)
			}
		}
		return members.Delete(ctx, boardID, userID)
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// UpdateMemberRole changes an existing member's role. Demoting the last
// remaining owner is rejected for the same reason removal is.
func (s *BoardService) UpdateMemberRole(ctx context.Context, boardID, userID uuid.UUID, newRole model.Role, actingUser uuid.UUID) (*model.BoardMember, error) {
	if !newRole.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, newRole)
	}

	var member *model.BoardMember
	err := s.tx.Do(ctx, func(boards repository.BoardRepositoryInterface, members repository.MembershipRepositoryInterface) error {
		owner, err := isOwner(ctx, members, boardID, actingUser)
		if err != nil {
			return err
		}
		if !owner {
			return fmt.Errorf("%w: only board owners can change member roles", ErrUnauthorized)
		}

		member, err = members.Find(ctx, boardID, userID)
		if err != nil {
			return err
		}
		if member == nil {
			return fmt.Errorf("%w: membership not found", ErrNotFound)
		}

		if member.Role == model.RoleOwner && newRole != model.RoleOwner {
			owners, err := members.CountOwners(ctx, boardID)
			if err != nil {
				return err
			}
			if owners <= 1 {
				return fmt.Errorf("%w: cannot demote the last owner of a board", ErrValidation)
			}
		}

		member.Role = newRole
		member.UpdatedAt = nextModified(member.UpdatedAt)
		return members.Update(ctx, member)
	})
	if err != nil {
		return nil, err
	}
	return member, nil
}
