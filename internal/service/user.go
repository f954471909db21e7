package service

import (
	"context"
	"regexp"

	"github.com/andreivolkov/gatechat/internal/database"
	"github.com/andreivolkov/gatechat/internal/models"
)

var walletRegexp = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// UserService handles user profile reads and updates.
type UserService struct {
	users database.UserRepository
}

// NewUserService creates a UserService.
func NewUserService(users database.UserRepository) *UserService {
	return &UserService{users: users}
}

// Get returns a user by ID.
func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	if user == nil {
		return nil, NotFound("NOT_FOUND", "user not found")
	}
	return user, nil
}

// UpdateProfile edits the caller's display name, avatar, or wallet address.
// Nil fields are left unchanged.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, displayName, avatarHash, walletAddress *string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	if user == nil {
		return nil, NotFound("NOT_FOUND", "user not found")
	}

	if displayName != nil {
		if *displayName == "" || len(*displayName) > 64 {
			return nil, Validation("INVALID_DISPLAY_NAME", "display name must be 1-64 characters")
		}
		user.DisplayName = *displayName
	}
	if avatarHash != nil {
		user.AvatarHash = avatarHash
	}
	if walletAddress != nil {
		if *walletAddress != "" && !walletRegexp.MatchString(*walletAddress) {
			return nil, Validation("INVALID_WALLET", "wallet address must be a 0x-prefixed 40-hex-digit string")
		}
		if *walletAddress == "" {
			user.WalletAddress = nil
		} else {
			user.WalletAddress = walletAddress
		}
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	return user, nil
}
