package services

import (
	"context"
	"fmt"
	"log"

	"SwapMarket/server/internal/models"
	"SwapMarket/server/internal/repository"

	lru "github.com/hashicorp/golang-lru/v2"
)

// UserService resolves user labels and the global administrator flag from
// the marketplace user directory. Display names are cached (they are
// effectively immutable); the admin flag is always read fresh since roles
// can be revoked.
type UserService interface {
	GetUserById(ctx context.Context, userID int) (*models.User, error)
	GetUsernames(ctx context.Context, userIDs []int) (map[int]string, error)
	IsGlobalAdmin(ctx context.Context, userID int) (bool, error)
}

type userService struct {
	userRepo repository.UserRepository
	names    *lru.Cache[int, string]
}

func NewUserService(userRepo repository.UserRepository) UserService {
	names, err := lru.New[int, string](4096)
	if err != nil {
		// lru.New only fails on a non-positive size
		panic(fmt.Sprintf("failed to create username cache: %v", err))
	}
	return &userService{
		userRepo: userRepo,
		names:    names,
	}
}

func (us *userService) GetUserById(ctx context.Context, userID int) (*models.User, error) {
	user, err := us.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	us.names.Add(user.ID, user.Username)
	return user, nil
}

func (us *userService) GetUsernames(ctx context.Context, userIDs []int) (map[int]string, error) {
	result := make(map[int]string, len(userIDs))
	var missing []int
	for _, id := range userIDs {
		if name, ok := us.names.Get(id); ok {
			result[id] = name
		} else {
			missing = append(missing, id)
		}
	}

	if len(missing) > 0 {
		users, err := us.userRepo.GetByIDs(ctx, missing)
		if err != nil {
			log.Printf("Error resolving usernames for %v: %v", missing, err)
			return nil, err
		}
		for _, user := range users {
			result[user.ID] = user.Username
			us.names.Add(user.ID, user.Username)
		}
	}
	return result, nil
}

func (us *userService) IsGlobalAdmin(ctx context.Context, userID int) (bool, error) {
	user, err := us.userRepo.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return user.IsAdmin, nil
}
