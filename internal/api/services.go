package api

import (
	"github.com/inkwell-app/inkwell-server/internal/service"
)

// Services groups the business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Auth      *service.AuthService
	Article   *service.ArticleService
	Feed      *service.FeedService
	Challenge *service.ChallengeService
	Category  *service.CategoryService
	User      *service.UserService
	Relay     *service.RelayService
}
