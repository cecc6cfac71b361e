package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/qiume/talkwall/models"
	"github.com/qiume/talkwall/utils"
)

// UserController serves public user profiles.
type UserController struct {
	db *gorm.DB
}

// NewUserController creates a new UserController instance.
func NewUserController(db *gorm.DB) *UserController {
	return &UserController{db: db}
}

// GetProfile returns a user's public profile by uid. Anonymous posts are
// left out of the profile entirely so the listing cannot be used to link
// them back to their author.
func (u *UserController) GetProfile(ctx *gin.Context) {
	uid := ctx.Param("uid")

	var user models.User
	if err := u.db.Where("uid = ?", uid).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, "资源不存在")
			return
		}
		utils.Sugar.Errorf("failed to load user %s: %v", uid, err)
		utils.Error(ctx, http.StatusInternalServerError, "服务器内部错误")
		return
	}

	var posts []models.Post
	err := u.db.Preload("User").
		Where("user_id = ? AND is_anonymous = ?", user.ID, false).
		Order("created_at DESC, id DESC").
		Find(&posts).Error
	if err != nil {
		utils.Sugar.Errorf("failed to list posts of user %s: %v", uid, err)
		utils.Error(ctx, http.StatusInternalServerError, "服务器内部错误")
		return
	}

	ctx.JSON(http.StatusOK, models.UserProfile{
		Username: user.Username,
		QQ:       user.QQ,
		UID:      user.UID,
		JoinedAt: user.CreatedAt,
		Posts:    models.NewPostSummaries(posts),
	})
}
