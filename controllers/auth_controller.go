package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/qiume/talkwall/config"
	"github.com/qiume/talkwall/middleware"
	"github.com/qiume/talkwall/models"
	"github.com/qiume/talkwall/utils"
)

// AuthController handles registration, the session lifecycle and account
// self-service endpoints.
type AuthController struct {
	db  *gorm.DB
	cfg config.AppConfig
}

// NewAuthController creates an AuthController.
func NewAuthController(db *gorm.DB, cfg config.AppConfig) *AuthController {
	return &AuthController{db: db, cfg: cfg}
}

func (a *AuthController) userResponse(id uint, username, qq, uid string) models.UserResponse {
	return models.UserResponse{
		ID:       id,
		Username: username,
		QQ:       qq,
		UID:      uid,
		IsAdmin:  a.cfg.IsAdmin(uid),
	}
}

// Register creates a local account. Username uniqueness is enforced by the
// store; the insert loser of a concurrent race gets a conflict, not a 500.
func (a *AuthController) Register(ctx *gin.Context) {
	var req struct {
		Username string `json:"username"`
		QQ       string `json:"qq"`
		Password string `json:"password"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "请求参数错误")
		return
	}

	if strings.TrimSpace(req.Username) == "" {
		utils.Error(ctx, http.StatusBadRequest, "用户名不能为空")
		return
	}
	if strings.TrimSpace(req.QQ) == "" {
		utils.Error(ctx, http.StatusBadRequest, "QQ号不能为空")
		return
	}
	if len(req.Password) < 6 {
		utils.Error(ctx, http.StatusBadRequest, "密码至少需要6位")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Sugar.Errorf("password hashing failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, "服务器内部错误")
		return
	}

	user := models.User{
		UID:          uuid.NewString(),
		Username:     strings.TrimSpace(req.Username),
		QQ:           strings.TrimSpace(req.QQ),
		PasswordHash: hash,
	}
	if err := a.db.Create(&user).Error; err != nil {
		if utils.IsUniqueViolation(err) {
			utils.Error(ctx, http.StatusConflict, "用户名已存在")
			return
		}
		utils.Sugar.Errorf("failed to create user: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, "服务器内部错误")
		return
	}

	utils.Message(ctx, http.StatusCreated, "注册成功")
}

// Login verifies credentials and issues a session cookie.
func (a *AuthController) Login(ctx *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "请求参数错误")
		return
	}

	var user models.User
	err := a.db.Where("username = ?", strings.TrimSpace(req.Username)).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusUnauthorized, "未授权")
			return
		}
		utils.Sugar.Errorf("failed to load user: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, "服务器内部错误")
		return
	}

	ok, err := utils.CheckPassword(user.PasswordHash, req.Password)
	if err != nil {
		utils.Sugar.Errorf("password verification failed for user %d: %v", user.ID, err)
		utils.Error(ctx, http.StatusInternalServerError, "服务器内部错误")
		return
	}
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, "未授权")
		return
	}

	token, err := models.CreateSession(a.db, user.ID)
	if err != nil {
		utils.Sugar.Errorf("failed to create session: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, "服务器内部错误")
		return
	}

	ctx.SetCookie(middleware.SessionCookie, token, int(models.SessionTTL.Seconds()), "/", "", false, true)
	ctx.JSON(http.StatusOK, a.userResponse(user.ID, user.Username, user.QQ, user.UID))
}

// Logout revokes the session and clears the cookie. Calling it without a
// session, or twice, succeeds either way.
func (a *AuthController) Logout(ctx *gin.Context) {
	if token, err := ctx.Cookie(middleware.SessionCookie); err == nil && token != "" {
		if err := models.RevokeSession(a.db, token); err != nil {
			utils.Sugar.Errorf("failed to revoke session: %v", err)
			utils.Error(ctx, http.StatusInternalServerError, "服务器内部错误")
			return
		}
		ctx.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	}
	utils.Message(ctx, http.StatusOK, "退出成功")
}

// Me returns the current authenticated user's information.
func (a *AuthController) Me(ctx *gin.Context) {
	identity, ok := middleware.CurrentIdentity(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, "未授权")
		return
	}
	ctx.JSON(http.StatusOK, a.userResponse(identity.ID, identity.Username, identity.QQ, identity.UID))
}

// UpdateProfile renames the caller and/or changes the contact field. Blank
// fields keep their current value; submitting only current values is
// rejected rather than silently succeeding.
func (a *AuthController) UpdateProfile(ctx *gin.Context) {
	identity, ok := middleware.CurrentIdentity(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, "未授权")
		return
	}

	var req struct {
		Username string `json:"username"`
		QQ       string `json:"qq"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "请求参数错误")
		return
	}

	newUsername := strings.TrimSpace(req.Username)
	if newUsername == "" {
		newUsername = identity.Username
	}
	newQQ := strings.TrimSpace(req.QQ)
	if newQQ == "" {
		newQQ = identity.QQ
	}

	if newUsername == identity.Username && newQQ == identity.QQ {
		utils.Error(ctx, http.StatusBadRequest, "没有需要更新的内容")
		return
	}

	err := a.db.Model(&models.User{}).Where("id = ?", identity.ID).
		Updates(map[string]interface{}{"username": newUsername, "qq": newQQ}).Error
	if err != nil {
		if utils.IsUniqueViolation(err) {
			utils.Error(ctx, http.StatusConflict, "用户名已存在")
			return
		}
		utils.Sugar.Errorf("failed to update profile: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, "服务器内部错误")
		return
	}

	ctx.JSON(http.StatusOK, a.userResponse(identity.ID, newUsername, newQQ, identity.UID))
}

// ChangePassword verifies the current password before storing a new hash.
func (a *AuthController) ChangePassword(ctx *gin.Context) {
	identity, ok := middleware.CurrentIdentity(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, "未授权")
		return
	}

	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "请求参数错误")
		return
	}
	if len(req.NewPassword) < 6 {
		utils.Error(ctx, http.StatusBadRequest, "新密码至少需要6位")
		return
	}

	var user models.User
	if err := a.db.First(&user, identity.ID).Error; err != nil {
		utils.Sugar.Errorf("failed to load user %d: %v", identity.ID, err)
		utils.Error(ctx, http.StatusInternalServerError, "服务器内部错误")
		return
	}

	ok, err := utils.CheckPassword(user.PasswordHash, req.CurrentPassword)
	if err != nil {
		utils.Sugar.Errorf("password verification failed for user %d: %v", user.ID, err)
		utils.Error(ctx, http.StatusInternalServerError, "服务器内部错误")
		return
	}
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, "原密码错误")
		return
	}

	newHash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		utils.Sugar.Errorf("password hashing failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, "服务器内部错误")
		return
	}
	if err := a.db.Model(&user).Update("password_hash", newHash).Error; err != nil {
		utils.Sugar.Errorf("failed to update password: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, "服务器内部错误")
		return
	}

	utils.Message(ctx, http.StatusOK, "密码修改成功")
}
