package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/qiume/talkwall/middleware"
	"github.com/qiume/talkwall/models"
	"github.com/qiume/talkwall/utils"
)

// PostController manages posts and comments.
type PostController struct {
	db *gorm.DB
}

// NewPostController creates a new PostController instance.
func NewPostController(db *gorm.DB) *PostController {
	return &PostController{db: db}
}

// CreatePost allows authenticated users to publish a post, optionally
// anonymously.
func (p *PostController) CreatePost(ctx *gin.Context) {
	identity, ok := middleware.CurrentIdentity(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, "未授权")
		return
	}

	var req struct {
		Title     string `json:"title"`
		Content   string `json:"content"`
		Category  string `json:"category"`
		Anonymous bool   `json:"anonymous"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "请求参数错误")
		return
	}

	title := utils.Sanitize(strings.TrimSpace(req.Title))
	if title == "" {
		utils.Error(ctx, http.StatusBadRequest, "标题不能为空")
		return
	}
	content := utils.Sanitize(strings.TrimSpace(req.Content))
	if content == "" {
		utils.Error(ctx, http.StatusBadRequest, "内容不能为空")
		return
	}
	category, err := models.NormalizeCategory(req.Category)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, "请选择有效的分区")
		return
	}

	post := models.Post{
		UserID:      identity.ID,
		Title:       title,
		Content:     content,
		Category:    category,
		IsAnonymous: req.Anonymous,
	}
	if err := p.db.Create(&post).Error; err != nil {
		utils.Sugar.Errorf("failed to create post: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, "服务器内部错误")
		return
	}

	utils.InvalidateByPrefix("cache:posts:list:")
	utils.Message(ctx, http.StatusCreated, "发布成功")
}

// ListPosts returns all posts newest first, optionally filtered by a
// concrete category. The virtual "最新" value and an empty parameter both
// mean no filter.
func (p *PostController) ListPosts(ctx *gin.Context) {
	filter, err := models.NormalizeCategoryFilter(ctx.Query("category"))
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, "未知的分区筛选")
		return
	}

	// Masking is requester-independent, so the list is shared cacheable
	cacheKey := "cache:posts:list:cat=" + filter
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	query := p.db.Preload("User").Order("created_at DESC, id DESC")
	if filter != "" {
		query = query.Where("category = ?", filter)
	}
	var posts []models.Post
	if err := query.Find(&posts).Error; err != nil {
		utils.Sugar.Errorf("failed to list posts: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, "服务器内部错误")
		return
	}

	views := models.NewPostSummaries(posts)
	utils.CacheSetJSON(cacheKey, views, time.Hour)
	ctx.JSON(http.StatusOK, views)
}

// GetPost returns a single post with its comments, oldest comment first.
func (p *PostController) GetPost(ctx *gin.Context) {
	postID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, "请求参数错误")
		return
	}

	cacheKey := fmt.Sprintf("cache:post:detail:%d", postID)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	var post models.Post
	if err := p.db.Preload("User").First(&post, postID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, "资源不存在")
			return
		}
		utils.Sugar.Errorf("failed to load post %d: %v", postID, err)
		utils.Error(ctx, http.StatusInternalServerError, "服务器内部错误")
		return
	}

	var comments []models.Comment
	err = p.db.Preload("User").
		Where("post_id = ?", post.ID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	if err != nil {
		utils.Sugar.Errorf("failed to load comments of post %d: %v", post.ID, err)
		utils.Error(ctx, http.StatusInternalServerError, "服务器内部错误")
		return
	}

	detail := models.NewPostDetail(post, comments)
	utils.CacheSetJSON(cacheKey, detail, time.Hour)
	ctx.JSON(http.StatusOK, detail)
}

// ListMyPosts returns every post of the caller, anonymous ones included.
// Author fields stay masked on anonymous items even for their owner, so
// the-only-difference is listing inclusion. Never cached: the result set
// depends on who is asking.
func (p *PostController) ListMyPosts(ctx *gin.Context) {
	identity, ok := middleware.CurrentIdentity(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, "未授权")
		return
	}

	posts, err := p.postsOfUser(identity.ID, true)
	if err != nil {
		utils.Sugar.Errorf("failed to list posts of user %d: %v", identity.ID, err)
		utils.Error(ctx, http.StatusInternalServerError, "服务器内部错误")
		return
	}
	ctx.JSON(http.StatusOK, models.NewPostSummaries(posts))
}

// postsOfUser fetches a user's posts newest first. When includeAnonymous
// is false, anonymous posts are omitted from the result set entirely.
func (p *PostController) postsOfUser(userID uint, includeAnonymous bool) ([]models.Post, error) {
	query := p.db.Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC")
	if !includeAnonymous {
		query = query.Where("is_anonymous = ?", false)
	}
	var posts []models.Post
	err := query.Find(&posts).Error
	return posts, err
}

// CreateComment allows authenticated users to comment on an existing post.
func (p *PostController) CreateComment(ctx *gin.Context) {
	identity, ok := middleware.CurrentIdentity(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, "未授权")
		return
	}

	postID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, "请求参数错误")
		return
	}

	var req struct {
		Content   string `json:"content"`
		Anonymous bool   `json:"anonymous"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "请求参数错误")
		return
	}

	content := utils.Sanitize(strings.TrimSpace(req.Content))
	if content == "" {
		utils.Error(ctx, http.StatusBadRequest, "内容不能为空")
		return
	}

	var post models.Post
	if err := p.db.First(&post, postID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, "资源不存在")
			return
		}
		utils.Sugar.Errorf("failed to load post %d: %v", postID, err)
		utils.Error(ctx, http.StatusInternalServerError, "服务器内部错误")
		return
	}

	comment := models.Comment{
		PostID:      post.ID,
		UserID:      identity.ID,
		Content:     content,
		IsAnonymous: req.Anonymous,
	}
	if err := p.db.Create(&comment).Error; err != nil {
		utils.Sugar.Errorf("failed to create comment: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, "服务器内部错误")
		return
	}

	utils.InvalidateByPrefix(fmt.Sprintf("cache:post:detail:%d", post.ID))
	utils.Message(ctx, http.StatusCreated, "评论成功")
}

// DeletePost removes a post and its comments. Admin-only; the gate runs in
// middleware before this handler. Deleting an unknown id is a 404.
func (p *PostController) DeletePost(ctx *gin.Context) {
	postID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, "请求参数错误")
		return
	}

	var deleted int64
	err = p.db.Transaction(func(tx *gorm.DB) error {
		// Explicit cascade keeps behavior identical across both drivers
		if err := tx.Where("post_id = ?", postID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Post{}, postID)
		deleted = res.RowsAffected
		return res.Error
	})
	if err != nil {
		utils.Sugar.Errorf("failed to delete post %d: %v", postID, err)
		utils.Error(ctx, http.StatusInternalServerError, "服务器内部错误")
		return
	}
	if deleted == 0 {
		utils.Error(ctx, http.StatusNotFound, "资源不存在")
		return
	}

	utils.InvalidateByPrefix("cache:posts:list:")
	utils.InvalidateByPrefix(fmt.Sprintf("cache:post:detail:%d", postID))
	utils.Message(ctx, http.StatusOK, "帖子已删除")
}
