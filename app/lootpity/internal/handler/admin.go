package handler

import (
	"context"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/xdooria-lootpity/app/lootpity/internal/dao"
	"github.com/lk2023060901/xdooria-lootpity/pkg/app"
	"github.com/lk2023060901/xdooria-lootpity/pkg/logger"
	"github.com/lk2023060901/xdooria-lootpity/pkg/web"
)

// SnapshotReader 读取已保存的重算结果
type SnapshotReader interface {
	Load(ctx context.Context, profileID string) (*dao.LootSnapshot, error)
}

// AdminHandler 管理接口
type AdminHandler struct {
	job    *Job
	store  SnapshotReader
	logger logger.Logger
}

// NewAdminHandler store 为 nil 时不注册快照查询接口
func NewAdminHandler(job *Job, store SnapshotReader, l logger.Logger) *AdminHandler {
	if l == nil {
		l = logger.NewNoop()
	}
	return &AdminHandler{
		job:    job,
		store:  store,
		logger: l.Named("handler.admin"),
	}
}

// Register 注册路由
func (h *AdminHandler) Register(r gin.IRouter) {
	r.GET("/health", h.Health)

	api := r.Group("/api/v1")
	{
		api.GET("/version", h.Version)
		api.GET("/pity/config", h.PityConfig)
		api.GET("/passes/last", h.LastPass)
		api.POST("/passes", h.TriggerPass)
		if h.store != nil {
			api.GET("/snapshots/:profile_id", h.Snapshot)
		}
	}
}

// Health 健康检查
func (h *AdminHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *AdminHandler) Version(c *gin.Context) {
	web.Success(c, app.GetInfo())
}

// PityConfig 当前生效的保底参数
func (h *AdminHandler) PityConfig(c *gin.Context) {
	web.Success(c, h.job.PityConfig())
}

// LastPass 最近一轮的汇总
func (h *AdminHandler) LastPass(c *gin.Context) {
	summary, ok := h.job.LastPass()
	if !ok {
		web.Error(c, http.StatusNotFound, web.CodeNotFound, "no pass has run yet")
		return
	}
	web.Success(c, summary)
}

// TriggerPass 立即执行一轮，已有一轮在执行时返回 409
func (h *AdminHandler) TriggerPass(c *gin.Context) {
	summary, err := h.job.TryRunPass(c.Request.Context())
	switch {
	case errors.Is(err, ErrPassRunning):
		web.Error(c, http.StatusConflict, web.CodeConflict, err.Error())
	case err != nil:
		h.logger.Warn("triggered pass failed", "error", err)
		web.Error(c, http.StatusInternalServerError, web.CodeInternalError, err.Error())
	default:
		web.Success(c, summary)
	}
}

// Snapshot 读取一个玩家已保存的重算结果
func (h *AdminHandler) Snapshot(c *gin.Context) {
	profileID := c.Param("profile_id")

	snap, err := h.store.Load(c.Request.Context(), profileID)
	switch {
	case errors.Is(err, dao.ErrSnapshotNotFound):
		web.Error(c, http.StatusNotFound, web.CodeNotFound, "snapshot not found")
	case err != nil:
		h.logger.Error("failed to load snapshot", "profile_id", profileID, "error", err)
		web.Error(c, http.StatusInternalServerError, web.CodeInternalError, "failed to load snapshot")
	default:
		web.Success(c, snap)
	}
}
