package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/zots0127/registry/internal/domain/entities"
	"github.com/zots0127/registry/internal/usecase"
	"github.com/zots0127/registry/pkg/types"
)

// RegistryHandler exposes the registry operations over HTTP. The acting
// identity is taken from the X-Actor-ID header; authentication of that
// identity is the API gateway's problem, not ours.
type RegistryHandler struct {
	registry *usecase.RegistryUseCase
	backups  *usecase.BackupUseCase
}

// NewRegistryHandler creates a new registry handler
func NewRegistryHandler(registry *usecase.RegistryUseCase, backups *usecase.BackupUseCase) *RegistryHandler {
	return &RegistryHandler{
		registry: registry,
		backups:  backups,
	}
}

// RegisterRoutes registers the registry routes
func (h *RegistryHandler) RegisterRoutes(api *gin.RouterGroup) {
	files := api.Group("/files")
	{
		files.POST("", h.RegisterFile)
		files.GET("/:id", h.GetFile)
		files.PATCH("/:id", h.UpdateFile)
		files.DELETE("/:id", h.DeleteFile)
		files.POST("/:id/transfer", h.TransferFile)
		files.POST("/:id/lock", h.LockFile)
		files.POST("/:id/unlock", h.UnlockFile)
		files.GET("/:id/download", h.DownloadFile)
		files.GET("/:id/access", h.CheckAccess)
		files.POST("/:id/permissions", h.GrantPermission)
		files.DELETE("/:id/permissions", h.RevokePermission)
		files.GET("/:id/versions", h.ListVersions)
		files.GET("/:id/versions/:version", h.GetVersion)
		files.POST("/:id/backups", h.CreateBackup)
		files.GET("/:id/backups", h.ListBackups)
		files.POST("/:id/backups/:backupId/verify", h.VerifyBackup)
	}
	api.GET("/cid/:cid", h.GetFileByCID)
	api.POST("/categories", h.CreateCategory)
	api.GET("/categories/:id", h.GetCategory)
	api.GET("/quotas/:identity", h.GetQuota)
	api.GET("/identities/:identity/files", h.ListOwned)
	api.GET("/stats", h.GetStats)
}

// RegisterFile records a new file under the next monotonic id.
func (h *RegistryHandler) RegisterFile(c *gin.Context) {
	var req types.RegisterFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	level := entities.AccessLevel(req.AccessLevel)
	if req.AccessLevel == "" {
		level = entities.AccessPrivate
	}

	rec, err := h.registry.Register(c.Request.Context(), &usecase.RegisterRequest{
		Actor:         actor(c),
		FileName:      req.FileName,
		CID:           req.CID,
		Size:          req.Size,
		ContentType:   req.ContentType,
		Description:   req.Description,
		AccessLevel:   level,
		CategoryID:    req.CategoryID,
		Tags:          req.Tags,
		Checksum:      req.Checksum,
		EncryptionKey: req.EncryptionKey,
		License:       req.License,
		ExpiresAt:     req.ExpiresAt,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, types.APIResponse{
		Success: true,
		Message: "File registered",
		Data:    rec,
	})
}

// GetFile returns one record by id.
func (h *RegistryHandler) GetFile(c *gin.Context) {
	id, ok := fileID(c)
	if !ok {
		return
	}

	rec, err := h.registry.GetFile(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.APIResponse{Success: true, Data: rec})
}

// GetFileByCID resolves a record through the content-address index.
func (h *RegistryHandler) GetFileByCID(c *gin.Context) {
	rec, err := h.registry.GetFileByCID(c.Request.Context(), c.Param("cid"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.APIResponse{Success: true, Data: rec})
}

// UpdateFile applies a partial metadata edit.
func (h *RegistryHandler) UpdateFile(c *gin.Context) {
	id, ok := fileID(c)
	if !ok {
		return
	}

	var req types.UpdateFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	upd := &entities.FileUpdate{
		FileName:      req.FileName,
		ContentType:   req.ContentType,
		Description:   req.Description,
		ExpiresAt:     req.ExpiresAt,
		Tags:          req.Tags,
		Checksum:      req.Checksum,
		EncryptionKey: req.EncryptionKey,
		License:       req.License,
		Note:          req.Note,
	}
	if req.AccessLevel != nil {
		level := entities.AccessLevel(*req.AccessLevel)
		upd.AccessLevel = &level
	}

	rec, err := h.registry.Update(c.Request.Context(), actor(c), id, upd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.APIResponse{
		Success: true,
		Message: "File updated",
		Data:    rec,
	})
}

// DeleteFile removes a record and releases its quota.
func (h *RegistryHandler) DeleteFile(c *gin.Context) {
	id, ok := fileID(c)
	if !ok {
		return
	}

	if err := h.registry.Delete(c.Request.Context(), actor(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.APIResponse{Success: true, Message: "File deleted"})
}

// TransferFile reassigns ownership.
func (h *RegistryHandler) TransferFile(c *gin.Context) {
	id, ok := fileID(c)
	if !ok {
		return
	}

	var req types.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.registry.Transfer(c.Request.Context(), actor(c), id, req.NewOwner); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.APIResponse{Success: true, Message: "Ownership transferred"})
}

// LockFile freezes a record against mutation and download.
func (h *RegistryHandler) LockFile(c *gin.Context) {
	h.setLocked(c, true, "File locked")
}

// UnlockFile lifts the freeze.
func (h *RegistryHandler) UnlockFile(c *gin.Context) {
	h.setLocked(c, false, "File unlocked")
}

func (h *RegistryHandler) setLocked(c *gin.Context, locked bool, message string) {
	id, ok := fileID(c)
	if !ok {
		return
	}

	if err := h.registry.SetLocked(c.Request.Context(), actor(c), id, locked); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.APIResponse{Success: true, Message: message})
}

// DownloadFile checks access, bumps the download counter and returns the
// content address for retrieval from the storage tier.
func (h *RegistryHandler) DownloadFile(c *gin.Context) {
	id, ok := fileID(c)
	if !ok {
		return
	}

	cid, err := h.registry.Download(c.Request.Context(), actor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.APIResponse{
		Success: true,
		Data:    types.DownloadResponse{CID: cid},
	})
}

// CheckAccess answers an authorization query without side effects.
func (h *RegistryHandler) CheckAccess(c *gin.Context) {
	id, ok := fileID(c)
	if !ok {
		return
	}

	requester := c.Query("requester")
	if requester == "" {
		requester = actor(c)
	}
	level := entities.PermissionLevel(c.DefaultQuery("level", string(entities.PermissionRead)))

	allowed, err := h.registry.CheckAccess(c.Request.Context(), id, requester, level)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.APIResponse{
		Success: true,
		Data:    types.CheckAccessResponse{Allowed: allowed},
	})
}

// GrantPermission delegates access to a grantee.
func (h *RegistryHandler) GrantPermission(c *gin.Context) {
	id, ok := fileID(c)
	if !ok {
		return
	}

	var req types.GrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	err := h.registry.Grant(c.Request.Context(), actor(c), id, req.Grantee,
		entities.PermissionLevel(req.Level), req.ExpiresAt)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.APIResponse{Success: true, Message: "Permission granted"})
}

// RevokePermission removes a delegated grant.
func (h *RegistryHandler) RevokePermission(c *gin.Context) {
	id, ok := fileID(c)
	if !ok {
		return
	}

	var req types.RevokeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.registry.Revoke(c.Request.Context(), actor(c), id, req.Grantee); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.APIResponse{Success: true, Message: "Permission revoked"})
}

// ListVersions returns the full history of a file, oldest first.
func (h *RegistryHandler) ListVersions(c *gin.Context) {
	id, ok := fileID(c)
	if !ok {
		return
	}

	versions, err := h.registry.ListVersions(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.APIResponse{Success: true, Data: versions})
}

// GetVersion returns one history snapshot.
func (h *RegistryHandler) GetVersion(c *gin.Context) {
	id, ok := fileID(c)
	if !ok {
		return
	}
	version, err := strconv.Atoi(c.Param("version"))
	if err != nil {
		badRequest(c, err)
		return
	}

	snap, err := h.registry.GetVersion(c.Request.Context(), id, version)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.APIResponse{Success: true, Data: snap})
}

// CreateCategory appends a category.
func (h *RegistryHandler) CreateCategory(c *gin.Context) {
	var req types.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	cat, err := h.registry.CreateCategory(c.Request.Context(), actor(c), req.Name, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, types.APIResponse{
		Success: true,
		Message: "Category created",
		Data:    cat,
	})
}

// GetCategory returns a category with its live file count.
func (h *RegistryHandler) GetCategory(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, err)
		return
	}

	cat, err := h.registry.GetCategory(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.APIResponse{Success: true, Data: cat})
}

// GetQuota returns the quota ledger row for an identity.
func (h *RegistryHandler) GetQuota(c *gin.Context) {
	quota, err := h.registry.GetQuota(c.Request.Context(), c.Param("identity"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.APIResponse{Success: true, Data: quota})
}

// ListOwned enumerates file ids owned by an identity.
func (h *RegistryHandler) ListOwned(c *gin.Context) {
	ids, err := h.registry.ListOwned(c.Request.Context(), c.Param("identity"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.APIResponse{Success: true, Data: ids})
}

// GetStats reports live file count and cumulative bytes.
func (h *RegistryHandler) GetStats(c *gin.Context) {
	stats, err := h.registry.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.APIResponse{Success: true, Data: stats})
}

// CreateBackup records an external copy of a file.
func (h *RegistryHandler) CreateBackup(c *gin.Context) {
	id, ok := fileID(c)
	if !ok {
		return
	}

	var req types.CreateBackupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	copy, err := h.backups.CreateBackup(c.Request.Context(), actor(c), id, req.Location, req.Checksum)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, types.APIResponse{
		Success: true,
		Message: "Backup recorded",
		Data:    copy,
	})
}

// ListBackups returns the backup records for a file.
func (h *RegistryHandler) ListBackups(c *gin.Context) {
	id, ok := fileID(c)
	if !ok {
		return
	}

	copies, err := h.backups.ListBackups(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.APIResponse{Success: true, Data: copies})
}

// VerifyBackup checks the object store and stamps the record.
func (h *RegistryHandler) VerifyBackup(c *gin.Context) {
	id, ok := fileID(c)
	if !ok {
		return
	}

	copy, err := h.backups.VerifyBackup(c.Request.Context(), actor(c), id, c.Param("backupId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.APIResponse{
		Success: true,
		Message: "Backup verified",
		Data:    copy,
	})
}

func fileID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, err)
		return 0, false
	}
	return id, true
}

func actor(c *gin.Context) string {
	return c.GetHeader("X-Actor-ID")
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, types.APIResponse{
		Success: false,
		Error:   err.Error(),
	})
}

// respondError maps the domain error taxonomy onto HTTP status codes.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, entities.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, entities.ErrAlreadyExists):
		status = http.StatusConflict
	case errors.Is(err, entities.ErrUnauthorized):
		status = http.StatusForbidden
	case errors.Is(err, entities.ErrFileLocked):
		status = http.StatusLocked
	case errors.Is(err, entities.ErrQuotaExceeded):
		status = http.StatusRequestEntityTooLarge
	case errors.Is(err, entities.ErrPaymentFailed):
		status = http.StatusPaymentRequired
	case errors.Is(err, entities.ErrPaused):
		status = http.StatusServiceUnavailable
	case errors.Is(err, entities.ErrInvalidInput),
		errors.Is(err, entities.ErrInvalidTime),
		errors.Is(err, entities.ErrInvalidCategory):
		status = http.StatusBadRequest
	}

	c.JSON(status, types.APIResponse{
		Success: false,
		Error:   err.Error(),
	})
}
