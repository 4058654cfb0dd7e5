package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"contact-hub/internal/managers"
	"contact-hub/internal/middleware"
	"contact-hub/internal/schemas"
	"contact-hub/internal/utils"
)

// maxAvatarBytes caps avatar uploads at 5 MiB.
const maxAvatarBytes = 5 << 20

// UserHdl is the contract for the routes about the authenticated user itself.
type UserHdl interface {
	GetMe(ctx *gin.Context)
	UpdateAvatar(ctx *gin.Context)
}

// UserHandler implements UserHdl on top of the database and storage managers.
type UserHandler struct {
	databaseMgr managers.DatabaseMgr
	storageMgr  managers.StorageMgr
}

// NewUserHandler returns a new UserHandler with the given managers.
func NewUserHandler(databaseMgr managers.DatabaseMgr, storageMgr managers.StorageMgr) UserHdl {
	return &UserHandler{
		databaseMgr: databaseMgr,
		storageMgr:  storageMgr,
	}
}

// GetMe returns the profile of the authenticated user.
func (handler *UserHandler) GetMe(ctx *gin.Context) {
	user, ok := middleware.GetCurrentUser(ctx)
	if !ok {
		utils.WriteAndLogError(ctx, schemas.Unauthorized, http.StatusUnauthorized,
			errors.New("no authenticated user in request context"))
		return
	}

	utils.WriteAndLogResponse(ctx, userDTOFromUser(&user), http.StatusOK)
}

// UpdateAvatar uploads a new avatar image to object storage and stores its
// public URL on the user. Re-uploading overwrites the previous object since
// the key is derived from the user id.
func (handler *UserHandler) UpdateAvatar(ctx *gin.Context) {
	user, ok := middleware.GetCurrentUser(ctx)
	if !ok {
		utils.WriteAndLogError(ctx, schemas.Unauthorized, http.StatusUnauthorized,
			errors.New("no authenticated user in request context"))
		return
	}

	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, maxAvatarBytes)
	file, fileHeader, err := ctx.Request.FormFile("file")
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.BadRequest, http.StatusBadRequest, err)
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	key := "avatars/user_" + strconv.FormatInt(user.ID, 10)

	avatarURL, err := handler.storageMgr.UploadAvatar(ctx.Request.Context(), file, key, contentType)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.InternalServerError, http.StatusInternalServerError, err)
		return
	}

	tx, transactionCtx, cancel := utils.BeginTransaction(ctx, handler.databaseMgr.GetPool())
	if tx == nil || transactionCtx == nil {
		return
	}
	defer func() { utils.RollbackTransaction(ctx, tx, transactionCtx, cancel, err) }()

	queryString := "UPDATE users SET avatar_url = $1 WHERE user_id = $2"
	if _, err = tx.Exec(transactionCtx, queryString, avatarURL, user.ID); err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = utils.CommitTransaction(ctx, tx, transactionCtx); err != nil {
		return
	}

	user.AvatarURL = &avatarURL
	utils.WriteAndLogResponse(ctx, userDTOFromUser(&user), http.StatusOK)
}
