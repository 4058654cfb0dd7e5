// Package handlers contains the HTTP handlers backing the API routes. Every
// handler reads its validated payload from the context, runs its database work
// inside a transaction and writes a DTO or an ErrorDTO.
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"contact-hub/internal/config"
	"contact-hub/internal/managers"
	"contact-hub/internal/schemas"
	"contact-hub/internal/utils"
)

// AuthHdl is the contract for the account lifecycle: signup, login and email
// confirmation.
type AuthHdl interface {
	Signup(ctx *gin.Context)
	Login(ctx *gin.Context)
	ConfirmEmail(ctx *gin.Context)
}

// AuthHandler implements AuthHdl on top of the database, JWT and mail managers.
type AuthHandler struct {
	databaseMgr managers.DatabaseMgr
	jwtMgr      managers.JWTMgr
	mailMgr     managers.MailMgr
	cfg         *config.Config
}

// NewAuthHandler returns a new AuthHandler with the given managers.
func NewAuthHandler(databaseMgr managers.DatabaseMgr, jwtMgr managers.JWTMgr, mailMgr managers.MailMgr, cfg *config.Config) AuthHdl {
	return &AuthHandler{
		databaseMgr: databaseMgr,
		jwtMgr:      jwtMgr,
		mailMgr:     mailMgr,
		cfg:         cfg,
	}
}

// Signup creates a new, unconfirmed account. The email address must not be in
// use yet; the password is stored as a bcrypt hash. After the account is
// persisted a confirmation link is mailed out asynchronously, so a mail
// failure never rolls back the signup.
func (handler *AuthHandler) Signup(ctx *gin.Context) {
	signupRequest := ctx.Value(utils.SanitizedPayloadKey.String()).(*schemas.SignupRequest)

	if handler.cfg.VerifyMX && !utils.GetValidator().VerifyEmail(signupRequest.Email) {
		utils.WriteAndLogError(ctx, schemas.EmailUnreachable, http.StatusBadRequest,
			errors.New("email domain has no mail exchanger"))
		return
	}

	tx, transactionCtx, cancel := utils.BeginTransaction(ctx, handler.databaseMgr.GetPool())
	if tx == nil || transactionCtx == nil {
		return
	}
	var err error
	defer func() { utils.RollbackTransaction(ctx, tx, transactionCtx, cancel, err) }()

	queryString := "SELECT user_id FROM users WHERE email = $1"
	row := tx.QueryRow(transactionCtx, queryString, signupRequest.Email)

	var existingId int64
	err = row.Scan(&existingId)
	if err == nil {
		err = errors.New("email address already registered")
		utils.WriteAndLogError(ctx, schemas.EmailTaken, http.StatusConflict, err)
		return
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}
	err = nil

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(signupRequest.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.InternalServerError, http.StatusInternalServerError, err)
		return
	}

	user := schemas.User{
		Username: signupRequest.Username,
		Email:    signupRequest.Email,
	}
	var createdAt time.Time
	queryString = "INSERT INTO users (username, email, password) VALUES ($1, $2, $3) RETURNING user_id, created_at"
	row = tx.QueryRow(transactionCtx, queryString, user.Username, user.Email, string(passwordHash))
	if err = row.Scan(&user.ID, &createdAt); err != nil {
		// A concurrent signup can slip past the pre-check and trip the
		// unique constraint here.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			utils.WriteAndLogError(ctx, schemas.EmailTaken, http.StatusConflict, err)
			return
		}
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}
	user.CreatedAt = &createdAt

	if err = utils.CommitTransaction(ctx, tx, transactionCtx); err != nil {
		return
	}

	go handler.sendConfirmationMail(user.Email, user.Username)

	utils.WriteAndLogResponse(ctx, userDTOFromUser(&user), http.StatusCreated)
}

// sendConfirmationMail issues an email-scoped token and mails the resulting
// confirmation link. Runs after commit; failures are only logged.
func (handler *AuthHandler) sendConfirmationMail(email, username string) {
	emailToken, err := handler.jwtMgr.GenerateEmailToken(email)
	if err != nil {
		log.Error("Error generating email token: " + err.Error())
		return
	}

	confirmationLink := handler.cfg.PublicBaseURL + "/api/auth/confirmed_email/" + emailToken
	if err := handler.mailMgr.SendConfirmationMail(email, username, confirmationLink); err != nil {
		log.Error("Error sending confirmation mail: " + err.Error())
	}
}

// Login checks the credentials and returns a bearer token. Unknown email and
// wrong password produce the same error so the response does not leak which
// accounts exist. Unconfirmed accounts cannot log in.
func (handler *AuthHandler) Login(ctx *gin.Context) {
	loginRequest := ctx.Value(utils.SanitizedPayloadKey.String()).(*schemas.LoginRequest)

	tx, transactionCtx, cancel := utils.BeginTransaction(ctx, handler.databaseMgr.GetPool())
	if tx == nil || transactionCtx == nil {
		return
	}
	var err error
	defer func() { utils.RollbackTransaction(ctx, tx, transactionCtx, cancel, err) }()

	user := schemas.User{}
	queryString := "SELECT user_id, username, email, password, confirmed FROM users WHERE email = $1"
	row := tx.QueryRow(transactionCtx, queryString, loginRequest.Email)
	err = row.Scan(&user.ID, &user.Username, &user.Email, &user.Password, &user.Confirmed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogError(ctx, schemas.InvalidCredentials, http.StatusUnauthorized, err)
			return
		}
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(loginRequest.Password)); err != nil {
		utils.WriteAndLogError(ctx, schemas.InvalidCredentials, http.StatusUnauthorized, err)
		return
	}

	if !user.Confirmed {
		err = errors.New("user has not confirmed their email")
		utils.WriteAndLogError(ctx, schemas.UserNotConfirmed, http.StatusUnauthorized, err)
		return
	}

	if err = utils.CommitTransaction(ctx, tx, transactionCtx); err != nil {
		return
	}

	accessToken, err := handler.jwtMgr.GenerateAccessToken(user.Email)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.InternalServerError, http.StatusInternalServerError, err)
		return
	}

	tokenDto := &schemas.TokenDTO{
		AccessToken: accessToken,
		TokenType:   "bearer",
	}
	utils.WriteAndLogResponse(ctx, tokenDto, http.StatusOK)
}

// ConfirmEmail redeems an email-scoped token from the confirmation link and
// marks the account as confirmed. Redeeming a link twice is harmless.
func (handler *AuthHandler) ConfirmEmail(ctx *gin.Context) {
	tokenString := ctx.Param(utils.TokenKey)

	claims, err := handler.jwtMgr.ValidateToken(tokenString)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.InvalidToken, http.StatusBadRequest, err)
		return
	}
	if managers.TokenScope(claims) != managers.TokenScopeEmail {
		utils.WriteAndLogError(ctx, schemas.InvalidToken, http.StatusBadRequest,
			errors.New("token scope not valid for email confirmation"))
		return
	}
	email, err := managers.TokenSubject(claims)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.InvalidToken, http.StatusBadRequest, err)
		return
	}

	tx, transactionCtx, cancel := utils.BeginTransaction(ctx, handler.databaseMgr.GetPool())
	if tx == nil || transactionCtx == nil {
		return
	}
	defer func() { utils.RollbackTransaction(ctx, tx, transactionCtx, cancel, err) }()

	var userId int64
	var confirmed bool
	queryString := "SELECT user_id, confirmed FROM users WHERE email = $1"
	row := tx.QueryRow(transactionCtx, queryString, email)
	err = row.Scan(&userId, &confirmed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogError(ctx, schemas.UserNotFound, http.StatusNotFound, err)
			return
		}
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if confirmed {
		if err = utils.CommitTransaction(ctx, tx, transactionCtx); err != nil {
			return
		}
		utils.WriteAndLogResponse(ctx, &schemas.MessageDTO{Message: "Your email is already confirmed"}, http.StatusOK)
		return
	}

	queryString = "UPDATE users SET confirmed = TRUE WHERE user_id = $1"
	if _, err = tx.Exec(transactionCtx, queryString, userId); err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = utils.CommitTransaction(ctx, tx, transactionCtx); err != nil {
		return
	}

	utils.WriteAndLogResponse(ctx, &schemas.MessageDTO{Message: "Email confirmed successfully"}, http.StatusOK)
}

// userDTOFromUser maps the stored user to its response shape.
func userDTOFromUser(user *schemas.User) *schemas.UserDTO {
	createdAt := ""
	if user.CreatedAt != nil {
		createdAt = user.CreatedAt.Format(time.RFC3339)
	}
	return &schemas.UserDTO{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: createdAt,
		Avatar:    user.AvatarURL,
		Confirmed: user.Confirmed,
	}
}
