package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"contact-hub/internal/managers"
	"contact-hub/internal/schemas"
	"contact-hub/internal/utils"
)

const bearerPrefix = "Bearer "

// RequireAuth guards protected routes. It validates the bearer token, rejects
// tokens carrying any scope other than the access scope, resolves the token
// subject to a stored user and refuses unconfirmed accounts. The resolved user
// is placed in the request context for downstream handlers.
func RequireAuth(jwtMgr managers.JWTMgr, databaseMgr managers.DatabaseMgr) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			utils.WriteAndLogError(c, schemas.Unauthorized, http.StatusUnauthorized,
				errors.New("missing bearer token"))
			return
		}

		claims, err := jwtMgr.ValidateToken(strings.TrimPrefix(header, bearerPrefix))
		if err != nil {
			utils.WriteAndLogError(c, schemas.InvalidToken, http.StatusUnauthorized, err)
			return
		}

		if managers.TokenScope(claims) != managers.TokenScopeAccess {
			utils.WriteAndLogError(c, schemas.InvalidToken, http.StatusUnauthorized,
				errors.New("token scope not valid for this resource"))
			return
		}

		email, err := managers.TokenSubject(claims)
		if err != nil {
			utils.WriteAndLogError(c, schemas.InvalidToken, http.StatusUnauthorized, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		user := schemas.User{}
		queryString := "SELECT user_id, username, email, password, created_at, avatar_url, confirmed FROM users WHERE email = $1"
		row := databaseMgr.GetPool().QueryRow(ctx, queryString, email)
		if err := row.Scan(&user.ID, &user.Username, &user.Email, &user.Password,
			&user.CreatedAt, &user.AvatarURL, &user.Confirmed); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				utils.WriteAndLogError(c, schemas.Unauthorized, http.StatusUnauthorized, err)
				return
			}
			utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
			return
		}

		if !user.Confirmed {
			utils.WriteAndLogError(c, schemas.UserNotConfirmed, http.StatusUnauthorized,
				errors.New("user has not confirmed their email"))
			return
		}

		c.Set(utils.CurrentUserKey.String(), user)
		c.Next()
	}
}

// GetCurrentUser returns the user resolved by RequireAuth.
func GetCurrentUser(c *gin.Context) (schemas.User, bool) {
	value, exists := c.Get(utils.CurrentUserKey.String())
	if !exists {
		return schemas.User{}, false
	}
	user, ok := value.(schemas.User)
	return user, ok
}
