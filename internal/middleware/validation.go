package middleware

import (
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"

	"contact-hub/internal/schemas"
	"contact-hub/internal/utils"
)

// ValidateStruct binds the JSON body into a fresh instance of the given
// request type, validates it, and stores it in the context for the handler.
// Requests failing either step are rejected with a 400 before the handler runs.
func ValidateStruct(obj interface{}) gin.HandlerFunc {
	objType := reflect.TypeOf(obj).Elem()

	return func(c *gin.Context) {
		payload := reflect.New(objType).Interface()

		if err := c.ShouldBindJSON(payload); err != nil {
			utils.WriteAndLogError(c, schemas.BadRequest, http.StatusBadRequest, err)
			return
		}

		if err := utils.GetValidator().Validate.Struct(payload); err != nil {
			utils.WriteAndLogError(c, schemas.BadRequest, http.StatusBadRequest, err)
			return
		}

		c.Set(utils.SanitizedPayloadKey.String(), payload)
		c.Next()
	}
}
