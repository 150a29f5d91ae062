package user

import (
	"bitwise74/account-api/app/respond"
	"bitwise74/account-api/internal"
	"bitwise74/account-api/pkg/middleware"
	"errors"

	"github.com/gin-gonic/gin"
)

func UserProfile(c *gin.Context, d *internal.Deps) {
	p, ok := middleware.User(c)
	if !ok {
		respond.Fail(c, errors.New("user payload missing from context"))
		return
	}

	profile, err := d.Auth.Profile(c.Request.Context(), p.ID)
	if err != nil {
		respond.Fail(c, err)
		return
	}

	respond.OK(c, "", profile)
}
