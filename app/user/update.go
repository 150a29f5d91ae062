package user

import (
	"bitwise74/account-api/app/respond"
	"bitwise74/account-api/internal"
	"bitwise74/account-api/internal/service"
	"bitwise74/account-api/pkg/middleware"
	"errors"

	"github.com/gin-gonic/gin"
)

func UserUpdate(c *gin.Context, d *internal.Deps) {
	actor, ok := middleware.User(c)
	if !ok {
		respond.Fail(c, errors.New("user payload missing from context"))
		return
	}

	id, ok := respond.ID(c)
	if !ok {
		return
	}

	var data service.UpdateUserInput
	if !respond.Bind(c, &data) {
		return
	}

	u, err := d.Auth.UpdateUser(c.Request.Context(), actor, id, data)
	if err != nil {
		respond.Fail(c, err)
		return
	}

	respond.OK(c, "", u)
}

func UserDelete(c *gin.Context, d *internal.Deps) {
	actor, ok := middleware.User(c)
	if !ok {
		respond.Fail(c, errors.New("user payload missing from context"))
		return
	}

	id, ok := respond.ID(c)
	if !ok {
		return
	}

	if err := d.Auth.DeleteUser(c.Request.Context(), actor, id); err != nil {
		respond.Fail(c, err)
		return
	}

	respond.OK(c, "", nil)
}
