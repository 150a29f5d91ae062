package user

import (
	"bitwise74/account-api/app/respond"
	"bitwise74/account-api/internal"
	"bitwise74/account-api/internal/service"

	"github.com/gin-gonic/gin"
)

func UserSignUp(c *gin.Context, d *internal.Deps) {
	var data service.SignUpInput
	if !respond.Bind(c, &data) {
		return
	}

	if err := d.Auth.SignUp(c.Request.Context(), data); err != nil {
		respond.Fail(c, err)
		return
	}

	respond.OK(c, "Otp sent to the email "+data.Email, nil)
}
