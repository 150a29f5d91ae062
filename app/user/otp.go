package user

import (
	"bitwise74/account-api/app/respond"
	"bitwise74/account-api/internal"
	"bitwise74/account-api/internal/service"

	"github.com/gin-gonic/gin"
)

func UserConfirmOTP(c *gin.Context, d *internal.Deps) {
	var data service.ConfirmOTPInput
	if !respond.Bind(c, &data) {
		return
	}

	if err := d.Auth.ConfirmOTP(c.Request.Context(), data); err != nil {
		respond.Fail(c, err)
		return
	}

	respond.OK(c, "Otp confirmed successfully", nil)
}

func UserResendOTP(c *gin.Context, d *internal.Deps) {
	var data service.ResendOTPInput
	if !respond.Bind(c, &data) {
		return
	}

	if err := d.Auth.ResendOTP(c.Request.Context(), data); err != nil {
		respond.Fail(c, err)
		return
	}

	respond.OK(c, "Otp sent to the email "+data.Email, nil)
}
