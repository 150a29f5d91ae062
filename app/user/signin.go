package user

import (
	"bitwise74/account-api/app/respond"
	"bitwise74/account-api/internal"
	"bitwise74/account-api/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

const refreshCookie = "refresh_token"

func UserSignIn(c *gin.Context, d *internal.Deps) {
	var data service.SignInInput
	if !respond.Bind(c, &data) {
		return
	}

	tokens, err := d.Auth.SignIn(c.Request.Context(), data)
	if err != nil {
		respond.Fail(c, err)
		return
	}

	setRefreshCookie(c, d, tokens.Refresh)
	respond.OK(c, "", gin.H{"accessToken": tokens.Access})
}

// UserRefresh issues a new access token from the refresh token cookie
func UserRefresh(c *gin.Context, d *internal.Deps) {
	token, _ := c.Cookie(refreshCookie)

	access, err := d.Auth.Refresh(c.Request.Context(), token)
	if err != nil {
		respond.Fail(c, err)
		return
	}

	respond.OK(c, "", gin.H{"accessToken": access})
}

func setRefreshCookie(c *gin.Context, d *internal.Deps, token string) {
	cfg := d.Config

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(refreshCookie, token, int(cfg.JWT.RefreshTTL.Seconds()), "/", cfg.Cookie.Domain, cfg.Cookie.Secure, true)
}
