package image

import (
	"bitwise74/account-api/app/respond"
	"bitwise74/account-api/internal"

	"github.com/gin-gonic/gin"
)

func ImageDelete(c *gin.Context, d *internal.Deps) {
	id, ok := respond.ID(c)
	if !ok {
		return
	}

	if err := d.Images.Delete(c.Request.Context(), id); err != nil {
		respond.Fail(c, err)
		return
	}

	invalidateList(c, d)
	respond.OK(c, "Image deleted successfully", nil)
}
