package image

import (
	"bitwise74/account-api/app/respond"
	"bitwise74/account-api/internal"
	"bitwise74/account-api/pkg/util"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

func ImageUpload(c *gin.Context, d *internal.Deps) {
	// Any other error leaves fh nil, which is reported as a missing file
	fh, err := c.FormFile("file")
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			util.Abort(c, http.StatusRequestEntityTooLarge, "Request body size exceeds limit")
			return
		}
	}

	img, err := d.Images.Upload(c.Request.Context(), fh)
	if err != nil {
		respond.Fail(c, err)
		return
	}

	invalidateList(c, d)
	respond.OK(c, "File uploaded and saved successfully", img)
}
