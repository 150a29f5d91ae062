// Package image contains the handlers for uploaded images
package image

import (
	"bitwise74/account-api/app/respond"
	"bitwise74/account-api/internal"

	"github.com/gin-gonic/gin"
)

// ListCacheKey is the response cache key of GET /images. Entries are keyed
// by path so query strings share it.
const ListCacheKey = "/images"

func ImageList(c *gin.Context, d *internal.Deps) {
	images, err := d.Images.List(c.Request.Context())
	if err != nil {
		respond.Fail(c, err)
		return
	}

	respond.OK(c, "", images)
}

func invalidateList(c *gin.Context, d *internal.Deps) {
	if d.ResponseCache == nil {
		return
	}

	if err := d.ResponseCache.Delete(ListCacheKey); err != nil {
		respond.Log(c, "Failed to invalidate image list cache", err)
	}
}
