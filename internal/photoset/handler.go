package photoset

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshu-sajeev/recolour/common"
	"github.com/joshu-sajeev/recolour/internal/dto"
)

type PhotosetHandler struct {
	catalog CatalogInterface
}

func NewPhotosetHandler(catalog CatalogInterface) *PhotosetHandler {
	return &PhotosetHandler{catalog: catalog}
}

var _ PhotosetHandlerInterface = (*PhotosetHandler)(nil)

// List handles GET /api/photosets.
func (h *PhotosetHandler) List(c *gin.Context) {
	sets, err := h.catalog.List(c.Request.Context())
	if err != nil {
		if apiErr, ok := common.FromContext(err); ok {
			c.Error(apiErr)
			return
		}
		c.Error(common.Errf(http.StatusInternalServerError, "failed to list photosets"))
		return
	}

	resp := make([]dto.PhotosetResponseDTO, len(sets))
	for i, s := range sets {
		resp[i] = dto.PhotosetResponseDTO{
			ID:             s.ID,
			Name:           s.Name,
			ReferenceImage: s.ReferenceImage,
			ProductPhotos:  s.ProductPhotos,
		}
	}

	c.JSON(http.StatusOK, resp)
}
