package photoset

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
)

var ErrPhotosetNotFound = errors.New("photoset not found")

// Photoset is one folder of source images waiting to be retouched.
// Paths are URLs under /assets.
type Photoset struct {
	ID             string
	Name           string
	ReferenceImage *string
	ProductPhotos  []string
}

type CatalogInterface interface {
	List(ctx context.Context) ([]Photoset, error)
	Get(ctx context.Context, id string) (*Photoset, error)
}

type PhotosetHandlerInterface interface {
	List(c *gin.Context)
}
