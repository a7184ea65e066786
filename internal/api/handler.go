package api

import (
	"bytes"
	"context"
	"errors"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nfnt/resize"

	"dishlens/internal/dish"
)

// modelCallTimeout bounds the outbound model call. Expiry surfaces to the
// client as a 422 like any other failed model exchange.
const modelCallTimeout = 45 * time.Second

// maxImageWidth is the width uploads are downscaled to before the model
// call. Phone photos are routinely 4000px wide and the model gains nothing
// from the extra pixels.
const maxImageWidth = 1024

// DishIdentifier turns image bytes into an identified dish by calling a
// multimodal model.
type DishIdentifier interface {
	IdentifyDish(ctx context.Context, imageData []byte) (*dish.Result, error)
}

// Handler handles HTTP requests.
type Handler struct {
	Identifier      DishIdentifier
	LocalIdentifier DishIdentifier
}

// NewHandler creates a new Handler.
func NewHandler(identifier, localIdentifier DishIdentifier) *Handler {
	return &Handler{Identifier: identifier, LocalIdentifier: localIdentifier}
}

// Identify handles dish identification against the primary provider.
func (h *Handler) Identify(c *gin.Context) {
	h.identify(c, h.Identifier)
}

// IdentifyLocal handles dish identification against the OpenAI-compatible
// local provider.
func (h *Handler) IdentifyLocal(c *gin.Context) {
	h.identify(c, h.LocalIdentifier)
}

func (h *Handler) identify(c *gin.Context, identifier DishIdentifier) {
	rid := c.GetString("request_id")

	file, err := c.FormFile("image")
	if err != nil {
		log.Printf("identify[%s]: missing image field: %v", rid, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "No valid image provided"})
		return
	}

	src, err := file.Open()
	if err != nil {
		log.Printf("identify[%s]: opening upload failed: %v", rid, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	defer src.Close()

	imageData, err := io.ReadAll(src)
	if err != nil {
		log.Printf("identify[%s]: reading upload failed: %v", rid, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if len(imageData) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No valid image provided"})
		return
	}

	imageData = downscale(imageData)

	ctx, cancel := context.WithTimeout(c.Request.Context(), modelCallTimeout)
	defer cancel()

	result, err := identifier.IdentifyDish(ctx, imageData)
	if err != nil {
		if errors.Is(err, dish.ErrMissingAPIKey) {
			log.Printf("identify[%s]: %v", rid, err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service configuration error"})
			return
		}
		log.Printf("identify[%s]: model exchange failed: %v", rid, err)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Failed to process AI response"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// downscale re-encodes images wider than maxImageWidth as a smaller JPEG.
// Bytes that do not decode as an image pass through untouched; the model
// itself is the authority on what it accepts.
func downscale(imageData []byte) []byte {
	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return imageData
	}
	if img.Bounds().Dx() <= maxImageWidth {
		return imageData
	}

	img = resize.Resize(maxImageWidth, 0, img, resize.Lanczos3)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		return imageData
	}
	return buf.Bytes()
}
