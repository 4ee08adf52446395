package handlers

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// UploadHandler stores product and profile images on local disk and returns
// the public URL. The uploads directory is served statically by the app.
type UploadHandler struct {
	BaseDir string
}

func NewUploadHandler(baseDir string) *UploadHandler {
	return &UploadHandler{BaseDir: baseDir}
}

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// UploadImage - POST /api/upload?folder=products|avatars
func (h *UploadHandler) UploadImage(c *fiber.Ctx) error {
	file, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Image file is required",
		})
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExts[ext] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Only .jpg, .jpeg, .png, and .webp files are allowed",
		})
	}

	folder := c.Query("folder", "products")
	if folder != "products" && folder != "avatars" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid upload folder",
		})
	}

	filename := fmt.Sprintf("%d-%s%s", time.Now().Unix(), uuid.NewString(), ext)
	destination := filepath.Join(h.BaseDir, folder, filename)

	if err := c.SaveFile(file, destination); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save file",
		})
	}

	return c.JSON(fiber.Map{
		"url": fmt.Sprintf("/uploads/%s/%s", folder, filename),
	})
}
