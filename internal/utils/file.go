package utils

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

func GetFileExtension(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}

// GenerateObjectKey places uploads under prefix/YYYY/MM with a random name.
func GenerateObjectKey(prefix, filename string, now time.Time) string {
	ext := GetFileExtension(filename)
	if ext == "" {
		ext = ".bin"
	}
	return path.Join(prefix, now.Format("2006"), now.Format("01"), fmt.Sprintf("%s%s", uuid.NewString(), ext))
}

func ExtensionForContentType(contentType string) string {
	switch strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0])) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}

func GetContentType(filename string) string {
	contentTypes := map[string]string{
		".jpg":  "image/jpeg",
		".jpeg": "image/jpeg",
		".png":  "image/png",
		".gif":  "image/gif",
		".webp": "image/webp",
	}

	if contentType, exists := contentTypes[GetFileExtension(filename)]; exists {
		return contentType
	}

	return "application/octet-stream"
}
