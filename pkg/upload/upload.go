package upload

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"k8s.io/apimachinery/pkg/util/rand"
)

// 图片在静态目录下允许出现的子目录
const (
	UploadsPrefix = "uploads/"
	ImagesPrefix  = "img/"
)

var (
	// ErrUnsupportedMedia 扩展名不在白名单内
	ErrUnsupportedMedia = errors.New("unsupported media type")
	// ErrTooLarge 文件超过大小限制
	ErrTooLarge = errors.New("upload exceeds size limit")
)

var allowedExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Storage 将上传的图片保存到静态目录的 uploads/ 下
type Storage struct {
	staticDir string
	maxBytes  int64
}

// NewStorage 创建上传存储
func NewStorage(staticDir string, maxBytes int64) *Storage {
	return &Storage{staticDir: staticDir, maxBytes: maxBytes}
}

// MaxBytes 单个文件允许的最大字节数
func (s *Storage) MaxBytes() int64 {
	return s.maxBytes
}

// Validate 检查扩展名与大小，不写入任何文件
func (s *Storage) Validate(filename string, size int64) error {
	if !AllowedExtension(filename) {
		return fmt.Errorf("%w: %q", ErrUnsupportedMedia, filepath.Ext(filename))
	}
	if s.maxBytes > 0 && size > s.maxBytes {
		return ErrTooLarge
	}
	return nil
}

// Save 保存文件，返回相对于静态目录的路径（以 uploads/ 开头）
func (s *Storage) Save(filename string, src io.Reader, at time.Time) (string, error) {
	name := StoredName(filename, at)
	dir := filepath.Join(s.staticDir, filepath.FromSlash(UploadsPrefix))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	full := filepath.Join(dir, name)
	dst, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}

	reader := src
	if s.maxBytes > 0 {
		reader = io.LimitReader(src, s.maxBytes+1)
	}
	written, err := io.Copy(dst, reader)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err == nil && s.maxBytes > 0 && written > s.maxBytes {
		err = ErrTooLarge
	}
	if err != nil {
		os.Remove(full)
		return "", err
	}

	return UploadsPrefix + name, nil
}

// Remove 删除之前保存的文件
func (s *Storage) Remove(rel string) error {
	if !strings.HasPrefix(rel, UploadsPrefix) {
		return nil
	}
	return os.Remove(filepath.Join(s.staticDir, filepath.FromSlash(rel)))
}

// AllowedExtension 扩展名是否在白名单内（不区分大小写）
func AllowedExtension(filename string) bool {
	return allowedExt[strings.ToLower(filepath.Ext(filename))]
}

// SanitizeFilename 去掉路径与不安全字符
func SanitizeFilename(filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	base = strings.ReplaceAll(strings.TrimSpace(base), " ", "_")
	base = unsafeChars.ReplaceAllString(base, "")
	return strings.TrimLeft(base, "._")
}

// StoredName 时间戳前缀 + 随机串 + 清理后的原文件名
func StoredName(filename string, at time.Time) string {
	clean := SanitizeFilename(filename)
	if clean == "" || filepath.Ext(clean) == "" {
		clean = "imagen" + strings.ToLower(filepath.Ext(filename))
	}
	return fmt.Sprintf("%s-%s-%s", at.Format("20060102-150405"), rand.String(6), clean)
}

// NormalizeManualPath 校验手动填写的图片路径，只接受 uploads/ 与 img/ 下的路径
func NormalizeManualPath(p string) (string, bool) {
	p = strings.TrimSpace(strings.ReplaceAll(p, "\\", "/"))
	p = strings.TrimPrefix(p, "/")
	p = strings.TrimPrefix(p, "static/")
	if p == "" || strings.Contains(p, "..") || strings.Contains(p, "://") {
		return "", false
	}

	cleaned := path.Clean(p)
	if !strings.HasPrefix(cleaned, UploadsPrefix) && !strings.HasPrefix(cleaned, ImagesPrefix) {
		return "", false
	}
	return cleaned, true
}
