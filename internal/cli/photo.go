package cli

import (
	"encoding/base64"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"strings"

	terrors "github.com/matzehuels/trombinoscope/pkg/errors"
)

// maxPhotoBytes bounds an embedded photo; base64 grows it by a third and the
// server accepts 4 MiB per employee.
const maxPhotoBytes = 2 << 20

// photoValue turns a --photo argument into the stored value. An existing
// local image file is embedded as a base64 data URL; URLs, data URLs and
// site paths are kept as given.
func photoValue(value string) (string, error) {
	if value == "" || strings.HasPrefix(value, "data:") ||
		strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://") {
		return value, nil
	}

	info, err := os.Stat(value)
	if errors.Is(err, fs.ErrNotExist) {
		return value, nil
	}
	if err != nil {
		return "", terrors.Wrap(terrors.ErrCodeInvalidInput, err, "photo %s", value)
	}
	if info.IsDir() {
		return "", terrors.New(terrors.ErrCodeInvalidInput, "photo %s is a directory", value)
	}
	if info.Size() > maxPhotoBytes {
		return "", terrors.New(terrors.ErrCodeTooLarge, "photo %s is %d bytes (limit %d)", value, info.Size(), maxPhotoBytes)
	}

	data, err := os.ReadFile(value)
	if err != nil {
		return "", terrors.Wrap(terrors.ErrCodeInvalidInput, err, "read photo %s", value)
	}
	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return "", terrors.New(terrors.ErrCodeInvalidInput, "photo %s is not an image (%s)", value, mime)
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
