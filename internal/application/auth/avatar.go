package auth

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strconv"

	"github.com/jhoicas/reparo-api/internal/domain"
)

// extensiones aceptadas por tipo detectado.
var avatarTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
}

// UploadAvatar guarda la imagen del usuario en el bucket y actualiza avatar_url.
// El tipo se detecta por contenido, no por la extensión informada.
func (uc *UseCase) UploadAvatar(ctx context.Context, orgID, userID string, r io.Reader) (string, error) {
	if uc.avatars == nil {
		return "", fmt.Errorf("auth: almacenamiento de avatares no configurado")
	}
	user, err := uc.loadUser(ctx, orgID, userID)
	if err != nil {
		return "", err
	}

	data, err := io.ReadAll(io.LimitReader(r, uc.maxAvatarBytes+1))
	if err != nil {
		return "", fmt.Errorf("auth: leer avatar: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: archivo vacío", domain.ErrInvalidInput)
	}
	if int64(len(data)) > uc.maxAvatarBytes {
		return "", fmt.Errorf("%w: el avatar supera %d KB", domain.ErrInvalidInput, uc.maxAvatarBytes>>10)
	}
	ext, ok := avatarTypes[http.DetectContentType(data)]
	if !ok {
		return "", fmt.Errorf("%w: formato no soportado (png, jpeg o webp)", domain.ErrInvalidInput)
	}

	name := userID + "-" + strconv.FormatInt(uc.now().Unix(), 10) + ext
	url, err := uc.avatars.Save(ctx, name, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	if err := uc.users.UpdateAvatar(ctx, orgID, userID, url); err != nil {
		_ = uc.avatars.Delete(ctx, name)
		return "", err
	}

	if prev := user.AvatarURL; prev != "" && path.Base(prev) != name {
		if err := uc.avatars.Delete(ctx, path.Base(prev)); err != nil {
			uc.log.Warn().Err(err).Str("user", userID).Msg("no se pudo borrar el avatar anterior")
		}
	}
	return url, nil
}

// OpenAvatar abre un avatar del bucket para servirlo.
func (uc *UseCase) OpenAvatar(ctx context.Context, name string) (io.ReadCloser, string, error) {
	if uc.avatars == nil {
		return nil, "", domain.ErrNotFound
	}
	rc, err := uc.avatars.Open(ctx, name)
	if err != nil {
		return nil, "", err
	}
	contentType := "application/octet-stream"
	for ct, ext := range avatarTypes {
		if path.Ext(name) == ext {
			contentType = ct
		}
	}
	return rc, contentType, nil
}
