package constants

// 页面上展示给用户的错误消息
const (
	ErrAuthFailed             = "Usuario o contraseña incorrectos"
	ErrInsufficientPermission = "Solo el director puede publicar avisos"
	ErrMissingFields          = "El título y el contenido son obligatorios"
	ErrUnsupportedMedia       = "Formato de imagen no permitido (JPG, JPEG, PNG, GIF o WEBP)"
	ErrUploadTooLarge         = "La imagen supera el tamaño máximo permitido"
	ErrInvalidForm            = "Formulario inválido"
	ErrNotFound               = "La noticia solicitada no existe"
	ErrInternalServer         = "Ocurrió un error interno, inténtelo nuevamente"
)

// 成功消息
const (
	SuccessPublish = "Aviso publicado correctamente"
	SuccessLogout  = "Sesión cerrada"
)
