package error

var (
	ErrWaCLI           = InternalServerError("whatsapp client is not initialized")
	ErrAlreadyLoggedIn = ValidationError("you are already logged in")
	ErrSessionSaved    = ValidationError("a session already exists, reconnect instead of scanning a new QR")
	ErrQrChannel       = InternalServerError("failed to obtain the QR pairing channel")
	ErrReconnect       = InternalServerError("failed to reconnect to whatsapp")
	ErrNotConnected    = NotReadyError("whatsapp is not connected")
)
