package api

// RegisterRequest представляет запрос на регистрацию нового пользователя
type RegisterRequest struct {
	Email    string `json:"email"`    // email пользователя (хранится только в зашифрованном виде)
	Username string `json:"username"` // username пользователя
	Password string `json:"password"` // пароль в открытом виде (только в транзите)
}

// RegisterResponse представляет ответ на успешную регистрацию
type RegisterResponse struct {
	UserID       string `json:"user_id"`       // UUID пользователя
	Username     string `json:"username"`      // username пользователя
	AccessToken  string `json:"access_token"`  // JWT access token
	RefreshToken string `json:"refresh_token"` // JWT refresh token
	ExpiresIn    int64  `json:"expires_in"`    // время жизни access token в секундах
}

// LoginRequest представляет запрос на аутентификацию
type LoginRequest struct {
	Email    string `json:"email"`    // email пользователя
	Password string `json:"password"` // пароль в открытом виде (только в транзите)
}

// TokenResponse представляет ответ с токенами доступа
type TokenResponse struct {
	AccessToken  string `json:"access_token"`  // JWT access token
	RefreshToken string `json:"refresh_token"` // JWT refresh token
	ExpiresIn    int64  `json:"expires_in"`    // время жизни access token в секундах
}

// RefreshRequest представляет запрос на обновление access token
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"` // действующий refresh token
}

// LogoutRequest представляет запрос на отзыв refresh token
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"` // отзываемый refresh token
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // описание ошибки
	Message string `json:"message,omitempty"` // дополнительное сообщение
}
