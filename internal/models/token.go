package models

// TokenPair — пара токенов, выдаваемая при регистрации, входе и обновлении.
//
// Обе части несут одинаковые claims на момент выдачи. На сервере хранится только хэш
// refresh-токена, сам токен отдаётся клиенту один раз.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
