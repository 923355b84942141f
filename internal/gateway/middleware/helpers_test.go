package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"

	"ideaforge/internal/gateway/telegram"
)

func loginHash(token string, fields url.Values) string {
	secret := sha256.Sum256([]byte(token))
	mac := hmac.New(sha256.New, secret[:])
	mac.Write([]byte(telegram.DataCheckString(fields)))
	return hex.EncodeToString(mac.Sum(nil))
}
