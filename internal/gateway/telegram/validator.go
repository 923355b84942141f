// Package telegram verifies Telegram login widget payloads and Mini App
// init data against the bot token.
package telegram

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"ideaforge/internal/gateway/entity"
)

// DefaultMaxAge is how long signed auth data stays valid.
const DefaultMaxAge = 24 * time.Hour

var (
	ErrNoToken      = errors.New("telegram: bot token is not configured")
	ErrIncomplete   = errors.New("telegram: incomplete auth data")
	ErrExpired      = errors.New("telegram: auth data expired")
	ErrHashMismatch = errors.New("telegram: data integrity check failed")
)

type Validator struct {
	token  string
	maxAge time.Duration
	now    func() time.Time
}

func NewValidator(botToken string) *Validator {
	return &Validator{
		token:  strings.TrimSpace(botToken),
		maxAge: DefaultMaxAge,
		now:    time.Now,
	}
}

// ValidateLogin checks fields posted by the login widget. The secret is
// SHA256(bot token).
func (v *Validator) ValidateLogin(fields url.Values) (entity.User, error) {
	if v.token == "" {
		return entity.User{}, ErrNoToken
	}
	if fields.Get("id") == "" {
		return entity.User{}, ErrIncomplete
	}
	secret := sha256.Sum256([]byte(v.token))
	if err := v.check(fields, secret[:]); err != nil {
		return entity.User{}, err
	}
	id, err := strconv.ParseInt(fields.Get("id"), 10, 64)
	if err != nil {
		return entity.User{}, fmt.Errorf("%w: bad id %q", ErrIncomplete, fields.Get("id"))
	}
	return entity.User{
		ID:        entity.TelegramUserID(id),
		FirstName: fields.Get("first_name"),
		LastName:  fields.Get("last_name"),
		Username:  fields.Get("username"),
		PhotoURL:  fields.Get("photo_url"),
	}, nil
}

// ValidateInitData checks the raw query string a Mini App receives. The
// secret is HMAC_SHA256("WebAppData", bot token).
func (v *Validator) ValidateInitData(raw string) (entity.User, error) {
	if v.token == "" {
		return entity.User{}, ErrNoToken
	}
	fields, err := url.ParseQuery(strings.TrimSpace(raw))
	if err != nil {
		return entity.User{}, fmt.Errorf("%w: %v", ErrIncomplete, err)
	}
	if fields.Get("user") == "" {
		return entity.User{}, ErrIncomplete
	}
	mac := hmac.New(sha256.New, []byte("WebAppData"))
	mac.Write([]byte(v.token))
	if err := v.check(fields, mac.Sum(nil)); err != nil {
		return entity.User{}, err
	}

	var u struct {
		ID        int64  `json:"id"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Username  string `json:"username"`
		PhotoURL  string `json:"photo_url"`
	}
	if err := json.Unmarshal([]byte(fields.Get("user")), &u); err != nil || u.ID == 0 {
		return entity.User{}, fmt.Errorf("%w: bad user field", ErrIncomplete)
	}
	return entity.User{
		ID:        entity.TelegramUserID(u.ID),
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Username:  u.Username,
		PhotoURL:  u.PhotoURL,
	}, nil
}

// check verifies auth_date freshness and the hash signed with secret.
func (v *Validator) check(fields url.Values, secret []byte) error {
	hash := strings.ToLower(fields.Get("hash"))
	authDate := fields.Get("auth_date")
	if hash == "" || authDate == "" {
		return ErrIncomplete
	}
	ts, err := strconv.ParseInt(authDate, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: bad auth_date %q", ErrIncomplete, authDate)
	}
	if v.now().Sub(time.Unix(ts, 0)) > v.maxAge {
		return ErrExpired
	}

	want, err := hex.DecodeString(hash)
	if err != nil {
		return ErrHashMismatch
	}
	if !hmac.Equal(sign(secret, DataCheckString(fields)), want) {
		return ErrHashMismatch
	}
	return nil
}

// DataCheckString joins every field except hash as sorted "key=value" lines.
func DataCheckString(fields url.Values) string {
	lines := make([]string, 0, len(fields))
	for k, vs := range fields {
		if k == "hash" || len(vs) == 0 {
			continue
		}
		lines = append(lines, k+"="+vs[0])
	}
	sort.Strings(lines)
	return strings.Join(lines, "\n")
}

func sign(secret []byte, data string) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(data))
	return mac.Sum(nil)
}
