package telegram

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
	"testing"
)

const testBotToken = "110201543:AAHdqTcvCH1vGWJxfSeofSAs0K5PALDsaw"

func signInitData(values url.Values, botToken string) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+values.Get(k))
	}

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))
	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(strings.Join(pairs, "\n")))
	return hex.EncodeToString(mac.Sum(nil))
}

func buildInitData(t *testing.T, userJSON string) string {
	t.Helper()
	values := url.Values{}
	values.Set("auth_date", "1719999999")
	values.Set("query_id", "AAE5mZkZAAAAADmZmRlzL0Gv")
	values.Set("user", userJSON)
	values.Set("hash", signInitData(values, testBotToken))
	return values.Encode()
}

func TestVerifyInitData(t *testing.T) {
	initData := buildInitData(t, `{"id":99281932,"first_name":"Anna","last_name":"Petrova","username":"anna_dance"}`)

	user, err := VerifyInitData(initData, testBotToken)
	if err != nil {
		t.Fatalf("VerifyInitData returned error: %v", err)
	}
	if user.ID != 99281932 {
		t.Fatalf("expected telegram id 99281932, got %d", user.ID)
	}
	if user.FirstName != "Anna" || user.Username != "anna_dance" {
		t.Fatalf("unexpected profile: %+v", user)
	}
}

func TestVerifyInitDataRejectsTamperedPayload(t *testing.T) {
	initData := buildInitData(t, `{"id":99281932,"first_name":"Anna"}`)
	tampered := strings.Replace(initData, "Anna", "Eve", 1)

	if _, err := VerifyInitData(tampered, testBotToken); err == nil {
		t.Fatal("expected tampered initData to be rejected")
	}
}

func TestVerifyInitDataRejectsWrongBotToken(t *testing.T) {
	initData := buildInitData(t, `{"id":99281932,"first_name":"Anna"}`)

	if _, err := VerifyInitData(initData, "000000:other-token"); err == nil {
		t.Fatal("expected signature from another bot to be rejected")
	}
}

func TestVerifyInitDataRequiresHashAndUser(t *testing.T) {
	if _, err := VerifyInitData("auth_date=1&user=%7B%22id%22%3A1%7D", testBotToken); err == nil {
		t.Fatal("expected missing hash to be rejected")
	}

	values := url.Values{}
	values.Set("auth_date", "1719999999")
	values.Set("hash", signInitData(values, testBotToken))
	if _, err := VerifyInitData(values.Encode(), testBotToken); err == nil {
		t.Fatal("expected missing user payload to be rejected")
	}
}
