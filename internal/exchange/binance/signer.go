package binance

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Binance签名：对查询串做HMAC-SHA256，十六进制小写输出

type Signer struct {
	secret []byte
}

func NewSigner(secret string) *Signer {
	return &Signer{secret: []byte(secret)}
}

// Sign 计算查询串的签名
func (s *Signer) Sign(query string) string {
	h := hmac.New(sha256.New, s.secret)
	h.Write([]byte(query))
	return hex.EncodeToString(h.Sum(nil))
}
