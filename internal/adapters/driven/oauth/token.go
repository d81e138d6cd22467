package oauth

import (
	"encoding/json"
	"strconv"
	"time"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/crmlink/internal/core/ports/driven"
)

// issuedFrom maps an oauth2 token onto the port type. The lifetime is read
// from the raw expires_in field so callers can anchor it to their own clock.
// tok.Expiry is ignored; a missing expires_in yields zero.
func issuedFrom(tok *oauth2.Token) *driven.IssuedToken {
	issued := &driven.IssuedToken{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
		ExpiresIn:    expiresIn(tok),
	}
	if s, ok := tok.Extra("scope").(string); ok {
		issued.Scope = s
	}
	if s, ok := tok.Extra("hub_domain").(string); ok {
		issued.HubDomain = s
	}
	return issued
}

func expiresIn(tok *oauth2.Token) time.Duration {
	var secs int64
	switch v := tok.Extra("expires_in").(type) {
	case float64:
		secs = int64(v)
	case int64:
		secs = v
	case int:
		secs = int64(v)
	case json.Number:
		secs, _ = v.Int64()
	case string:
		secs, _ = strconv.ParseInt(v, 10, 64)
	}
	if secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return 0
}
