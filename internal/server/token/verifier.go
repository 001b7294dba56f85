package token

import "time"

// Result is the outcome of Verify. Claims is set only when Valid is true.
type Result struct {
	Valid  bool
	Claims *Claims
	Reason Reason
}

func reject(r Reason) Result {
	return Result{Reason: r}
}

// Verify checks a token string against secret at the instant now.
//
// The signature is checked before anything inside the token is decoded, so
// unauthenticated claims are never acted upon. Verify never panics on
// hostile input; every failure is reported through Result.Reason.
func Verify(tokenString string, secret []byte, now time.Time) Result {
	header, payload, signature, err := SplitToken(tokenString)
	if err != nil {
		return reject(ReasonMalformed)
	}

	// An empty secret cannot authenticate anything either.
	if err := VerifySignature(header, payload, signature, secret); err != nil {
		return reject(ReasonBadSignature)
	}

	var h Header
	if err := DecodePart(header, &h); err != nil || h != authHeader {
		return reject(ReasonMalformed)
	}

	var claims Claims
	if err := DecodePart(payload, &claims); err != nil {
		return reject(ReasonMalformed)
	}

	if claims.expired(now) {
		return reject(ReasonExpired)
	}

	return Result{Valid: true, Claims: &claims}
}
