package session

import (
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// UserIDFromToken extracts the user id claim from a bearer token without
// verifying the signature. The backend is the verifier; the client only
// needs the identity to detect account switches.
func UserIDFromToken(token string) (int64, error) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return 0, fmt.Errorf("failed to parse token: %w", err)
	}

	if v, ok := claims["user_id"]; ok {
		switch id := v.(type) {
		case float64:
			return int64(id), nil
		case string:
			n, err := strconv.ParseInt(id, 10, 64)
			if err != nil {
				return 0, fmt.Errorf("invalid user_id claim: %w", err)
			}
			return n, nil
		}
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return 0, fmt.Errorf("token carries no user identity")
	}
	n, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid subject claim: %w", err)
	}
	return n, nil
}
