package payu

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

// Field names used as keys for signature input. udf slots are always sent empty.
const (
	fKey         = "key"
	fTxnID       = "txnid"
	fAmount      = "amount"
	fProductInfo = "productinfo"
	fFirstName   = "firstname"
	fEmail       = "email"
	fStatus      = "status"
	fSalt        = "salt"
)

var udf = []string{"udf1", "udf2", "udf3", "udf4", "udf5", "udf6", "udf7", "udf8", "udf9", "udf10"}

// requestFields is the gateway's order for hashing a payment request.
var requestFields = concat(
	[]string{fKey, fTxnID, fAmount, fProductInfo, fFirstName, fEmail},
	udf,
	[]string{fSalt},
)

// responseFields is the reverse order the gateway uses when signing a callback.
var responseFields = concat(
	[]string{fSalt, fStatus},
	reversed(udf),
	[]string{fEmail, fFirstName, fProductInfo, fAmount, fTxnID, fKey},
)

// signature joins values in field order with "|" and returns the lowercase hex SHA-512.
// Missing values hash as empty strings.
func signature(values map[string]string, fields []string) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = values[f]
	}
	sum := sha512.Sum512([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

func equalHash(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func concat(groups ...[]string) []string {
	var out []string
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func reversed(in []string) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[len(in)-1-i] = v
	}
	return out
}
