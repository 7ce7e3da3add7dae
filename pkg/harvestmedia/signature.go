package harvestmedia

import (
	"crypto/md5"
	"encoding/hex"
	"sort"
	"strings"
)

// calculateSignature generates the api_sig value for a request.
//
// Parameter keys are sorted, each key is concatenated with its value,
// the API key is appended and the MD5 of the result is hex encoded.
// The api_sig parameter itself must not be part of params.
func calculateSignature(params map[string]string, apiKey string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		sb.WriteString(k)
		sb.WriteString(params[k])
	}
	sb.WriteString(apiKey)

	sum := md5.Sum([]byte(sb.String()))
	return hex.EncodeToString(sum[:])
}
