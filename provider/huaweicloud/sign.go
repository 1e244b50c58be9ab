package huaweicloud

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// timeFormat is the ISO-8601 basic form Huawei's signer requires for
// the X-Sdk-Date header and the string-to-sign.
const timeFormat = "20060102T150405Z"

// signedHeaderNames are the headers folded into every canonical
// request this adapter builds: host and the signing timestamp are
// mandatory, content-type is included whenever the request carries a
// body.
var signedHeaderNames = []string{"content-type", "host", "x-sdk-date"}

// signSDKHMAC implements Huawei Cloud's SDK-HMAC-SHA256 AK/SK signing
// scheme. Unlike Aliyun's ACS3 or Tencent's TC3, Huawei's public
// algorithm signs directly with the raw secret access key — there is
// no date/service-scoped key-derivation chain. canonicalURI is the
// request path (e.g. "/v2/zones"), canonicalQuery the already-encoded
// "a=1&b=2" query string (empty string if none).
func signSDKHMAC(method, canonicalURI, canonicalQuery string, headers map[string]string, body []byte, accessKeyID, secretAccessKey string) string {
	canonicalHeaders, signedHeaders := canonicalizeHeaders(headers)
	hashedPayload := sha256Hex(body)

	canonicalRequest := strings.Join([]string{
		method,
		canonicalURI,
		canonicalQuery,
		canonicalHeaders,
		signedHeaders,
		hashedPayload,
	}, "\n")

	stringToSign := strings.Join([]string{
		"SDK-HMAC-SHA256",
		headers["x-sdk-date"],
		sha256Hex([]byte(canonicalRequest)),
	}, "\n")

	mac := hmac.New(sha256.New, []byte(secretAccessKey))
	mac.Write([]byte(stringToSign))
	signature := hex.EncodeToString(mac.Sum(nil))

	return fmt.Sprintf("SDK-HMAC-SHA256 Access=%s, SignedHeaders=%s, Signature=%s",
		accessKeyID, signedHeaders, signature)
}

func canonicalizeHeaders(headers map[string]string) (canonical, signed string) {
	present := make([]string, 0, len(signedHeaderNames))
	for _, name := range signedHeaderNames {
		if _, ok := headers[name]; ok {
			present = append(present, name)
		}
	}
	sort.Strings(present)

	var b strings.Builder
	for _, name := range present {
		b.WriteString(name)
		b.WriteByte(':')
		b.WriteString(strings.TrimSpace(headers[name]))
		b.WriteByte('\n')
	}
	return b.String(), strings.Join(present, ";")
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
