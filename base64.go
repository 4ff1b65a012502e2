package cppon

import (
	"github.com/chenzhuoyu/base64x"
)

// base64.go implements the blob codec: standard base64 with '=' padding,
// encode always succeeding, decode taking a strict/lenient error policy.
// Encoding is delegated to base64x.StdEncoding; the strict-vs-lenient
// decode contract is implemented on top of it so the InvalidBase64 vs.
// empty-buffer distinction stays explicit.

// base64Encode returns the standard base64 encoding of src.
func base64Encode(src []byte) string {
	return base64x.StdEncoding.EncodeToString(src)
}

// base64Decode decodes s. In strict mode, any non-alphabet byte (outside
// the 64-char alphabet and '=' padding) raises InvalidBase64. In lenient
// mode, a decode failure returns an empty buffer and a nil error.
func base64Decode(s string, strict bool) ([]byte, error) {
	out, err := base64x.StdEncoding.DecodeString(s)
	if err != nil {
		if strict {
			return nil, newTokenError(KindInvalidBase64, s, "invalid base64 payload")
		}
		return []byte{}, nil
	}
	return out, nil
}
