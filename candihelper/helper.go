package candihelper

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// StringGreen func
func StringGreen(str string) string {
	return fmt.Sprintf("\x1b[32;2m%s\x1b[0m", str)
}

// ToBytes convert all types to bytes
func ToBytes(i interface{}) (b []byte) {
	switch t := i.(type) {
	case []byte:
		b = t
	case string:
		b = []byte(t)
	default:
		b, _ = json.Marshal(i)
	}
	return
}

// MaskingPasswordURL for hide plain text password from given URL format
func MaskingPasswordURL(stringURL string) string {
	u, err := url.Parse(stringURL)
	if err != nil {
		return stringURL
	}
	pass, ok := u.User.Password()
	if pass == "" || !ok {
		return stringURL
	}

	u.User = url.UserPassword(u.User.Username(), "xxxxx")
	return u.String()
}

// SplitTrimSpace split string by separator and drop empty parts
func SplitTrimSpace(str, sep string) (res []string) {
	for _, s := range strings.Split(str, sep) {
		if s = strings.TrimSpace(s); s != "" {
			res = append(res, s)
		}
	}
	return
}
