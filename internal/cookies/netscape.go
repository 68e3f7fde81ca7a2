package cookies

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"grabarr/internal/utils/logging"
)

// SaveToFile saves the cookies to a file in Netscape format for the backend's
// --cookies flag. Returns the written path, or "" when there was nothing to
// write.
func SaveToFile(cookies []*http.Cookie, fallbackDomain, cookieFilePath string) (string, error) {
	if len(cookies) == 0 {
		logging.D(1, "No cookies to write, skipping '--cookies' in backend commands")
		return "", nil
	}

	file, err := os.Create(cookieFilePath)
	if err != nil {
		return "", err
	}
	defer func() {
		if err := file.Close(); err != nil {
			logging.E("failed to close file %q due to error: %v", cookieFilePath, err)
		}
	}()

	// Netscape cookie file header
	if _, err := file.WriteString("# Netscape HTTP Cookie File\n# https://curl.haxx.se/rfc/cookie_spec.html\n# This is a generated file! Do not edit.\n\n"); err != nil {
		return "", err
	}

	logging.D(1, "Saving %d cookies to file %s...", len(cookies), cookieFilePath)

	for _, cookie := range cookies {
		domain := cookie.Domain
		if domain == "" {
			domain = fallbackDomain
		}
		if !strings.HasPrefix(domain, ".") && strings.Count(domain, ".") > 1 {
			domain = "." + domain
		}

		secure := "FALSE"
		if cookie.Secure {
			secure = "TRUE"
		}

		expires := int64(0)
		if !cookie.Expires.IsZero() {
			expires = cookie.Expires.Unix()
		}

		if _, err := fmt.Fprintf(file, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			domain, "FALSE", cookie.Path, secure, expires, cookie.Name, cookie.Value); err != nil {
			return "", err
		}
	}
	return cookieFilePath, nil
}
