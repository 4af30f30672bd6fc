package config

import "net/url"

// DatabaseURL returns DB_URL with disable_prepared_binary_result applied when
// DB_DISABLE_PREPARED_BINARY_RESULT is on. Key/value DSNs are returned as is.
func (c Config) DatabaseURL() string {
	raw := c.DBURL
	if !c.DBDisablePreparedBinary {
		return raw
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed == nil || parsed.Scheme == "" {
		return raw
	}

	query := parsed.Query()
	if query.Get("disable_prepared_binary_result") == "" {
		query.Set("disable_prepared_binary_result", "yes")
		parsed.RawQuery = query.Encode()
	}

	return parsed.String()
}
