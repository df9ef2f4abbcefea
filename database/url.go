package database

import "net/url"

// ConstructDatabaseURL points baseURL at databaseName and defaults sslmode to
// disable. An existing path in baseURL is replaced. URLs that do not parse are
// returned unchanged so the driver reports them.
func ConstructDatabaseURL(baseURL, databaseName string) string {
	if databaseName == "" {
		return baseURL
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return baseURL
	}
	u.Path = "/" + databaseName

	query := u.Query()
	if query.Get("sslmode") == "" {
		query.Set("sslmode", "disable")
	}
	u.RawQuery = query.Encode()

	return u.String()
}
