package config // package config loads application configuration from environment variables

import (
    "log" // log is used to report configuration errors and halt execution
    "os"  // os provides access to environment variables
    "strconv"
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable. The types reflect how the values are used in the
// application: strings for identifiers and secrets, ints for durations and
// costs. OAuth client credentials are optional; a provider whose client id
// is empty is simply not offered.
type Config struct {
    Env    string // application environment (e.g. "dev", "prod")
    Port   string // HTTP port to listen on
    DBUser string // database username
    DBPass string // database password (optional)
    DBHost string // database host address
    DBPort string // database port number
    DBName string // database name

    JWTSecret    string // secret used to sign access tokens
    JWTAlgorithm string // signing algorithm; only HS256 is accepted
    AccessTTLMin int    // access token time-to-live in minutes
    BcryptCost   int    // bcrypt cost for password hashing

    FrontendURL      string // base URL of the web app; OAuth redirect URIs and the post-login redirect derive from it
    OAuthStateTTLMin int    // CSRF state token lifetime in minutes

    GoogleClientID     string // Google OAuth client id
    GoogleClientSecret string // Google OAuth client secret
    GithubClientID     string // GitHub OAuth client id
    GithubClientSecret string // GitHub OAuth client secret

    AdminEmail    string // optional bootstrap admin account email
    AdminPassword string // optional bootstrap admin account password
}

// Load reads configuration values from environment variables and returns a
// Config. Required variables are enforced by must() and missing values cause
// the program to exit with a fatal log message. Optional values fall back to
// the defaults the original deployment used.
func Load() Config {
    cfg := Config{
        Env:    must("APP_ENV"),
        Port:   must("APP_PORT"),
        DBUser: must("DB_USER"),
        DBPass: os.Getenv("DB_PASS"), // empty allowed
        DBHost: must("DB_HOST"),
        DBPort: must("DB_PORT"),
        DBName: must("DB_NAME"),

        JWTSecret:    must("JWT_SECRET_KEY"),
        JWTAlgorithm: getenv("JWT_ALGORITHM", "HS256"),
        AccessTTLMin: intenv("ACCESS_TOKEN_EXPIRE_MINUTES", 60),
        BcryptCost:   intenv("BCRYPT_COST", 10),

        FrontendURL:      must("FRONTEND_URL"),
        OAuthStateTTLMin: intenv("OAUTH_STATE_TTL_MIN", 30),

        GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
        GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
        GithubClientID:     os.Getenv("GITHUB_CLIENT_ID"),
        GithubClientSecret: os.Getenv("GITHUB_CLIENT_SECRET"),

        AdminEmail:    os.Getenv("ADMIN_EMAIL"),
        AdminPassword: os.Getenv("ADMIN_PASSWORD"),
    }

    // Tokens are signed and verified with one fixed algorithm. Accepting a
    // different value here would silently issue tokens the verifier rejects,
    // so treat it as a deployment mistake.
    if cfg.JWTAlgorithm != "HS256" {
        log.Fatalf("unsupported JWT_ALGORITHM %q: only HS256 is supported", cfg.JWTAlgorithm)
    }
    return cfg
}

// getenv retrieves an optional environment variable, falling back to def
// when the variable is unset or empty.
func getenv(key, def string) string {
    v := os.Getenv(key)
    if v == "" {
        return def
    }
    return v
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}

// intenv retrieves an optional integer environment variable, falling back
// to def when the variable is unset or malformed.
func intenv(key string, def int) int {
    v := os.Getenv(key)
    if v == "" {
        return def
    }
    n, err := strconv.Atoi(v)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, v)
    }
    return n
}
