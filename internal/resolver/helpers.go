package resolver

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Default lengths for the numeric-parameter helpers. Malformed length
// arguments fall back to these instead of failing.
const (
	defaultBase64Len   = 32
	defaultPasswordLen = 16
	defaultHashLen     = 8
)

// Placeholder domain synthesis for ${domain} when no override is set.
const (
	domainPrefix = "app-"
	domainSuffix = ".traefik.me"
)

// passwordChars is the alphabet for generated passwords.
const passwordChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Word lists for ${username}. Generated usernames are placeholders for
// preview environments, not account names.
var (
	usernameAdjectives = []string{
		"amber", "bold", "calm", "crisp", "eager", "fuzzy",
		"keen", "lucid", "mellow", "nimble", "quiet", "swift",
	}
	usernameNouns = []string{
		"falcon", "harbor", "lantern", "maple", "otter", "pebble",
		"quartz", "raven", "sparrow", "thicket", "walnut", "willow",
	}
	emailDomains = []string{"example.com", "example.net", "example.org"}
)

// helperFunc evaluates one helper tag. args are the colon-separated
// parameters after the tag; vars is the current variable map. A false
// return means the expression could not be evaluated and the literal
// ${...} text stays in place.
type helperFunc func(r *Resolver, args []string, vars map[string]string) (string, bool)

// helpers is the dispatch table for recognized tags. Any other tag is
// resolved by variable lookup.
var helpers = map[string]helperFunc{
	"domain":      helperDomain,
	"base64":      helperBase64,
	"password":    helperPassword,
	"hash":        helperHash,
	"uuid":        helperUUID,
	"timestamp":   helperTimestampMillis,
	"timestampms": helperTimestampMillis,
	"timestamps":  helperTimestampSeconds,
	"randomPort":  helperRandomPort,
	"jwt":         helperJWT,
	"username":    helperUsername,
	"email":       helperEmail,
}

// Known reports whether name is a recognized helper tag.
func Known(name string) bool {
	_, ok := helpers[name]
	return ok
}

// parseLength returns the first argument as a positive integer, or def
// when it is absent or malformed.
func parseLength(args []string, def int) int {
	if len(args) == 0 {
		return def
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func helperDomain(r *Resolver, args []string, vars map[string]string) (string, bool) {
	if r.Domain != "" {
		return r.Domain, true
	}
	return domainPrefix + hex.EncodeToString(randBytes(r.rand(), 3)) + domainSuffix, true
}

func helperBase64(r *Resolver, args []string, vars map[string]string) (string, bool) {
	n := parseLength(args, defaultBase64Len)
	return base64.StdEncoding.EncodeToString(randBytes(r.rand(), n)), true
}

func helperPassword(r *Resolver, args []string, vars map[string]string) (string, bool) {
	n := parseLength(args, defaultPasswordLen)
	src := r.rand()
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = passwordChars[src.Intn(len(passwordChars))]
	}
	return string(buf), true
}

func helperHash(r *Resolver, args []string, vars map[string]string) (string, bool) {
	n := parseLength(args, defaultHashLen)
	return hex.EncodeToString(randBytes(r.rand(), n)), true
}

func helperUUID(r *Resolver, args []string, vars map[string]string) (string, bool) {
	id, err := uuid.NewRandomFromReader(r.rand())
	if err != nil {
		return "", false
	}
	return id.String(), true
}

func helperRandomPort(r *Resolver, args []string, vars map[string]string) (string, bool) {
	// Unprivileged range; any length-style suffix is ignored.
	port := 1024 + r.rand().Intn(65535-1024+1)
	return strconv.Itoa(port), true
}

func helperTimestampMillis(r *Resolver, args []string, vars map[string]string) (string, bool) {
	t, ok := helperInstant(r, args)
	if !ok {
		return "", false
	}
	return strconv.FormatInt(t.UnixMilli(), 10), true
}

func helperTimestampSeconds(r *Resolver, args []string, vars map[string]string) (string, bool) {
	t, ok := helperInstant(r, args)
	if !ok {
		return "", false
	}
	return strconv.FormatInt(t.Unix(), 10), true
}

// helperInstant returns the current instant, or the instant named by an
// ISO-8601 literal argument. The literal itself contains colons, so the
// split arguments are rejoined first. An unparsable literal leaves the
// expression unresolved so validation can flag it.
func helperInstant(r *Resolver, args []string) (time.Time, bool) {
	literal := strings.Join(args, ":")
	if literal == "" {
		return r.now(), true
	}
	if t, err := time.Parse(time.RFC3339, literal); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", literal); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func helperUsername(r *Resolver, args []string, vars map[string]string) (string, bool) {
	src := r.rand()
	adj := usernameAdjectives[src.Intn(len(usernameAdjectives))]
	noun := usernameNouns[src.Intn(len(usernameNouns))]
	return adj + noun + strconv.Itoa(10+src.Intn(90)), true
}

func helperEmail(r *Resolver, args []string, vars map[string]string) (string, bool) {
	user, ok := helperUsername(r, args, vars)
	if !ok {
		return "", false
	}
	return user + "@" + emailDomains[r.rand().Intn(len(emailDomains))], true
}

// helperJWT emits a JWT-shaped placeholder token. The legacy single
// numeric argument form returns a plain random hex token of that byte
// length. Otherwise the first argument names a secret variable (or is the
// literal secret) and the second names a payload variable whose JSON
// object value becomes the token payload. The signature segment is a
// truncated digest of the secret, not a verifiable HMAC; these tokens are
// placeholders, never credentials.
func helperJWT(r *Resolver, args []string, vars map[string]string) (string, bool) {
	if len(args) == 1 {
		if n, err := strconv.Atoi(args[0]); err == nil && n > 0 {
			return hex.EncodeToString(randBytes(r.rand(), n)), true
		}
	}

	secret := ""
	switch {
	case len(args) >= 1:
		secret = args[0]
		if v, ok := vars[args[0]]; ok {
			secret = v
		}
	default:
		secret = hex.EncodeToString(randBytes(r.rand(), 16))
	}

	payload := map[string]any{}
	if len(args) >= 2 {
		if raw, ok := vars[args[1]]; ok {
			var parsed map[string]any
			if err := json.Unmarshal([]byte(raw), &parsed); err == nil {
				payload = parsed
			}
		}
	}

	headerJSON, err := json.Marshal(map[string]string{"alg": "HS256", "typ": "JWT"})
	if err != nil {
		return "", false
	}
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return "", false
	}

	digest := sha256.Sum256([]byte(secret))
	enc := base64.RawURLEncoding
	return enc.EncodeToString(headerJSON) + "." +
		enc.EncodeToString(payloadJSON) + "." +
		enc.EncodeToString(digest[:16]), true
}
