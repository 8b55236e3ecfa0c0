package config

import (
    "fmt"
    "os"
    "strconv"
    "strings"
    "time"
)

// Lookup resolves an environment variable.  os.LookupEnv satisfies it; tests
// pass a map-backed function instead.
type Lookup func(key string) (string, bool)

// reader accumulates every problem found while reading variables so that a
// misconfigured deployment reports all of them at once.
type reader struct {
    lookup Lookup
    errs   []error
}

func newReader(l Lookup) *reader {
    if l == nil {
        l = os.LookupEnv
    }
    return &reader{lookup: l}
}

func (r *reader) raw(key string) string {
    v, ok := r.lookup(key)
    if !ok {
        return ""
    }
    return strings.TrimSpace(v)
}

func (r *reader) must(key string) string {
    v := r.raw(key)
    if v == "" {
        r.errs = append(r.errs, fmt.Errorf("missing required env var: %s", key))
    }
    return v
}

func (r *reader) mustInt(key string) int {
    s := r.must(key)
    if s == "" {
        return 0
    }
    n, err := strconv.Atoi(s)
    if err != nil {
        r.errs = append(r.errs, fmt.Errorf("invalid int for %s: %q", key, s))
    }
    return n
}

func (r *reader) str(key, def string) string {
    if v := r.raw(key); v != "" {
        return v
    }
    return def
}

// first returns the first non-empty variable among keys.
func (r *reader) first(def string, keys ...string) string {
    for _, k := range keys {
        if v := r.raw(k); v != "" {
            return v
        }
    }
    return def
}

func (r *reader) boolean(key string, def bool) bool {
    v := r.raw(key)
    if v == "" {
        return def
    }
    switch strings.ToLower(v) {
    case "1", "true", "yes", "on":
        return true
    case "0", "false", "no", "off":
        return false
    }
    r.errs = append(r.errs, fmt.Errorf("invalid bool for %s: %q", key, v))
    return def
}

func (r *reader) integer(key string, def int) int {
    v := r.raw(key)
    if v == "" {
        return def
    }
    n, err := strconv.Atoi(v)
    if err != nil {
        r.errs = append(r.errs, fmt.Errorf("invalid int for %s: %q", key, v))
        return def
    }
    return n
}

func (r *reader) duration(key string, def time.Duration) time.Duration {
    v := r.raw(key)
    if v == "" {
        return def
    }
    d, err := time.ParseDuration(v)
    if err != nil {
        r.errs = append(r.errs, fmt.Errorf("invalid duration for %s: %q", key, v))
        return def
    }
    return d
}

func (r *reader) list(key, def string) map[string]bool {
    m := map[string]bool{}
    for _, p := range strings.Split(r.str(key, def), ",") {
        p = strings.TrimSpace(strings.ToUpper(p))
        if p != "" {
            m[p] = true
        }
    }
    return m
}
