package config

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func mapLookup(m map[string]string) Lookup {
    return func(k string) (string, bool) {
        v, ok := m[k]
        return v, ok
    }
}

func baseEnv() map[string]string {
    return map[string]string{
        "APP_ENV":                "test",
        "APP_PORT":               "8080",
        "DB_USER":                "fleet",
        "DB_HOST":                "localhost",
        "DB_PORT":                "3306",
        "DB_NAME":                "fleet",
        "JWT_SECRET":             "secret",
        "ACCESS_TOKEN_TTL_MIN":   "15",
        "REFRESH_TOKEN_TTL_DAYS": "7",
        "BCRYPT_COST":            "4",
    }
}

func TestFromLookupDefaults(t *testing.T) {
    cfg, err := FromLookup(mapLookup(baseEnv()))
    require.NoError(t, err)

    assert.Equal(t, "8080", cfg.Port)
    assert.Equal(t, 15*time.Minute, cfg.AccessTTL())
    assert.Equal(t, 7*24*time.Hour, cfg.RefreshTTL())
    assert.Equal(t, 24*time.Hour, cfg.Scheduling.ContinuityWindow)
    assert.Equal(t, 20*time.Minute, cfg.Scheduling.TurnaroundAllowance)
    assert.Equal(t, "info", cfg.Log.Level)
    assert.True(t, cfg.Events.Enabled)
    assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
    assert.True(t, cfg.Cache.Methods["GET"])
    assert.Equal(t, 60, cfg.RateLimit.Capacity)
}

func TestFromLookupReportsEveryMissingVariable(t *testing.T) {
    env := baseEnv()
    delete(env, "DB_HOST")
    delete(env, "JWT_SECRET")
    env["BCRYPT_COST"] = "ten"

    _, err := FromLookup(mapLookup(env))
    require.Error(t, err)
    assert.Contains(t, err.Error(), "DB_HOST")
    assert.Contains(t, err.Error(), "JWT_SECRET")
    assert.Contains(t, err.Error(), `invalid int for BCRYPT_COST: "ten"`)
}

func TestFromLookupOverrides(t *testing.T) {
    env := baseEnv()
    env["RABBITMQ_URL"] = "amqp://rabbit:5672/"
    env["CONTINUITY_WINDOW"] = "12h"
    env["REDIS_HOST"] = "cache"
    env["REDIS_PORT"] = "6380"
    env["RATE_LIMIT_CAPACITY"] = "0"
    env["RATE_LIMIT_REFILL_INTERVAL"] = "5m"
    env["EVENTS_ENABLED"] = "off"

    cfg, err := FromLookup(mapLookup(env))
    require.NoError(t, err)
    assert.Equal(t, "amqp://rabbit:5672/", cfg.Events.AMQPURL)
    assert.False(t, cfg.Events.Enabled)
    assert.Equal(t, 12*time.Hour, cfg.Scheduling.ContinuityWindow)
    assert.Equal(t, "cache:6380", cfg.Redis.Addr)
    assert.Equal(t, 1, cfg.RateLimit.Capacity)
    assert.Equal(t, 25*time.Minute, cfg.RateLimit.TTL)
}
