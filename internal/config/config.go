/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	AppEnv   string
	HTTPAddr string

	SessionTTL  time.Duration
	JanitorCron string
	MaxSessions int

	// Import payloads above this size are rejected before parsing.
	MaxImportBytes int

	OpenAIKey     string
	OpenAIModel   string
	OpenAITimeout time.Duration
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" { return def }
	return v
}

func atoi(key string, def int) int {
	v := os.Getenv(key)
	if v == "" { return def }
	i, err := strconv.Atoi(v)
	if err != nil { return def }
	return i
}

func dur(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" { return def }
	d, err := time.ParseDuration(v)
	if err != nil { return def }
	return d
}

func Load() Config {
	return Config{
		AppEnv:   getenv("APP_ENV", "dev"),
		HTTPAddr: getenv("HTTP_ADDR", ":8080"),

		SessionTTL:  dur("SESSION_TTL", 4*time.Hour),
		JanitorCron: getenv("JANITOR_CRON", "*/15 * * * *"),
		MaxSessions: atoi("MAX_SESSIONS", 200),

		MaxImportBytes: atoi("MAX_IMPORT_BYTES", 8<<20),

		OpenAIKey:     getenv("OPENAI_API_KEY", ""),
		OpenAIModel:   getenv("OPENAI_MODEL", "gpt-4.1-mini"),
		OpenAITimeout: dur("OPENAI_TIMEOUT", 15*time.Second),
	}
}
