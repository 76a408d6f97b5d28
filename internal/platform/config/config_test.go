package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.APIPort)
	assert.Equal(t, StoreMemory, cfg.StoreBackend)
	assert.Equal(t, SessionJWT, cfg.SessionBackend)
	assert.Equal(t, QueueInline, cfg.QueueBackend)
	assert.Equal(t, 5*time.Second, cfg.StoreTimeout)
	assert.Equal(t, 72*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 30*time.Second, cfg.MailSendTimeout)
	assert.Equal(t, 5, cfg.RegisterMaxAttempts)
	assert.Equal(t, []string{"http://127.0.0.1:5500"}, cfg.CORSAllowedOrigins)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("API_PORT", "9090")
	t.Setenv("STORE_BACKEND", "Postgres")
	t.Setenv("SESSION_BACKEND", "redis")
	t.Setenv("QUEUE_BACKEND", "amqp")
	t.Setenv("STORE_TIMEOUT", "250ms")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_NAME", "shop")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.APIPort)
	assert.Equal(t, StorePostgres, cfg.StoreBackend)
	assert.Equal(t, SessionRedis, cfg.SessionBackend)
	assert.Equal(t, QueueAMQP, cfg.QueueBackend)
	assert.Equal(t, 250*time.Millisecond, cfg.StoreTimeout)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowedOrigins)
	assert.Contains(t, cfg.DBConnStr(), "host=db")
	assert.Contains(t, cfg.DBConnStr(), "dbname=shop")
}

func TestLoad_RejectsUnknownBackends(t *testing.T) {
	for key, val := range map[string]string{
		"STORE_BACKEND":   "sqlite",
		"SESSION_BACKEND": "cookie",
		"QUEUE_BACKEND":   "kafka",
	} {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, val)
			_, err := Load()
			assert.ErrorContains(t, err, key)
		})
	}
}

func TestLoad_RejectsZeroAttempts(t *testing.T) {
	t.Setenv("REGISTER_MAX_ATTEMPTS", "0")
	_, err := Load()
	assert.ErrorContains(t, err, "REGISTER_MAX_ATTEMPTS")
}

func TestMailSender(t *testing.T) {
	c := &Config{SMTPUser: "shop@example.com"}
	assert.Equal(t, "shop@example.com", c.MailSender())

	c.MailFrom = "noreply@example.com"
	assert.Equal(t, "noreply@example.com", c.MailSender())
}

func TestLoad_InlineQueueNeedsEmbeddedWorker(t *testing.T) {
	t.Setenv("EMBEDDED_WORKER", "false")
	_, err := Load()
	assert.ErrorContains(t, err, "EMBEDDED_WORKER")

	t.Setenv("QUEUE_BACKEND", "redis")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.EmbeddedWorker)
}
