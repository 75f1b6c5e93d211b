package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "0123456789abcdef0123456789abcdef"

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("jwt:\n  secret: " + secret + "\n"))
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, "mock", cfg.Payment.Provider)
	assert.Equal(t, ChannelLog, cfg.Notification.Channel)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "0 0 9 * * *", cfg.Scheduler.SendCheckInReminders)
	assert.Equal(t, time.Hour, cfg.AccessTokenTTL())
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout())
}

func TestLoad_File(t *testing.T) {
	yaml := `
server:
  host: 127.0.0.1
  port: 9090
database:
  driver: postgres
  host: db
  user: hotel
  password: pw
  database: crown
  migrate: true
log:
  level: debug
  format: json
notification:
  channel: smtp
  smtp:
    host: mail
    port: 587
    from: stay@crownhotels.example
jwt:
  secret: ` + secret + `
  access_token_expiry_minutes: 15
staff:
  - username: frontdesk
    password_hash: "$2a$10$abcdefghijklmnopqrstuv"
seed:
  rooms: true
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9090", cfg.GetServerAddress())
	assert.Equal(t, "postgres://hotel:pw@db:5432/crown?sslmode=disable", cfg.GetDatabaseConnectionString())
	assert.True(t, cfg.Database.Migrate)
	assert.Equal(t, 587, cfg.Notification.SMTP.Port)
	require.Len(t, cfg.Staff, 1)
	assert.Equal(t, "staff", cfg.Staff[0].Role)
	assert.True(t, cfg.Seed.Rooms)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL())
}

func TestParse_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9191")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("NOTIFICATION_CHANNEL", "amqp")
	t.Setenv("JWT_SECRET", secret)

	cfg, err := Parse([]byte("{}"))
	require.NoError(t, err)
	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, ChannelAMQP, cfg.Notification.Channel)
	assert.Equal(t, "hotel.notifications", cfg.Notification.AMQP.Exchange)
}

func TestParse_Invalid(t *testing.T) {
	cases := map[string]string{
		"missing secret":   "{}",
		"short secret":     "jwt: {secret: short}",
		"bad driver":       "jwt: {secret: " + secret + "}\ndatabase: {driver: mysql}",
		"postgres no host": "jwt: {secret: " + secret + "}\ndatabase: {driver: postgres, user: u, database: d}",
		"bad channel":      "jwt: {secret: " + secret + "}\nnotification: {channel: pigeon}",
		"smtp no host":     "jwt: {secret: " + secret + "}\nnotification: {channel: smtp}",
		"sendgrid no key":  "jwt: {secret: " + secret + "}\nnotification: {channel: sendgrid}",
		"bad payment":      "jwt: {secret: " + secret + "}\npayment: {provider: stripe}",
		"bad port":         "jwt: {secret: " + secret + "}\nserver: {port: 70000}",
		"staff no hash":    "jwt: {secret: " + secret + "}\nstaff: [{username: a}]",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(data))
			assert.Error(t, err)
		})
	}
}

func TestSecurityFor(t *testing.T) {
	assert.Equal(t, SecurityStaff, SecurityFor("POST", "/bookings/{reference}/check-in"))
	assert.Equal(t, SecurityPublic, SecurityFor("GET", "/bookings/{reference}"))
	assert.Equal(t, SecurityPublic, SecurityFor("GET", "/unknown"))
}
