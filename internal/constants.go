package internal

const (
	DotEnvPath              = "./.env"
	WebhookTriggerKeyHeader = "X-SimpleCI-Webhook-Key"
)
