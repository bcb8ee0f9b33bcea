package constants

import "time"

const (
	// TEST env
	TEST = "test"
	// PRODUCTION env
	PRODUCTION = "production"

	DefaultFunctionName   = "cwl2slack"
	DefaultWebhookTimeout = 10 * time.Second
	DefaultDevServerAddr  = "127.0.0.1:8080"

	// Chat message presentation
	NotificationUsername = "CloudWatch Logs"
	NotificationIcon     = ":robot_face:"
	NotificationTitle    = ":rotating_light: Alert detected in CloudWatch Logs"
	NotificationColor    = "danger"
	NotificationFooter   = "post by %s"

	FieldLogGroup    = "logGroup"
	FieldLogStream   = "logStream"
	FieldLogMessages = "logMessage(s)"

	CodeFence          = "```"
	ContentTypeJSONUTF = "application/json; charset=utf-8"

	SnsEventKeyName  = "EventName"
	SnsEventKeyValue = "cwl2slack-alert"

	MetricsNamespace = "cwl2slack"
)
