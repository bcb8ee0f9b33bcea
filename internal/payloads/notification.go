package payloads

import (
	"fmt"

	"cwl2slack/internal/constants"
)

// NotificationPayload is the JSON body posted to the chat webhook.
type NotificationPayload struct {
	Username    string       `json:"username"`
	IconEmoji   string       `json:"icon_emoji"`
	Channel     string       `json:"channel"`
	Attachments []Attachment `json:"attachments"`
}

type Attachment struct {
	Title  string            `json:"title"`
	Color  string            `json:"color"`
	Footer string            `json:"footer"`
	Fields []AttachmentField `json:"fields"`
}

type AttachmentField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

// NewNotificationPayload lays out the alert: one danger attachment with the
// group, stream and fenced messages as full-width fields, in that order.
func NewNotificationPayload(channel, functionName, group, stream, formattedMessage string) NotificationPayload {
	return NotificationPayload{
		Username:  constants.NotificationUsername,
		IconEmoji: constants.NotificationIcon,
		Channel:   channel,
		Attachments: []Attachment{
			{
				Title:  constants.NotificationTitle,
				Color:  constants.NotificationColor,
				Footer: fmt.Sprintf(constants.NotificationFooter, functionName),
				Fields: []AttachmentField{
					{Title: constants.FieldLogGroup, Value: group, Short: false},
					{Title: constants.FieldLogStream, Value: stream, Short: false},
					{Title: constants.FieldLogMessages, Value: formattedMessage, Short: false},
				},
			},
		},
	}
}
