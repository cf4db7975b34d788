package services

import (
	"context"
	"fmt"
	"html"
	"strings"
)

const (
	namePlaceholder = "{name}"
	smsMaxLength    = 160

	DefaultPrayerTemplate = "Dear {name}, this week our church family is standing with you in prayer. " +
		"The Lord bless you and keep you; the Lord make His face shine upon you and give you peace. (Numbers 6:24-26)"

	PrayerEmailSubject = "You are in our prayers this week"
)

// RenderPrayerMessage fills every {name} in the custom message, or the default template
// when the custom message is nil or empty. Whitespace-only messages are sent as given.
func RenderPrayerMessage(customMessage *string, displayName string) string {
	template := DefaultPrayerTemplate
	if customMessage != nil && *customMessage != "" {
		template = *customMessage
	}
	return strings.ReplaceAll(template, namePlaceholder, displayName)
}

// TruncateSMS cuts a body to the single-segment limit, counting characters rather than bytes.
func TruncateSMS(body string) string {
	runes := []rune(body)
	if len(runes) <= smsMaxLength {
		return body
	}
	return string(runes[:smsMaxLength])
}

// SendPrayerEmail wraps message in the prayer email layout and sends it to one address.
func SendPrayerEmail(ctx context.Context, sender EmailSender, to, message string) error {
	return sender.SendOne(ctx, to, PrayerEmailSubject, prayerEmailHTML(message))
}

func prayerEmailHTML(message string) string {
	body := strings.ReplaceAll(html.EscapeString(message), "\n", "<br>")

	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            line-height: 1.6;
            color: #333;
            max-width: 600px;
            margin: 0 auto;
            padding: 20px;
        }
        .header {
            text-align: center;
            padding: 20px 0;
            border-bottom: 2px solid #6b8fb3;
        }
        .header h1 {
            color: #6b8fb3;
            margin: 0;
        }
        .content {
            padding: 30px 0;
        }
        .footer {
            text-align: center;
            padding: 20px 0;
            border-top: 1px solid #ddd;
            font-size: 12px;
            color: #666;
        }
    </style>
</head>
<body>
    <div class="header">
        <h1>Weekly Prayer</h1>
    </div>

    <div class="content">
        <p>%s</p>
    </div>

    <div class="footer">
        <p>This message was sent by your church office.</p>
    </div>
</body>
</html>
`, body)
}
