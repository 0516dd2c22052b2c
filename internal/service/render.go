package service

import (
	"fmt"
	"html"

	"github.com/Guruganeshkannan/Afterlife/internal/mail"
	"github.com/Guruganeshkannan/Afterlife/internal/model"
)

// renderDelivery builds the outbound email carrying the message itself. The
// HTML variant includes the originally scheduled delivery time for the
// recipient's reference.
func renderDelivery(msg model.DueMessage, tzName string) mail.Message {
	scheduled := model.FormatDeliveryDate(msg.DeliveryAt)
	return mail.Message{
		To:       msg.RecipientEmail,
		Subject:  fmt.Sprintf("Your AfterLife Message: %s", msg.Title),
		TextBody: msg.Content,
		HTMLBody: fmt.Sprintf(`<html>
    <body>
        <h2>%s</h2>
        <p>%s</p>
        <p>This message was scheduled for delivery on %s %s</p>
    </body>
</html>`, html.EscapeString(msg.Title), html.EscapeString(msg.Content), scheduled, tzName),
	}
}

// renderDeliveredNotification builds the best-effort confirmation sent after
// a successful delivery.
func renderDeliveredNotification(msg model.DueMessage) mail.Message {
	scheduled := model.FormatDeliveryDate(msg.DeliveryAt)
	return mail.Message{
		To:      msg.RecipientEmail,
		Subject: fmt.Sprintf("Your AfterLife Message '%s' has been delivered", msg.Title),
		TextBody: fmt.Sprintf("Dear %s,\n\nYour AfterLife Message %q has been delivered as scheduled on %s.\n\nBest regards,\nThe AfterLife Team",
			msg.RecipientEmail, msg.Title, scheduled),
		HTMLBody: fmt.Sprintf(`<html>
    <body>
        <h2>Message Delivered</h2>
        <p>Dear %s,</p>
        <p>Your AfterLife Message "<strong>%s</strong>" has been delivered as scheduled on %s.</p>
        <p>Best regards,<br>The AfterLife Team</p>
    </body>
</html>`, html.EscapeString(msg.RecipientEmail), html.EscapeString(msg.Title), scheduled),
	}
}

// renderScheduledNotification builds the email sent when a message is
// created or its delivery date changes.
func renderScheduledNotification(recipient, title string, scheduled string) mail.Message {
	return mail.Message{
		To:      recipient,
		Subject: fmt.Sprintf("Your AfterLife Message '%s' has been scheduled", title),
		TextBody: fmt.Sprintf("Dear %s,\n\nYour AfterLife Message %q has been scheduled for delivery on %s.\n\nBest regards,\nThe AfterLife Team",
			recipient, title, scheduled),
		HTMLBody: fmt.Sprintf(`<html>
    <body>
        <h2>Message Scheduled</h2>
        <p>Dear %s,</p>
        <p>Your AfterLife Message "<strong>%s</strong>" has been scheduled for delivery on %s.</p>
        <p>Best regards,<br>The AfterLife Team</p>
    </body>
</html>`, html.EscapeString(recipient), html.EscapeString(title), scheduled),
	}
}
