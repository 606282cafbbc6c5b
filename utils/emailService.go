package utils

import (
	"fmt"
	"log"
	"net/smtp"

	"sinfony/config"
)

func sendHTMLEmail(to, subject, body string) error {
	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	if from == "" || password == "" {
		log.Printf("Email not configured, skipping send to %s (%s)", to, subject)
		return nil
	}

	header := fmt.Sprintf("Subject: %s\nMIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n\n", subject)
	message := []byte(header + "\n" + body)

	auth := smtp.PlainAuth("", from, password, config.AppConfig.SMTPHost)
	addr := config.AppConfig.SMTPHost + ":" + config.AppConfig.SMTPPort

	if err := smtp.SendMail(addr, auth, from, []string{to}, message); err != nil {
		log.Printf("Error sending email to %s: %v", to, err)
		return err
	}
	return nil
}

// SendWelcomeEmail greets a newly registered user.
func SendWelcomeEmail(email, userName, organizationName string) error {
	body := fmt.Sprintf(`
		<html>
			<body style="font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px;">
				<div style="max-width: 600px; margin: auto; background-color: #ffffff; border-radius: 8px; padding: 30px;">
					<h2 style="color: #333333; text-align: center;">Welcome to Sinfony!</h2>
					<p style="font-size: 16px; color: #555555;">Dear %s,</p>
					<p style="font-size: 16px; color: #555555;">Your training account at <b>%s</b> is ready. Complete your profile and start your first module to begin earning points.</p>
					<p style="text-align: center; font-size: 12px; color: #bbbbbb; margin-top: 30px;">Sinfony Training Team</p>
				</div>
			</body>
		</html>
	`, userName, organizationName)

	return sendHTMLEmail(email, "Welcome to Sinfony", body)
}

// SendCompletionEmail notifies a learner that their module is complete and a
// certificate is available.
func SendCompletionEmail(email, userName, moduleTitle, certificateNumber string) error {
	body := fmt.Sprintf(`
		<html>
			<body style="font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px;">
				<div style="max-width: 600px; margin: auto; background-color: #ffffff; border-radius: 8px; padding: 30px;">
					<h2 style="color: #333333; text-align: center;">Training Complete!</h2>
					<p style="font-size: 16px; color: #555555;">Dear %s,</p>
					<p style="font-size: 16px; color: #555555;">Congratulations on completing:</p>
					<h3 style="text-align: center; color: #4CAF50; margin: 20px 0;">%s</h3>
					<div style="background-color: #f8f9fa; border-radius: 8px; padding: 20px; margin: 20px 0; text-align: center;">
						<p style="font-size: 14px; color: #666666; margin-bottom: 10px;">Your certificate number:</p>
						<h2 style="color: #2196F3; margin: 0;">%s</h2>
					</div>
					<p style="font-size: 14px; color: #666666;">Your certificate is available for download on your certificates page.</p>
					<p style="text-align: center; font-size: 12px; color: #bbbbbb; margin-top: 30px;">Sinfony Training Team</p>
				</div>
			</body>
		</html>
	`, userName, moduleTitle, certificateNumber)

	return sendHTMLEmail(email, "Course Completion Certificate - Sinfony", body)
}

// SendInactivityReminderEmail nudges a learner who has not logged in for a
// while.
func SendInactivityReminderEmail(email, userName string, daysInactive int) error {
	body := fmt.Sprintf(`
		<html>
			<body style="font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px;">
				<div style="max-width: 600px; margin: auto; background-color: #ffffff; border-radius: 8px; padding: 30px;">
					<h2 style="color: #333333; text-align: center;">We miss you, %s!</h2>
					<p style="font-size: 16px; color: #555555;">It has been %d days since your last visit. Your training modules are waiting, and so are your gamification points.</p>
					<p style="text-align: center; font-size: 12px; color: #bbbbbb; margin-top: 30px;">Sinfony Training Team</p>
				</div>
			</body>
		</html>
	`, userName, daysInactive)

	return sendHTMLEmail(email, "Your training is waiting - Sinfony", body)
}
