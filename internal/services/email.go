package services

import (
	"fmt"
	"time"

	"gopkg.in/gomail.v2"
)

// Mailer delivers transactional email. The token lifecycle treats delivery
// as fire-and-forget: a created token is never rolled back because a send
// failed.
type Mailer interface {
	Send(to, subject, htmlBody, textBody string) error
}

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(host string, port int, user, pass, fromName string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, user, pass),
		from:   fmt.Sprintf("%s <%s>", fromName, user),
	}
}

func (m *SMTPMailer) Send(to, subject, htmlBody, textBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", textBody)
	msg.AddAlternative("text/html", htmlBody)
	return m.dialer.DialAndSend(msg)
}

const emailWrapper = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <div style="background-color: #2DB888; padding: 20px; text-align: center;">
    <h1 style="color: white; margin: 0;">LearningHub</h1>
  </div>
  <div style="padding: 30px; background-color: #f9f9f9;">%s</div>
  <div style="background-color: #1E293B; padding: 15px; text-align: center;">
    <p style="color: #94A3B8; font-size: 12px; margin: 0;">© %d LearningHub. All rights reserved.</p>
  </div>
</div>`

// VerificationEmail builds the signup verification message for the given
// link.
func VerificationEmail(fullName, link string) (subject, html, text string) {
	subject = "Verify Your Email - LearningHub"
	body := fmt.Sprintf(`<h2 style="color: #333; margin-top: 0;">Welcome to LearningHub</h2>
    <p style="color: #666; font-size: 16px;">Hello %s,</p>
    <p style="color: #666; font-size: 16px;">Click the button below to verify your email address and activate your account.</p>
    <div style="text-align: center; margin: 30px 0;">
      <a href="%s" style="background-color: #2DB888; color: white; padding: 14px 28px; border-radius: 8px; text-decoration: none; display: inline-block; font-weight: 600; font-size: 16px;">Verify Email</a>
    </div>
    <p style="color: #666; font-size: 14px;">This link will expire in 24 hours. If you didn't sign up, please ignore this email.</p>
    <p style="color: #666; font-size: 12px; word-break: break-all;">%s</p>`, fullName, link, link)
	html = fmt.Sprintf(emailWrapper, body, time.Now().Year())
	text = fmt.Sprintf("Hello %s,\n\nVerify your email address: %s\n\nThis link will expire in 24 hours.", fullName, link)
	return subject, html, text
}

// PasswordResetEmail builds the password reset message for the given link.
func PasswordResetEmail(fullName, link string) (subject, html, text string) {
	subject = "Reset Your Password - LearningHub"
	body := fmt.Sprintf(`<h2 style="color: #333; margin-top: 0;">Password Reset Request</h2>
    <p style="color: #666; font-size: 16px;">Hello %s,</p>
    <p style="color: #666; font-size: 16px;">We received a request to reset your password. Click the button below to create a new password.</p>
    <div style="text-align: center; margin: 30px 0;">
      <a href="%s" style="background-color: #2DB888; color: white; padding: 14px 28px; border-radius: 8px; text-decoration: none; display: inline-block; font-weight: 600; font-size: 16px;">Reset Password</a>
    </div>
    <p style="color: #666; font-size: 14px;">This link will expire in 1 hour. If you didn't request this, please ignore this email.</p>
    <p style="color: #666; font-size: 12px; word-break: break-all;">%s</p>`, fullName, link, link)
	html = fmt.Sprintf(emailWrapper, body, time.Now().Year())
	text = fmt.Sprintf("Hello %s,\n\nClick this link to reset your password: %s\n\nThis link will expire in 1 hour.", fullName, link)
	return subject, html, text
}

// OTPEmail builds the one-time-code message.
func OTPEmail(code string) (subject, html, text string) {
	subject = "Your OTP for LearningHub"
	body := fmt.Sprintf(`<h2 style="color: #333; margin-top: 0;">Your Verification Code</h2>
    <p style="color: #666; font-size: 16px;">Your OTP for verification is:</p>
    <div style="background-color: white; border: 2px dashed #2DB888; border-radius: 8px; padding: 20px; text-align: center; margin: 20px 0;">
      <h1 style="color: #2DB888; font-size: 36px; letter-spacing: 8px; margin: 0;">%s</h1>
    </div>
    <p style="color: #666; font-size: 14px;">This code will expire in 10 minutes. Please do not share this code with anyone.</p>`, code)
	html = fmt.Sprintf(emailWrapper, body, time.Now().Year())
	text = fmt.Sprintf("Your OTP for LearningHub is: %s. This code will expire in 10 minutes.", code)
	return subject, html, text
}
