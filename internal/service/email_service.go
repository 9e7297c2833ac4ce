package service

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// EmailService handles sending emails via Amazon SES
type EmailService struct {
	client     *sesv2.Client
	fromEmail  string
	fromName   string
	appBaseURL string
	enabled    bool
	debug      bool
}

// NewEmailService creates a new email service. With no from-address
// configured the service is disabled and every send becomes a logged no-op.
func NewEmailService(awsRegion, fromEmail, fromName, appBaseURL string, debug bool) (*EmailService, error) {
	if fromEmail == "" {
		log.Println("Email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{enabled: false, debug: debug}, nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Printf("Email service enabled: from=%s, region=%s", fromEmail, awsRegion)

	return &EmailService{
		client:     sesv2.NewFromConfig(cfg),
		fromEmail:  fromEmail,
		fromName:   fromName,
		appBaseURL: appBaseURL,
		enabled:    true,
		debug:      debug,
	}, nil
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendVerificationEmail sends the account-verification link
func (s *EmailService) SendVerificationEmail(ctx context.Context, toEmail, toName, token string) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): verification to %s", toEmail)
		return nil
	}

	verifyLink := fmt.Sprintf("%s/verify?token=%s", s.appBaseURL, token)
	if s.debug {
		log.Printf("[DEBUG] Verification link generated: %s", verifyLink)
	}

	subject := "Please verify your email address"
	htmlBody := fmt.Sprintf(`
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
	<h2>Welcome to the studio, %s!</h2>
	<p>Please confirm your email address to activate your account:</p>
	<p><a href="%s" style="display: inline-block; padding: 12px 30px; background-color: #4a90e2; color: white; text-decoration: none; border-radius: 5px;">Verify Email</a></p>
	<p>Or copy and paste this link into your browser:</p>
	<p style="word-break: break-all; font-size: 12px; color: #666;">%s</p>
	<p><strong>This link will expire in 24 hours.</strong></p>
	<p>If you didn't create an account, you can safely ignore this email.</p>
</body>
</html>
`, toName, verifyLink, verifyLink)

	textBody := fmt.Sprintf(`Welcome to the studio, %s!

Please confirm your email address to activate your account:
%s

This link will expire in 24 hours.

If you didn't create an account, you can safely ignore this email.
`, toName, verifyLink)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// SendPasswordResetEmail sends a password reset link
func (s *EmailService) SendPasswordResetEmail(ctx context.Context, toEmail, toName, token string) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): password reset to %s", toEmail)
		return nil
	}

	resetLink := fmt.Sprintf("%s/reset-password?token=%s", s.appBaseURL, token)
	if s.debug {
		log.Printf("[DEBUG] Reset link generated: %s", resetLink)
	}

	subject := "Reset your password"
	htmlBody := fmt.Sprintf(`
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
	<h2>Password reset request</h2>
	<p>Hi %s,</p>
	<p>We received a request to reset your password. Click the button below to choose a new one:</p>
	<p><a href="%s" style="display: inline-block; padding: 12px 30px; background-color: #4a90e2; color: white; text-decoration: none; border-radius: 5px;">Reset Password</a></p>
	<p>Or copy and paste this link into your browser:</p>
	<p style="word-break: break-all; font-size: 12px; color: #666;">%s</p>
	<p><strong>This link will expire in 1 hour.</strong></p>
	<p>If you didn't request a password reset, you can safely ignore this email.</p>
</body>
</html>
`, toName, resetLink, resetLink)

	textBody := fmt.Sprintf(`Hi %s,

We received a request to reset your password. Open the link below to choose a new one:
%s

This link will expire in 1 hour.

If you didn't request a password reset, you can safely ignore this email.
`, toName, resetLink)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// sendEmail sends an email using Amazon SES
func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	if s.debug && result.MessageId != nil {
		log.Printf("[DEBUG] SES message ID: %s", *result.MessageId)
	}
	log.Printf("Email sent successfully: to=%s, subject=%s", toEmail, subject)
	return nil
}
