package email

import (
	"context"
	"fmt"

	"bhvr-server/pkg/common/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/cloudwego/hertz/pkg/common/hlog"
)

// Mailer 外发邮件协作方的调用契约
type Mailer interface {
	SendWelcome(ctx context.Context, to, userName string) error
	SendPasswordReset(ctx context.Context, to, resetURL, userName string) error
	SendVerification(ctx context.Context, to, verifyURL, userName string) error
}

// SESMailer 通过 AWS SES v2 发送事务邮件。
// 凭证缺省时 client 为 nil，此时只记日志不真正发送（开发模式）。
type SESMailer struct {
	client *sesv2.Client
	from   string
	appURL string
}

func NewSESMailer(cfg config.EmailConfig) *SESMailer {
	m := &SESMailer{
		from:   cfg.From,
		appURL: cfg.AppURL,
	}

	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(cfg.Region),
			awsconfig.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
		)
		if err != nil {
			hlog.Warnf("Failed to initialize AWS config: %v", err)
		} else {
			m.client = sesv2.NewFromConfig(awsCfg)
		}
	}

	return m
}

func (m *SESMailer) SendWelcome(ctx context.Context, to, userName string) error {
	html, err := renderWelcome(userName, m.appURL+"/login")
	if err != nil {
		return err
	}
	return m.send(ctx, to, "Welcome to BHVR!", html)
}

func (m *SESMailer) SendPasswordReset(ctx context.Context, to, resetURL, userName string) error {
	html, err := renderPasswordReset(userName, resetURL)
	if err != nil {
		return err
	}
	return m.send(ctx, to, "Reset Your BHVR Password", html)
}

func (m *SESMailer) SendVerification(ctx context.Context, to, verifyURL, userName string) error {
	html, err := renderVerification(userName, verifyURL)
	if err != nil {
		return err
	}
	return m.send(ctx, to, "Verify Your BHVR Email", html)
}

func (m *SESMailer) send(ctx context.Context, to, subject, html string) error {
	if m.client == nil {
		hlog.CtxInfof(ctx, "email skipped (no SES credentials): to=%s subject=%q", to, subject)
		return nil
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(m.from),
		Destination:      &types.Destination{ToAddresses: []string{to}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Html: &types.Content{Data: aws.String(html), Charset: aws.String("UTF-8")},
				},
			},
		},
	}

	if _, err := m.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("send email to %s: %w", to, err)
	}
	return nil
}
