package email

import (
	"bytes"
	"html/template"
)

// 邮件模板统一走 html/template，防止用户名注入 HTML
var (
	welcomeTmpl = template.Must(template.New("welcome").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; max-width: 560px; margin: 0 auto; padding: 24px;">
  <h1 style="color: #1a1a1a;">Welcome to BHVR{{if .Name}}, {{.Name}}{{end}}!</h1>
  <p>Your account has been created successfully. You can sign in and start using the API right away.</p>
  <p><a href="{{.Link}}" style="display: inline-block; padding: 10px 20px; background: #1a1a1a; color: #ffffff; text-decoration: none; border-radius: 6px;">Sign in</a></p>
  <p style="color: #888; font-size: 12px;">If you did not create this account, you can safely ignore this email.</p>
</body>
</html>`))

	passwordResetTmpl = template.Must(template.New("reset").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; max-width: 560px; margin: 0 auto; padding: 24px;">
  <h1 style="color: #1a1a1a;">Reset your password</h1>
  <p>{{if .Name}}Hi {{.Name}}, we{{else}}We{{end}} received a request to reset your BHVR password.</p>
  <p><a href="{{.Link}}" style="display: inline-block; padding: 10px 20px; background: #1a1a1a; color: #ffffff; text-decoration: none; border-radius: 6px;">Reset password</a></p>
  <p style="color: #888; font-size: 12px;">This link expires in 1 hour. If you did not request a reset, ignore this email.</p>
</body>
</html>`))

	verificationTmpl = template.Must(template.New("verify").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; max-width: 560px; margin: 0 auto; padding: 24px;">
  <h1 style="color: #1a1a1a;">Verify your email</h1>
  <p>{{if .Name}}Hi {{.Name}}, please{{else}}Please{{end}} confirm this email address for your BHVR account.</p>
  <p><a href="{{.Link}}" style="display: inline-block; padding: 10px 20px; background: #1a1a1a; color: #ffffff; text-decoration: none; border-radius: 6px;">Verify email</a></p>
  <p style="color: #888; font-size: 12px;">If you did not sign up for BHVR, ignore this email.</p>
</body>
</html>`))
)

type templateData struct {
	Name string
	Link string
}

func render(t *template.Template, data templateData) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderWelcome(name, link string) (string, error) {
	return render(welcomeTmpl, templateData{Name: name, Link: link})
}

func renderPasswordReset(name, link string) (string, error) {
	return render(passwordResetTmpl, templateData{Name: name, Link: link})
}

func renderVerification(name, link string) (string, error) {
	return render(verificationTmpl, templateData{Name: name, Link: link})
}
