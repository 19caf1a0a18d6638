package email

import (
	"bytes"
	htmltpl "html/template"
	texttpl "text/template"
	"time"
)

// VerifyVars feeds the verification-code templates.
type VerifyVars struct {
	Name    string
	Code    string
	Expires time.Duration
}

const verifySubject = "Your verification code"

const verifyText = `Hi {{.Name}},

Your verification code is {{.Code}}.

It expires in {{.Expires.Minutes | printf "%.0f"}} minutes. If you did not
request this, ignore this message.
`

const verifyHTML = `<html><body>
<p>Hi {{.Name}},</p>
<p>Your verification code is:</p>
<p style="font-size:24px;letter-spacing:4px;"><strong>{{.Code}}</strong></p>
<p>It expires in {{.Expires.Minutes | printf "%.0f"}} minutes. If you did not
request this, ignore this message.</p>
</body></html>
`

var (
	verifyTextTpl = texttpl.Must(texttpl.New("verify_text").Parse(verifyText))
	verifyHTMLTpl = htmltpl.Must(htmltpl.New("verify_html").Parse(verifyHTML))
)

// RenderVerify renders the verification-code message.
func RenderVerify(vars VerifyVars) (subject, html, text string, err error) {
	var tb, hb bytes.Buffer
	if err = verifyTextTpl.Execute(&tb, vars); err != nil {
		return "", "", "", err
	}
	if err = verifyHTMLTpl.Execute(&hb, vars); err != nil {
		return "", "", "", err
	}
	return verifySubject, hb.String(), tb.String(), nil
}
