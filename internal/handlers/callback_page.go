package handlers

import (
	"bytes"
	"html/template"
	"net/url"

	"github.com/dimitrije/hackteam-api/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
)

var callbackPage = template.Must(template.New("callback").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <style>
        body { font-family: system-ui, sans-serif; background: #f9fafb; color: #374151; margin: 0; padding: 40px 20px; }
        .card { max-width: 420px; margin: 0 auto; background: #fff; border: 1px solid #e5e7eb; border-radius: 8px; padding: 36px 28px; text-align: center; }
        h1 { font-size: 20px; margin: 0 0 8px 0; }
        h1.failed { color: #991b1b; }
        .next { color: #6b7280; font-size: 14px; margin: 0 0 16px 0; }
        .code { font-family: monospace; font-size: 13px; background: #f3f4f6; border-radius: 6px; padding: 8px 12px; word-break: break-all; }
    </style>
</head>
<body>
    <div class="card">
        <h1{{if .Failed}} class="failed"{{end}}>{{.Heading}}</h1>
        <p class="next">{{.Next}}</p>
        {{if .Code}}<p class="next">Not redirected? Paste this code on the registration page.</p>
        <div class="code">{{.Code}}</div>{{end}}
        <p><a href="{{.Redirect}}">Continue</a></p>
    </div>
    <script>window.location.href = {{.Redirect}};</script>
</body>
</html>`))

type callbackView struct {
	Title    string
	Heading  string
	Next     string
	Code     string
	Redirect string
	Failed   bool
}

// stageGuidance is the line shown under the heading for each registration stage.
var stageGuidance = map[string]string{
	dto.StageBasicProfile:    "Next, tell us your name, phone number and participation category.",
	dto.StageCategoryProfile: "Next, finish the profile for your participation category.",
	dto.StageComplete:        "Your registration is complete. Taking you to your team dashboard.",
}

func (h *AuthHandler) renderSignedIn(c *drift.Context, code, stage string) {
	q := url.Values{}
	q.Set("code", code)
	q.Set("stage", stage)

	heading := "Welcome to the hackathon!"
	if stage == dto.StageComplete {
		heading = "Welcome back!"
	}
	h.renderCallback(c, 200, callbackView{
		Title:    "Signed in",
		Heading:  heading,
		Next:     stageGuidance[stage],
		Code:     code,
		Redirect: h.cfg.FrontendCallbackURL + "?" + q.Encode(),
	})
}

func (h *AuthHandler) renderSignInFailed(c *drift.Context, reason string) {
	q := url.Values{}
	q.Set("error", reason)

	h.renderCallback(c, 400, callbackView{
		Title:    "Sign-in failed",
		Heading:  "Sign-in failed",
		Next:     reason,
		Redirect: h.cfg.FrontendCallbackURL + "?" + q.Encode(),
		Failed:   true,
	})
}

func (h *AuthHandler) renderCallback(c *drift.Context, status int, view callbackView) {
	var buf bytes.Buffer
	if err := callbackPage.Execute(&buf, view); err != nil {
		h.log.WithError(err).Error("failed to render sign-in page")
		c.InternalServerError("failed to render sign-in page")
		return
	}
	_ = c.HTML(status, buf.String())
}
