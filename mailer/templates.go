package mailer

import "html/template"

var verificationTemplate = template.Must(template.New("verification").Parse(`
<div style="font-family:sans-serif;max-width:480px;margin:0 auto">
  <h2>Verify your email</h2>
  <p>Hi {{.Name}},</p>
  <p>Your verification code is:</p>
  <p style="font-size:28px;letter-spacing:6px;font-weight:bold">{{.Code}}</p>
  <p>The code expires in 10 minutes. If you did not create a meChat account,
  you can ignore this email.</p>
</div>
`))

var welcomeTemplate = template.Must(template.New("welcome").Parse(`
<div style="font-family:sans-serif;max-width:480px;margin:0 auto">
  <h2>Welcome to meChat</h2>
  <p>Hi {{.Name}},</p>
  <p>Your account is verified and ready to use. We're excited to have you
  onboard.</p>
</div>
`))

var resetTemplate = template.Must(template.New("reset").Parse(`
<div style="font-family:sans-serif;max-width:480px;margin:0 auto">
  <h2>Reset your password</h2>
  <p>Your password reset code is:</p>
  <p style="font-size:28px;letter-spacing:6px;font-weight:bold">{{.Code}}</p>
  <p>The code expires in 10 minutes. If you did not request a reset, your
  account is still safe and no action is needed.</p>
</div>
`))
