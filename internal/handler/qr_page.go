package handler

import "html/template"

type qrPageData struct {
	SessionID  string
	CheckinURL string
	ExpiresAt  string
	QRImage    template.URL
}

var qrPageTmpl = template.Must(template.New("qr").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Session check-in</title>
<style>
  body { font-family: sans-serif; text-align: center; margin-top: 3rem; }
  img  { border: 1px solid #ccc; padding: 8px; }
  .meta { color: #555; font-size: 0.9rem; margin-top: 1rem; }
</style>
</head>
<body>
  <h1>Scan to check in</h1>
  <img src="{{.QRImage}}" alt="check-in QR code" width="300" height="300">
  <p><a href="{{.CheckinURL}}">{{.CheckinURL}}</a></p>
  <p class="meta">Session {{.SessionID}} &middot; valid until {{.ExpiresAt}}</p>
</body>
</html>
`))
