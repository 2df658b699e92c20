package jobs

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
)

const layoutHTML = `{{define "layout"}}<!DOCTYPE html>
<html lang="sv">
<body style="font-family: Arial, sans-serif; color: #333; max-width: 600px; margin: 0 auto;">
{{template "body" .}}
<p style="color: #999; font-size: 12px;">Detta är ett automatiskt meddelande. Svara inte på detta email.</p>
</body>
</html>{{end}}`

var htmlBodies = map[string]string{
	"contact_owner": `{{define "body"}}
<h2>Nytt kontaktmeddelande!</h2>
<p><strong>Från:</strong> {{.Name}}</p>
<p><strong>Email:</strong> <a href="mailto:{{.Email}}">{{.Email}}</a></p>
<p><strong>Ämne:</strong> {{.Subject}}</p>
<p><strong>Meddelande:</strong></p>
<p style="white-space: pre-wrap; background: #f7f7f7; padding: 12px;">{{.Message}}</p>
<p>Klicka "Svara" för att svara direkt till {{.Name}}!</p>
<p style="color: #999; font-size: 12px;">Skickat: {{.SentAt}}</p>
{{end}}`,

	"contact_receipt": `{{define "body"}}
<h2>Hej {{.Name}}!</h2>
<p>Vi har mottagit ditt meddelande och återkommer så snart som möjligt.</p>
<p><strong>Ämne:</strong> {{.Subject}}</p>
<p style="white-space: pre-wrap; background: #f7f7f7; padding: 12px;">{{.Excerpt}}</p>
<p>Med vänliga hälsningar,<br>Teamet på {{.Shop}}</p>
{{end}}`,

	"order_receipt": `{{define "body"}}
<h2>Tack för din beställning!</h2>
<p>Ordernummer: <strong>#{{.OrderID}}</strong></p>
<table style="width: 100%; border-collapse: collapse;">
{{range .Lines}}<tr>
<td>{{.Description}}</td><td>{{.Quantity}} st</td><td style="text-align: right;">{{.LineTotal}}</td>
</tr>
{{end}}</table>
<p><strong>Totalt: {{.Total}}</strong></p>
{{if .AppURL}}<p><a href="{{.AppURL}}">Fortsätt handla</a></p>{{end}}
<p>Med vänliga hälsningar,<br>Teamet på {{.Shop}}</p>
{{end}}`,
}

var textBodies = map[string]string{
	"contact_owner": `Nytt kontaktmeddelande!

Från: {{.Name}}
Email: {{.Email}}
Ämne: {{.Subject}}

{{.Message}}

Klicka "Svara" för att svara direkt till {{.Name}}!
Skickat: {{.SentAt}}
`,

	"contact_receipt": `Hej {{.Name}}!

Vi har mottagit ditt meddelande och återkommer så snart som möjligt.

Ämne: {{.Subject}}
{{.Excerpt}}

Med vänliga hälsningar,
Teamet på {{.Shop}}
`,

	"order_receipt": `Tack för din beställning!

Ordernummer: #{{.OrderID}}
{{range .Lines}}
{{.Quantity}} x {{.Description}}  {{.LineTotal}}{{end}}

Totalt: {{.Total}}

Med vänliga hälsningar,
Teamet på {{.Shop}}
`,
}

var (
	htmlTemplates = map[string]*htmltemplate.Template{}
	textTemplates = map[string]*texttemplate.Template{}
)

func init() {
	for name, body := range htmlBodies {
		t := htmltemplate.Must(htmltemplate.New(name).Parse(layoutHTML))
		htmlTemplates[name] = htmltemplate.Must(t.Parse(body))
	}
	for name, body := range textBodies {
		textTemplates[name] = texttemplate.Must(texttemplate.New(name).Parse(body))
	}
}

// render executes the html and text variants of the named mail template.
func render(name string, data any) (html, text string, err error) {
	ht, ok := htmlTemplates[name]
	if !ok {
		return "", "", fmt.Errorf("jobs: unknown template %q", name)
	}
	var hb, tb bytes.Buffer
	if err := ht.ExecuteTemplate(&hb, "layout", data); err != nil {
		return "", "", fmt.Errorf("jobs: render %s html: %w", name, err)
	}
	if err := textTemplates[name].Execute(&tb, data); err != nil {
		return "", "", fmt.Errorf("jobs: render %s text: %w", name, err)
	}
	return hb.String(), tb.String(), nil
}
