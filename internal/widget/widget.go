// Package widget renders the embeddable feedback form and the script that
// injects it into a third-party page. Rendering is a pure function of the
// form state; nothing here knows about HTTP.
package widget

import (
	"bytes"
	"embed"
	"encoding/json"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
)

// Input limits mirrored into the form markup.
const (
	NameMaxLength  = 128
	EmailMaxLength = 75
)

//go:embed templates/form.html templates/embed.js.tmpl
var templatesFS embed.FS

var (
	formTmpl   = htmltemplate.Must(htmltemplate.ParseFS(templatesFS, "templates/form.html"))
	scriptTmpl = texttemplate.Must(texttemplate.ParseFS(templatesFS, "templates/embed.js.tmpl"))
)

// FormState is the data shown in the form: initial values on GET.
type FormState struct {
	Name     string
	Email    string
	Comments string
	NotifyMe bool
}

// Initial returns the GET form state: name and email prefilled from the
// query, notify-me checked.
func Initial(name, email string) FormState {
	return FormState{Name: name, Email: email, NotifyMe: true}
}

// RenderForm renders the HTML fragment for state. Values are HTML-escaped.
func RenderForm(state FormState) (string, error) {
	var buf bytes.Buffer
	data := struct {
		FormState
		NameMax  int
		EmailMax int
	}{state, NameMaxLength, EmailMaxLength}
	if err := formTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderScript wraps fragment in the loader script. endpoint is the full
// request path (with query) the form posts back to. Both values are embedded
// as JSON string literals.
func RenderScript(endpoint, fragment string) (string, error) {
	ep, err := jsString(endpoint)
	if err != nil {
		return "", err
	}
	tpl, err := jsString(fragment)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	err = scriptTmpl.Execute(&buf, struct{ Endpoint, Template string }{ep, tpl})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Render is RenderForm followed by RenderScript.
func Render(endpoint string, state FormState) (string, error) {
	frag, err := RenderForm(state)
	if err != nil {
		return "", err
	}
	return RenderScript(endpoint, frag)
}

// jsString encodes s as a JSON string without HTML escaping, so '&', '<'
// and '>' stay literal in the script.
func jsString(s string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
