package billslist

import (
	"fmt"
	"html/template"
	"strings"
)

// The view templates produce the page body the portal wraps in its layout.
var (
	loadingTemplate = template.Must(template.New("loading").Parse(
		`<div class="loading" data-testid="loading-message">Loading...</div>`))

	errorTemplate = template.Must(template.New("error").Parse(
		`<div class="error" data-testid="error-message">Erreur</div>
<div class="error-detail">{{.}}</div>`))

	listTemplate = template.Must(template.New("list").Parse(
		`<table id="bills-table" data-testid="tbody">
{{- range .Rows}}
  <tr>
    <td>{{.Type}}</td>
    <td>{{.Name}}</td>
    <td data-testid="bill-date">{{.FormattedDate}}</td>
    <td>{{.Amount}} €</td>
    <td data-testid="bill-status">{{.FormattedStatus}}</td>
    <td><div class="icon-eye" data-testid="icon-eye" data-bill-url="{{if .FileURL}}{{.FileURL}}{{end}}"></div></td>
  </tr>
{{- end}}
</table>`))

	modalTemplate = template.Must(template.New("modal").Parse(
		`<div class="modal-body"><div style="text-align: center;"><img width="{{.Width}}" src="{{.URL}}" alt="Bill"></div></div>`))
)

// LoadingView renders the fixed loading indicator.
func LoadingView() string {
	var sb strings.Builder
	_ = loadingTemplate.Execute(&sb, nil)
	return sb.String()
}

// ErrorView renders the error view parameterized by the message.
func ErrorView(message string) string {
	var sb strings.Builder
	_ = errorTemplate.Execute(&sb, message)
	return sb.String()
}

// View renders one of the three mutually exclusive modes: the loading and
// error flags win over any supplied records.
func View(in Input) (string, error) {
	model, err := Present(in)
	if err != nil {
		return "", err
	}

	switch model.Mode {
	case ModeLoading:
		return LoadingView(), nil
	case ModeError:
		return ErrorView(model.Error), nil
	default:
		var sb strings.Builder
		if err := listTemplate.Execute(&sb, model); err != nil {
			return "", fmt.Errorf("failed to render bills table: %w", err)
		}
		return sb.String(), nil
	}
}

// ReceiptModal renders the receipt preview with the image scaled to half the
// container width.
func ReceiptModal(fileURL string, containerWidth int) string {
	var sb strings.Builder
	_ = modalTemplate.Execute(&sb, struct {
		Width int
		URL   string
	}{
		Width: containerWidth / 2,
		URL:   fileURL,
	})
	return sb.String()
}
