package server

import (
	"html/template"
	"io"
	"net/http"
	"strings"

	"github.com/billed-app/billed-portal/internal/billslist"
	"github.com/billed-app/billed-portal/internal/entity"
	"github.com/billed-app/billed-portal/internal/export"
	"github.com/billed-app/billed-portal/internal/newbill"
	"github.com/billed-app/billed-portal/internal/routes"
	"github.com/billed-app/billed-portal/internal/session"
	"github.com/billed-app/billed-portal/internal/store"
	"github.com/billed-app/billed-portal/pkg/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const userContextKey = "portal_user"

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="fr">
<head><meta charset="utf-8"><title>Billed — {{.Title}}</title></head>
<body>
<header><h1>{{.Title}}</h1><nav><a href="{{.BillsPath}}">Mes notes de frais</a> <a href="{{.NewBillPath}}">Nouvelle note de frais</a></nav></header>
<main>{{.Body}}</main>
</body>
</html>`))

var formTemplate = template.Must(template.New("form").Parse(`<form data-testid="form-new-bill" method="post" action="{{.Action}}" enctype="multipart/form-data">
  <select data-testid="expense-type" name="type">
{{- range .Types}}
    <option value="{{.}}">{{.}}</option>
{{- end}}
  </select>
  <input data-testid="expense-name" name="name" type="text">
  <input data-testid="datepicker" name="date" type="date">
  <input data-testid="amount" name="amount" type="number">
  <input data-testid="vat" name="vat" type="text">
  <input data-testid="pct" name="pct" type="number">
  <textarea data-testid="commentary" name="commentary"></textarea>
  <input data-testid="file" name="file" type="file">
  <input type="hidden" name="billId" value="{{.BillID}}">
  <input type="hidden" name="fileUrl" value="{{.FileURL}}">
  <input type="hidden" name="fileName" value="{{.FileName}}">
  <button type="submit" id="btn-send-bill">Envoyer</button>
</form>`))

// Portal serves the employee pages and adapts HTTP requests into controller
// events.
type Portal struct {
	store    store.Store
	sessions *session.Manager
	exporter *export.ExcelExporter
	logger   *zap.Logger
}

// NewPortal creates the portal handler set.
func NewPortal(st store.Store, sessions *session.Manager, exporter *export.ExcelExporter, logger *zap.Logger) *Portal {
	return &Portal{
		store:    st,
		sessions: sessions,
		exporter: exporter,
		logger:   logger,
	}
}

// Register mounts the portal routes.
func (p *Portal) Register(r gin.IRouter) {
	r.GET(routes.Login, p.loginPage)
	r.POST(routes.Login, p.login)
	r.GET(routes.Bills, p.requireSession, p.billsPage)
	r.GET(routes.NewBill, p.requireSession, p.newBillPage)
	r.POST(routes.NewBill+"/file", p.requireSession, p.changeFile)
	r.POST(routes.NewBill, p.requireSession, p.submitBill)
	r.GET(routes.Export, p.requireSession, p.exportBills)
}

// requireSession resolves the employee identity from the session cookie.
func (p *Portal) requireSession(c *gin.Context) {
	token, _ := c.Cookie(session.CookieName)
	user, err := p.sessions.Parse(token)
	if err != nil {
		c.Redirect(http.StatusSeeOther, routes.Login)
		c.Abort()
		return
	}
	c.Set(userContextKey, user)
	c.Next()
}

func currentUser(c *gin.Context) session.User {
	user, _ := c.Get(userContextKey)
	u, _ := user.(session.User)
	return u
}

// loginPage shows the identity form.
func (p *Portal) loginPage(c *gin.Context) {
	body := `<form method="post" action="` + routes.Login + `">
  <input data-testid="employee-email-input" name="email" type="email">
  <button type="submit">Se connecter</button>
</form>`
	p.renderPage(c, "Connexion", template.HTML(body))
}

// login sets the session cookie for the given employee identity.
func (p *Portal) login(c *gin.Context) {
	email := c.PostForm("email")
	if err := utils.ValidateEmail(email); err != nil {
		c.Redirect(http.StatusSeeOther, routes.Login)
		return
	}

	token, err := p.sessions.Issue(session.User{Type: session.UserTypeEmployee, Email: email})
	if err != nil {
		p.logger.Error("Failed to issue session", zap.Error(err))
		c.String(http.StatusInternalServerError, "internal error")
		return
	}

	c.SetCookie(session.CookieName, token, 0, "/", "", false, true)
	c.Redirect(http.StatusSeeOther, routes.Bills)
}

// billsPage renders the sorted bill list, or the error view when the store
// reports a server failure.
func (p *Portal) billsPage(c *gin.Context) {
	controller := billslist.NewController(p.store, p.navigator(c), nil, p.logger)
	body, err := controller.Render(c.Request.Context())
	if err != nil {
		p.logger.Error("Failed to render bills page", zap.Error(err))
		c.String(http.StatusInternalServerError, "internal error")
		return
	}

	body += `<p><a href="` + routes.Export + `" data-testid="export-bills">Exporter</a></p>`
	p.renderPage(c, "Mes notes de frais", template.HTML(body))
}

// newBillPage renders the empty bill form.
func (p *Portal) newBillPage(c *gin.Context) {
	p.renderForm(c, "", "", "")
}

// changeFile is the file-selection event: the picked receipt is validated
// and, when accepted, uploaded. The form is re-rendered with the resulting
// draft state; a rejected file comes back with the file field cleared.
func (p *Portal) changeFile(c *gin.Context) {
	controller := newbill.NewController(p.store, p.navigator(c), currentUser(c), p.logger)
	controller.RestoreUpload(c.PostForm("billId"), c.PostForm("fileUrl"), c.PostForm("fileName"))

	input := &newbill.FileInput{}
	if file, header, err := c.Request.FormFile("file"); err == nil {
		defer file.Close()
		content, readErr := io.ReadAll(io.LimitReader(file, maxReceiptSize))
		if readErr != nil {
			c.String(http.StatusBadRequest, "failed to read receipt")
			return
		}
		input.Value = header.Filename
		input.File = store.FileSelection{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Content:     content,
		}
	}

	controller.HandleChangeFile(c.Request.Context(), input)

	fileURL, fileName := "", ""
	if controller.FileURL() != nil {
		fileURL = *controller.FileURL()
	}
	if controller.FileName() != nil {
		fileName = *controller.FileName()
	}
	p.renderForm(c, controller.BillID(), fileURL, fileName)
}

// submitBill is the submit event: the candidate goes to the store
// fire-and-forget and the response is the redirect the controller's
// navigation callback picked.
func (p *Portal) submitBill(c *gin.Context) {
	controller := newbill.NewController(p.store, p.navigator(c), currentUser(c), p.logger)
	controller.RestoreUpload(c.PostForm("billId"), c.PostForm("fileUrl"), c.PostForm("fileName"))

	prevented := false
	controller.HandleSubmit(c.Request.Context(), &newbill.SubmitEvent{
		PreventDefault: func() { prevented = true },
		Form: newbill.BillForm{
			Type:       c.PostForm("type"),
			Name:       c.PostForm("name"),
			Amount:     c.PostForm("amount"),
			Date:       c.PostForm("date"),
			VAT:        c.PostForm("vat"),
			Pct:        c.PostForm("pct"),
			Commentary: c.PostForm("commentary"),
		},
	})

	if !prevented && !c.Writer.Written() {
		// The controller did not take over navigation; fall back to the list.
		c.Redirect(http.StatusSeeOther, routes.Bills)
	}
}

// exportBills streams the presented bill list as an xlsx download.
func (p *Portal) exportBills(c *gin.Context) {
	controller := billslist.NewController(p.store, p.navigator(c), nil, p.logger)
	bills, err := controller.GetBills(c.Request.Context())
	if err != nil {
		p.logger.Error("Failed to fetch bills for export", zap.Error(err))
		c.String(http.StatusInternalServerError, "internal error")
		return
	}

	model, err := billslist.Present(billslist.Input{Bills: bills})
	if err != nil {
		p.logger.Error("Failed to present bills for export", zap.Error(err))
		c.String(http.StatusInternalServerError, "internal error")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="notes-de-frais.xlsx"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := p.exporter.Write(model.Rows, c.Writer); err != nil {
		p.logger.Error("Failed to export bills", zap.Error(err))
	}
}

// navigator adapts controller navigation onto an HTTP redirect.
func (p *Portal) navigator(c *gin.Context) routes.NavigateFunc {
	return func(path string) {
		c.Redirect(http.StatusSeeOther, path)
	}
}

func (p *Portal) renderForm(c *gin.Context, billID, fileURL, fileName string) {
	var sb strings.Builder
	err := formTemplate.Execute(&sb, struct {
		Action   string
		Types    []string
		BillID   string
		FileURL  string
		FileName string
	}{
		Action:   routes.NewBill,
		Types:    entity.ExpenseTypes,
		BillID:   billID,
		FileURL:  fileURL,
		FileName: fileName,
	})
	if err != nil {
		p.logger.Error("Failed to render bill form", zap.Error(err))
		c.String(http.StatusInternalServerError, "internal error")
		return
	}
	p.renderPage(c, "Nouvelle note de frais", template.HTML(sb.String()))
}

func (p *Portal) renderPage(c *gin.Context, title string, body template.HTML) {
	var sb strings.Builder
	err := pageTemplate.Execute(&sb, struct {
		Title       string
		BillsPath   string
		NewBillPath string
		Body        template.HTML
	}{
		Title:       title,
		BillsPath:   routes.Bills,
		NewBillPath: routes.NewBill,
		Body:        body,
	})
	if err != nil {
		p.logger.Error("Failed to render page", zap.Error(err))
		c.String(http.StatusInternalServerError, "internal error")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(sb.String()))
}

